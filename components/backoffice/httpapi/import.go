package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-backoffice/components/backoffice"
	"github.com/goliatone/go-backoffice/components/backoffice/commands"
)

// ErrNotMultipart is returned when an import request is not multipart/form-data.
var ErrNotMultipart = errors.New("httpapi: import requires multipart/form-data")

// Upload is one file received by an import endpoint. ContentType is the type
// the client declared for the part.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// ImportResult reports what happened to an upload.
type ImportResult struct {
	Accepted bool
	Detected string
	File     backoffice.File
}

// ReadUpload extracts the ImportField file from a multipart body.
func ReadUpload(contentType string, body io.Reader, maxMemory int64) (Upload, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != "multipart/form-data" || params["boundary"] == "" {
		return Upload{}, ErrNotMultipart
	}
	if maxMemory <= 0 {
		maxMemory = DefaultMaxUploadBytes
	}
	form, err := multipart.NewReader(body, params["boundary"]).ReadForm(maxMemory)
	if err != nil {
		return Upload{}, fmt.Errorf("httpapi: read multipart form: %w", err)
	}
	defer form.RemoveAll()

	headers := form.File[ImportField]
	if len(headers) == 0 {
		return Upload{}, fmt.Errorf("%s: %w", ImportField, errors.New("file is missing"))
	}
	header := headers[0]
	part, err := header.Open()
	if err != nil {
		return Upload{}, fmt.Errorf("%s: %w", ImportField, err)
	}
	defer part.Close()
	data, err := io.ReadAll(part)
	if err != nil {
		return Upload{}, fmt.Errorf("%s: %w", ImportField, err)
	}
	return Upload{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// ClassifyUpload sniffs the upload content. Content detected as CSV is
// accepted. Plain text is accepted when the client declared a CSV type or the
// file name ends in .csv, since single column and header only files sniff as
// text/plain. Anything else is rejected.
func ClassifyUpload(upload Upload) (backoffice.File, string, bool) {
	detected := mimetype.Detect(upload.Data)
	file := backoffice.File{
		Name: upload.Name,
		Size: int64(len(upload.Data)),
		Data: upload.Data,
		Type: detected.String(),
	}
	accepted := detected.Is(backoffice.CSVMimeType) ||
		(detected.Is("text/plain") && declaresCSV(upload))
	if accepted {
		file.Type = backoffice.CSVMimeType
	}
	return file, detected.String(), accepted
}

func declaresCSV(upload Upload) bool {
	if strings.EqualFold(filepath.Ext(upload.Name), ".csv") {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(upload.ContentType)
	if err != nil {
		return false
	}
	return mediaType == backoffice.CSVMimeType || mediaType == "application/csv"
}

// Import drops the upload on the view's intake widget and, when it is CSV,
// uploads it through the import modal. Rejected files still reach the widget
// so the viewer gets the rejection toast.
func Import(ctx context.Context, actions gocommand.Commander[commands.ActionInput], viewID string, upload Upload) (ImportResult, error) {
	file, detected, accepted := ClassifyUpload(upload)
	result := ImportResult{Accepted: accepted, Detected: detected, File: file}
	drop := commands.ActionInput{ViewID: viewID, Type: commands.ActionIntakeDrop, Files: []backoffice.File{file}}
	if err := actions.Execute(ctx, drop); err != nil {
		return result, err
	}
	if !accepted {
		return result, nil
	}
	if err := actions.Execute(ctx, commands.ActionInput{ViewID: viewID, Type: commands.ActionIntakeUpload}); err != nil {
		return result, err
	}
	return result, nil
}
