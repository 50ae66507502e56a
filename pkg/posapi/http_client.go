package posapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-backoffice/components/backoffice"
)

// DefaultSnapshotPath is where the POS backend serves the dashboard payload.
const DefaultSnapshotPath = "/admin/dashboard/snapshot"

// HTTPConfig configures the POS backend client.
type HTTPConfig struct {
	BaseURL      string
	APIKey       string
	SnapshotPath string
	HTTPClient   *http.Client
}

// HTTPClient talks to the POS backend that owns records and business rules.
type HTTPClient struct {
	baseURL      string
	apiKey       string
	snapshotPath string
	client       *http.Client
}

var (
	_ Client                      = (*HTTPClient)(nil)
	_ backoffice.SnapshotProvider = SnapshotProvider{}
)

// NewHTTPClient builds a client for the backend at cfg.BaseURL.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("posapi: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	path := cfg.SnapshotPath
	if path == "" {
		path = DefaultSnapshotPath
	}
	return &HTTPClient{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		snapshotPath: path,
		client:       httpClient,
	}, nil
}

// FetchSnapshot downloads and leniently decodes the dashboard payload.
func (c *HTTPClient) FetchSnapshot(ctx context.Context) (*backoffice.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, backoffice.JoinURL(c.baseURL, c.snapshotPath), nil)
	if err != nil {
		return nil, fmt.Errorf("posapi: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return backoffice.DecodeSnapshot(body), nil
}

// SubmitForm posts the modal values to the form action. Attachments switch the
// body to multipart.
func (c *HTTPClient) SubmitForm(ctx context.Context, submission backoffice.Submission) error {
	method := strings.ToUpper(submission.Method)
	if method == "" {
		method = http.MethodPost
	}
	target := submission.Action
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = backoffice.JoinURL(c.baseURL, target)
	}

	var (
		body        io.Reader
		contentType string
	)
	if len(submission.Files) > 0 {
		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		for key, value := range submission.Values {
			if err := writer.WriteField(key, value); err != nil {
				return fmt.Errorf("posapi: encode field %s: %w", key, err)
			}
		}
		for _, file := range submission.Files {
			part, err := writer.CreateFormFile("csv_file", file.Name)
			if err != nil {
				return fmt.Errorf("posapi: encode file %s: %w", file.Name, err)
			}
			if _, err := part.Write(file.Data); err != nil {
				return fmt.Errorf("posapi: encode file %s: %w", file.Name, err)
			}
		}
		if err := writer.Close(); err != nil {
			return fmt.Errorf("posapi: encode form: %w", err)
		}
		body, contentType = &buf, writer.FormDataContentType()
	} else {
		form := url.Values{}
		for key, value := range submission.Values {
			form.Set(key, value)
		}
		body, contentType = strings.NewReader(form.Encode()), "application/x-www-form-urlencoded"
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("posapi: build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	_, err = c.do(req)
	return err
}

func (c *HTTPClient) do(req *http.Request) ([]byte, error) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("posapi: http request: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("posapi: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("posapi: remote error %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return data, nil
}

// SnapshotProvider adapts a SnapshotClient to backoffice.SnapshotProvider.
type SnapshotProvider struct {
	Client SnapshotClient
}

// Snapshot implements backoffice.SnapshotProvider.
func (p SnapshotProvider) Snapshot(ctx context.Context) (*backoffice.Snapshot, error) {
	if p.Client == nil {
		return nil, fmt.Errorf("posapi: snapshot client is required")
	}
	return p.Client.FetchSnapshot(ctx)
}
