package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/ettle/strcase"

	"github.com/goliatone/go-backoffice/components/backoffice"
)

type cli struct {
	Scaffold scaffoldCmd `cmd:"" help:"Scaffold a modal definition and form into a modal manifest."`
}

type scaffoldCmd struct {
	ID           string   `required:"" help:"Modal id (normalized to kebab case, e.g. modal-add-supplier)."`
	Title        string   `required:"" help:"Modal heading."`
	Message      string   `help:"Optional body text shown above the form."`
	ManifestPath string   `required:"" type:"path" help:"Path to the modal manifest YAML file to update."`
	Action       string   `help:"Form action relative to the site URL. Omit for a modal without a form."`
	Method       string   `default:"post" enum:"get,post" help:"Form method."`
	Multipart    bool     `help:"Submit the form as multipart/form-data."`
	Field        []string `help:"Form fields as name[:type] (use multiple --field flags)."`
	Submit       string   `default:"Save" help:"Label of the primary button."`
	Delete       bool     `help:"Use a delete button instead of a primary button."`
	Overwrite    bool     `help:"Replace an existing modal with the same id."`

	out io.Writer
}

func main() {
	ctx := kong.Parse(&cli{},
		kong.Description("Modal scaffolding utility for back-office manifests."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run())
}

func (cmd *scaffoldCmd) Run() error {
	id := strcase.ToKebab(strings.TrimSpace(cmd.ID))
	if id == "" {
		return errors.New("modalctl: modal id is required")
	}
	manifestPath, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("modalctl: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(manifestPath)
	if err != nil {
		return err
	}

	entry, err := cmd.definition(id)
	if err != nil {
		return err
	}

	replaced := false
	for idx := range doc.Modals {
		if doc.Modals[idx].ID != id {
			continue
		}
		if !cmd.Overwrite {
			return fmt.Errorf("modalctl: manifest already defines modal %s (use --overwrite to replace)", id)
		}
		doc.Modals[idx] = entry
		replaced = true
		break
	}
	if !replaced {
		doc.Modals = append(doc.Modals, entry)
	}
	sort.SliceStable(doc.Modals, func(i, j int) bool {
		return doc.Modals[i].ID < doc.Modals[j].ID
	})

	if err := doc.Validate(); err != nil {
		return err
	}
	if err := writeManifest(manifestPath, doc); err != nil {
		return err
	}
	out := cmd.out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, "✓ Added %s to %s\n", id, manifestPath)
	return nil
}

func (cmd *scaffoldCmd) definition(id string) (backoffice.ModalDefinition, error) {
	def := backoffice.ModalDefinition{
		ID:      id,
		Title:   cmd.Title,
		Message: cmd.Message,
	}
	if cmd.Action == "" {
		if len(cmd.Field) > 0 {
			return def, errors.New("modalctl: --field requires --action")
		}
		def.Buttons = []backoffice.ModalButton{{ID: id + "-close", Label: "Close", Role: backoffice.ButtonSecondary}}
		return def, nil
	}

	form := &backoffice.ModalForm{
		ID:        strings.TrimPrefix(id, "modal-") + "-form",
		Action:    cmd.Action,
		Method:    cmd.Method,
		Multipart: cmd.Multipart,
	}
	for _, raw := range cmd.Field {
		field, err := parseField(raw)
		if err != nil {
			return def, err
		}
		form.Fields = append(form.Fields, field)
	}
	def.Form = form

	role := backoffice.ButtonPrimary
	if cmd.Delete {
		role = backoffice.ButtonDelete
	}
	def.Buttons = []backoffice.ModalButton{
		{ID: id + "-submit", Label: cmd.Submit, Role: role},
		{ID: id + "-cancel", Label: "Cancel", Role: backoffice.ButtonSecondary},
	}
	return def, nil
}

func parseField(raw string) (backoffice.ModalField, error) {
	name, kind, _ := strings.Cut(strings.TrimSpace(raw), ":")
	name = strcase.ToSnake(name)
	if name == "" {
		return backoffice.ModalField{}, fmt.Errorf("modalctl: invalid field %q", raw)
	}
	if kind == "" {
		kind = "text"
	}
	return backoffice.ModalField{
		Name:  name,
		Label: fieldLabel(name),
		Type:  kind,
	}, nil
}

func fieldLabel(name string) string {
	label := strings.ReplaceAll(name, "_", " ")
	return strings.ToUpper(label[:1]) + label[1:]
}

func loadOrInitManifest(path string) (*backoffice.ModalManifest, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &backoffice.ModalManifest{
				Version: backoffice.ModalManifestVersion,
				Modals:  []backoffice.ModalDefinition{},
				Source:  path,
			}, nil
		}
		return nil, fmt.Errorf("modalctl: stat manifest: %w", err)
	}
	return backoffice.ReadModalManifest(path)
}

func writeManifest(path string, doc *backoffice.ModalManifest) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("modalctl: mkdir %s: %w", filepath.Dir(path), err)
	}
	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("modalctl: create manifest %s: %w", path, err)
	}
	defer file.Close()
	return doc.Encode(file)
}
