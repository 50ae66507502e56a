package backoffice

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// ModalManifestVersion is the supported catalog format version.
const ModalManifestVersion = "1"

// ButtonRole tells the submit workflow which button drives the form.
type ButtonRole string

const (
	ButtonPrimary   ButtonRole = "primary"
	ButtonDelete    ButtonRole = "delete"
	ButtonSecondary ButtonRole = "secondary"
)

// ModalButton is an action button inside a modal.
type ModalButton struct {
	ID       string     `json:"id" yaml:"id"`
	Label    string     `json:"label" yaml:"label"`
	Role     ButtonRole `json:"role" yaml:"role"`
	Disabled bool       `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// ModalField is one input of a modal form. Value is the reset value.
type ModalField struct {
	Name     string   `json:"name" yaml:"name"`
	Label    string   `json:"label,omitempty" yaml:"label,omitempty"`
	Type     string   `json:"type,omitempty" yaml:"type,omitempty"`
	Value    string   `json:"value,omitempty" yaml:"value,omitempty"`
	Options  []string `json:"options,omitempty" yaml:"options,omitempty"`
	Required bool     `json:"required,omitempty" yaml:"required,omitempty"`
}

// ModalForm is the form a modal submits. Action is relative to the site URL.
type ModalForm struct {
	ID        string       `json:"id" yaml:"id"`
	Action    string       `json:"action" yaml:"action"`
	Method    string       `json:"method,omitempty" yaml:"method,omitempty"`
	Multipart bool         `json:"multipart,omitempty" yaml:"multipart,omitempty"`
	Fields    []ModalField `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// ModalDefinition describes a named overlay panel.
type ModalDefinition struct {
	ID      string        `json:"id" yaml:"id"`
	Title   string        `json:"title" yaml:"title"`
	Message string        `json:"message,omitempty" yaml:"message,omitempty"`
	Form    *ModalForm    `json:"form,omitempty" yaml:"form,omitempty"`
	Buttons []ModalButton `json:"buttons,omitempty" yaml:"buttons,omitempty"`
}

// ModalManifest is a catalog of modal definitions.
type ModalManifest struct {
	Version string            `json:"version" yaml:"version"`
	Modals  []ModalDefinition `json:"modals" yaml:"modals"`
	Source  string            `json:"-" yaml:"-"`
}

//go:embed modals.yaml
var defaultModalsYAML []byte

const modalManifestSchema = `{
  "type": "object",
  "required": ["version", "modals"],
  "properties": {
    "version": {"const": "1"},
    "modals": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "title"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "title": {"type": "string", "minLength": 1},
          "form": {
            "type": ["object", "null"],
            "required": ["id", "action"],
            "properties": {
              "id": {"type": "string", "minLength": 1},
              "action": {"type": "string"},
              "method": {"enum": ["", "get", "post", "GET", "POST"]},
              "fields": {
                "type": ["array", "null"],
                "items": {
                  "type": "object",
                  "required": ["name"],
                  "properties": {"name": {"type": "string", "minLength": 1}}
                }
              }
            }
          },
          "buttons": {
            "type": ["array", "null"],
            "items": {
              "type": "object",
              "required": ["id", "label", "role"],
              "properties": {
                "role": {"enum": ["primary", "delete", "secondary"]}
              }
            }
          }
        }
      }
    }
  }
}`

var (
	manifestSchemaOnce sync.Once
	manifestSchema     *jsonschema.Schema
	manifestSchemaErr  error
)

func compiledManifestSchema() (*jsonschema.Schema, error) {
	manifestSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("modals.json", bytes.NewReader([]byte(modalManifestSchema))); err != nil {
			manifestSchemaErr = fmt.Errorf("backoffice: load modal schema: %w", err)
			return
		}
		manifestSchema, manifestSchemaErr = compiler.Compile("modals.json")
	})
	return manifestSchema, manifestSchemaErr
}

// DefaultModalManifest returns the built-in catalog.
func DefaultModalManifest() *ModalManifest {
	doc, err := DecodeModalManifest(bytes.NewReader(defaultModalsYAML))
	if err != nil {
		panic(fmt.Sprintf("backoffice: invalid default modal catalog: %v", err))
	}
	doc.Source = "default"
	return doc
}

// ReadModalManifest loads a catalog from disk.
func ReadModalManifest(path string) (*ModalManifest, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("backoffice: open modal manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeModalManifest(f)
	if err != nil {
		return nil, fmt.Errorf("backoffice: decode modal manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeModalManifest parses and validates a YAML catalog.
func DecodeModalManifest(r io.Reader) (*ModalManifest, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc ModalManifest
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("backoffice: modal manifest is empty")
		}
		return nil, fmt.Errorf("backoffice: parse modal manifest: %w", err)
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks the catalog against the manifest schema and rejects
// duplicate modal ids.
func (doc *ModalManifest) Validate() error {
	schema, err := compiledManifestSchema()
	if err != nil {
		return err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("backoffice: marshal modal manifest: %w", err)
	}
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("backoffice: normalize modal manifest: %w", err)
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("backoffice: modal manifest failed validation: %w", err)
	}
	seen := make(map[string]struct{}, len(doc.Modals))
	for _, modal := range doc.Modals {
		id := normalizeModalID(modal.ID)
		if _, exists := seen[id]; exists {
			return fmt.Errorf("backoffice: modal manifest duplicates modal id %s", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// Encode writes the catalog as YAML.
func (doc *ModalManifest) Encode(w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("backoffice: encode modal manifest: %w", err)
	}
	return encoder.Close()
}

func (doc *ModalManifest) applyDefaults() {
	if doc.Version == "" {
		doc.Version = ModalManifestVersion
	}
	for i := range doc.Modals {
		modal := &doc.Modals[i]
		modal.ID = normalizeModalID(modal.ID)
		if modal.Form != nil && modal.Form.Method == "" {
			modal.Form.Method = "post"
		}
	}
}
