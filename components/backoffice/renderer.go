package backoffice

import (
	"embed"
	"io"

	template "github.com/goliatone/go-template"
)

//go:embed templates/*.html templates/partials/*.html
var embeddedTemplates embed.FS

// Renderer describes the template renderer contract needed by the controller.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}

// NewTemplateRenderer creates a go-template renderer backed by the embedded
// shell templates.
func NewTemplateRenderer() (Renderer, error) {
	return template.NewRenderer(
		template.WithFS(embeddedTemplates),
		template.WithBaseDir("templates"),
		template.WithExtension(".html"),
	)
}

// ModalView is the template form of a modal with its form action resolved.
type ModalView struct {
	ID        string
	Title     string
	Message   string
	Open      bool
	Busy      bool
	HasForm   bool
	FormID    string
	Action    string
	Method    string
	Multipart bool
	Fields    []FieldView
	Buttons   []ButtonView
}

// FieldView is a form input with its current value.
type FieldView struct {
	Name     string
	Label    string
	Type     string
	Value    string
	Options  []string
	Required bool
}

// ButtonView is a modal button.
type ButtonView struct {
	ID       string
	Label    string
	Role     ButtonRole
	Disabled bool
	Busy     bool
}

// BuildModalViews resolves form actions against the site URL.
func BuildModalViews(siteURL string, modals []ModalState) []ModalView {
	out := make([]ModalView, 0, len(modals))
	for _, modal := range modals {
		view := ModalView{
			ID:      modal.ID,
			Title:   modal.Title,
			Message: modal.Message,
			Open:    modal.Open,
			Busy:    modal.Busy,
		}
		if modal.Form != nil {
			view.HasForm = true
			view.FormID = modal.Form.ID
			view.Action = JoinURL(siteURL, modal.Form.Action)
			view.Method = modal.Form.Method
			view.Multipart = modal.Form.Multipart
			for _, field := range modal.Form.Fields {
				value, ok := modal.Values[field.Name]
				if !ok {
					value = field.Value
				}
				view.Fields = append(view.Fields, FieldView{
					Name:     field.Name,
					Label:    field.Label,
					Type:     field.Type,
					Value:    value,
					Options:  field.Options,
					Required: field.Required,
				})
			}
		}
		for _, button := range modal.Buttons {
			view.Buttons = append(view.Buttons, ButtonView{
				ID:       button.ID,
				Label:    button.Label,
				Role:     button.Role,
				Disabled: button.Disabled,
				Busy:     button.Label == BusyLabel,
			})
		}
		out = append(out, view)
	}
	return out
}
