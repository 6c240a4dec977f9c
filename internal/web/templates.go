package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/rohmanhakim/newsguard/internal/render"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Templates holds the page templates together with the shared card
// templates from the render package.
type Templates struct {
	templates *template.Template
}

func NewTemplates() (*Templates, error) {
	tmpl, err := render.Templates().ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Templates{templates: tmpl}, nil
}

// Render renders a named template with the provided data to the response
// writer using the given status code.
func (t *Templates) Render(w http.ResponseWriter, status int, name string, data any) error {
	tmpl := t.templates.Lookup(name)
	if tmpl == nil {
		return fmt.Errorf("template %q not found", name)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to execute template %q: %w", name, err)
	}
	return nil
}

// pageData is what the "index" template renders.
type pageData struct {
	URL       string
	CacheSize int
	Result    *render.CardView
	Error     *render.ErrorView
}
