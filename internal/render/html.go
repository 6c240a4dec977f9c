package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/rohmanhakim/newsguard/internal/scan"
)

//go:embed templates/*.html
var templateFS embed.FS

var cardTemplates = template.Must(
	template.New("render").
		Funcs(template.FuncMap{"lower": strings.ToLower}).
		ParseFS(templateFS, "templates/*.html"),
)

// Templates returns a fresh copy of the card templates ("card" and
// "scan-error") so callers can add their own page templates to it.
func Templates() *template.Template {
	return template.Must(cardTemplates.Clone())
}

// CardView is the data the "card" template executes against.
type CardView struct {
	Card      Card
	URL       string
	FromCache bool
	CacheSize int
}

func NewCardView(res scan.Result) CardView {
	return CardView{
		Card:      NewCard(res.Data),
		URL:       res.URL,
		FromCache: res.FromCache,
		CacheSize: res.CacheSize,
	}
}

// ErrorView is the data the "scan-error" template executes against.
type ErrorView struct {
	URL     string
	Message string
}

func NewErrorView(url string, err *scan.ScanError) ErrorView {
	return ErrorView{
		URL:     url,
		Message: ErrorMessage(err),
	}
}

type HTMLRenderer struct {
	templates *template.Template
}

func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{templates: Templates()}
}

func (h *HTMLRenderer) Result(w io.Writer, res scan.Result) error {
	return h.execute(w, "card", NewCardView(res))
}

func (h *HTMLRenderer) Error(w io.Writer, url string, err *scan.ScanError) error {
	return h.execute(w, "scan-error", NewErrorView(url, err))
}

func (h *HTMLRenderer) execute(w io.Writer, name string, data any) error {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		return &RenderError{
			Message: fmt.Sprintf("executing %s: %v", name, err),
			Cause:   ErrCauseTemplate,
		}
	}
	return nil
}
