package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/rohmanhakim/newsguard/internal/scan"
)

type Format string

const (
	FormatText     Format = "text"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

func Formats() []Format {
	return []Format{FormatText, FormatHTML, FormatMarkdown, FormatJSON}
}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatText, FormatHTML, FormatMarkdown, FormatJSON:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Renderer writes scan results and scan errors in one output format.
type Renderer interface {
	Result(w io.Writer, res scan.Result) error
	Error(w io.Writer, url string, err *scan.ScanError) error
}

// New returns the renderer for format. color only affects FormatText.
func New(format Format, color bool) (Renderer, error) {
	switch format {
	case FormatText:
		return NewTextRenderer(color), nil
	case FormatHTML:
		return NewHTMLRenderer(), nil
	case FormatMarkdown:
		return NewMarkdownRenderer(), nil
	case FormatJSON:
		return NewJSONRenderer(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// ErrorMessage is the text shown to the user for a failed scan.
func ErrorMessage(err *scan.ScanError) string {
	return scan.DisplayMessage(err)
}
