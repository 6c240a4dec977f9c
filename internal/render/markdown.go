package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"golang.org/x/net/html"

	"github.com/rohmanhakim/newsguard/internal/scan"
)

/*
Markdown output is derived from the HTML card rather than written by hand,
so both formats always carry the same sections in the same order.

Conversion Rules
- Headings map directly (h2-h4 to ## - ####)
- The score table is converted structurally (GFM)
- Inline styles are dropped
*/

type MarkdownRenderer struct {
	html *HTMLRenderer
	conv *converter.Converter
}

func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{
		html: NewHTMLRenderer(),
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

func (m *MarkdownRenderer) Result(w io.Writer, res scan.Result) error {
	var buf bytes.Buffer
	if err := m.html.Result(&buf, res); err != nil {
		return err
	}
	return m.convert(w, buf.Bytes())
}

func (m *MarkdownRenderer) Error(w io.Writer, url string, err *scan.ScanError) error {
	var buf bytes.Buffer
	if renderErr := m.html.Error(&buf, url, err); renderErr != nil {
		return renderErr
	}
	return m.convert(w, buf.Bytes())
}

func (m *MarkdownRenderer) convert(w io.Writer, fragment []byte) error {
	doc, err := html.Parse(bytes.NewReader(fragment))
	if err != nil {
		return &RenderError{
			Message: fmt.Sprintf("parsing card html: %v", err),
			Cause:   ErrCauseConversion,
		}
	}

	markdown, err := m.conv.ConvertNode(findBody(doc))
	if err != nil {
		return &RenderError{
			Message: err.Error(),
			Cause:   ErrCauseConversion,
		}
	}

	if _, err := io.WriteString(w, strings.TrimSpace(string(markdown))+"\n"); err != nil {
		return &RenderError{
			Message:   err.Error(),
			Retryable: true,
			Cause:     ErrCauseWrite,
		}
	}
	return nil
}

// findBody returns the <body> element of doc, or doc itself if absent.
func findBody(doc *html.Node) *html.Node {
	var body *html.Node
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if body != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == "body" {
			body = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(doc)
	if body == nil {
		return doc
	}
	return body
}
