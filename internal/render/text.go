package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/rohmanhakim/newsguard/internal/scan"
)

// ColorEnabled reports whether w is a terminal that should receive colour.
// NO_COLOR disables colour regardless. Anything other than an *os.File is
// never coloured.
func ColorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

type TextRenderer struct {
	color bool
	width int
}

func NewTextRenderer(color bool) *TextRenderer {
	return &TextRenderer{
		color: color,
		width: 72,
	}
}

func (t *TextRenderer) style(hex string) lipgloss.Style {
	s := lipgloss.NewStyle()
	if t.color && hex != "" {
		s = s.Foreground(lipgloss.Color(hex))
	}
	return s
}

func (t *TextRenderer) paint(hex string, text string, bold bool) string {
	if !t.color {
		return text
	}
	return t.style(hex).Bold(bold).Render(text)
}

func (t *TextRenderer) Result(w io.Writer, res scan.Result) error {
	card := NewCard(res.Data)
	var b strings.Builder

	b.WriteString(t.paint(ColorGreen, card.Heading, true))
	b.WriteString("\n")
	if card.Subtitle != "" {
		b.WriteString(card.Subtitle)
		b.WriteString("\n")
	}
	if res.FromCache {
		b.WriteString(t.paint(ColorYellow, "(served from cache)", false))
		b.WriteString("\n")
	}
	if card.Warning != "" {
		b.WriteString(t.paint(ColorYellow, "Warning: "+card.Warning, false))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	for _, row := range card.Scores {
		value := fmt.Sprintf("%d/100", row.Percent)
		fmt.Fprintf(&b, "%-12s %-20s %s\n", row.Name, row.Label, t.paint(row.Color(), value, true))
	}

	b.WriteString("\n")
	b.WriteString(t.paint(ColorGreen, "Summary", true))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(t.width - 4).Render(card.Summary))
	b.WriteString("\n")

	if card.ShowAdditional {
		b.WriteString("\n")
		b.WriteString(t.paint(ColorGreen, "Additional Information", true))
		b.WriteString("\n")
		if card.Sentiment != "" {
			fmt.Fprintf(&b, "%s: %s\n", sentimentHeader, t.paint(card.SentimentColor, card.Sentiment, false))
		}
		if len(card.NamedPeople) > 0 {
			fmt.Fprintf(&b, "%s: %s\n", peopleHeader, strings.Join(card.NamedPeople, ", "))
		}
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Width(t.width)
	if t.color {
		box = box.BorderForeground(lipgloss.Color(ColorGreen))
	}

	return t.write(w, box.Render(strings.TrimRight(b.String(), "\n"))+"\n")
}

func (t *TextRenderer) Error(w io.Writer, url string, err *scan.ScanError) error {
	line := "Error: " + ErrorMessage(err)
	if url != "" {
		line += " (" + url + ")"
	}
	return t.write(w, t.paint(ColorRed, line, true)+"\n")
}

func (t *TextRenderer) write(w io.Writer, s string) error {
	if _, err := io.WriteString(w, s); err != nil {
		return &RenderError{
			Message:   err.Error(),
			Retryable: true,
			Cause:     ErrCauseWrite,
		}
	}
	return nil
}
