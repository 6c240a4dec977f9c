package render_test

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/rohmanhakim/newsguard/internal/analysis"
	"github.com/rohmanhakim/newsguard/internal/render"
	"github.com/rohmanhakim/newsguard/internal/scan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanResult(data analysis.Result) scan.Result {
	return scan.Result{
		ScanID:    "01JXAMPLE0000000000000000",
		URL:       "https://news.example/a",
		Data:      data,
		CacheSize: 3,
	}
}

func TestHTMLRenderer_Result(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.NewHTMLRenderer().Result(&buf, scanResult(fullResult())))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)

	assert.Equal(t, "Analysis Report", doc.Find(".card-title h2").Text())
	assert.Equal(t, "Markets rally", doc.Find(".subtitle").Text())
	assert.Equal(t, 0, doc.Find(".cached").Length())

	rows := doc.Find("tr.score")
	require.Equal(t, 2, rows.Length())
	assert.Equal(t, "Bias Score", rows.Eq(0).Find(".score-name").Text())
	assert.Equal(t, "80/100", rows.Eq(0).Find(".score-value").Text())
	assert.True(t, rows.Eq(0).HasClass("score-success"))
	title, _ := rows.Eq(1).Find(".score-value").Attr("title")
	assert.Equal(t, "46% confidence in business", title)
	assert.True(t, rows.Eq(1).HasClass("score-error"))

	assert.Equal(t, "Stocks went up.", doc.Find(".summary p").Text())

	sentiment := doc.Find(".sentiment")
	assert.Equal(t, "Negative", sentiment.Text())
	assert.True(t, sentiment.HasClass("sentiment-negative"))
	color, _ := sentiment.Attr("data-color")
	assert.Equal(t, "#ff0000", color)

	var people []string
	doc.Find(".people li").Each(func(_ int, s *goquery.Selection) {
		people = append(people, s.Text())
	})
	assert.Equal(t, []string{"Jane Doe", "John Roe"}, people)
}

func TestHTMLRenderer_MinimalResult(t *testing.T) {
	var buf bytes.Buffer
	res := scanResult(analysis.Result{})
	res.FromCache = true
	require.NoError(t, render.NewHTMLRenderer().Result(&buf, res))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)

	assert.Equal(t, 0, doc.Find(".subtitle").Length())
	assert.Equal(t, 1, doc.Find(".cached").Length())
	assert.Equal(t, "No summary available.", doc.Find(".summary p").Text())
	assert.Equal(t, 0, doc.Find(".additional").Length())
	doc.Find(".score-label").Each(func(_ int, s *goquery.Selection) {
		assert.Equal(t, "Unknown", s.Text())
	})
}

func TestHTMLRenderer_EscapesContent(t *testing.T) {
	var buf bytes.Buffer
	data := analysis.Result{Title: analysis.StringPtr(`<script>alert("x")</script>`)}
	require.NoError(t, render.NewHTMLRenderer().Result(&buf, scanResult(data)))

	assert.NotContains(t, buf.String(), "<script>")
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, `<script>alert("x")</script>`, doc.Find(".subtitle").Text())
}

func TestHTMLRenderer_Error(t *testing.T) {
	var buf bytes.Buffer
	err := &scan.ScanError{Message: "Invalid URL.", Cause: scan.ErrCauseValidation}
	require.NoError(t, render.NewHTMLRenderer().Error(&buf, "not-a-url", err))

	doc, docErr := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, docErr)
	assert.Equal(t, "Invalid URL.", doc.Find(".alert .message").Text())
	assert.Equal(t, "not-a-url", doc.Find(".alert .url").Text())
}

func TestMarkdownRenderer_Result(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.NewMarkdownRenderer().Result(&buf, scanResult(fullResult())))
	out := buf.String()

	assert.Contains(t, out, "## Analysis Report")
	assert.Contains(t, out, "Markets rally")
	assert.Contains(t, out, "80/100")
	assert.Contains(t, out, "### Summary")
	assert.Contains(t, out, "Stocks went up.")
	assert.Contains(t, out, "Jane Doe")
	assert.NotContains(t, out, "<")
	assert.NotContains(t, out, "data-color")
}

func TestMarkdownRenderer_Error(t *testing.T) {
	var buf bytes.Buffer
	err := &scan.ScanError{Message: "Analysis failed", Cause: scan.ErrCauseAnalysis}
	require.NoError(t, render.NewMarkdownRenderer().Error(&buf, "https://news.example/a", err))

	assert.Contains(t, buf.String(), "Analysis failed")
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}

func TestTextRenderer_ResultWithoutColor(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.NewTextRenderer(false).Result(&buf, scanResult(fullResult())))
	out := buf.String()

	assert.NotContains(t, out, "\x1b[")
	assert.Contains(t, out, "Analysis Report")
	assert.Contains(t, out, "Markets rally")
	assert.Contains(t, out, "Bias Score")
	assert.Contains(t, out, "80/100")
	assert.Contains(t, out, "46/100")
	assert.Contains(t, out, "Stocks went up.")
	assert.Contains(t, out, "Sentiment: Negative")
	assert.Contains(t, out, "Named Entities: Jane Doe, John Roe")
}

func TestTextRenderer_Error(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.NewTextRenderer(false).Error(&buf, "x", &scan.ScanError{Message: "Invalid URL."}))
	assert.Equal(t, "Error: Invalid URL. (x)\n", buf.String())
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.NewJSONRenderer().Result(&buf, scanResult(fullResult())))

	var decoded struct {
		URL       string          `json:"url"`
		FromCache bool            `json:"from_cache"`
		CacheSize int             `json:"cache_size"`
		Data      analysis.Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "https://news.example/a", decoded.URL)
	assert.Equal(t, 3, decoded.CacheSize)
	assert.Equal(t, fullResult(), decoded.Data)

	buf.Reset()
	require.NoError(t, render.NewJSONRenderer().Error(&buf, "x", &scan.ScanError{Message: "Invalid URL.", Cause: scan.ErrCauseValidation}))
	assert.JSONEq(t, `{"url":"x","cause":"validation","error":"Invalid URL."}`, buf.String())
}

func TestNew(t *testing.T) {
	for _, f := range render.Formats() {
		r, err := render.New(f, false)
		require.NoError(t, err)
		assert.NotNil(t, r)
	}
	_, err := render.New("pdf", false)
	assert.ErrorIs(t, err, render.ErrUnknownFormat)
}

func TestColorEnabled(t *testing.T) {
	assert.False(t, render.ColorEnabled(&bytes.Buffer{}))

	t.Setenv("NO_COLOR", "1")
	assert.False(t, render.ColorEnabled(os.Stdout))
}
