package render

import (
	"math"
	"strings"

	"github.com/rohmanhakim/newsguard/internal/analysis"
)

const (
	ReportHeading   = "Analysis Report"
	NoSummary       = "No summary available."
	UnknownLabel    = "Unknown"
	BiasScoreName   = "Bias Score"
	TopicScoreName  = "Topic Score"
	sentimentHeader = "Sentiment"
	peopleHeader    = "Named Entities"
)

// Level is the display tier of a score.
type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
	LevelPrimary Level = "primary"
)

// Palette colours, shared by every output format.
const (
	ColorGreen  = "#00ff00"
	ColorYellow = "#ffff00"
	ColorRed    = "#ff0000"
)

// ScoreLevel buckets a 0-100 score: >=75 success, >=50 warning,
// >=25 error, anything lower primary.
func ScoreLevel(score float64) Level {
	switch {
	case score >= 75:
		return LevelSuccess
	case score >= 50:
		return LevelWarning
	case score >= 25:
		return LevelError
	default:
		return LevelPrimary
	}
}

func (l Level) Color() string {
	switch l {
	case LevelWarning:
		return ColorYellow
	case LevelError:
		return ColorRed
	default:
		return ColorGreen
	}
}

// SentimentTone normalises a sentiment label (case-insensitive) to
// positive, negative or neutral. Unrecognised labels are neutral.
func SentimentTone(label string) string {
	switch strings.ToLower(label) {
	case "positive":
		return "positive"
	case "negative":
		return "negative"
	default:
		return "neutral"
	}
}

// SentimentColor maps a sentiment label to its colour.
func SentimentColor(label string) string {
	switch SentimentTone(label) {
	case "positive":
		return ColorGreen
	case "negative":
		return ColorRed
	default:
		return ColorYellow
	}
}

type ScoreRow struct {
	Name    string
	Label   string
	Percent int
	Level   Level
}

func (s ScoreRow) Color() string {
	return s.Level.Color()
}

// Card is the view model of one analysis, independent of output format.
type Card struct {
	Heading  string
	Subtitle string
	Scores   []ScoreRow
	Summary  string

	ShowAdditional bool
	Sentiment      string
	SentimentTone  string
	SentimentColor string
	NamedPeople    []string

	// Warning carries the service's own extraction error, if any.
	Warning string
}

func NewCard(result analysis.Result) Card {
	card := Card{
		Heading: ReportHeading,
		Scores: []ScoreRow{
			newScoreRow(BiasScoreName, result.BiasClassification),
			newScoreRow(TopicScoreName, result.TopicClassification),
		},
		Summary:     NoSummary,
		NamedPeople: result.NamedPeople,
	}

	if result.Title != nil {
		card.Subtitle = *result.Title
	}
	if result.Summary != nil && *result.Summary != "" {
		card.Summary = *result.Summary
	}
	if result.Sentiment.Label != nil && *result.Sentiment.Label != "" {
		card.Sentiment = *result.Sentiment.Label
		card.SentimentTone = SentimentTone(card.Sentiment)
		card.SentimentColor = SentimentColor(card.Sentiment)
	}
	if result.Error != nil {
		card.Warning = *result.Error
	}
	card.ShowAdditional = len(card.NamedPeople) > 0 || card.Sentiment != ""

	return card
}

func newScoreRow(name string, c analysis.Classification) ScoreRow {
	label := UnknownLabel
	if c.Labels != nil {
		label = *c.Labels
	}
	var score float64
	if c.Scores != nil {
		score = *c.Scores
	}
	return ScoreRow{
		Name:    name,
		Label:   label,
		Percent: int(math.Round(score * 100)),
		Level:   ScoreLevel(score * 100),
	}
}
