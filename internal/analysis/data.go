package analysis

// Result is the analysis payload returned by the remote service for one
// article. Every field is nullable on the wire; nil means the service sent
// null or omitted the field.
type Result struct {
	Title               *string        `json:"title"`
	Summary             *string        `json:"summary"`
	NamedPeople         []string       `json:"named_people"`
	Sentiment           Sentiment      `json:"sentiment"`
	BiasClassification  Classification `json:"bias_classification"`
	TopicClassification Classification `json:"topic_classification"`
	// Error is set by the service when it answered but could not extract
	// the article text.
	Error *string `json:"error,omitempty"`
}

type Sentiment struct {
	Label *string  `json:"label"`
	Score *float64 `json:"score"`
}

type Classification struct {
	Labels *string  `json:"labels"`
	Scores *float64 `json:"scores"`
}

// Outcome tags which of the three mutually exclusive shapes a Response has.
type Outcome int

const (
	OutcomeEmpty Outcome = iota
	OutcomeSuccess
	OutcomeFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	default:
		return "empty"
	}
}

// Response carries either Data, Err, or neither. It never carries both.
type Response struct {
	Data *Result
	Err  *AnalysisError
}

func (r Response) Outcome() Outcome {
	switch {
	case r.Err != nil:
		return OutcomeFailure
	case r.Data != nil:
		return OutcomeSuccess
	default:
		return OutcomeEmpty
	}
}

// analyseRequest is the request body of POST /analyse/.
type analyseRequest struct {
	URL string `json:"url"`
}

// errorPayload is the error body shape used by the service framework.
type errorPayload struct {
	Detail any `json:"detail"`
}

// StringPtr and FloatPtr are small helpers for building Results by hand.
func StringPtr(s string) *string {
	return &s
}

func FloatPtr(f float64) *float64 {
	return &f
}
