package assertions

// Assertion is a discrete factual claim extracted from an account's
// belief lists.
type Assertion struct {
	Statement       string  `json:"statement"`
	IsFactCheckable bool    `json:"isFactCheckable"`
	ModelConfidence float64 `json:"modelConfidence"`
	UserConfidence  float64 `json:"userConfidence"`
	SourceContext   string  `json:"sourceContext,omitempty"`
}

// FactCheckResult is one verified assertion. A result exists only when
// the checker's reply carried a determination, confidence, explanation
// and at least one source; anything less is dropped.
type FactCheckResult struct {
	Statement   string   `json:"statement"`
	IsTrue      bool     `json:"isTrue"`
	Confidence  float64  `json:"confidence"`
	Explanation string   `json:"explanation"`
	Sources     []string `json:"sources"`
}

// Report aggregates a fact-check pass over one account.
type Report struct {
	Assertions        []Assertion       `json:"assertions"`
	Results           []FactCheckResult `json:"results"`
	TruthfulnessScore float64           `json:"truthfulness_score"`
}

// Extraction field defaults applied when the fallback parser cannot find
// a labeled value in a segment.
const (
	defaultModelConfidence = 0.5
	defaultUserConfidence  = 0.5
)
