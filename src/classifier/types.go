package classifier

// Category is a named ideological bucket with descriptive feature lists.
// The taxonomy is static, loaded once and read-only for the process lifetime.
type Category struct {
	Name               string   `json:"name"`
	LanguageMarkers    []string `json:"language_markers"`
	CoreBeliefs        []string `json:"core_beliefs"`
	CulturalSignifiers []string `json:"cultural_signifiers"`
	Hashtags           []string `json:"hashtags"`
}

// ScoreComponents breaks based_score into its judged inputs, each 0-100.
type ScoreComponents struct {
	Conviction        float64 `json:"conviction"`
	Authenticity      float64 `json:"authenticity"`
	IntellectualRigor float64 `json:"intellectual_rigor"`
	Contrarian        float64 `json:"contrarian"`
}

// ClassificationResult is produced fresh per request. Defaults are
// all-zero/"unknown" and are merged over a partial LLM reply.
type ClassificationResult struct {
	Category            string          `json:"category"`
	Confidence          float64         `json:"confidence"`
	KeyIndicators       []string        `json:"key_indicators"`
	SecondaryInfluences []string        `json:"secondary_influences"`
	LanguagePatterns    []string        `json:"language_patterns"`
	Conviction          float64         `json:"conviction"`
	BasedScore          float64         `json:"based_score"`
	ScoreComponents     ScoreComponents `json:"score_components"`
}

// TribalAffiliation labels which side of the mainstream the account sits on.
type TribalAffiliation string

const (
	TribeMainstream  TribalAffiliation = "mainstream"
	TribeContrarian  TribalAffiliation = "contrarian"
	TribeIndependent TribalAffiliation = "independent"
	TribeUnknown     TribalAffiliation = "unknown"
)

// Belief is a single judged statement inside a BasedScore.
type Belief struct {
	Belief        string  `json:"belief"`
	Justification string  `json:"justification"`
	Confidence    float64 `json:"confidence"`
	Importance    float64 `json:"importance"`
}

// BasedScore is the richer structured judgment. All four numeric scores
// are 0-100; out-of-range or non-numeric model output is replaced with
// DefaultScore during normalization.
type BasedScore struct {
	TribalAffiliation TribalAffiliation `json:"tribal_affiliation"`
	Justification     string            `json:"justification"`
	ContrarianBeliefs []Belief          `json:"contrarian_beliefs"`
	MainstreamBeliefs []Belief          `json:"mainstream_beliefs"`
	BasedScore        float64           `json:"based_score"`
	SincerityScore    float64           `json:"sincerity_score"`
	TruthfulnessScore float64           `json:"truthfulness_score"`
	ConspiracyScore   float64           `json:"conspiracy_score"`
}
