package classifier

import (
	"encoding/json"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/stake-plus/ideograph/src/logging"
)

// DefaultScore replaces any 0-100 score the model mangled.
const DefaultScore = 50

// DecodeReply extracts the JSON object from a free-form model reply.
// Markdown code fences are stripped first; if the remainder is not a JSON
// object, the outermost {...} span is tried before giving up.
func DecodeReply(text string) (map[string]interface{}, error) {
	cleaned := StripCodeFences(text)

	var m map[string]interface{}
	if err := json.Unmarshal([]byte(cleaned), &m); err == nil {
		return m, nil
	}

	// Try to extract JSON if embedded in prose.
	startIdx := strings.Index(cleaned, "{")
	endIdx := strings.LastIndex(cleaned, "}")
	if startIdx >= 0 && endIdx > startIdx {
		if err := json.Unmarshal([]byte(cleaned[startIdx:endIdx+1]), &m); err == nil {
			return m, nil
		}
	}
	return nil, logging.Malformed("classifier: reply contains no JSON object")
}

// StripCodeFences removes a surrounding ``` or ```json fence if present.
func StripCodeFences(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// Drop the language tag line ("json", "JSON", or empty).
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// Normalize fills every ClassificationResult field from the decoded reply,
// applying defaults for anything absent and clamping ranges. Total: any
// JSON-shaped input yields a fully-populated result.
func Normalize(m map[string]interface{}) ClassificationResult {
	out := ClassificationResult{
		Category:            "unknown",
		KeyIndicators:       []string{},
		SecondaryInfluences: []string{},
		LanguagePatterns:    []string{},
	}
	if m == nil {
		return out
	}

	if s := asString(m["category"]); s != "" {
		out.Category = s
	}
	out.Confidence = clamp01(asFloat(m["confidence"]))
	out.Conviction = clamp01(asFloat(m["conviction"]))
	out.KeyIndicators = asStringSlice(m["key_indicators"])
	out.SecondaryInfluences = asStringSlice(m["secondary_influences"])
	out.LanguagePatterns = asStringSlice(m["language_patterns"])

	out.BasedScore = asFloat(m["based_score"])
	if out.BasedScore == 0 && out.Conviction > 0 {
		out.BasedScore = out.Conviction * 100
	}
	out.BasedScore = clamp100(out.BasedScore)

	if sc, ok := m["score_components"].(map[string]interface{}); ok {
		out.ScoreComponents = ScoreComponents{
			Conviction:        clamp100(asFloat(sc["conviction"])),
			Authenticity:      clamp100(asFloat(sc["authenticity"])),
			IntellectualRigor: clamp100(asFloat(sc["intellectual_rigor"])),
			Contrarian:        clamp100(asFloat(sc["contrarian"])),
		}
	}
	return out
}

// NormalizeBasedScore fills every BasedScore field from the decoded reply.
// Each top-level numeric score is validated independently: non-number,
// NaN, or out of [0,100] is replaced with DefaultScore and logged.
func NormalizeBasedScore(m map[string]interface{}) BasedScore {
	out := BasedScore{
		TribalAffiliation: TribeUnknown,
		ContrarianBeliefs: []Belief{},
		MainstreamBeliefs: []Belief{},
	}
	if m == nil {
		out.BasedScore = DefaultScore
		out.SincerityScore = DefaultScore
		out.TruthfulnessScore = DefaultScore
		out.ConspiracyScore = DefaultScore
		return out
	}

	switch TribalAffiliation(strings.ToLower(asString(m["tribal_affiliation"]))) {
	case TribeMainstream:
		out.TribalAffiliation = TribeMainstream
	case TribeContrarian:
		out.TribalAffiliation = TribeContrarian
	case TribeIndependent:
		out.TribalAffiliation = TribeIndependent
	}
	out.Justification = asString(m["justification"])
	out.ContrarianBeliefs = asBeliefs(m["contrarian_beliefs"])
	out.MainstreamBeliefs = asBeliefs(m["mainstream_beliefs"])

	out.BasedScore = ValidateScore("based_score", m["based_score"])
	out.SincerityScore = ValidateScore("sincerity_score", m["sincerity_score"])
	out.TruthfulnessScore = ValidateScore("truthfulness_score", m["truthfulness_score"])
	out.ConspiracyScore = ValidateScore("conspiracy_score", m["conspiracy_score"])
	return out
}

// ValidateScore coerces v to a 0-100 score, substituting DefaultScore for
// anything non-numeric, NaN, or out of range.
func ValidateScore(field string, v interface{}) float64 {
	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) || f < 0 || f > 100 {
		log.Printf("classifier: invalid %s %v, using default %d", field, v, DefaultScore)
		return DefaultScore
	}
	return f
}

func clamp01(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}

func clamp100(f float64) float64 {
	return math.Max(0, math.Min(100, f))
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// asFloat is the lenient coercion used for merged defaults: anything
// non-numeric becomes 0.
func asFloat(v interface{}) float64 {
	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) {
		return 0
	}
	return f
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func asStringSlice(v interface{}) []string {
	out := []string{}
	items, ok := v.([]interface{})
	if !ok {
		return out
	}
	for _, it := range items {
		if s := asString(it); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func asBeliefs(v interface{}) []Belief {
	out := []Belief{}
	items, ok := v.([]interface{})
	if !ok {
		return out
	}
	for _, it := range items {
		m, ok := it.(map[string]interface{})
		if !ok {
			continue
		}
		b := Belief{
			Belief:        asString(m["belief"]),
			Justification: asString(m["justification"]),
			Confidence:    clamp01(asFloat(m["confidence"])),
			Importance:    clamp01(asFloat(m["importance"])),
		}
		if b.Belief == "" {
			continue
		}
		out = append(out, b)
	}
	return out
}
