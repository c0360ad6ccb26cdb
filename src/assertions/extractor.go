package assertions

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/stake-plus/ideograph/src/ai/core"
	"github.com/stake-plus/ideograph/src/classifier"
)

// Extractor turns belief lists into discrete fact-checkable assertions
// via one LLM call, accepting either strict JSON or the markdown listing
// older models fall back to.
type Extractor struct {
	ai   core.Client
	opts core.Options
}

func NewExtractor(ai core.Client, opts core.Options) *Extractor {
	return &Extractor{ai: ai, opts: opts}
}

// Extract sends all mainstream and contrarian beliefs for assertion
// extraction. A partial result list is an acceptable, non-error outcome:
// malformed segments are individually discarded, not fatal.
func (e *Extractor) Extract(ctx context.Context, score classifier.BasedScore) ([]Assertion, error) {
	beliefs := append(append([]classifier.Belief{}, score.MainstreamBeliefs...), score.ContrarianBeliefs...)
	if len(beliefs) == 0 {
		return []Assertion{}, nil
	}

	comp, err := e.ai.Complete(ctx, buildExtractionPrompt(beliefs), e.opts)
	if err != nil {
		return nil, err
	}
	return ParseAssertions(comp.Text), nil
}

func buildExtractionPrompt(beliefs []classifier.Belief) string {
	var b strings.Builder
	b.WriteString("From the belief statements below, extract discrete factual assertions and flag which are empirically fact-checkable (as opposed to value judgments).\n\nBeliefs:\n")
	for _, belief := range beliefs {
		fmt.Fprintf(&b, "- %s (confidence %.2f, importance %.2f)\n", belief.Belief, belief.Confidence, belief.Importance)
	}
	b.WriteString(`
Respond with a strict JSON array only:
[
  {
    "statement": "a single verifiable claim",
    "isFactCheckable": true,
    "modelConfidence": 0.8,
    "userConfidence": 0.9,
    "sourceContext": "which belief it came from"
  }
]`)
	return b.String()
}

// assertionParser is one format attempt. Parsers are tried in fixed
// order; the first that yields assertions wins.
type assertionParser func(string) ([]Assertion, bool)

var assertionParsers = []assertionParser{parseJSONAssertions, parseMarkdownAssertions}

// ParseAssertions accepts either a strict JSON array or the semi-structured
// markdown listing ("Assertion N: Statement: ... Fact-checkable: ...").
func ParseAssertions(text string) []Assertion {
	for _, parse := range assertionParsers {
		if out, ok := parse(text); ok {
			return out
		}
	}
	log.Printf("assertions: reply matched no known format, returning empty list")
	return []Assertion{}
}

func parseJSONAssertions(text string) ([]Assertion, bool) {
	cleaned := classifier.StripCodeFences(text)
	raw := cleaned
	if !strings.HasPrefix(strings.TrimSpace(raw), "[") {
		start := strings.Index(cleaned, "[")
		end := strings.LastIndex(cleaned, "]")
		if start < 0 || end <= start {
			return nil, false
		}
		raw = cleaned[start : end+1]
	}

	var items []map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, false
	}

	out := []Assertion{}
	for i, m := range items {
		a := Assertion{
			Statement:       strField(m, "statement"),
			IsFactCheckable: boolField(m, "isFactCheckable"),
			ModelConfidence: confField(m, "modelConfidence", defaultModelConfidence),
			UserConfidence:  confField(m, "userConfidence", defaultUserConfidence),
			SourceContext:   strField(m, "sourceContext"),
		}
		if a.Statement == "" {
			log.Printf("assertions: dropping JSON item %d with no statement", i)
			continue
		}
		out = append(out, a)
	}
	return out, true
}

var (
	segmentRe         = regexp.MustCompile(`(?im)^\s*(?:\*{0,2})assertion\s+\d+\s*(?:\*{0,2})[:.]?`)
	statementRe       = regexp.MustCompile(`(?i)statement:\s*(.+)`)
	factCheckableRe   = regexp.MustCompile(`(?i)fact-?checkable:\s*(\S+)`)
	modelConfidenceRe = regexp.MustCompile(`(?i)model confidence:\s*([0-9.]+)`)
	userConfidenceRe  = regexp.MustCompile(`(?i)user confidence:\s*([0-9.]+)`)
	contextRe         = regexp.MustCompile(`(?i)context:\s*(.+)`)
)

func parseMarkdownAssertions(text string) ([]Assertion, bool) {
	locs := segmentRe.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil, false
	}

	out := []Assertion{}
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		segment := text[loc[1]:end]

		a := Assertion{
			ModelConfidence: defaultModelConfidence,
			UserConfidence:  defaultUserConfidence,
		}
		if m := statementRe.FindStringSubmatch(segment); m != nil {
			a.Statement = strings.TrimSpace(m[1])
		}
		if a.Statement == "" {
			log.Printf("assertions: dropping malformed segment %d (no statement)", i+1)
			continue
		}
		if m := factCheckableRe.FindStringSubmatch(segment); m != nil {
			a.IsFactCheckable = parseYes(m[1])
		}
		if m := modelConfidenceRe.FindStringSubmatch(segment); m != nil {
			if f, err := strconv.ParseFloat(m[1], 64); err == nil {
				a.ModelConfidence = clamp01(f)
			}
		}
		if m := userConfidenceRe.FindStringSubmatch(segment); m != nil {
			if f, err := strconv.ParseFloat(m[1], 64); err == nil {
				a.UserConfidence = clamp01(f)
			}
		}
		if m := contextRe.FindStringSubmatch(segment); m != nil {
			a.SourceContext = strings.TrimSpace(m[1])
		}
		out = append(out, a)
	}
	return out, true
}

func parseYes(s string) bool {
	switch strings.ToLower(strings.Trim(s, ".,")) {
	case "yes", "true", "y":
		return true
	}
	return false
}

func clamp01(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}

func strField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

func boolField(m map[string]interface{}, key string) bool {
	b, _ := m[key].(bool)
	return b
}

func confField(m map[string]interface{}, key string, def float64) float64 {
	f, ok := m[key].(float64)
	if !ok || math.IsNaN(f) {
		return def
	}
	return clamp01(f)
}
