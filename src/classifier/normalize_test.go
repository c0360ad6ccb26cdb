package classifier

import (
	"math"
	"testing"
)

func TestNormalize_EmptyInput(t *testing.T) {
	got := Normalize(nil)

	if got.Category != "unknown" {
		t.Errorf("Category = %q, want unknown", got.Category)
	}
	if got.Confidence != 0 || got.Conviction != 0 || got.BasedScore != 0 {
		t.Errorf("expected zero scores, got %+v", got)
	}
	if got.KeyIndicators == nil || got.SecondaryInfluences == nil || got.LanguagePatterns == nil {
		t.Error("expected empty slices, not nil")
	}
}

func TestNormalize_ConfidenceClamped(t *testing.T) {
	cases := []struct {
		name string
		in   interface{}
		want float64
	}{
		{"above range", 3.5, 1},
		{"below range", -2.0, 0},
		{"in range", 0.42, 0.42},
		{"string number", "0.9", 0.9},
		{"garbage", "lots", 0},
		{"nan", math.NaN(), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(map[string]interface{}{"confidence": tc.in})
			if got.Confidence != tc.want {
				t.Errorf("Confidence = %v, want %v", got.Confidence, tc.want)
			}
		})
	}
}

func TestNormalize_BasedScoreDerivedFromConviction(t *testing.T) {
	got := Normalize(map[string]interface{}{"conviction": 0.8})
	if got.BasedScore != 80 {
		t.Errorf("BasedScore = %v, want 80", got.BasedScore)
	}
}

func TestNormalize_ExplicitBasedScoreWins(t *testing.T) {
	got := Normalize(map[string]interface{}{"conviction": 0.8, "based_score": 33.0})
	if got.BasedScore != 33 {
		t.Errorf("BasedScore = %v, want 33", got.BasedScore)
	}
}

func TestNormalize_PartialReply(t *testing.T) {
	got := Normalize(map[string]interface{}{
		"category":       "libertarian",
		"confidence":     0.7,
		"key_indicators": []interface{}{"end the fed", 42, "sound money"},
	})

	if got.Category != "libertarian" {
		t.Errorf("Category = %q", got.Category)
	}
	if len(got.KeyIndicators) != 2 {
		t.Errorf("KeyIndicators = %v, want non-strings dropped", got.KeyIndicators)
	}
	if got.SecondaryInfluences == nil || len(got.SecondaryInfluences) != 0 {
		t.Errorf("SecondaryInfluences = %v, want empty", got.SecondaryInfluences)
	}
}

func TestValidateScore(t *testing.T) {
	cases := []struct {
		name string
		in   interface{}
		want float64
	}{
		{"valid", 72.0, 72},
		{"zero", 0.0, 0},
		{"hundred", 100.0, 100},
		{"negative", -1.0, 50},
		{"over", 100.5, 50},
		{"nan", math.NaN(), 50},
		{"non numeric", "high", 50},
		{"nil", nil, 50},
		{"bool", true, 50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValidateScore("test_score", tc.in); got != tc.want {
				t.Errorf("ValidateScore(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeBasedScore_Defaults(t *testing.T) {
	got := NormalizeBasedScore(map[string]interface{}{
		"tribal_affiliation": "Contrarian",
		"based_score":        120.0,
		"sincerity_score":    "very",
	})

	if got.TribalAffiliation != TribeContrarian {
		t.Errorf("TribalAffiliation = %q", got.TribalAffiliation)
	}
	if got.BasedScore != 50 || got.SincerityScore != 50 {
		t.Errorf("out-of-range scores not defaulted: %+v", got)
	}
	if got.TruthfulnessScore != 50 || got.ConspiracyScore != 50 {
		t.Errorf("absent scores not defaulted: %+v", got)
	}
}

func TestNormalizeBasedScore_Beliefs(t *testing.T) {
	got := NormalizeBasedScore(map[string]interface{}{
		"mainstream_beliefs": []interface{}{
			map[string]interface{}{"belief": "taxes fund roads", "confidence": 1.4, "importance": 0.3},
			map[string]interface{}{"justification": "no belief text"},
		},
	})

	if len(got.MainstreamBeliefs) != 1 {
		t.Fatalf("MainstreamBeliefs = %v, want 1 entry", got.MainstreamBeliefs)
	}
	if got.MainstreamBeliefs[0].Confidence != 1 {
		t.Errorf("belief confidence not clamped: %v", got.MainstreamBeliefs[0].Confidence)
	}
}

func TestDecodeReply(t *testing.T) {
	cases := []struct {
		name string
		in   string
		ok   bool
	}{
		{"plain json", `{"category":"centrist"}`, true},
		{"fenced", "```json\n{\"category\":\"centrist\"}\n```", true},
		{"fenced no tag", "```\n{\"category\":\"centrist\"}\n```", true},
		{"embedded in prose", "Sure! Here you go: {\"category\":\"centrist\"} Hope that helps.", true},
		{"no json", "I cannot classify this account.", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := DecodeReply(tc.in)
			if tc.ok && err != nil {
				t.Fatalf("DecodeReply: %v", err)
			}
			if !tc.ok {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if m["category"] != "centrist" {
				t.Errorf("category = %v", m["category"])
			}
		})
	}
}
