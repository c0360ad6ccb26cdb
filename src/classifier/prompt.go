package classifier

import (
	"encoding/json"
	"fmt"
)

// MaxPromptPosts caps how many recent posts are embedded in a prompt.
const MaxPromptPosts = 20

// BuildClassificationPrompt renders the instruction block for the primary
// ideological classification. Pure function of its inputs; post texts are
// trusted as opaque strings beyond JSON stringification.
func BuildClassificationPrompt(posts []string) string {
	capped := posts
	if len(capped) > MaxPromptPosts {
		capped = capped[:MaxPromptPosts]
	}
	postJSON, _ := json.MarshalIndent(capped, "", "  ")
	taxonomyJSON, _ := json.MarshalIndent(Categories, "", "  ")

	return fmt.Sprintf(`Analyze the following recent posts from a single social media account and classify the author into exactly one of the ideological categories below.

Categories (with descriptive features):
%s

Recent posts (most recent first):
%s

Respond with JSON only, no prose, matching this shape exactly:
{
  "category": "progressive",
  "confidence": 0.82,
  "key_indicators": ["repeated systemic framing", "policy-first threads"],
  "secondary_influences": ["socialist"],
  "language_patterns": ["academic register", "frequent citations"],
  "conviction": 0.7,
  "based_score": 70,
  "score_components": {
    "conviction": 70,
    "authenticity": 65,
    "intellectual_rigor": 60,
    "contrarian": 40
  }
}

Rules:
- "category" must be one of: %v
- "confidence" and "conviction" are 0 to 1
- "based_score" and every score component are 0 to 100`, taxonomyJSON, postJSON, CategoryNames())
}

// BuildBasedScorePrompt renders the instruction block for the richer
// tribal-affiliation judgment with per-belief breakdowns.
func BuildBasedScorePrompt(posts []string) string {
	capped := posts
	if len(capped) > MaxPromptPosts {
		capped = capped[:MaxPromptPosts]
	}
	postJSON, _ := json.MarshalIndent(capped, "", "  ")

	return fmt.Sprintf(`You are scoring how independently this account thinks, based only on its recent posts.

Recent posts (most recent first):
%s

Identify the account's tribal affiliation ("mainstream", "contrarian", or "independent"), list its mainstream and contrarian beliefs, and score it.

Respond with JSON only, no prose, matching this shape exactly:
{
  "tribal_affiliation": "contrarian",
  "justification": "One paragraph explaining the judgment.",
  "contrarian_beliefs": [
    {"belief": "statement", "justification": "why contrarian", "confidence": 0.8, "importance": 0.6}
  ],
  "mainstream_beliefs": [
    {"belief": "statement", "justification": "why mainstream", "confidence": 0.9, "importance": 0.4}
  ],
  "based_score": 72,
  "sincerity_score": 80,
  "truthfulness_score": 55,
  "conspiracy_score": 30
}

Rules:
- every belief's "confidence" and "importance" are 0 to 1
- all four top-level scores are 0 to 100`, postJSON)
}
