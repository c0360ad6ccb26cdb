package classifier

import (
	"context"

	"github.com/stake-plus/ideograph/src/ai/core"
)

// Engine runs the prompt -> completion -> normalize pipeline against a
// provider-agnostic AI client.
type Engine struct {
	ai   core.Client
	opts core.Options
}

func NewEngine(ai core.Client, opts core.Options) *Engine {
	return &Engine{ai: ai, opts: opts}
}

// Classify sends the account's recent posts for ideological classification
// and normalizes whatever the model replies with.
func (e *Engine) Classify(ctx context.Context, posts []string) (ClassificationResult, error) {
	comp, err := e.ai.Complete(ctx, BuildClassificationPrompt(posts), e.opts)
	if err != nil {
		return Normalize(nil), err
	}
	m, err := DecodeReply(comp.Text)
	if err != nil {
		return Normalize(nil), err
	}
	return Normalize(m), nil
}

// ScoreBased requests the richer tribal-affiliation judgment.
func (e *Engine) ScoreBased(ctx context.Context, posts []string) (BasedScore, error) {
	comp, err := e.ai.Complete(ctx, BuildBasedScorePrompt(posts), e.opts)
	if err != nil {
		return NormalizeBasedScore(nil), err
	}
	m, err := DecodeReply(comp.Text)
	if err != nil {
		return NormalizeBasedScore(nil), err
	}
	return NormalizeBasedScore(m), nil
}
