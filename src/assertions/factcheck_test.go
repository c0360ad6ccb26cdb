package assertions

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stake-plus/ideograph/src/ai/core"
	"github.com/stake-plus/ideograph/src/classifier"
)

const goodBlock = `Determination: True
Confidence: 0.9
Explanation: Treasury data confirms the figure.
Sources:
- https://fiscaldata.treasury.gov
- https://example.org/report`

func TestParseFactCheck_Complete(t *testing.T) {
	res, ok := ParseFactCheck("the claim", goodBlock)
	if !ok {
		t.Fatal("expected block to be accepted")
	}
	if !res.IsTrue || res.Confidence != 0.9 {
		t.Errorf("determination/confidence = %v/%v", res.IsTrue, res.Confidence)
	}
	if len(res.Sources) != 2 {
		t.Errorf("sources = %v", res.Sources)
	}
	if res.Explanation == "" {
		t.Error("explanation missing")
	}
}

func TestParseFactCheck_CaseInsensitiveLabels(t *testing.T) {
	block := `determination: FALSE
confidence: 0.4
explanation: No record found.
sources:
- https://example.org`
	res, ok := ParseFactCheck("x", block)
	if !ok {
		t.Fatal("expected acceptance")
	}
	if res.IsTrue {
		t.Error("determination should be false")
	}
}

func TestParseFactCheck_IncompleteDropped(t *testing.T) {
	cases := map[string]string{
		"no sources":       "Determination: True\nConfidence: 0.9\nExplanation: ok",
		"no determination": "Confidence: 0.9\nExplanation: ok\nSources:\n- https://e.org",
		"no confidence":    "Determination: True\nExplanation: ok\nSources:\n- https://e.org",
		"no explanation":   "Determination: True\nConfidence: 0.9\nSources:\n- https://e.org",
		"bad confidence":   "Determination: True\nConfidence: high\nExplanation: ok\nSources:\n- https://e.org",
	}
	for name, block := range cases {
		t.Run(name, func(t *testing.T) {
			if _, ok := ParseFactCheck("x", block); ok {
				t.Error("expected block to be dropped")
			}
		})
	}
}

func TestAggregateTruthfulness_NoChecks(t *testing.T) {
	if got := AggregateTruthfulness(nil, nil); got != NeutralTruthfulness {
		t.Errorf("got %v, want %v", got, NeutralTruthfulness)
	}
}

func TestAggregateTruthfulness_MainstreamClamped(t *testing.T) {
	checks := []FactCheckResult{{Statement: "roads are public", IsTrue: true, Confidence: 1.0}}
	mainstream := []classifier.Belief{{Belief: "most roads are public goods"}}

	// 1.0 * 100 * 1.2 / 1 = 120; the documented range wins.
	if got := AggregateTruthfulness(checks, mainstream); got != 100 {
		t.Errorf("got %v, want clamped 100", got)
	}
}

func TestAggregateTruthfulness_ContrarianWeight(t *testing.T) {
	checks := []FactCheckResult{{Statement: "an unusual claim", IsTrue: true, Confidence: 0.5}}
	if got := AggregateTruthfulness(checks, nil); got != 40 {
		t.Errorf("got %v, want 0.5*100*0.8 = 40", got)
	}
}

func TestAggregateTruthfulness_FalseContributesZero(t *testing.T) {
	checks := []FactCheckResult{
		{Statement: "true thing", IsTrue: true, Confidence: 1.0},
		{Statement: "false thing", IsTrue: false, Confidence: 1.0},
	}
	// (0.8*100 + 0) / 2
	if got := AggregateTruthfulness(checks, nil); got != 40 {
		t.Errorf("got %v, want 40", got)
	}
}

type scriptedAI struct {
	mu      sync.Mutex
	replies map[string]string
	calls   int
}

func (s *scriptedAI) Complete(ctx context.Context, prompt string, opts core.Options) (*core.Completion, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	for needle, reply := range s.replies {
		if strings.Contains(prompt, needle) {
			return &core.Completion{Text: reply}, nil
		}
	}
	return &core.Completion{Text: "Determination: Unknown"}, nil
}

func TestChecker_SkipsNonCheckable(t *testing.T) {
	ai := &scriptedAI{replies: map[string]string{"checkable claim": goodBlock}}
	checker := NewChecker(ai, core.Options{})

	results := checker.CheckAll(context.Background(), []Assertion{
		{Statement: "checkable claim", IsFactCheckable: true},
		{Statement: "value judgment", IsFactCheckable: false},
	})

	if ai.calls != 1 {
		t.Errorf("AI called %d times, want 1", ai.calls)
	}
	if len(results) != 1 || results[0].Statement != "checkable claim" {
		t.Errorf("results = %+v", results)
	}
}

// cancellingAI answers its first call and cancels the shared context;
// every later call blocks until cancellation and fails.
type cancellingAI struct {
	mu     sync.Mutex
	called bool
	cancel context.CancelFunc
}

func (a *cancellingAI) Complete(ctx context.Context, prompt string, opts core.Options) (*core.Completion, error) {
	a.mu.Lock()
	first := !a.called
	a.called = true
	a.mu.Unlock()
	if first {
		a.cancel()
		return &core.Completion{Text: goodBlock}, nil
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestChecker_MidFlightCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	checker := NewChecker(&cancellingAI{cancel: cancel}, core.Options{})

	list := make([]Assertion, 6)
	for i := range list {
		list[i] = Assertion{Statement: "claim", IsFactCheckable: true}
	}

	// CheckAll must wait for every in-flight goroutine, so the one reply
	// that landed before cancellation is always in the returned slice.
	results := checker.CheckAll(ctx, list)
	if len(results) != 1 {
		t.Errorf("results = %d, want the single pre-cancel check", len(results))
	}
}

func TestChecker_DropsUnparseableReply(t *testing.T) {
	ai := &scriptedAI{replies: map[string]string{"claim": "I am not sure about this one."}}
	checker := NewChecker(ai, core.Options{})

	results := checker.CheckAll(context.Background(), []Assertion{
		{Statement: "claim", IsFactCheckable: true},
	})
	if len(results) != 0 {
		t.Errorf("results = %+v, want none", results)
	}
}
