package assertions

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/stake-plus/ideograph/src/ai/core"
	"github.com/stake-plus/ideograph/src/classifier"
)

// NeutralTruthfulness is returned when no fact check succeeded.
const NeutralTruthfulness = 50

// Checker verifies assertions one at a time against a search-augmented
// provider and aggregates a truthfulness score.
type Checker struct {
	ai   core.Client
	opts core.Options
}

func NewChecker(ai core.Client, opts core.Options) *Checker {
	o := opts
	o.EnableWebSearch = true
	return &Checker{ai: ai, opts: o}
}

// CheckAll verifies every fact-checkable assertion, at most three in
// flight at once. Dropped (unparseable) replies are logged, not retried.
func (c *Checker) CheckAll(ctx context.Context, list []Assertion) []FactCheckResult {
	checkable := []Assertion{}
	for _, a := range list {
		if a.IsFactCheckable {
			checkable = append(checkable, a)
		}
	}
	if len(checkable) == 0 {
		return []FactCheckResult{}
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	results := []FactCheckResult{}
	semaphore := make(chan struct{}, 3)

	log.Printf("assertions: fact-checking %d of %d assertions", len(checkable), len(list))

	for i, a := range checkable {
		wg.Add(1)
		go func(index int, a Assertion) {
			defer wg.Done()

			select {
			case semaphore <- struct{}{}:
				defer func() { <-semaphore }()
			case <-ctx.Done():
				return
			}

			res, ok := c.checkOne(ctx, a)
			if !ok {
				log.Printf("assertions: dropping unverifiable check %d (%q)", index+1, a.Statement)
				return
			}
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
		}(i, a)
	}
	wg.Wait()
	return results
}

func (c *Checker) checkOne(ctx context.Context, a Assertion) (FactCheckResult, bool) {
	prompt := fmt.Sprintf(`Fact-check this claim using web search.

Claim: "%s"`, a.Statement)
	if a.SourceContext != "" {
		prompt += fmt.Sprintf("\nContext: %s", a.SourceContext)
	}
	prompt += `

Format your response EXACTLY as:
Determination: [True/False]
Confidence: [0.0 to 1.0]
Explanation: [One or two sentences citing the evidence found]
Sources:
- [URL]
- [URL]`

	comp, err := c.ai.Complete(ctx, prompt, c.opts)
	if err != nil {
		log.Printf("assertions: fact-check call failed for %q: %v", a.Statement, err)
		return FactCheckResult{}, false
	}

	// Perplexity reports citations out of band; graft them onto a reply
	// that omitted its Sources list before the strict parse.
	text := comp.Text
	if len(comp.Citations) > 0 && !strings.Contains(strings.ToUpper(text), "SOURCES:") {
		var b strings.Builder
		b.WriteString(text)
		b.WriteString("\nSources:\n")
		for _, u := range comp.Citations {
			b.WriteString("- " + u + "\n")
		}
		text = b.String()
	}
	return ParseFactCheck(a.Statement, text)
}

// ParseFactCheck reads the rigid Determination/Confidence/Explanation/
// Sources block line by line, matching case-insensitive label prefixes.
// The result is accepted only when all four pieces are present.
func ParseFactCheck(statement, text string) (FactCheckResult, bool) {
	res := FactCheckResult{Statement: statement, Sources: []string{}}
	var haveDetermination, haveConfidence, inSources bool

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		upper := strings.ToUpper(line)

		switch {
		case strings.HasPrefix(upper, "DETERMINATION:"):
			inSources = false
			v := strings.ToUpper(strings.TrimSpace(line[len("Determination:"):]))
			v = strings.Trim(v, "[].")
			if v == "TRUE" || v == "FALSE" {
				res.IsTrue = v == "TRUE"
				haveDetermination = true
			}
		case strings.HasPrefix(upper, "CONFIDENCE:"):
			inSources = false
			v := strings.Trim(strings.TrimSpace(line[len("Confidence:"):]), "[]")
			if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 1 {
				res.Confidence = f
				haveConfidence = true
			}
		case strings.HasPrefix(upper, "EXPLANATION:"):
			inSources = false
			res.Explanation = strings.TrimSpace(line[len("Explanation:"):])
		case strings.HasPrefix(upper, "SOURCES:"):
			inSources = true
			if rest := strings.TrimSpace(line[len("Sources:"):]); rest != "" {
				res.Sources = append(res.Sources, strings.TrimLeft(rest, "-* "))
			}
		case inSources && (strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*")):
			if src := strings.TrimSpace(strings.TrimLeft(line, "-* ")); src != "" {
				res.Sources = append(res.Sources, src)
			}
		default:
			inSources = false
		}
	}

	if !haveDetermination || !haveConfidence || res.Explanation == "" || len(res.Sources) == 0 {
		log.Printf("assertions: incomplete fact-check block for %q", statement)
		return FactCheckResult{}, false
	}
	return res, true
}

// Weights applied per check depending on whether the claim echoes a
// mainstream belief.
const (
	mainstreamWeight = 1.2
	contrarianWeight = 0.8
)

// AggregateTruthfulness computes the weighted truthfulness score over
// successful checks. With no checks it returns the neutral default. The
// historical formula divides by the check count rather than the weight
// sum, which can overshoot 100; the result is clamped and the clamp
// logged instead of surfacing the overshoot.
func AggregateTruthfulness(checks []FactCheckResult, mainstream []classifier.Belief) float64 {
	if len(checks) == 0 {
		return NeutralTruthfulness
	}

	var sum float64
	for _, check := range checks {
		weight := contrarianWeight
		for _, b := range mainstream {
			if b.Belief != "" && strings.Contains(b.Belief, check.Statement) {
				weight = mainstreamWeight
				break
			}
		}
		if check.IsTrue {
			sum += check.Confidence * 100 * weight
		}
	}

	score := sum / float64(len(checks))
	if score > 100 {
		log.Printf("assertions: truthfulness %0.1f exceeds 100, clamping", score)
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}
