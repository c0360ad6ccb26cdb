package perplexity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/stake-plus/ideograph/src/ai/core"
	"github.com/stake-plus/ideograph/src/logging"
	"github.com/stake-plus/ideograph/src/webclient"
)

func init() {
	core.RegisterProvider("perplexity", newClient, "sonar")
}

const retryAttempts = 3

// endpoint is a var so package tests can point it at a fake server.
var endpoint = "https://api.perplexity.ai/chat/completions"

// client is hand-rolled because Perplexity's otherwise OpenAI-compatible
// reply carries a top-level citations array that generic SDKs drop.
type client struct {
	apiKey     string
	httpClient *http.Client
	defaults   core.Options
}

func newClient(cfg core.FactoryConfig) (core.Client, error) {
	if cfg.PerplexityKey == "" {
		return nil, fmt.Errorf("perplexity: API key not configured")
	}
	return &client{
		apiKey:     cfg.PerplexityKey,
		httpClient: webclient.NewDefault(240 * time.Second),
		defaults: core.Options{
			Model:               valueOrDefault(cfg.Model, "sonar"),
			Temperature:         orFloat(cfg.Temperature, 0.2),
			MaxCompletionTokens: orInt(cfg.MaxCompletionTokens, 4000),
			SystemPrompt:        cfg.SystemPrompt,
		},
	}, nil
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Citations []string `json:"citations"`
}

func (c *client) Complete(ctx context.Context, prompt string, opts core.Options) (*core.Completion, error) {
	merged := c.merge(opts)

	messages := []map[string]string{}
	if merged.SystemPrompt != "" {
		messages = append(messages, map[string]string{"role": "system", "content": merged.SystemPrompt})
	}
	messages = append(messages, map[string]string{"role": "user", "content": prompt})

	reqBody := map[string]interface{}{
		"model":       merged.Model,
		"messages":    messages,
		"temperature": merged.Temperature,
		"max_tokens":  merged.MaxCompletionTokens,
	}
	if merged.EnableWebSearch {
		reqBody["web_search_options"] = map[string]string{"search_context_size": "medium"}
	}
	bodyBytes, _ := json.Marshal(reqBody)

	_, body, err := webclient.DoWithRetry(ctx, retryAttempts, 2*time.Second, func() (int, []byte, error) {
		req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(bodyBytes))
		if err != nil {
			return 0, nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return 0, nil, err
		}
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return resp.StatusCode, nil, err
		}
		if resp.StatusCode != http.StatusOK {
			return resp.StatusCode, b, fmt.Errorf("status %d: %s", resp.StatusCode, resp.Status)
		}
		return resp.StatusCode, b, nil
	})
	if err != nil {
		return nil, logging.RetryExhausted(retryAttempts, fmt.Errorf("perplexity API error: %w", err))
	}

	var result chatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, logging.Malformed("perplexity: decode response: %v", err)
	}
	if len(result.Choices) == 0 {
		return nil, logging.Malformed("perplexity: no choices in response")
	}

	return &core.Completion{
		Text:      strings.TrimSpace(result.Choices[0].Message.Content),
		Citations: result.Citations,
		Raw:       body,
	}, nil
}

func (c *client) merge(opts core.Options) core.Options {
	out := c.defaults
	if opts.Model != "" {
		out.Model = opts.Model
	}
	if opts.Temperature != 0 {
		out.Temperature = opts.Temperature
	}
	if opts.MaxCompletionTokens != 0 {
		out.MaxCompletionTokens = opts.MaxCompletionTokens
	}
	if opts.SystemPrompt != "" {
		out.SystemPrompt = opts.SystemPrompt
	}
	if opts.EnableWebSearch {
		out.EnableWebSearch = true
	}
	return out
}

func valueOrDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orFloat(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func orInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
