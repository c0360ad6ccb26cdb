package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/stake-plus/ideograph/src/ai/core"
	"github.com/stake-plus/ideograph/src/logging"
	"github.com/stake-plus/ideograph/src/webclient"
)

func init() {
	core.RegisterProvider("openai", newClient, "gpt")
}

const retryAttempts = 3

type client struct {
	api      *goopenai.Client
	defaults core.Options
}

func newClient(cfg core.FactoryConfig) (core.Client, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("openai: API key not configured")
	}
	apiCfg := goopenai.DefaultConfig(cfg.OpenAIKey)
	apiCfg.HTTPClient = webclient.NewDefault(240 * time.Second)
	return &client{
		api: goopenai.NewClientWithConfig(apiCfg),
		defaults: core.Options{
			Model:               valueOrDefault(cfg.Model, goopenai.GPT4oMini),
			Temperature:         orFloat(cfg.Temperature, 0.7),
			MaxCompletionTokens: orInt(cfg.MaxCompletionTokens, 4000),
			SystemPrompt:        cfg.SystemPrompt,
		},
	}, nil
}

func (c *client) Complete(ctx context.Context, prompt string, opts core.Options) (*core.Completion, error) {
	merged := merge(c.defaults, opts)

	req := goopenai.ChatCompletionRequest{
		Model:       merged.Model,
		Temperature: float32(merged.Temperature),
		MaxTokens:   merged.MaxCompletionTokens,
	}
	if merged.SystemPrompt != "" {
		req.Messages = append(req.Messages, goopenai.ChatCompletionMessage{
			Role: goopenai.ChatMessageRoleSystem, Content: merged.SystemPrompt,
		})
	}
	req.Messages = append(req.Messages, goopenai.ChatCompletionMessage{
		Role: goopenai.ChatMessageRoleUser, Content: prompt,
	})

	var resp goopenai.ChatCompletionResponse
	_, _, err := webclient.DoWithRetry(ctx, retryAttempts, 2*time.Second, func() (int, []byte, error) {
		r, err := c.api.CreateChatCompletion(ctx, req)
		if err != nil {
			var apiErr *goopenai.APIError
			if errors.As(err, &apiErr) {
				return apiErr.HTTPStatusCode, nil, err
			}
			return 0, nil, err
		}
		resp = r
		return http.StatusOK, nil, nil
	})
	if err != nil {
		return nil, logging.RetryExhausted(retryAttempts, fmt.Errorf("openai API error: %w", err))
	}
	if len(resp.Choices) == 0 {
		return nil, logging.Malformed("openai: no choices in response")
	}

	raw, _ := json.Marshal(resp)
	return &core.Completion{
		Text: strings.TrimSpace(resp.Choices[0].Message.Content),
		Raw:  raw,
	}, nil
}

func merge(def, opts core.Options) core.Options {
	out := def
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
