package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stake-plus/ideograph/src/ai/core"
	"github.com/stake-plus/ideograph/src/api/config"
)

const diagPrompt = "Reply with the single word: pong"

// Diag exposes provider passthroughs that forward a fixed test prompt
// and return the provider's raw JSON, for checking keys and connectivity.
type Diag struct {
	cfg config.Config
}

func NewDiag(cfg config.Config) Diag {
	return Diag{cfg: cfg}
}

func (d Diag) OpenAI(c *gin.Context) {
	d.passthrough(c, "openai")
}

func (d Diag) Grok(c *gin.Context) {
	d.passthrough(c, "grok")
}

func (d Diag) passthrough(c *gin.Context, provider string) {
	client, err := core.NewClient(core.FactoryConfig{
		Provider:      provider,
		OpenAIKey:     d.cfg.OpenAIKey,
		GrokKey:       d.cfg.GrokKey,
		PerplexityKey: d.cfg.PerplexityKey,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	comp, err := client.Complete(c.Request.Context(), diagPrompt, core.Options{MaxCompletionTokens: 16})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", comp.Raw)
}
