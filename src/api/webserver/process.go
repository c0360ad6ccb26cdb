package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stake-plus/ideograph/src/ai/core"
	"github.com/stake-plus/ideograph/src/api/data"
	"github.com/stake-plus/ideograph/src/api/types"
	"github.com/stake-plus/ideograph/src/assertions"
	"github.com/stake-plus/ideograph/src/cache"
	"github.com/stake-plus/ideograph/src/classifier"
	"github.com/stake-plus/ideograph/src/logging"
	"github.com/stake-plus/ideograph/src/twitter"
)

type Process struct {
	engine    *classifier.Engine
	extractor *assertions.Extractor
	checker   *assertions.Checker
	cache     *cache.Results
	db        *gorm.DB
	bearer    string
	// newTwitter is swapped in tests to point at a fake upstream.
	newTwitter func(bearer string) *twitter.Client
}

func NewProcess(d Deps) *Process {
	opts := core.Options{Model: d.Cfg.AIModel}
	p := &Process{
		engine:     classifier.NewEngine(d.AI, opts),
		cache:      d.Cache,
		db:         d.DB,
		bearer:     d.Cfg.TwitterBearer,
		newTwitter: twitter.NewClient,
	}
	if d.Search != nil {
		p.extractor = assertions.NewExtractor(d.AI, opts)
		p.checker = assertions.NewChecker(d.Search, core.Options{})
	}
	return p
}

type processRequest struct {
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	AccessToken string `json:"accessToken"`
	FactCheck   bool   `json:"factCheck"`
}

type processResponse struct {
	UserID         string                          `json:"userId"`
	PostCount      int                             `json:"postCount"`
	Cached         bool                            `json:"cached"`
	Classification classifier.ClassificationResult `json:"classification"`
	BasedScore     *classifier.BasedScore          `json:"basedScore,omitempty"`
	FactCheck      *assertions.Report              `json:"factCheck,omitempty"`
}

// Handle runs the full pipeline: resolve user, fetch posts, classify,
// and optionally fact-check the belief lists.
func (p *Process) Handle(c *gin.Context) {
	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, logging.Validation("bad request body: %v", err))
		return
	}
	if req.UserID == "" && req.Username == "" && req.AccessToken == "" {
		respondError(c, logging.Validation("one of userId, username or accessToken is required"))
		return
	}

	ctx := c.Request.Context()

	bearer := p.bearer
	if req.AccessToken != "" {
		bearer = req.AccessToken
	}
	if bearer == "" {
		respondError(c, logging.Validation("no access token supplied and no app bearer configured"))
		return
	}
	tw := p.newTwitter(bearer)

	userID := req.UserID
	switch {
	case userID != "":
	case req.Username != "":
		u, err := tw.UserByUsername(ctx, req.Username)
		if err != nil {
			respondError(c, err)
			return
		}
		userID = u.ID
	default:
		u, err := tw.Me(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		userID = u.ID
	}

	posts, err := tw.RecentPosts(ctx, userID, classifier.MaxPromptPosts)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(posts) == 0 {
		respondError(c, logging.Validation("user %s has no recent posts to classify", userID))
		return
	}
	texts := twitter.Texts(posts)

	resp := processResponse{UserID: userID, PostCount: len(posts)}

	cacheKey := cache.Key(userID, texts)
	if res, ok := p.cache.Get(ctx, cacheKey); ok && !req.FactCheck {
		resp.Cached = true
		resp.Classification = res
		c.JSON(http.StatusOK, resp)
		return
	}

	result, err := p.engine.Classify(ctx, texts)
	if err != nil {
		respondError(c, err)
		return
	}
	resp.Classification = result
	p.cache.Put(ctx, cacheKey, result)

	row := types.ClassificationRow{
		UserID:     userID,
		Category:   result.Category,
		Confidence: result.Confidence,
		BasedScore: result.BasedScore,
	}

	if req.FactCheck && p.extractor != nil {
		based, err := p.engine.ScoreBased(ctx, texts)
		if err != nil {
			respondError(c, err)
			return
		}

		list, err := p.extractor.Extract(ctx, based)
		if err != nil {
			respondError(c, err)
			return
		}
		checks := p.checker.CheckAll(ctx, list)
		truth := assertions.AggregateTruthfulness(checks, based.MainstreamBeliefs)
		based.TruthfulnessScore = truth

		resp.BasedScore = &based
		resp.FactCheck = &assertions.Report{
			Assertions:        list,
			Results:           checks,
			TruthfulnessScore: truth,
		}
		row.TruthfulnessScore = truth
	}

	data.RecordClassification(ctx, p.db, row)
	c.JSON(http.StatusOK, resp)
}
