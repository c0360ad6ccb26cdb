package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stake-plus/ideograph/src/ai/core"
	_ "github.com/stake-plus/ideograph/src/ai/grok"
	_ "github.com/stake-plus/ideograph/src/ai/openai"
	_ "github.com/stake-plus/ideograph/src/ai/perplexity"
	"github.com/stake-plus/ideograph/src/api/config"
	"github.com/stake-plus/ideograph/src/api/data"
	"github.com/stake-plus/ideograph/src/api/types"
	"github.com/stake-plus/ideograph/src/api/webserver"
	"github.com/stake-plus/ideograph/src/cache"
	"github.com/stake-plus/ideograph/src/store"
	"github.com/stake-plus/ideograph/src/twitter"
)

func main() {
	cfg := config.Load()

	d := webserver.Deps{Cfg: cfg}

	sealer, err := store.NewSealer(cfg.SealKey)
	if err != nil {
		log.Fatalf("sealer: %v", err)
	}

	mem := store.NewMemoryStore()
	d.States = mem
	d.Tokens = mem

	if cfg.RedisURL != "" {
		d.RDB = data.MustRedis(cfg.RedisURL)
		d.States = store.NewRedisStateStore(d.RDB)
		d.Cache = cache.NewResults(d.RDB, cfg.CacheTTL)
	}
	if cfg.MySQLDSN != "" {
		d.DB = data.MustMySQL(cfg.MySQLDSN)
		if err := d.DB.AutoMigrate(&types.TokenRow{}, &types.ClassificationRow{}); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		d.Tokens = data.NewMySQLTokenStore(d.DB, sealer)
	}

	d.AI, err = core.NewClient(core.FactoryConfig{
		Provider:      cfg.AIProvider,
		Model:         cfg.AIModel,
		OpenAIKey:     cfg.OpenAIKey,
		GrokKey:       cfg.GrokKey,
		PerplexityKey: cfg.PerplexityKey,
	})
	if err != nil {
		log.Fatalf("ai: %v", err)
	}
	if cfg.PerplexityKey != "" {
		d.Search, err = core.NewClient(core.FactoryConfig{
			Provider:      "perplexity",
			PerplexityKey: cfg.PerplexityKey,
		})
		if err != nil {
			log.Fatalf("ai: %v", err)
		}
	}

	d.OAuth = twitter.NewOAuthClient(cfg.TwitterClientID, cfg.TwitterClientSecret, cfg.TwitterRedirectURI)

	router := webserver.New(d)
	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("listening on :%s", cfg.Port)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
