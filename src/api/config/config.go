package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Optional external stores; the service falls back to in-memory
	// state/token maps when these are unset.
	MySQLDSN string
	RedisURL string

	// JWTSecret enables the session-token guard on /v1/process when set.
	JWTSecret string
	// SealKey (64 hex chars) encrypts refresh tokens at rest.
	SealKey string

	AIProvider    string
	AIModel       string
	OpenAIKey     string
	GrokKey       string
	PerplexityKey string

	TwitterBearer       string
	TwitterClientID     string
	TwitterClientSecret string
	TwitterRedirectURI  string

	AllowedOrigins []string
	DefaultOrigin  string

	RateLimit  int
	RateWindow time.Duration
	CacheTTL   time.Duration
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		if def == "" {
			log.Fatalf("missing env %s", key)
		}
		return def
	}
	return v
}

func optional(key string) string {
	return os.Getenv(key)
}

func Load() Config {
	// .env is a developer convenience; absence is fine.
	_ = godotenv.Load()

	rate, _ := strconv.Atoi(getenv("RATE_LIMIT", "300"))
	windowMin, _ := strconv.Atoi(getenv("RATE_WINDOW_MINUTES", "15"))
	cacheMin, _ := strconv.Atoi(getenv("CACHE_TTL_MINUTES", "60"))

	origins := strings.Split(getenv("ALLOWED_ORIGINS", "http://localhost:3000"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return Config{
		Port:                getenv("PORT", "8080"),
		MySQLDSN:            optional("MYSQL_DSN"),
		RedisURL:            optional("REDIS_URL"),
		JWTSecret:           optional("JWT_SECRET"),
		SealKey:             optional("TOKEN_SEAL_KEY"),
		AIProvider:          getenv("AI_PROVIDER", "openai"),
		AIModel:             optional("AI_MODEL"),
		OpenAIKey:           optional("OPENAI_API_KEY"),
		GrokKey:             optional("GROK_API_KEY"),
		PerplexityKey:       optional("PERPLEXITY_API_KEY"),
		TwitterBearer:       optional("TWITTER_BEARER_TOKEN"),
		TwitterClientID:     optional("TWITTER_CLIENT_ID"),
		TwitterClientSecret: optional("TWITTER_CLIENT_SECRET"),
		TwitterRedirectURI:  optional("TWITTER_REDIRECT_URI"),
		AllowedOrigins:      origins,
		DefaultOrigin:       origins[0],
		RateLimit:           rate,
		RateWindow:          time.Duration(windowMin) * time.Minute,
		CacheTTL:            time.Duration(cacheMin) * time.Minute,
	}
}
