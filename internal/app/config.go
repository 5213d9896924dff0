package app

import (
	"strings"
	"time"

	"github.com/yungbote/procurement-backend/internal/http/middleware"
	"github.com/yungbote/procurement-backend/internal/platform/envutil"
	"github.com/yungbote/procurement-backend/internal/platform/logger"
)

type Config struct {
	HTTPAddr    string
	Environment string
	Version     string

	JWTSecretKey   string
	JWTIssuer      string
	AccessTokenTTL time.Duration

	AllowedOrigins []string
	MetricsAddr    string

	RedisEnabled bool
	RuleCacheTTL time.Duration

	SplinteringBatchLimit int
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		HTTPAddr:              envutil.String("HTTP_ADDR", ":8080"),
		Environment:           envutil.String("APP_ENV", "development"),
		Version:               envutil.String("APP_VERSION", "dev"),
		JWTSecretKey:          envutil.String("JWT_SECRET_KEY", ""),
		JWTIssuer:             envutil.String("JWT_ISSUER", "procurement-backend"),
		AccessTokenTTL:        envutil.Duration("ACCESS_TOKEN_TTL", time.Hour),
		AllowedOrigins:        envutil.CSV("CORS_ALLOW_ORIGINS", middleware.DefaultAllowedOrigins),
		MetricsAddr:           envutil.String("METRICS_ADDR", ":9090"),
		RedisEnabled:          strings.TrimSpace(envutil.String("REDIS_ADDR", "")) != "",
		RuleCacheTTL:          envutil.Duration("RULE_CACHE_TTL", 5*time.Minute),
		SplinteringBatchLimit: envutil.Int("BATCH_CHECK_CONCURRENCY", 4),
	}
	if cfg.JWTSecretKey == "" {
		log.Warn("JWT_SECRET_KEY not set, using development secret")
		cfg.JWTSecretKey = "defaultsecret"
	}
	return cfg
}
