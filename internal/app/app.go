package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/procurement-backend/internal/data/db"
	"github.com/yungbote/procurement-backend/internal/modules/procurement/splintering"
	"github.com/yungbote/procurement-backend/internal/observability"
	"github.com/yungbote/procurement-backend/internal/platform/dbctx"
	"github.com/yungbote/procurement-backend/internal/platform/envutil"
	"github.com/yungbote/procurement-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Clients  Clients
	Repos    Repos
	Services Services
	Metrics  *observability.Metrics

	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New(ctx context.Context) (*App, error) {
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	theDB, err := OpenDatabase(log, db.ConfigFromEnv())
	if err != nil {
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(theDB, log)
	if err := SeedRules(ctx, log, reposet); err != nil {
		log.Sync()
		return nil, err
	}

	clientset, err := wireClients(ctx, log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}

	shutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: serviceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})
	metrics := observability.Init(log)

	serviceset := wireServices(log, cfg, reposet, clientset, metrics)
	handlerset := wireHandlers(log, theDB, serviceset)
	middleware := wireMiddleware(log, serviceset)
	router := wireRouter(log, cfg, handlerset, middleware, metrics)

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		Clients:      clientset,
		Repos:        reposet,
		Services:     serviceset,
		Metrics:      metrics,
		otelShutdown: shutdown,
	}, nil
}

// OpenDatabase connects and brings the schema up to date.
func OpenDatabase(log *logger.Logger, cfg db.Config) (*gorm.DB, error) {
	pg, err := db.NewPostgresService(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	theDB := pg.DB()
	if err := db.AutoMigrateAll(theDB); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	if err := db.EnsureIndexes(theDB); err != nil {
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}
	return theDB, nil
}

// SeedRules loads the configured rule set into an empty rule table.
func SeedRules(ctx context.Context, log *logger.Logger, r Repos) error {
	rules, err := splintering.LoadRules()
	if err != nil {
		return fmt.Errorf("load splintering rules: %w", err)
	}
	n, err := r.Rule.SeedDefaults(dbctx.Context{Ctx: ctx}, rules)
	if err != nil {
		return fmt.Errorf("seed splintering rules: %w", err)
	}
	if n > 0 {
		log.Info("seeded splintering rules", "count", n)
	}
	return nil
}

// Start launches background collectors. Safe to call once.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	a.Metrics.StartServer(ctx, a.Log, a.Cfg.MetricsAddr)
	a.Metrics.StartDBCollector(ctx, a.Log, a.DB)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.otelShutdown != nil {
		_ = a.otelShutdown(context.Background())
	}
	a.Clients.Close()
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
