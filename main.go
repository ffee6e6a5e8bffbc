package main

import (
	"context"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/miguelangel-nubla/product-matcher/pkg/config"
	"github.com/miguelangel-nubla/product-matcher/pkg/database"
	"github.com/miguelangel-nubla/product-matcher/pkg/embedding"
	"github.com/miguelangel-nubla/product-matcher/pkg/handlers"
	"github.com/miguelangel-nubla/product-matcher/pkg/matching"
	"github.com/miguelangel-nubla/product-matcher/pkg/normalize"
	"github.com/miguelangel-nubla/product-matcher/pkg/repositories"
	"github.com/miguelangel-nubla/product-matcher/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load("config.yaml", Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	stdDB := stdlib.OpenDBFromPool(db.Pool)
	if err := database.RunMigrations(stdDB, cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	if err := stdDB.Close(); err != nil {
		logger.Warn("Failed to close migration connection", zap.Error(err))
	}

	normalizers, err := buildNormalizers(cfg)
	if err != nil {
		logger.Fatal("Failed to build normalizers", zap.Error(err))
	}

	var similarity embedding.Similarity
	if cfg.Embedding.IsAvailable() {
		client, err := embedding.NewClient(&embedding.Config{
			Endpoint: cfg.Embedding.Endpoint,
			Model:    cfg.Embedding.Model,
			APIKey:   cfg.Embedding.APIKey,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to create embedding client", zap.Error(err))
		}
		similarity = client
	}

	strategies, err := matching.BuildStrategies(cfg.Matching.Strategies, similarity, cfg.Matching.SemanticTieDetection)
	if err != nil {
		logger.Fatal("Failed to build matching strategies", zap.Error(err))
	}
	pipeline := matching.NewPipeline(strategies, logger)

	backends, err := services.NewBackendRegistry(cfg.Backends, normalizers, logger)
	if err != nil {
		logger.Fatal("Failed to build backend registry", zap.Error(err))
	}

	pendingRepo := repositories.NewPendingQueryRepository(db)
	matchLogRepo := repositories.NewMatchLogRepository(db)

	pendingService := services.NewPendingService(pendingRepo, backends, logger)
	matcherService := services.NewMatcherService(backends, pipeline, cfg.Matching, pendingService, matchLogRepo, logger)
	statsService := services.NewStatsService(pendingRepo, matchLogRepo, backends, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewMatchingHandler(matcherService, logger).RegisterRoutes(mux)
	handlers.NewPendingHandler(pendingService, logger).RegisterRoutes(mux)
	handlers.NewBackendsHandler(backends, cfg.Matching, logger).RegisterRoutes(mux)
	handlers.NewStatsHandler(statsService, logger).RegisterRoutes(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting product-matcher",
		zap.String("addr", addr),
		zap.String("version", cfg.Version),
		zap.Strings("strategies", cfg.Matching.Strategies),
		zap.Int("backends", len(cfg.Backends)))

	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// buildNormalizers registers a normalizer for every language a backend uses,
// applying any per-language overrides from the configuration.
func buildNormalizers(cfg *config.Config) (*normalize.Registry, error) {
	overrides := make(map[string]config.LanguageConfig, len(cfg.Languages))
	for _, lc := range cfg.Languages {
		overrides[lc.Code] = lc
	}

	registry := normalize.NewRegistry()
	for _, backend := range cfg.Backends {
		lang := backend.Language
		if _, err := registry.Get(lang); err == nil {
			continue
		}

		opts := normalize.Options{}
		if lc, ok := overrides[lang]; ok {
			opts = normalize.Options{
				Lemmatizer: lc.Lemmatizer,
				Stopwords:  lc.Stopwords,
				Expansions: lc.Expansions,
			}
		}
		if err := registry.Register(lang, opts); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
