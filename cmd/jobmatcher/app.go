package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/skillbridge/jobmatcher/internal/cache"
	"github.com/skillbridge/jobmatcher/internal/config"
	"github.com/skillbridge/jobmatcher/internal/cvparse"
	"github.com/skillbridge/jobmatcher/internal/db"
	"github.com/skillbridge/jobmatcher/internal/ingest"
	"github.com/skillbridge/jobmatcher/internal/locks"
	"github.com/skillbridge/jobmatcher/internal/logging"
	"github.com/skillbridge/jobmatcher/internal/matching"
	"github.com/skillbridge/jobmatcher/internal/pipeline"
	"github.com/skillbridge/jobmatcher/internal/recommend"
	"github.com/skillbridge/jobmatcher/internal/sources"
	"github.com/skillbridge/jobmatcher/internal/tasks"
	"github.com/skillbridge/jobmatcher/internal/vectorindex"
)

// application holds every wired component plus the cleanup chain.
type application struct {
	cfg         *config.Config
	logger      *zap.Logger
	store       *db.DB
	recommender *recommend.Recommender
	matcher     *matching.Engine
	processor   *pipeline.Processor
	app         *tasks.App
	runner      *tasks.Runner

	closers []func()
}

func (a *application) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// buildApplication wires configuration, storage, and all services. The
// embedding matcher is only constructed when an API key is configured.
func buildApplication(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.LogJSON, cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	a := &application{cfg: cfg, logger: logger}
	a.closers = append(a.closers, func() { _ = logger.Sync() })

	store, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.store = store
	a.closers = append(a.closers, store.Close)

	if err := store.EnsureSchema(ctx); err != nil {
		a.Close()
		return nil, err
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, func() { _ = redisClient.Close() })

	resultCache := cache.New(redisClient)
	lockMgr := locks.NewManager(redisClient)
	vectors := vectorindex.New(redisClient)

	adapters := []sources.Adapter{
		&sources.RemoteOK{},
		&sources.Arbeitnow{},
		&sources.WeWorkRemotely{},
		&sources.Adzuna{AppID: cfg.AdzunaAppID, AppKey: cfg.AdzunaAppKey, Country: cfg.AdzunaCountry},
	}
	orchestrator := sources.NewOrchestrator(adapters, cfg.FetchTimeout, logger)
	ingester := ingest.NewEngine(store, logger)

	a.recommender = recommend.New(store, logger)
	if err := a.recommender.Refresh(ctx); err != nil {
		a.Close()
		return nil, err
	}

	if cfg.GeminiAPIKey != "" {
		embedder, err := matching.NewGeminiEmbedder(ctx, cfg.GeminiAPIKey, "")
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = embedder.Close() })
		a.matcher = matching.NewEngine(store, vectors, resultCache, embedder, logger)
	} else {
		logger.Info("no embedding API key configured, embedding matches disabled")
	}

	vocab, err := cvparse.LoadVocabulary(ctx, store)
	if err != nil {
		a.Close()
		return nil, err
	}
	parser := cvparse.NewParser(vocab)
	files := pipeline.LocalFiles{Dir: cfg.CVUploadDir}
	a.processor = pipeline.NewProcessor(store, files, parser, a.recommender, logger)

	a.app = tasks.NewApp(cfg, store, orchestrator, ingester, a.recommender, a.matcher, a.processor, logger)
	a.runner = tasks.NewRunner(a.app, lockMgr, logger)

	return a, nil
}
