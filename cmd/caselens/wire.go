package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/caselens/internal/config"
	dbRedis "github.com/kailas-cloud/caselens/internal/db/redis"
	"github.com/kailas-cloud/caselens/internal/metrics"
	"github.com/kailas-cloud/caselens/internal/repository/casecache"
	"github.com/kailas-cloud/caselens/internal/transport/backend"
	openaiAnswer "github.com/kailas-cloud/caselens/internal/transport/openai"
	caseuc "github.com/kailas-cloud/caselens/internal/usecase/casefile"
	documentuc "github.com/kailas-cloud/caselens/internal/usecase/document"
	healthuc "github.com/kailas-cloud/caselens/internal/usecase/health"
	searchuc "github.com/kailas-cloud/caselens/internal/usecase/search"
)

// app holds the services shared by serve and the one-shot commands.
type app struct {
	backend   *backend.Client
	answerer  searchuc.Answerer
	cases     *caseuc.Service
	documents *documentuc.Service
	health    *healthuc.Service
	session   searchuc.Options
}

// buildApp is the composition root. The returned cleanup closes the cache store.
func buildApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, func(), error) {
	metrics.RegisterBackendMetrics()

	client := backend.NewClient(&backend.Config{
		BaseURL:       cfg.Backend.BaseURL,
		APITimeout:    cfg.Backend.APITimeout(),
		SearchTimeout: cfg.Backend.SearchTimeout(),
		RetryAttempts: cfg.Backend.Retries(),
		RetryDelay:    cfg.Backend.RetryDelay(),
		Logger:        logger,
	})

	// Pass nil interfaces, not typed nil pointers: a (*Answerer)(nil) wrapped
	// in an interface is not nil.
	var (
		answerer      searchuc.Answerer
		answerChecker healthuc.AnswerChecker
	)
	if cfg.AIAnswersEnabled() {
		switch cfg.Answer.Provider {
		case config.ProviderOpenAI:
			oa := openaiAnswer.NewAnswerer(&openaiAnswer.Config{
				APIKey:  cfg.Answer.APIKey,
				BaseURL: cfg.Answer.BaseURL,
				Model:   cfg.Answer.Model,
				Timeout: time.Duration(cfg.Answer.TimeoutMs) * time.Millisecond,
				Logger:  logger,
			})
			answerer, answerChecker = oa, oa
		default:
			answerer = client
		}
	}

	var (
		lookup  caseuc.Lookup = client
		pinger  healthuc.CachePinger
		cleanup = func() {}
	)
	switch cfg.Cache.Driver {
	case config.DriverValkey, config.DriverRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Username: cfg.Cache.Username,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("create %s store: %w", cfg.Cache.Driver, err)
		}
		timeout := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
		if err := s.WaitForReady(ctx, timeout); err != nil {
			s.Close()
			return nil, nil, fmt.Errorf("%s store not ready: %w", cfg.Cache.Driver, err)
		}
		logger.Info("Connected to case cache",
			zap.String("driver", cfg.Cache.Driver),
			zap.Strings("addrs", cfg.Cache.Addrs),
		)
		pinger, cleanup = s, s.Close
		lookup = casecache.New(client, s, cfg.Cache.KeyPrefix,
			time.Duration(cfg.Cache.CaseTTLSec)*time.Second, metrics.CaseCacheTotal, logger)
	}

	mode := searchuc.AnswerOff
	if answerer != nil {
		mode = searchuc.AnswerSync
		if cfg.AsyncAnswersEnabled() {
			mode = searchuc.AnswerAsync
		}
	}

	return &app{
		backend:   client,
		answerer:  answerer,
		cases:     caseuc.New(lookup),
		documents: documentuc.New(client, cfg.Backend.StorageScheme),
		health:    healthuc.New(client, pinger, answerChecker),
		session: searchuc.Options{
			Search:        cfg.Search.DomainSearch(),
			AnswerMode:    mode,
			AnswerTimeout: time.Duration(cfg.Answer.TimeoutMs) * time.Millisecond,
			Logger:        logger,
		},
	}, cleanup, nil
}

// newSession creates an orchestrator session over the shared backend.
func (a *app) newSession(mode searchuc.AnswerMode) *searchuc.Session {
	opts := a.session
	opts.AnswerMode = mode
	return searchuc.NewSession(a.backend, a.answerer, opts)
}
