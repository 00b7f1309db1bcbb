package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"triage/internal/classifier"
	"triage/internal/compose"
	"triage/internal/config"
	"triage/internal/corpus"
	"triage/internal/diagnosis"
	"triage/internal/embedding/tfidf"
	"triage/internal/httpapi"
	"triage/internal/knowledge"
	"triage/internal/llm"
	"triage/internal/retriever"
	"triage/internal/session"
	"triage/internal/specialty"
	"triage/internal/summarizer"
	"triage/internal/textnorm"
	"triage/internal/urgency"
	"triage/internal/vectorstore"
	"triage/internal/vectorstore/memory"
	"triage/internal/vectorstore/qdrant"
)

// app holds the assembled components. Load failures degrade the matching
// component instead of aborting startup.
type app struct {
	cfg       *config.AppConfig
	model     *classifier.Model
	retriever *retriever.Retriever
	composer  *compose.Composer
	engine    *diagnosis.Engine
	sessions  session.Store
	closers   []func() error
}

func buildApp(ctx context.Context, cfg *config.AppConfig) (*app, error) {
	a := &app{cfg: cfg}
	norm := textnorm.New()

	base, _ := knowledge.LoadOrFallback(cfg.Data.KnowledgeBase)
	a.model = classifier.New(base, norm)
	if err := a.model.Fit(); err != nil {
		log.Error().Err(err).Str("component", "wire").Msg("classifier training failed, diagnoses unavailable")
	}

	store, err := newVectorStore(cfg.VectorStore)
	if err != nil {
		return nil, err
	}
	a.retriever = retriever.New(norm, tfidf.NewEmbedder(), store)
	records, err := corpus.Load(corpus.Paths{
		Tabular:      cfg.Data.Tabular,
		Dictionary:   cfg.Data.Dictionary,
		DocumentsDir: cfg.Data.DocumentsDir,
	}, corpus.DefaultSources())
	if err != nil {
		log.Error().Err(err).Str("component", "wire").Msg("corpus unavailable, retrieval disabled")
	} else if err := a.retriever.Build(ctx, records.Records()); err != nil {
		log.Error().Err(err).Str("component", "wire").Msg("corpus indexing failed, retrieval disabled")
	}

	a.composer = compose.New(
		newGenerator(cfg.Generator),
		summarizer.NewFrequencySummarizer(norm.Tokens),
		time.Duration(cfg.Generator.TimeoutSecs)*time.Second,
	)

	a.sessions, err = a.newSessionStore(ctx, cfg.Session)
	if err != nil {
		return nil, err
	}

	a.engine = diagnosis.NewEngine(diagnosis.Dependencies{
		Normalizer:  norm,
		Screener:    urgency.NewDefault(norm),
		Classifier:  a.model,
		Retriever:   a.retriever,
		Composer:    a.composer,
		Specialties: specialty.NewTable(norm),
		Doctors:     specialty.LoadDirectoryOrEmpty(cfg.Data.Doctors, norm),
		Sessions:    a.sessions,
	})
	return a, nil
}

func (a *app) health() httpapi.Health {
	return httpapi.Health{
		Status:     "ok",
		Classifier: a.model.Trained(),
		Retriever:  a.retriever.Ready(),
		Records:    a.retriever.Len(),
	}
}

func (a *app) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

func newVectorStore(cfg config.VectorStoreConfig) (vectorstore.Storage, error) {
	switch cfg.Type {
	case "memory", "":
		return memory.NewStorage(), nil
	case "qdrant":
		if cfg.Qdrant == nil {
			return nil, errors.New("qdrant config missing")
		}
		return qdrant.NewStorage(qdrant.Config{
			URL:        cfg.Qdrant.URL,
			APIKey:     cfg.Qdrant.APIKey,
			Collection: cfg.Qdrant.Collection,
			Timeout:    time.Duration(cfg.Qdrant.TimeoutSecs) * time.Second,
		}), nil
	default:
		return nil, fmt.Errorf("unknown vector store: %s", cfg.Type)
	}
}

// newGenerator returns nil when generation is off or cannot be configured;
// the composer then answers from templates.
func newGenerator(cfg config.GeneratorConfig) llm.Generator {
	switch cfg.Type {
	case "openai":
		client, err := llm.NewOpenAIClient(llm.Config{
			BaseURL:     cfg.BaseURL,
			APIKeyEnv:   cfg.APIKeyEnv,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Timeout:     time.Duration(cfg.TimeoutSecs) * time.Second,
			MaxRetries:  cfg.MaxRetries,
		})
		if err != nil {
			log.Warn().Err(err).Str("component", "wire").Msg("generator disabled")
			return nil
		}
		return client
	case "none", "":
		return nil
	default:
		log.Warn().Str("component", "wire").Str("type", cfg.Type).Msg("unknown generator, using templates")
		return nil
	}
}

func (a *app) newSessionStore(ctx context.Context, cfg config.SessionConfig) (session.Store, error) {
	ttl := time.Duration(cfg.TTLSecs) * time.Second
	switch cfg.Type {
	case "memory", "":
		return session.NewMemoryStore(ttl), nil
	case "redis":
		if cfg.Redis == nil {
			return nil, errors.New("redis session config missing")
		}
		rc := session.RedisConfig{
			Addr:      cfg.Redis.Addr,
			Password:  os.Getenv(cfg.Redis.PasswordEnv),
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
			TTL:       ttl,
			LockTTL:   time.Duration(cfg.Redis.LockTTLSecs) * time.Second,
			LockWait:  time.Duration(cfg.Redis.LockWaitSecs) * time.Second,
		}
		client, err := session.NewRedisClient(ctx, rc)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		return session.NewRedisStore(client, rc), nil
	default:
		return nil, fmt.Errorf("unknown session store: %s", cfg.Type)
	}
}
