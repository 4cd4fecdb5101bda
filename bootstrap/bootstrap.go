// Package bootstrap turns a loaded Config into the pipeline's runtime pieces.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"bailbridge-backend/config"
	"bailbridge-backend/gemini"
	"bailbridge-backend/prompt"
	"bailbridge-backend/reference"
	"bailbridge-backend/repository"
	"bailbridge-backend/service"
	"bailbridge-backend/storage"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrDatabaseURLMissing is returned when the postgres source has no database.url
var ErrDatabaseURLMissing = eris.New("bootstrap: database.url is required for the postgres reference source")

// Closer releases a resource opened during setup
type Closer func()

func noop() {}

// NewPostgresPool opens and pings a pgx pool
func NewPostgresPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	if url == "" {
		return nil, ErrDatabaseURLMissing
	}

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, eris.Wrap(err, "bootstrap: open postgres pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "bootstrap: ping postgres")
	}

	zap.L().Info("postgres connection established")
	return pool, nil
}

// NewLoader builds the reference loader named by cfg.Reference.Source
func NewLoader(ctx context.Context, cfg *config.Config) (reference.Loader, Closer, error) {
	switch reference.Source(cfg.Reference.Source) {
	case reference.SourceHTTP, "":
		return reference.NewHTTPLoader(
			reference.WithBaseURL(datasetBaseURL(cfg)),
			reference.WithPath(cfg.Reference.Path),
			reference.WithHTTPClient(&http.Client{}),
		), noop, nil

	case reference.SourceStorage:
		store, err := storage.NewStorage(ctx, cfg.Storage)
		if err != nil {
			return nil, nil, eris.Wrap(err, "bootstrap: init storage")
		}
		return reference.NewStorageLoader(store, cfg.Reference.ObjectKey), noop, nil

	case reference.SourcePostgres:
		pool, err := NewPostgresPool(ctx, cfg.Database.URL)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewSectionRepository(pool)
		return reference.NewRepositoryLoader(repo), pool.Close, nil

	case reference.SourceEmbedded:
		return reference.EmbeddedLoader{}, noop, nil

	default:
		return nil, nil, eris.Errorf("bootstrap: unknown reference source %q", cfg.Reference.Source)
	}
}

// datasetBaseURL pins the HTTP loader to this server's own listener unless a
// base URL is configured or the request origin is explicitly trusted
func datasetBaseURL(cfg *config.Config) string {
	if cfg.Reference.BaseURL != "" || cfg.Reference.TrustRequestOrigin {
		return cfg.Reference.BaseURL
	}
	return fmt.Sprintf("http://127.0.0.1:%d", cfg.Server.Port)
}

// NewGenerator builds the completion backend named by cfg.Gemini.Backend
func NewGenerator(ctx context.Context, cfg *config.Config) (gemini.Generator, Closer, error) {
	if cfg.Gemini.APIKey == "" {
		zap.L().Warn("gemini api key not set; completion calls will be rejected upstream")
	}

	switch cfg.Gemini.Backend {
	case "rest", "":
		return gemini.NewRESTClient(cfg.Gemini.APIKey,
			gemini.WithBaseURL(cfg.Gemini.BaseURL),
			gemini.WithModel(cfg.Gemini.Model),
			gemini.WithHTTPClient(&http.Client{Timeout: cfg.Gemini.Timeout}),
		), noop, nil

	case "sdk":
		if cfg.Gemini.BaseURL != "" && cfg.Gemini.BaseURL != gemini.DefaultBaseURL {
			zap.L().Warn("gemini.base_url is ignored by the sdk backend")
		}
		client, err := gemini.NewSDKClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, gemini.DefaultGenerationConfig,
			gemini.WithRequestTimeout(cfg.Gemini.Timeout),
		)
		if err != nil {
			return nil, nil, eris.Wrap(err, "bootstrap: init gemini sdk client")
		}
		return client, func() { _ = client.Close() }, nil

	default:
		return nil, nil, eris.Errorf("bootstrap: unknown gemini backend %q", cfg.Gemini.Backend)
	}
}

// NewSuggestionService wires loader, generator and prompt revision together.
// The returned Closer releases everything opened.
func NewSuggestionService(ctx context.Context, cfg *config.Config) (*service.SuggestionService, Closer, error) {
	rev, err := prompt.ParseRevision(cfg.Prompt.Revision)
	if err != nil {
		return nil, nil, eris.Wrap(err, "bootstrap: prompt revision")
	}

	loader, closeLoader, err := NewLoader(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	gen, closeGen, err := NewGenerator(ctx, cfg)
	if err != nil {
		closeLoader()
		return nil, nil, err
	}

	zap.L().Info("suggestion pipeline ready",
		zap.String("reference_source", cfg.Reference.Source),
		zap.String("gemini_backend", cfg.Gemini.Backend),
		zap.String("gemini_model", cfg.Gemini.Model),
		zap.String("prompt_revision", string(rev)),
	)

	svc := service.NewSuggestionService(
		service.SuggestWithReferenceLoader(loader),
		service.SuggestWithGenerator(gen),
		service.SuggestWithRevision(rev),
	)
	return svc, func() {
		closeGen()
		closeLoader()
	}, nil
}
