package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/agency-admin-api/internal/api"
	"github.com/agency-admin-api/internal/auth"
	"github.com/agency-admin-api/internal/config"
	"github.com/agency-admin-api/internal/database"
	"github.com/agency-admin-api/internal/draft"
	"github.com/agency-admin-api/internal/markdown"
	"github.com/agency-admin-api/internal/metrics"
	"github.com/agency-admin-api/internal/repository"
	"github.com/agency-admin-api/internal/seed"
	"github.com/agency-admin-api/internal/service"
	"github.com/agency-admin-api/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// App holds the wired components shared by the server and the admin CLI
type App struct {
	Config    *config.Config
	Log       zerolog.Logger
	Metrics   *metrics.Metrics
	DB        *database.DB // nil unless the remote store is selected
	Repos     *repository.Repositories
	Services  *service.Services
	Assistant *draft.Assistant
	Sessions  *auth.Manager

	closers []io.Closer
}

// New opens the configured record store and builds every component on top of it
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	a := &App{
		Config:  cfg,
		Log:     log,
		Metrics: metrics.New(),
	}

	content, err := a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	services, err := a.servicesBackend(content)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Repos = repository.NewRepositories(content, services,
		repository.WithLogger(log),
		repository.WithMetrics(a.Metrics),
	)
	a.Services = service.NewServices(a.Repos, cfg, log)
	a.Assistant = draft.NewAssistant(a.generator(ctx),
		draft.WithTimeout(cfg.GenAI.Timeout),
		draft.WithLogger(log),
		draft.WithMetrics(a.Metrics),
	)
	a.Sessions = auth.NewManager(
		auth.Credentials{Username: cfg.Auth.Username, Password: cfg.Auth.Password},
		auth.Policy{TTL: cfg.Auth.SessionTTL},
	)

	log.Info().
		Str("store", content.Name()).
		Str("services_store", services.Name()).
		Msg("Record store ready")

	return a, nil
}

// openStore returns the backend for the editable collections
func (a *App) openStore(ctx context.Context) (storage.Backend, error) {
	cfg := a.Config
	if cfg.Store.Backend == config.BackendRemote {
		db, err := database.New(&cfg.Database, a.Log)
		if err != nil {
			return nil, err
		}
		a.DB = db
		a.closers = append(a.closers, db)

		if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
			return nil, err
		}
		return storage.NewDocStore(db), nil
	}

	var blob storage.Blob
	switch cfg.Store.LocalBlob {
	case config.BlobMemory:
		blob = storage.NewMemoryBlob()
	case config.BlobSQLite:
		sqlite, err := storage.NewSQLiteBlob(cfg.Store.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		a.closers = append(a.closers, sqlite)
		blob = sqlite
	case config.BlobS3:
		s3, err := storage.NewS3Blob(ctx, storage.S3Config{
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			Prefix:          cfg.S3.Prefix,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			PathStyle:       cfg.S3.PathStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open s3 store: %w", err)
		}
		blob = s3
	default:
		return nil, fmt.Errorf("unsupported local blob %q", cfg.Store.LocalBlob)
	}

	return storage.NewKV(blob, storage.WithName(config.BackendLocal)), nil
}

// servicesBackend keeps services in the bundled catalog unless they are persisted remotely
func (a *App) servicesBackend(content storage.Backend) (storage.Backend, error) {
	if a.Config.Store.Backend != config.BackendRemote || a.Config.Store.ServicesPersisted {
		return content, nil
	}
	catalog, err := seed.Load()
	if err != nil {
		return nil, err
	}
	return storage.NewStatic(catalog.ServiceDocuments()), nil
}

func (a *App) generator(ctx context.Context) draft.Generator {
	if a.Config.GenAI.APIKey == "" {
		a.Log.Warn().Msg("GENAI_API_KEY not set, drafts will return the failure placeholder")
		return nil
	}
	gen, err := draft.NewGenAIGenerator(ctx, a.Config.GenAI.APIKey, a.Config.GenAI.Model)
	if err != nil {
		a.Log.Error().Err(err).Msg("Failed to create draft generator")
		return nil
	}
	return gen
}

// Seed fills empty collections with the bundled catalog
func (a *App) Seed(ctx context.Context) (seed.Report, error) {
	catalog, err := seed.Load()
	if err != nil {
		return nil, err
	}
	return seed.Apply(ctx, a.Repos, catalog, a.Log)
}

// Router builds the HTTP handler over the wired components
func (a *App) Router() *gin.Engine {
	opts := api.Options{
		Assistant: a.Assistant,
		Sessions:  a.Sessions,
		Renderer:  markdown.NewRenderer(),
		Metrics:   a.Metrics,
	}
	if a.DB != nil {
		opts.HealthCheck = a.DB.HealthCheck
		opts.DBStats = a.DB.Stats
	}
	return api.NewRouter(a.Services, a.Config, opts, a.Log)
}

// Close releases the store connections
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
