package app

import (
	"context"
	"fmt"

	"github.com/blart-ai/blart-server/internal/config"
	"github.com/blart-ai/blart-server/internal/db"
	"github.com/blart-ai/blart-server/internal/db/drivers"
	"github.com/blart-ai/blart-server/internal/db/repository"
	"github.com/blart-ai/blart-server/internal/services/filestorage"
	"github.com/blart-ai/blart-server/internal/services/generation"
	"github.com/blart-ai/blart-server/internal/services/promptfilter"
	"github.com/blart-ai/blart-server/internal/services/ratelimit"
	"github.com/blart-ai/blart-server/pkg/logger"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

type App struct {
	db          *bun.DB
	config      *config.Config
	ctx         context.Context
	cancelFunc  context.CancelFunc
	fileStorage filestorage.FileStorage
	limiter     ratelimit.Limiter
	screener    *promptfilter.Screener
	fetcher     *generation.HTTPReferenceFetcher
	generation  *generation.Service

	Logger *zap.Logger

	APIKeyRepository       repository.IAPIKeyRepository
	ArtworkRepository      repository.IArtworkRepository
	DownloadRepository     repository.IDownloadRepository
	EventRepository        repository.IEventRepository
	PrintProductRepository repository.IPrintProductRepository
	SettingRepository      repository.ISettingRepository
	StyleRepository        repository.IStyleRepository
}

// Option funcs used to initialize the App struct
type OptionFunc func(app *App) error

func WithDB(driver drivers.Driver) OptionFunc {
	return func(app *App) error {
		app.db = driver.GetDB()
		app.initRepositories()
		return nil
	}
}

func WithLogger(logger *zap.Logger) OptionFunc {
	return func(app *App) error {
		app.Logger = logger
		return nil
	}
}

// WithDBInitialization opens the configured database and makes sure every
// table exists. Seed data comes from migrations.
func WithDBInitialization() OptionFunc {
	return func(app *App) error {
		conn, err := db.NewConnection(app.ctx, app.config)
		if err != nil {
			return err
		}
		app.db = conn.GetDB()

		err = app.db.RunInTx(app.ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if err := db.CreateTables(ctx, tx); err != nil {
				return fmt.Errorf("failed to create tables: %w", err)
			}
			return nil
		})
		if err != nil {
			return err
		}

		app.initRepositories()
		return nil
	}
}

func WithFileStorage(storage filestorage.FileStorage) OptionFunc {
	return func(app *App) error {
		if storage == nil {
			s, err := filestorage.NewFileStorage(app.ctx, app.config)
			if err != nil {
				return err
			}
			storage = s
		}

		app.fileStorage = storage
		return nil
	}
}

func WithRateLimiter(limiter ratelimit.Limiter) OptionFunc {
	return func(app *App) error {
		if limiter == nil {
			l, err := ratelimit.NewLimiter(app.ctx, app.config)
			if err != nil {
				return err
			}
			limiter = l
		}

		app.limiter = limiter
		return nil
	}
}

func WithPromptScreener() OptionFunc {
	return func(app *App) error {
		if !app.config.Generation.ScreenPrompts {
			return nil
		}
		if app.config.OpenAI == nil || app.config.OpenAI.APIKey == "" {
			return fmt.Errorf("openAI API-key is not set. Cannot enable prompt screening")
		}

		screener, err := promptfilter.NewScreener(app.config.OpenAI.APIKey)
		if err != nil {
			return err
		}

		app.screener = screener
		return nil
	}
}

// WithGeneration builds the generation service on top of the database and
// file storage, so it must come after both options. A missing image model
// key leaves the service in place; every generation then fails with
// generation.ErrConfigurationMissing.
func WithGeneration(opts ...generation.Option) OptionFunc {
	return func(app *App) error {
		if app.db == nil || app.fileStorage == nil {
			return fmt.Errorf("generation requires a database and file storage")
		}

		genCfg := app.config.Generation
		app.fetcher = generation.NewHTTPReferenceFetcher(genCfg.FetchWorkers, genCfg.FetchTimeout, genCfg.MaxReferenceEdge, app.fileStorage, app.Logger)

		deps := generation.Dependencies{
			Styles:   app.StyleRepository,
			Settings: app.SettingRepository,
			Artworks: app.ArtworkRepository,
			Blobs:    app.fileStorage,
			Events:   app.EventRepository,
			Fetcher:  app.fetcher,
		}
		if app.screener != nil {
			deps.Screener = app.screener
		}

		synth, err := generation.NewGeminiSynthesizer(app.ctx, app.config.GeminiAPIKey(), app.config.GeminiModel())
		if err != nil {
			app.Logger.Warn("image model unavailable, generation requests will fail", zap.Error(err))
		} else {
			deps.Synthesizer = synth
		}

		base := []generation.Option{
			generation.WithLogger(app.Logger.Named("generation")),
			generation.WithBatchDelay(genCfg.BatchDelay),
			generation.WithMaxBatchSize(genCfg.MaxBatchSize),
		}
		app.generation = generation.NewService(deps, append(base, opts...)...)
		return nil
	}
}

// WithGenerationService replaces the generation service, mostly for tests.
func WithGenerationService(service *generation.Service) OptionFunc {
	return func(app *App) error {
		app.generation = service
		return nil
	}
}

func NewApp(config *config.Config, options ...OptionFunc) (*App, error) {
	logger, err := logger.InitLogger(config)
	if err != nil {
		return nil, err
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())

	app := &App{
		ctx:        ctx,
		config:     config,
		Logger:     logger,
		cancelFunc: cancel,
	}

	for _, opt := range options {
		if err := opt(app); err != nil {
			// Continue even if some options fail
			app.Logger.Error("failed to apply option", zap.Error(err))
		}
	}

	return app, nil
}

func (app *App) initRepositories() {
	app.APIKeyRepository = repository.NewAPIKeyRepository(app.db)
	app.ArtworkRepository = repository.NewArtworkRepository(app.db)
	app.DownloadRepository = repository.NewDownloadRepository(app.db)
	app.EventRepository = repository.NewEventRepository(app.db)
	app.PrintProductRepository = repository.NewPrintProductRepository(app.db)
	app.SettingRepository = repository.NewSettingRepository(app.db)
	app.StyleRepository = repository.NewStyleRepository(app.db)
}

func (app *App) Close() {
	app.cancelFunc()

	if app.fetcher != nil {
		app.fetcher.Stop()
	}
	if app.db != nil {
		app.db.Close()
	}
}

func (app *App) Config() *config.Config {
	return app.config
}

func (app *App) Context() context.Context {
	return app.ctx
}

func (app *App) DB() *bun.DB {
	return app.db
}

func (app *App) FileStorage() filestorage.FileStorage {
	return app.fileStorage
}

func (app *App) RateLimiter() ratelimit.Limiter {
	return app.limiter
}

func (app *App) Generation() *generation.Service {
	return app.generation
}
