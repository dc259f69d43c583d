package main

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/myrjola/fitcycle/internal/catalog"
	"github.com/myrjola/fitcycle/internal/envstruct"
	"github.com/myrjola/fitcycle/internal/errors"
	"github.com/myrjola/fitcycle/internal/flightrecorder"
	"github.com/myrjola/fitcycle/internal/logging"
	"github.com/myrjola/fitcycle/internal/metrics"
	"github.com/myrjola/fitcycle/internal/program"
	"github.com/myrjola/fitcycle/internal/sqlite"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

type application struct {
	logger   *slog.Logger
	programs *program.Service
	markdown goldmark.Markdown
	metrics  *metrics.Metrics
	// flightRecorder is nil unless a traces directory is configured.
	flightRecorder *flightrecorder.Recorder
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"FITCYCLE_ADDR" envDefault:"localhost:8081"`
	// SqliteURL is the URL to the SQLite database. You can use ":memory:" for an ethereal in-memory database.
	SqliteURL string `env:"FITCYCLE_SQLITE_URL" envDefault:"./fitcycle.sqlite3"`
	// CatalogPath optionally points to a YAML exercise file that is upserted into the catalog on startup.
	CatalogPath string `env:"FITCYCLE_CATALOG_PATH" envDefault:""`
	// RandomSeed makes exercise selection reproducible. Zero picks a random seed.
	RandomSeed int `env:"FITCYCLE_RANDOM_SEED" envDefault:"0"`
	// TracesDirectory enables the flight recorder. Traces of timed out requests are written there.
	TracesDirectory string `env:"FITCYCLE_TRACES_DIRECTORY" envDefault:""`
}

type logConfig struct {
	Level string `env:"FITCYCLE_LOG_LEVEL" envDefault:"info"`
	// File additionally writes the log to a rotated file.
	File string `env:"FITCYCLE_LOG_FILE" envDefault:""`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cancel context.CancelFunc
		err    error
	)

	ctx, cancel = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cfg config
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(context.Background(), slog.LevelError, "close db", errors.SlogError(closeErr))
		}
	}()
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db")

	repo := catalog.NewRepository(db)
	if cfg.CatalogPath != "" {
		if err = importCatalog(ctx, repo, cfg.CatalogPath, logger); err != nil {
			return errors.Wrap(err, "import catalog", slog.String("path", cfg.CatalogPath))
		}
	}
	var exercises *catalog.Catalog
	if exercises, err = catalog.Load(ctx, repo, logger); err != nil {
		return errors.Wrap(err, "load catalog")
	}

	var programs *program.Service
	if programs, err = program.NewService(
		program.NewSQLiteStorage(db),
		exercises,
		newRand(cfg.RandomSeed),
		logger,
	); err != nil {
		return errors.Wrap(err, "new program service")
	}

	var recorder *flightrecorder.Recorder
	if cfg.TracesDirectory != "" {
		if recorder, err = flightrecorder.New(logger, flightrecorder.Config{Directory: cfg.TracesDirectory}); err != nil {
			return errors.Wrap(err, "new flight recorder")
		}
		if err = recorder.Start(ctx); err != nil {
			return errors.Wrap(err, "start flight recorder")
		}
		defer recorder.Stop(context.Background())
	}

	app := application{
		logger:         logger,
		programs:       programs,
		markdown:       goldmark.New(goldmark.WithRendererOptions(html.WithHardWraps())),
		metrics:        metrics.New(),
		flightRecorder: recorder,
	}

	if err = app.configureAndStartServer(ctx, cfg.Addr); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

func importCatalog(ctx context.Context, repo *catalog.Repository, path string, logger *slog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open catalog file")
	}
	defer f.Close()
	exercises, err := catalog.ParseYAML(f)
	if err != nil {
		return errors.Wrap(err, "parse catalog file")
	}
	n, err := catalog.Import(ctx, repo, exercises)
	if err != nil {
		return err //nolint:wrapcheck // already wrapped by catalog
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "imported exercises", slog.Int("count", n))
	return nil
}

func newRand(seed int) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // not used for security
	}
	return rand.New(rand.NewPCG(uint64(seed), 0)) //nolint:gosec // seed is user provided
}

func main() {
	ctx := context.Background()
	var lcfg logConfig
	if err := envstruct.Populate(&lcfg, os.LookupEnv); err != nil {
		slog.Default().LogAttrs(ctx, slog.LevelError, "populate log config", errors.SlogError(err))
		os.Exit(1)
	}
	level, err := logging.ParseLevel(lcfg.Level)
	if err != nil {
		slog.Default().LogAttrs(ctx, slog.LevelError, "parse log level", errors.SlogError(err))
		os.Exit(1)
	}
	out, closer := logging.Output(os.Stdout, lcfg.File)
	logger := logging.New(out, level)
	err = run(ctx, logger, os.LookupEnv)
	if err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
	}
	if closeErr := closer.Close(); closeErr != nil {
		slog.Default().LogAttrs(ctx, slog.LevelError, "close log file", errors.SlogError(closeErr))
	}
	if err != nil {
		os.Exit(1)
	}
}
