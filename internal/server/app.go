// Package server wires the vocabkeeper backend together: configuration,
// database and migrations, auth and vocabulary services, object storage,
// the REST API and the gRPC health service. It also handles graceful
// shutdown on SIGINT, SIGTERM and SIGQUIT.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/vocabkeeper/internal/logging"
	"github.com/dmitrijs2005/vocabkeeper/internal/server/auth"
	"github.com/dmitrijs2005/vocabkeeper/internal/server/config"
	"github.com/dmitrijs2005/vocabkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/vocabkeeper/internal/server/rest"
	"github.com/dmitrijs2005/vocabkeeper/internal/server/services"
	"github.com/dmitrijs2005/vocabkeeper/internal/server/storage"
	"github.com/dmitrijs2005/vocabkeeper/internal/server/telemetry"
	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/vocabkeeper/internal/server/grpc"
)

// Version is reported in trace resources. Set with -ldflags at build time.
var Version = "dev"

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	httpServer     *rest.Server
	healthServer   *gs.HealthServer
	shutdownTracer func(context.Context) error
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	if c.UsesInsecureSecret() {
		logger.Warn(ctx, "using the built-in development secret key; set VOCAB_SECRET_KEY in production")
	}

	telemetry.InitMetrics()

	shutdownTracer := func(context.Context) error { return nil }
	if c.TracingEnabled {
		fn, err := telemetry.InitTracer(Version, os.Stdout)
		if err != nil {
			return nil, fmt.Errorf("tracer init error: %w", err)
		}
		shutdownTracer = fn
	}

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	hasher, err := auth.NewArgon2idHasher(auth.DefaultArgon2Params())
	if err != nil {
		db.Close()
		return nil, err
	}

	tokens, err := auth.NewTokenService(c.SecretKey, c.SigningAlgorithm, c.AccessTokenTTL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("token service error: %w", err)
	}

	us, err := services.NewUserService(db, rm, hasher, tokens, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	presigner, err := storage.NewS3Presigner(ctx, storage.Config{
		Region:       c.S3Region,
		AccessKey:    c.S3RootUser,
		SecretKey:    c.S3RootPassword,
		BaseEndpoint: c.S3BaseEndpoint,
		Bucket:       c.S3Bucket,
		Expiry:       storage.DefaultExpiry,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("object storage error: %w", err)
	}

	vs := services.NewVocabularyService(db, rm, services.NewGuard(logger), presigner, storage.NewAudioKey, logger)

	handler := rest.NewHandler(us, vs, logger)

	return &App{
		config:         c,
		logger:         logger,
		db:             db,
		httpServer:     rest.NewServer(c.HTTPAddr, rest.NewRouter(handler), logger),
		healthServer:   gs.NewHealthServer(c.GRPCHealthAddr, db, logger),
		shutdownTracer: shutdownTracer,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "version", Version)

	app.initSignalHandler(cancelFunc)

	// either server failing stops the other
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := app.httpServer.Run(gctx); err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := app.healthServer.Run(gctx); err != nil {
			return fmt.Errorf("grpc health server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		app.logger.Error(ctx, "server failed", "error", err)
	}

	shutdownCtx := context.WithoutCancel(ctx)
	if err := app.shutdownTracer(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "tracer shutdown error", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(shutdownCtx, "db close error", "error", err)
	}

	app.logger.Info(shutdownCtx, "App stopped")
}
