// Package server wires configuration, storage, services and transports
// together and runs the HTTP API and gRPC health servers until shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophcal/internal/logging"
	"github.com/dmitrijs2005/gophcal/internal/server/auth"
	"github.com/dmitrijs2005/gophcal/internal/server/config"
	"github.com/dmitrijs2005/gophcal/internal/server/docstore"
	"github.com/dmitrijs2005/gophcal/internal/server/events"
	"github.com/dmitrijs2005/gophcal/internal/server/httpapi"
	"github.com/dmitrijs2005/gophcal/internal/server/schedules"
	"github.com/dmitrijs2005/gophcal/internal/server/users"

	gs "github.com/dmitrijs2005/gophcal/internal/server/grpc"
)

// seams for tests
var (
	openPostgresStore = func(ctx context.Context, dsn string) (docstore.Store, error) {
		return docstore.OpenPostgresStore(ctx, dsn)
	}

	openS3Store = func(ctx context.Context, o docstore.S3Options) (docstore.Store, error) {
		return docstore.NewS3Store(ctx, o)
	}
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	store      docstore.Store
	publisher  events.Publisher
	httpServer *httpapi.Server
	grpcServer *gs.GRPCServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger, err := logging.New(c.LogBackend, os.Stdout)
	if err != nil {
		return nil, err
	}

	if c.SecretKey == config.DefaultSecretKey {
		logger.Warn(ctx, "using the default JWT secret key, set -s or secret_key for production")
	}

	store, err := openStore(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	ur, err := users.NewJSONRepository(ctx, store, logger)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("users init error: %w", err)
	}

	sr, err := schedules.NewJSONRepository(ctx, store, logger)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("schedules init error: %w", err)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(c.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(c.KafkaBrokers, c.KafkaTopic)
		logger.Info(ctx, "publishing schedule events", "brokers", c.KafkaBrokers, "topic", c.KafkaTopic)
	}

	tokens := auth.NewTokenService([]byte(c.SecretKey), c.TokenExpiry())
	us := users.NewService(ur, tokens)
	ss := schedules.NewService(sr, publisher, logger)

	h := httpapi.NewHandler(us, ss, logger)
	hs := httpapi.NewServer(httpapi.Options{
		Address:            c.EndpointAddrHTTP,
		FriendsRequireAuth: c.FriendsRequireAuth,
		RateLimit:          c.RateLimit,
		RateBurst:          c.RateBurst,
		RateExpiresIn:      c.RateExpiresIn,
		ShutdownTimeout:    c.ShutdownTimeout,
	}, h, tokens, logger)

	var grpcServer *gs.GRPCServer
	if c.EndpointAddrGRPC != "" {
		grpcServer = gs.NewGRPCServer(c.EndpointAddrGRPC, logger)
	}

	return &App{
		config:     c,
		logger:     logger,
		store:      store,
		publisher:  publisher,
		httpServer: hs,
		grpcServer: grpcServer,
	}, nil
}

func openStore(ctx context.Context, c *config.Config) (docstore.Store, error) {
	switch c.StorageBackend {
	case config.StorageFile, "":
		return docstore.NewFileStore(c.DataDir)
	case config.StorageS3:
		return openS3Store(ctx, docstore.S3Options{
			Region:       c.S3Region,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			BaseEndpoint: c.S3BaseEndpoint,
			Bucket:       c.S3Bucket,
			Prefix:       c.S3Prefix,
		})
	case config.StoragePostgres:
		return openPostgresStore(ctx, c.DatabaseDSN)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.httpServer.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.grpcServer.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until a termination signal arrives, ctx is cancelled or a
// server fails, then releases storage and the event publisher.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.StorageBackend)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	if app.grpcServer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startGRPCServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	app.logger.Info(context.Background(), "App stopped")

	return errors.Join(app.publisher.Close(), app.store.Close())
}
