package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"

	config "github.com/platedepot/catalog-sync/internal/cfg"
	v1Http "github.com/platedepot/catalog-sync/internal/delivery/v1/http"
	"github.com/platedepot/catalog-sync/internal/infrastructure/kafka"
	"github.com/platedepot/catalog-sync/internal/infrastructure/stripeapi"
	"github.com/platedepot/catalog-sync/internal/repository/pgdb"
	pgdbConv "github.com/platedepot/catalog-sync/internal/repository/pgdb/converter"
	redisRepo "github.com/platedepot/catalog-sync/internal/repository/redis"
	"github.com/platedepot/catalog-sync/internal/usecase"
	"github.com/platedepot/catalog-sync/pkg/clients"
	"github.com/platedepot/catalog-sync/pkg/closer"
	"github.com/platedepot/catalog-sync/pkg/e"
	"github.com/platedepot/catalog-sync/pkg/logger"
	"github.com/platedepot/catalog-sync/pkg/postgres"
)

// App собирает все компоненты движка синхронизации и управляет их жизненным циклом.
type App struct {
	cfg    *config.Config
	logger logger.Logger

	db          *postgres.PgDatabase
	redisClient *clients.RedisClient
	producer    *kafka.Producer
	worker      *kafka.OutboxWorker
	httpSrv     *v1Http.Server
	closer      *closer.Closer
}

func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	const op = "app.NewApp"

	cl := closer.NewCloser(2 * time.Second)

	db, err := initPGDB(log, cfg)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	cl.Add(func(ctx context.Context) error {
		db.Close()
		return nil
	})

	redisClient := clients.NewRedisClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		return nil, e.Wrap(op, err)
	}
	cl.Add(func(ctx context.Context) error {
		return redisClient.Client.Close()
	})

	producer, err := kafka.NewProducer(log, cfg.Kafka)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if err := producer.EnsureTopic(10 * time.Second); err != nil {
		log.Warnf("kafka topic check failed, events delivery may lag: %v", err)
	}
	cl.Add(func(ctx context.Context) error {
		return producer.Close()
	})

	prConv := pgdbConv.NewProductConverterImpl()
	evConv := pgdbConv.NewSyncEventConverterImpl()

	catalogRepo := pgdb.NewCatalogRepo(db.Pool, prConv)
	eventRepo := pgdb.NewSyncEventRepo(db.Pool, evConv)
	cacheRepo := redisRepo.NewReportCacheRepo(redisClient, cfg.Redis, log)

	stripeClient := stripeapi.NewStripeClient(cfg.Stripe.APIKey, cfg.Stripe.MaxRetries, log)

	health := usecase.NewHealthChecker(catalogRepo, stripeClient, cfg.Stripe.DefaultTaxCode, log)

	syncUC := usecase.NewSyncUC(
		catalogRepo,
		eventRepo,
		cacheRepo,
		stripeClient,
		db.Pool,
		health,
		log,
		cfg.Sync.MaxConcurrent,
		cfg.Sync.ProductTimeout,
		cfg.Stripe.Currency,
	)

	worker := kafka.NewOutboxWorker(eventRepo, log, producer, db.Dsn)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, log)
	router.Init(syncUC)

	httpSrv := v1Http.NewServer(r, cfg.Http)

	return &App{
		cfg:         cfg,
		logger:      log,
		db:          db,
		redisClient: redisClient,
		producer:    producer,
		worker:      worker,
		httpSrv:     httpSrv,
		closer:      cl,
	}, nil
}

// Run запускает outbox-воркер и HTTP-сервер и блокируется до сигнала
// завершения или фатальной ошибки сервера.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.worker.Start(ctx)
	a.closer.Add(func(ctx context.Context) error {
		a.worker.Stop()
		return nil
	})

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	a.closer.Add(func(ctx context.Context) error {
		return a.httpSrv.Stop(ctx)
	})

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Warnf("shutdown finished with errors: %v", err)
	} else {
		a.logger.Infof("Application shutdown complete")
	}

	return appErr
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		logger.Errorf(err, "failed to ping database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
