package internal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"agri-registry-api/config"
	"agri-registry-api/internal/application/ports"
	"agri-registry-api/internal/application/services"
	domain "agri-registry-api/internal/domain/farmer"
	"agri-registry-api/internal/infrastructure/cache"
	memfarmer "agri-registry-api/internal/infrastructure/db/memory/farmer"
	mongodb "agri-registry-api/internal/infrastructure/db/mongo"
	mongofarmer "agri-registry-api/internal/infrastructure/db/mongo/farmer"
	"agri-registry-api/internal/infrastructure/db/postgres"
	pgfarmer "agri-registry-api/internal/infrastructure/db/postgres/farmer"
	"agri-registry-api/internal/infrastructure/metrics"
	"agri-registry-api/internal/infrastructure/mq"
	"agri-registry-api/internal/interface/api/rest"
	"agri-registry-api/internal/interface/api/rest/middleware"
	"agri-registry-api/pkg/rmqconsumer"
)

type App struct {
	logger     *zap.Logger
	cfg        config.Config
	db         *pgxpool.Pool
	mongo      *mongo.Client
	redis      *redis.Client
	repo       domain.Repository
	httpSrv    *http.Server
	router     *gin.Engine
	mCounter   *prometheus.CounterVec
	mq         ports.RabbitMQ
	mqConsumer ports.RMQConsumer
}

func NewApp(ctx context.Context) (*App, error) {
	// logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("cannot initialize zap logger: %v", err)
	}
	defer logger.Sync()

	// config
	if err = godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Fatal("error loading .env file", zap.Error(err))
	}
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config error", zap.Error(err))
	}

	a := &App{
		logger:   logger,
		cfg:      cfg,
		mCounter: metrics.NewCounter(),
	}

	// router
	switch cfg.App.Env {
	case gin.ReleaseMode, "prod", "production":
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	a.router = gin.New()
	a.router.Use(gin.Recovery())
	a.router.Use(middleware.RequestLogGin(logger, a.mCounter))
	if cfg.App.RateLimit.Requests > 0 {
		rl := middleware.NewRateLimiter(cfg.App.RateLimit.Requests, cfg.App.RateLimit.Window, logger, a.mCounter)
		a.router.Use(rl.Middleware())
	}

	// httpServer
	a.httpSrv = &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// store
	if err = a.initStore(ctx); err != nil {
		logger.Fatal("failed to init farmer store", zap.String("driver", cfg.App.StoreDriver), zap.Error(err))
	}
	if err = a.initCache(ctx); err != nil {
		logger.Fatal("failed to init cache", zap.String("driver", cfg.App.CacheDriver), zap.Error(err))
	}

	// rabbitMQ
	if cfg.MQEnabled() {
		if err = a.initMQ(ctx); err != nil {
			logger.Fatal("failed to init rabbitMQ", zap.Error(err))
		}
	} else {
		logger.Info("RABBITMQ_HOST not set, farmer events are not published")
	}

	return a, nil
}

func (a *App) initStore(ctx context.Context) error {
	switch a.cfg.App.StoreDriver {
	case config.StorePostgres:
		dsn, err := a.cfg.DBDSN()
		if err != nil {
			return err
		}
		if err = postgres.RunMigrations(a.logger, dsn); err != nil {
			return err
		}
		if a.db, err = postgres.New(ctx, a.logger, dsn); err != nil {
			return err
		}
		a.repo = pgfarmer.NewRepository(a.db)

	case config.StoreMongo:
		client, err := mongodb.New(ctx, a.logger, a.cfg.Mongo.URI)
		if err != nil {
			return err
		}
		a.mongo = client

		repo := mongofarmer.NewRepository(client.Database(a.cfg.Mongo.Database).Collection(a.cfg.Mongo.Collection))
		if err = repo.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("mongo indexes: %w", err)
		}
		a.repo = repo

	case config.StoreMemory:
		a.logger.Warn("using in-memory farmer store, data is lost on restart")
		a.repo = memfarmer.NewRepository()

	default:
		return fmt.Errorf("unknown store driver %q", a.cfg.App.StoreDriver)
	}

	return nil
}

func (a *App) initCache(ctx context.Context) error {
	var backend cache.Backend

	switch a.cfg.App.CacheDriver {
	case config.CacheNone:
		return nil
	case config.CacheLocal:
		backend = cache.NewLocal(a.cfg.Redis.TTL)
	case config.CacheRedis:
		client, err := cache.NewRedisClient(ctx, a.logger, a.cfg.Redis)
		if err != nil {
			return err
		}
		a.redis = client
		backend = cache.NewRedis(client)
	default:
		return fmt.Errorf("unknown cache driver %q", a.cfg.App.CacheDriver)
	}

	a.repo = cache.NewFarmerRepository(a.repo, backend, a.cfg.Redis.TTL, a.logger, a.mCounter)

	return nil
}

func (a *App) initMQ(ctx context.Context) error {
	dsn, err := a.cfg.AMQPDSN()
	if err != nil {
		return err
	}

	rbMQ := mq.New(a.cfg.MQ, a.logger)
	if err = rbMQ.Connect(ctx, dsn); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	if err = rbMQ.Init(); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	a.mq = rbMQ

	//rmqConsumer
	rmqConsumer := rmqconsumer.New(a.cfg.MQ, a.logger, rbMQ.GetConn())
	if err = rmqConsumer.Connect(dsn); err != nil {
		return fmt.Errorf("consumer connect: %w", err)
	}
	if err = rmqConsumer.Init(); err != nil {
		return fmt.Errorf("consumer init: %w", err)
	}
	a.mqConsumer = rmqConsumer

	return nil
}

func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.mongo != nil {
		_ = a.mongo.Disconnect(context.Background())
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.mq != nil && a.mq.GetConn() != nil {
		a.mq.GetConn().Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// Run - The central place to launch and manage our application and
// parallel processes through a single context.
func (a *App) Run(ctx context.Context) error {
	// context with os signals cancel chan
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGUSR1)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("starting "+a.cfg.App.Name, zap.String("addr", a.cfg.App.Host+":"+a.cfg.App.Port))
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server "+a.cfg.App.Name+" error: %w", err)
		}

		return nil
	})

	if a.mq != nil {
		g.Go(func() error {
			a.mq.PublisherWorker(ctx)
			return nil
		})
	}

	if a.mqConsumer != nil {
		g.Go(func() error {
			a.mqConsumer.DeliveryWorker(ctx)
			return nil
		})
	}

	<-ctx.Done()

	a.logger.Info("shutting down " + a.cfg.App.Name + " gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if a.httpSrv != nil {
		if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("http server shutdown "+a.cfg.App.Name+" error", zap.Error(err))
			return err
		}
	}

	if err := g.Wait(); err != nil {
		a.logger.Error(a.cfg.App.Name+" returning an error", zap.Error(err))
		return err
	}

	a.logger.Info(a.cfg.App.Name + " gracefully stopped")

	return nil
}

func (a *App) InitControllers() {
	// services
	farmerService := services.NewFarmerService(a.repo, a.mq, a.mCounter)

	// controllers
	rest.NewFarmerController(a.router, farmerService, a.logger)

	// ops
	a.router.GET(rest.RouteHealth, a.healthHandler)
	a.router.GET(rest.RouteMetrics, gin.WrapH(promhttp.Handler()))
}

func (a *App) healthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	var err error
	switch {
	case a.db != nil:
		err = a.db.Ping(ctx)
	case a.mongo != nil:
		err = a.mongo.Ping(ctx, nil)
	}
	if err != nil {
		a.logger.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store unavailable"})
		return
	}

	c.Status(http.StatusOK)
}

func (a *App) Logger() *zap.Logger { return a.logger }
