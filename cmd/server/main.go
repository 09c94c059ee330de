package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-orders/internal/config"
	httpctl "storefront-orders/internal/controllers/http"
	"storefront-orders/internal/infra"
	"storefront-orders/internal/infra/kafka"
	mmysql "storefront-orders/internal/infra/mysql"
	"storefront-orders/internal/infra/rabbitmq"
	rcache "storefront-orders/internal/infra/redis"
	"storefront-orders/internal/logger"
	"storefront-orders/internal/metrics"
	"storefront-orders/internal/middleware"
	"storefront-orders/internal/repository"
	"storefront-orders/internal/repository/mongodb"
	mysqlrepo "storefront-orders/internal/repository/mysql"
	"storefront-orders/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Load has merged .env by now, so APP_ENV reflects it.
		logger.Init(os.Getenv("APP_ENV"))
		logger.L().Fatal("config: load", zap.Error(err))
	}

	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal("store: open", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Warn("store: close", zap.Error(err))
		}
	}()

	s := services.NewOrderService(store)

	var live repository.ProductRepository = store.Products
	if cfg.ProductServiceURL != "" {
		live = infra.NewProductClient(cfg.ProductServiceURL, cfg.ProductClientTimeout)
		log.Info("pricing from product service", zap.String("url", cfg.ProductServiceURL))
	}
	lookup := live
	if cfg.RedisAddr != "" {
		redisClient := rcache.NewClient(cfg.RedisAddr)
		defer redisClient.Close()

		cache := rcache.NewProductCache(redisClient, live, cfg.ProductCacheTTL)
		lookup = cache

		go func() {
			if err := cache.Warmup(ctx, cfg.ProductWarmupIDs); err != nil {
				log.Warn("failed to warm up product cache", zap.Error(err))
			}
		}()
	}
	s.SetProductSources(lookup, live)

	switch {
	case len(cfg.KafkaBrokers) > 0:
		publisher := kafka.NewPublisher(kafka.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic))
		defer publisher.Close()
		s.SetPublisher(publisher)
		log.Info("publishing order events to kafka", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	case cfg.RabbitMQURL != "":
		publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			log.Fatal("failed to init publisher", zap.Error(err))
		}
		defer publisher.Close()
		s.SetPublisher(publisher)
	default:
		log.Info("no event broker configured, order events disabled")
	}

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	serverMetrics := metrics.NewServerMetrics(reg, "orders")

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.Run(ctx)

	r := gin.New()
	r.Use(gin.Recovery(), logger.RequestID(), logger.AccessLog(), serverMetrics.Middleware())
	r.GET("/metrics", gin.WrapH(metrics.Handler(reg)))

	api := r.Group("/", limiter.Middleware())
	httpctl.NewHandler(s).RegisterRoutes(api)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("starting order service", zap.String("port", cfg.Port), zap.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server run", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMySQL:
		db, err := mmysql.Open(cfg.MySQLDSN())
		if err != nil {
			return repository.Store{}, err
		}
		if err := mysqlrepo.Migrate(db); err != nil {
			return repository.Store{}, err
		}
		return mysqlrepo.NewStore(db, cfg.StoreTimeout), nil
	default:
		client, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.StoreTimeout)
		if err != nil {
			return repository.Store{}, err
		}
		if err := mongodb.EnsureIndexes(ctx, client.Database(cfg.MongoDatabase)); err != nil {
			_ = client.Disconnect(context.Background())
			return repository.Store{}, err
		}
		return mongodb.NewStore(client, cfg.MongoDatabase, cfg.StoreTimeout), nil
	}
}
