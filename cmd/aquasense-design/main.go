package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"aquasense-design/common/database"
	"aquasense-design/common/logger"
	mqttcommon "aquasense-design/common/mqtt"
	rediscommon "aquasense-design/common/redis"
	"aquasense-design/internal/config"
	"aquasense-design/internal/consumer"
	"aquasense-design/internal/dispatcher"
	httpapi "aquasense-design/internal/http"
	"aquasense-design/internal/predictor"
	"aquasense-design/internal/repository"
	"aquasense-design/internal/service"
	"aquasense-design/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "aquasense-design")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry, err := newRegistry(cfg, log)
	if err != nil {
		log.Fatal("Failed to build predictor registry", zap.Error(err))
	}
	disp := dispatcher.New(registry, log)

	var opts []service.DesignServiceOption
	var cacheAdmin httpapi.CacheAdmin
	var predictions httpapi.PredictionReader

	// Redis：推理缓存 + 结果流 + 批量请求流
	var redisClient *redis.Client
	if cfg.RedisEnabled {
		redisClient = rediscommon.NewRedisClient(&cfg.Redis)
		if err := rediscommon.Ping(ctx, redisClient); err != nil {
			log.Warn("Redis unavailable, cache and streams disabled", zap.Error(err))
			_ = rediscommon.Close(redisClient)
			redisClient = nil
		}
	}
	if redisClient != nil {
		defer rediscommon.Close(redisClient)
		cache := store.NewDesignCache(store.NewRedisKV(redisClient), cfg.Cache.TTL, log)
		cacheAdmin = cache
		opts = append(opts,
			service.WithCache(cache),
			service.WithPublisher(service.NewStreamPublisher(redisClient, cfg.Streams.Predictions)),
		)
	}

	// PostgreSQL：推理存档
	var db *sql.DB
	if cfg.DBEnabled {
		if d, err := database.NewPostgresDB(ctx, &cfg.Database); err == nil {
			db = d
		} else {
			log.Warn("DB enabled but connection failed, prediction archive disabled", zap.Error(err))
		}
	}
	if db != nil {
		defer database.Close(db)
		if err := repository.EnsureSchema(ctx, db); err != nil {
			log.Fatal("Failed to ensure schema", zap.Error(err))
		}
		repo := repository.NewPredictionRepository(db, log)
		predictions = repo
		opts = append(opts, service.WithPredictionStore(repo))
		log.Info("DB enabled for aquasense-design")
	}

	designService := service.NewDesignService(disp, log, opts...)

	router := httpapi.NewRouter(log)
	router.RegisterHealthRoutes()
	router.RegisterDesignRoutes(httpapi.NewDesignHandler(designService, predictions, cacheAdmin, log))
	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 3)
	go func() {
		errCh <- srv.Start()
	}()

	var mqttConsumer *consumer.MQTTConsumer
	if cfg.MQTT.Enabled {
		client, err := mqttcommon.NewClient(&cfg.MQTT.MQTTConfig, log)
		if err != nil {
			log.Fatal("Failed to connect MQTT broker", zap.Error(err))
		}
		defer client.Disconnect()
		mqttConsumer = consumer.NewMQTTConsumer(&cfg.MQTT, client, designService, log)
		go func() {
			errCh <- mqttConsumer.Start(ctx)
		}()
	}

	if cfg.Streams.Enabled && redisClient != nil {
		streamConsumer := consumer.NewStreamConsumer(&cfg.Streams, redisClient, designService, log)
		go func() {
			errCh <- streamConsumer.Start(ctx)
		}()
	}

	log.Info("aquasense-design started",
		zap.String("predictor_mode", cfg.Predictor.Mode),
		zap.Bool("redis", redisClient != nil),
		zap.Bool("db", db != nil),
		zap.Bool("mqtt", cfg.MQTT.Enabled),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			log.Error("Component stopped with error", zap.Error(err))
		}
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if mqttConsumer != nil {
		_ = mqttConsumer.Stop(shutdownCtx)
	}
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping HTTP server", zap.Error(err))
	}
	log.Info("aquasense-design stopped")
}

// newRegistry 按配置选择模拟器或远程模型服务
func newRegistry(cfg *config.Config, log *zap.Logger) (*predictor.Registry, error) {
	switch cfg.Predictor.Mode {
	case config.PredictorRemote:
		client := predictor.NewRemoteClient(cfg.Predictor.BaseURL, cfg.Predictor.Timeout, cfg.Predictor.Retries, log)
		return predictor.NewRemoteRegistry(client)
	default:
		return predictor.NewSimulatedRegistry()
	}
}
