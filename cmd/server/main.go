package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joeychilson/refiler/config"
	"github.com/joeychilson/refiler/logger"
	"github.com/joeychilson/refiler/refile"
	"github.com/joeychilson/refiler/reindent"
	"github.com/joeychilson/refiler/server"
	"github.com/joeychilson/refiler/store"
)

const (
	defaultConfigFile = "./config.yaml"
	defaultLogLevel   = "info"
)

func main() {
	addr := getEnv("ADDR", "")
	configFile := getEnv("CONFIG_FILE", defaultConfigFile)
	redisURL := getEnv("REDIS_URL", "")
	logLevel := getEnv("LOG_LEVEL", defaultLogLevel)

	log := logger.NewWithLevel(logger.ParseLevel(logLevel))

	log.Info("starting refiler API server", "log_level", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var cfg *config.Config
	if _, statErr := os.Stat(configFile); statErr == nil {
		log.Info("loading config from file", "file", configFile)
		loaded, err := config.LoadConfig(configFile)
		if err != nil {
			log.Error("failed to load config from file", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	} else {
		log.Info("using default configuration (config file not found)", "checked", configFile)
		cfg = config.New()
	}

	// Environment overrides the config file.
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if redisURL != "" {
		cfg.Store.Backend = config.StoreBackendRedis
		cfg.Store.RedisURL = redisURL
	}

	var documents store.Store
	if cfg.Store.GetBackend() == config.StoreBackendRedis {
		log.Info("connecting to redis", "url", cfg.Store.RedisURL)
		redisStore, err := store.NewRedisStoreFromURL(cfg.Store.RedisURL, cfg.Store.Prefix)
		if err != nil {
			log.Error("failed to create redis store", "error", err)
			os.Exit(1)
		}
		defer redisStore.Close()

		if err := redisStore.Ping(ctx); err != nil {
			log.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		log.Info("redis connection established")
		documents = redisStore
	} else {
		log.Info("using in-memory document store")
		documents = store.NewMemoryStore()
	}

	var reindenter reindent.Reindenter = reindent.Noop{}
	if cfg.Refile.Reindent {
		reindenter = reindent.ListReindenter{Unit: cfg.Refile.IndentUnit}
	}

	engine := refile.NewEngine(documents, &refile.Options{
		Reindenter:    reindenter,
		Logger:        log,
		StrictTargets: cfg.Refile.StrictTargets,
	})

	srv, err := server.NewServer(documents, engine, log, &server.ServerConfig{
		RedisURL:          cfg.Store.RedisURL,
		RateLimitRequests: cfg.Server.RateLimitRequests,
		RateLimitWindow:   cfg.Server.GetRateLimitWindow(),
	})
	if err != nil {
		log.Error("failed to create server", "error", err)
		os.Exit(1)
	}
	defer srv.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Info("received shutdown signal", "signal", sig.String())
		cancel()
	}()

	if err := srv.StartWithShutdown(ctx, cfg.Server.GetAddr()); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}

	log.Info("server shutdown complete")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
