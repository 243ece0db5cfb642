package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crawler-server/internal/config"
	"crawler-server/internal/engine"
	"crawler-server/internal/infrastructure/storage"
	"crawler-server/internal/metrics"
	"crawler-server/internal/network"
	"crawler-server/internal/server"
	"crawler-server/internal/version"
	"crawler-server/pkg/logger"
	"crawler-server/pkg/utils"

	"golang.org/x/sync/errgroup"
)

func main() {
	// 1. Парсинг флагов
	var (
		configPath string
		seed       int64
	)
	flag.StringVar(&configPath, "config", "", "Path to YAML config (empty - defaults + CRAWLER_* env)")
	// Читаем флаг -seed. По умолчанию 0 (берем из конфига или генерируем случайно).
	flag.Int64Var(&seed, "seed", 0, "World seed, overrides world.seed (0 for config/random)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load config")
	}
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	logger.Log.Info("Starting crawler server...")
	logger.Log.Info(version.String())

	if err := run(cfg, seed); err != nil {
		logger.Log.WithError(err).Fatal("Server stopped with error")
	}
	logger.Log.Info("Done.")
}

func run(cfg config.Config, seedOverride int64) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Мир
	worldCfg := engine.Config{
		Seed:        cfg.World.Seed,
		Width:       cfg.World.Width,
		Height:      cfg.World.Height,
		MinRoomSize: cfg.World.MinRoomSize,
		MaxRoomSize: cfg.World.MaxRoomSize,
		MaxRooms:    cfg.World.MaxRooms,
		StarterKit:  cfg.World.StarterKit,
	}
	switch {
	case seedOverride != 0:
		worldCfg.Seed = seedOverride
		logger.Log.Infof("🎲 Using explicit Master Seed: %d", worldCfg.Seed)
	case worldCfg.Seed == 0:
		worldCfg.Seed = utils.RandomSeed()
		logger.Log.Infof("🎲 Using random Master Seed: %d", worldCfg.Seed)
	default:
		logger.Log.Infof("🎲 Using configured Master Seed: %d", worldCfg.Seed)
	}

	world, err := engine.NewWorld(worldCfg)
	if err != nil {
		return err
	}

	// 3. Инфраструктура: метрики, архив, журнал
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	archive, err := openArchive(ctx, cfg.Archive)
	if err != nil {
		return err
	}
	defer archive.Close()

	opts := []engine.Option{engine.WithArchive(archive), engine.WithMetrics(m)}
	if cfg.Journal.Enabled {
		journal, err := storage.OpenJournal(cfg.Journal.Path, worldCfg.Seed)
		if err != nil {
			return err
		}
		defer func() {
			if err := journal.Close(); err != nil {
				logger.Log.WithError(err).Warn("Failed to close journal")
			}
		}()
		opts = append(opts, engine.WithJournal(journal))
		logger.Log.WithField("path", cfg.Journal.Path).Info("💾 Journal enabled")
	}

	game := engine.NewService(world, opts...)
	hub := network.NewBroadcaster(cfg.Session.SendBuffer, m)

	// 4. Сервер и graceful shutdown
	srv := server.New(game, hub, m, cfg.Server, cfg.Session)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Run)
	g.Go(func() error {
		<-gctx.Done()
		logger.Log.Info("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func openArchive(ctx context.Context, cfg config.ArchiveConfig) (storage.Archive, error) {
	if cfg.Backend != "redis" {
		return storage.NewMemoryArchive(), nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	archive, err := storage.NewRedisArchive(connectCtx, storage.RedisConfig{
		Addr:      cfg.RedisAddr,
		Password:  cfg.RedisPassword,
		DB:        cfg.RedisDB,
		KeyPrefix: cfg.KeyPrefix,
		TTL:       cfg.TTL,
	})
	if err != nil {
		return nil, err
	}
	logger.Log.WithField("addr", cfg.RedisAddr).Info("Archive: redis")
	return archive, nil
}
