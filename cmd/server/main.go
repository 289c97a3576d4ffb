package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"phonenet/internal/config"
	"phonenet/internal/handler"
	"phonenet/internal/hub"
	"phonenet/internal/logger"
	"phonenet/internal/network"
	"phonenet/internal/watcher"

	"github.com/joho/godotenv"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Path to the config file")
	addr := flag.String("addr", "", "HTTP listen address (overrides server.addr)")
	file := flag.String("file", "", "Network snapshot file (overrides network.file)")
	envFile := flag.String("env", ".env", "Environment file loaded before the config")
	initConfig := flag.Bool("init-config", false, "Write the effective config to -config (or the default path) and exit")
	flag.Parse()

	if err := loadDotEnv(*envFile); err != nil {
		slog.Error("failed to load env file", "path", *envFile, "error", err)
		os.Exit(1)
	}

	cfg, path, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load config", "path", path, "error", err)
		os.Exit(1)
	}
	if err := applyOverrides(cfg, *addr, *file); err != nil {
		slog.Error("invalid config", "path", path, "error", err)
		os.Exit(2)
	}

	if *initConfig {
		target := *configPath
		if target == "" {
			target = config.DefaultConfigPath()
		}
		if err := cfg.Save(target); err != nil {
			slog.Error("failed to write config", "path", target, "error", err)
			os.Exit(1)
		}
		slog.Info("config written", "path", target)
		return
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	log.Info("starting phonenet server", "config", path, "addr", cfg.Server.Addr)
	log.Debug("effective config\n" + cfg.Summary())

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Initialize network
	net := network.New(
		network.WithLogger(log),
		network.WithRouting(cfg.RoutingOptions()...),
	)
	if cfg.Network.AutoLoad {
		autoLoad(ctx, log, net, cfg.Network.File)
	}

	if cfg.Network.Watch {
		w := watcher.New(cfg.Network.File, func() {
			autoLoad(ctx, log, net, cfg.Network.File)
		}, log)
		go func() {
			if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("snapshot watcher stopped", "error", err)
			}
		}()
	}

	// Connect network events to SSE hub
	sseHub := hub.New(log)
	go sseHub.Run(ctx)
	sseHub.Forward(ctx, net.Events())

	h := handler.NewNetworkHandler(net, log, cfg.DataDir())

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler.NewRouter(h, sseHub),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // SSE streams stay open
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	stop()

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("server shutdown error", "error", err)
	}

	if cfg.Network.AutoSave {
		if err := net.Save(shutdownCtx, cfg.Network.File); err != nil {
			log.Error("autosave failed", "file", cfg.Network.File, "error", err)
		}
	}

	log.Info("server stopped")
}

func loadConfig(path string) (*config.Config, string, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

// applyOverrides lets non-empty flag values win over the config file and
// validates the result.
func applyOverrides(cfg *config.Config, addr, file string) error {
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if file != "" {
		cfg.Network.File = file
	}
	return cfg.Validate()
}

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// autoLoad merges the snapshot at file into net. A missing file is the
// normal first run and only logged; a bad one leaves net unchanged.
func autoLoad(ctx context.Context, log *slog.Logger, net *network.Network, file string) {
	if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
		log.Info("no snapshot to load", "file", file)
		return
	}
	if err := net.Load(ctx, file); err != nil {
		log.Error("snapshot not applied", "file", file, "error", err)
	}
}
