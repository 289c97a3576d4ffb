package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"phonenet/internal/cli"
	"phonenet/internal/config"
	"phonenet/internal/logger"
	"phonenet/internal/network"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(os.Stdin, os.Stdout, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run wires the shell to stdin and stdout; split out for clean exit codes.
func run(in io.Reader, out io.Writer, args []string) error {
	flags, shouldExit, err := cli.Parse(args, out)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, _, err := loadConfig(flags.ConfigPath)
	if err != nil {
		return err
	}
	applyFlags(cfg, flags)
	if err := cfg.Validate(); err != nil {
		return &cli.ExitError{Code: 2, Message: err.Error()}
	}

	// The shell owns stdout, so logs go to stderr.
	log := logger.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	net := network.New(
		network.WithLogger(log),
		network.WithRouting(cfg.RoutingOptions()...),
	)

	if cfg.Network.AutoLoad {
		if _, statErr := os.Stat(cfg.Network.File); statErr == nil {
			if err := net.Load(ctx, cfg.Network.File); err != nil {
				fmt.Fprintf(out, "ERROR: %v\n", err)
			} else {
				fmt.Fprintf(out, "Network loaded from %s.\n", cfg.Network.File)
			}
		}
	}

	shell := cli.NewShell(net, in, out)
	if flags.Quiet {
		shell.DisablePrompt()
	}
	if cfg.Network.AutoSave {
		shell.OnQuit = func(ctx context.Context) error {
			return net.Save(ctx, cfg.Network.File)
		}
	}

	return shell.Run(ctx)
}

func loadConfig(path string) (*config.Config, string, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

// applyFlags lets command-line flags win over the config file
func applyFlags(cfg *config.Config, f *cli.Flags) {
	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}
	if f.Strategy != "" {
		cfg.Routing.Strategy = f.Strategy
	}
	if f.MaxHops >= 0 {
		cfg.Routing.MaxHops = f.MaxHops
	}
	if f.File != "" {
		cfg.Network.File = f.File
		cfg.Network.AutoLoad = f.Load
	}
}
