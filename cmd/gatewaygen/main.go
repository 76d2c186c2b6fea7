package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/mahmood726-cyber/Metasprint/internal/build"
	"github.com/mahmood726-cyber/Metasprint/internal/config"
	"github.com/mahmood726-cyber/Metasprint/internal/daemon"
	"github.com/mahmood726-cyber/Metasprint/internal/logfields"
	"github.com/mahmood726-cyber/Metasprint/internal/manifest"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"gateway.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		Directory string `short:"d" help:"Target directory (overrides config)"`
	} `cmd:"" help:"Scan the target directory and write the gateway page"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	Scan struct {
		Directory string `short:"d" help:"Target directory (overrides config)"`
	} `cmd:"" help:"Classify files and print the inventory without writing output"`

	Daemon struct {
		Directory string `short:"d" help:"Target directory (overrides config)"`
	} `cmd:"" help:"Keep the gateway current: rebuild on changes and serve it over HTTP"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	switch ctx.Command() {
	case "build":
		cfg, err := loadConfig(CLI.Build.Directory)
		if err != nil {
			slog.Error("Failed to load configuration", logfields.Error(err))
			os.Exit(1)
		}
		if err := runBuild(cfg); err != nil {
			slog.Error("Build failed", logfields.Error(err))
			os.Exit(1)
		}
	case "init":
		if err := config.Init(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("Init failed", logfields.Error(err))
			os.Exit(1)
		}
		slog.Info("Configuration written", logfields.Path(CLI.Config))
	case "scan":
		cfg, err := loadConfig(CLI.Scan.Directory)
		if err != nil {
			slog.Error("Failed to load configuration", logfields.Error(err))
			os.Exit(1)
		}
		if err := runScan(cfg); err != nil {
			slog.Error("Scan failed", logfields.Error(err))
			os.Exit(1)
		}
	case "daemon":
		cfg, err := loadConfig(CLI.Daemon.Directory)
		if err != nil {
			slog.Error("Failed to load configuration", logfields.Error(err))
			os.Exit(1)
		}
		if err := runDaemon(cfg); err != nil {
			slog.Error("Daemon failed", logfields.Error(err))
			os.Exit(1)
		}
	}
}

// loadConfig loads the config file and applies CLI overrides. The config file
// itself is always excluded from scanning so it never shows up as a card.
func loadConfig(dirOverride string) (*config.Config, error) {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return nil, err
	}
	if dirOverride != "" {
		cfg.Scan.Directory = dirOverride
	}
	cfg.Scan.Exclude = append(cfg.Scan.Exclude, filepath.Base(CLI.Config))
	return cfg, nil
}

func runBuild(cfg *config.Config) error {
	builder, closeHistory, err := newBuilder(cfg)
	if err != nil {
		return err
	}
	defer closeHistory()

	report, err := builder.Run(context.Background())
	if err != nil {
		return err
	}
	slog.Info("Build completed",
		logfields.BuildID(report.BuildID),
		logfields.Output(report.OutputPath),
		slog.Int("pages", report.Pages),
		slog.Int("files", report.Files))
	return nil
}

func runScan(cfg *config.Config) error {
	builder := build.New(cfg)
	pages, files, err := builder.Inventory(context.Background())
	if err != nil {
		return err
	}

	slog.Info("Inventory", logfields.Path(cfg.Scan.Directory), logfields.Count(len(pages)+len(files)))
	for _, card := range pages {
		slog.Info("  HTML page",
			logfields.File(card.Entry.Name),
			slog.String("title", card.Title),
			slog.Bool("primary", card.Primary()))
	}
	for _, card := range files {
		slog.Info("  Supporting file",
			logfields.File(card.Entry.Name),
			slog.String("title", card.Title),
			logfields.Type(card.Type))
	}
	return nil
}

func runDaemon(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	builder, closeHistory, err := newBuilder(cfg)
	if err != nil {
		return err
	}
	defer closeHistory()

	d, err := daemon.New(cfg, builder)
	if err != nil {
		return err
	}
	return d.Run(ctx)
}

// newBuilder creates the builder, attaching the manifest store when configured.
func newBuilder(cfg *config.Config) (*build.Builder, func(), error) {
	builder := build.New(cfg)
	if cfg.Manifest.Path == "" {
		return builder, func() {}, nil
	}

	store, err := manifest.Open(cfg.Manifest.Path)
	if err != nil {
		return nil, nil, err
	}
	builder.SetHistory(store)
	return builder, func() {
		if err := store.Close(); err != nil {
			slog.Warn("Failed to close manifest store", logfields.Error(err))
		}
	}, nil
}
