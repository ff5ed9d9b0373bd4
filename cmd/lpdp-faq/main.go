package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/lpdp-faq/internal/adapters/driving/cli"
	"github.com/custodia-labs/lpdp-faq/internal/app"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetBuilder(build)

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func build(ctx context.Context, opts cli.BuildOptions) (*cli.Services, error) {
	if opts.SettingsOnly {
		settings, err := app.NewSettings(opts.ConfigDir)
		if err != nil {
			return nil, err
		}
		return &cli.Services{Settings: settings}, nil
	}

	c, err := app.Build(ctx, app.Options{
		ConfigDir: opts.ConfigDir,
		Override:  opts.Override,
	})
	if err != nil {
		return nil, err
	}
	return &cli.Services{
		Settings:  c.Settings,
		Retriever: c.Retriever,
		Tools:     c.Tools,
		Indexer:   c.Indexer,
		Config:    c.Resolved,
		Close:     c.Close,
	}, nil
}
