package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/radardiario/radar-bridge/internal/biz/parser"
	"github.com/radardiario/radar-bridge/internal/biz/repo"
	"github.com/radardiario/radar-bridge/internal/cli"
	"github.com/radardiario/radar-bridge/internal/conf"
	"github.com/radardiario/radar-bridge/internal/data"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	cfg := conf.LoadFromEnv()

	loc, err := parser.LoadLocation(cfg.System.Timezone)
	if err != nil {
		return err
	}
	registry, err := conf.LoadRegistry(cfg.ProjectsPath)
	if err != nil {
		return err
	}

	app := &cli.App{
		Parser: parser.New(registry, loc),
		OpenStore: func(ctx context.Context) (repo.DemandRepo, error) {
			if err := cfg.ValidateStore(); err != nil {
				return nil, err
			}
			return data.NewDemandRepo(ctx, cfg, loc)
		},
	}
	return cli.NewRootCmd(app).ExecuteContext(context.Background())
}
