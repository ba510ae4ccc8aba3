package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/radardiario/radar-bridge/internal/api"
	"github.com/radardiario/radar-bridge/internal/biz"
	"github.com/radardiario/radar-bridge/internal/biz/parser"
	"github.com/radardiario/radar-bridge/internal/biz/usecase"
	"github.com/radardiario/radar-bridge/internal/conf"
	"github.com/radardiario/radar-bridge/internal/data"
	"github.com/radardiario/radar-bridge/internal/infra/feishu"
	"github.com/radardiario/radar-bridge/internal/server"
	"github.com/radardiario/radar-bridge/internal/service"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := conf.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	loc, err := parser.LoadLocation(cfg.System.Timezone)
	if err != nil {
		log.Fatalf("Invalid timezone: %v", err)
	}

	registry, err := conf.LoadRegistry(cfg.ProjectsPath)
	if err != nil {
		log.Fatalf("Failed to load projects: %v", err)
	}
	fmt.Printf("[Radar] Loaded %d projects\n", registry.Len())

	// Initialize clients
	feishuClient := feishu.NewClient(cfg.Feishu.AppID, cfg.Feishu.AppSecret)

	// Initialize repository layer
	ctx := context.Background()
	repos, err := data.NewRepositories(ctx, cfg, feishuClient, loc)
	if err != nil {
		log.Fatalf("Failed to create repositories: %v", err)
	}
	fmt.Printf("[Radar] Store: %s, local DB: %s\n", cfg.Store.Backend, cfg.Store.DBPath)

	if err := repos.Demand.Ping(ctx); err != nil {
		fmt.Printf("[Radar] Warning: store not reachable: %v\n", err)
	}

	// Initialize usecase layer
	uc := biz.NewUsecases(parser.New(registry, loc), repos.Demand, repos.Ledger)

	schedule, err := usecase.NewDailySchedule(cfg.System.SummaryHour, loc)
	if err != nil {
		log.Fatalf("Invalid schedule: %v", err)
	}

	// Initialize service layer
	botSvc := service.NewBotService(uc.Intake, uc.Query, uc.Digest, registry, repos.Message, cfg.System.Timezone)

	var runner *service.DigestRunner
	if cfg.Feishu.OwnerChatID != "" {
		runner = service.NewDigestRunner(botSvc, schedule, repos.Ledger, cfg.Feishu.OwnerChatID)
	} else {
		fmt.Println("[Radar] OWNER_CHAT_ID not set, daily digest disabled")
	}

	// Initialize HTTP API server for radar-mcp
	apiServer := api.NewServer(uc.Intake, uc.Query, uc.Digest, registry, cfg.API.Port)
	go func() {
		if err := apiServer.Start(); err != nil {
			fmt.Printf("[Radar] API server error: %v\n", err)
		}
	}()

	// Initialize server
	var bg interface {
		Start()
		Stop()
	}
	if runner != nil {
		bg = runner
	}
	srv := server.NewFeishuServer(feishuClient, repos.Message, botSvc, bg)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nShutting down...")
		srv.Stop()
		apiServer.Stop()
		repos.Close()
		os.Exit(0)
	}()

	fmt.Printf("Starting Radar Diário (digest at %02d:00 %s)...\n", cfg.System.SummaryHour, cfg.System.Timezone)
	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
