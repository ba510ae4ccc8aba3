package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/radardiario/radar-bridge/internal/conf"
	"github.com/radardiario/radar-bridge/internal/mcp"
)

// version is set at build time
var version = "dev"

func main() {
	_ = godotenv.Load()

	// stdout carries the protocol, logs go to stderr
	log.SetOutput(os.Stderr)

	baseURL := os.Getenv("BRIDGE_API_URL")
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://127.0.0.1:%d", conf.LoadFromEnv().API.Port)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	server := mcp.NewServer(mcp.NewClient(baseURL), version)
	log.Printf("[MCP] Serving radar tools over stdio (bridge %s)", baseURL)
	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("MCP server error: %v", err)
	}
}
