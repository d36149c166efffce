package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/va6996/mountvacation-mcp/bootstrap"
	"github.com/va6996/mountvacation-mcp/config"
	"github.com/va6996/mountvacation-mcp/log"
)

// main invokes one registered tool outside any MCP client and prints its payload.
//
//	go run ./cmd -tool search_accommodations -args '{"location":"Chamonix","arrival_date":"2026-02-01","departure_date":"2026-02-08","persons_ages":"30,30"}'
func main() {
	// Load .env if present
	_ = godotenv.Load()
	log.Init()

	tool := flag.String("tool", "search_accommodations", "tool to call")
	rawArgs := flag.String("args", "{}", "tool arguments as a JSON object")
	list := flag.Bool("list", false, "list registered tools and exit")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall deadline")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf(context.Background(), "Failed to load config: %v", err)
	}
	if err := log.Configure(cfg.LogLevel); err != nil {
		log.Warnf(context.Background(), "Ignoring LOG_LEVEL: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	app, err := bootstrap.Setup(ctx, cfg)
	if err != nil {
		log.Fatalf(ctx, "Setup failed: %v", err)
	}
	defer app.Close()

	if *list {
		for _, t := range app.Registry.GetTools() {
			fmt.Printf("%-26s %s\n", t.Name, t.Description)
		}
		return
	}

	args, err := parseArgs(*rawArgs)
	if err != nil {
		log.Fatalf(ctx, "%v", err)
	}

	res := app.Registry.CallTool(ctx, *tool, args)
	for _, c := range res.Content {
		if text, ok := c.(mcp.TextContent); ok {
			fmt.Println(text.Text)
		}
	}
	if res.IsError {
		os.Exit(1)
	}
}

func parseArgs(raw string) (map[string]interface{}, error) {
	args := map[string]interface{}{}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, fmt.Errorf("invalid -args JSON: %w", err)
	}
	return args, nil
}
