// Package main provides a CLI command for running a single ad hoc research
// query through the pipeline without going through the HTTP API.
// Usage: research-query "question" [--source news] [--query "..."] [--output json]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"research-orchestrator/internal/app"
	"research-orchestrator/internal/config"
	pstate "research-orchestrator/internal/domain/pipeline"
)

// QueryOutput is the JSON output format for a query result.
type QueryOutput struct {
	Source   string `json:"source"`
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

func main() {
	var (
		source       string
		query        string
		outputFormat string
	)

	flag.StringVar(&source, "source", "", "Known data source to query directly (skips LLM routing)")
	flag.StringVar(&query, "query", "", "Literal query to pass the source (used with --source)")
	flag.StringVar(&outputFormat, "output", "text", "Output format: text or json")
	flag.Parse()

	args := flag.Args()
	var message string
	if len(args) > 0 {
		message = args[0]
	}

	if message == "" && (source == "" || query == "") {
		fmt.Fprintln(os.Stderr, "Error: a free-form message, or both --source and --query, is required")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage: research-query \"question\" [--source news] [--query \"...\"] [--output json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Examples:")
		fmt.Fprintln(os.Stderr, "  research-query \"what's the weather in Tokyo?\"")
		fmt.Fprintln(os.Stderr, "  research-query --source news --query \"top headlines\"")
		fmt.Fprintln(os.Stderr, "  research-query \"latest on ethereum\" --output json")
		os.Exit(1)
	}

	logger := initLogger()

	llmCfg, err := config.LoadLLMConfig()
	if err != nil {
		logger.Error("failed to load LLM configuration", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "Error: failed to load LLM configuration: %v\n", err)
		os.Exit(1)
	}
	collectorCfg := config.LoadCollectorConfig()
	fallbackCfg := config.LoadFallbackConfig()

	gateway, err := app.BuildGateway(llmCfg)
	if err != nil {
		logger.Error("failed to build LLM gateway", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "Error: failed to reach the LLM gateway: %v\n", err)
		os.Exit(1)
	}
	defer gateway.Close()

	registry := app.BuildRegistry(collectorCfg)
	policy, err := app.BuildFallbackPolicy(fallbackCfg)
	if err != nil {
		logger.Error("failed to load fallback policy", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "Error: failed to load fallback policy: %v\n", err)
		os.Exit(1)
	}
	pl := app.BuildPipeline(registry, policy, gateway, llmCfg)

	ctx, cancel := context.WithTimeout(context.Background(), config.RequestTimeout())
	defer cancel()

	logger.Info("running query", slog.String("message", message), slog.String("source", source), slog.String("query", query))

	state := pl.Run(ctx, message, source, query)

	if outputFormat == "json" {
		outputJSON(state)
	} else {
		outputText(state)
	}

	if state.Err != "" {
		os.Exit(1)
	}
}

func outputText(state pstate.State) {
	fmt.Printf("Source: %s\n\n", state.Source)
	if state.Err != "" {
		fmt.Printf("Error: %s\n", state.Err)
		return
	}
	fmt.Println(state.Response)
}

func outputJSON(state pstate.State) {
	out := QueryOutput{Source: state.Source, Response: state.Response, Error: state.Err}
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to encode JSON: %v\n", err)
		os.Exit(1)
	}
}

func initLogger() *slog.Logger {
	logLevel := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	return logger
}
