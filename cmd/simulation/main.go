package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"ai-contentgen-be/internal/config"
	"ai-contentgen-be/internal/pkg/logger"
	"ai-contentgen-be/internal/repository/memory"
	"ai-contentgen-be/pkg/engine/pipeline"
	"ai-contentgen-be/pkg/engine/quality"
	"ai-contentgen-be/pkg/engine/resolver"
	"ai-contentgen-be/pkg/engine/selfheal"
	"ai-contentgen-be/pkg/engine/session"
	"ai-contentgen-be/pkg/llm/factory"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// Interactive console client that drives the pipeline directly, without
// the HTTP layer. Useful for eyeballing classification, constraint merge
// and quality-gate behavior against a live provider.
func main() {
	color.Cyan("🚀 Intent Pipeline Simulation\n")

	cfg := config.Load()

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.Provider,
		cfg.Ai.Model,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.GeminiAPIKey,
		cfg.Ai.ProviderTimeout,
	)
	if err != nil {
		log.Fatalf("Failed to initialize LLM Provider: %v", err)
	}
	color.Yellow("Provider: %s (%s)", cfg.Ai.Provider, cfg.Ai.Model)

	nop := logger.Nop{}
	resolverEngine := resolver.NewEngine(llmProvider, nop)
	gate := quality.New()
	healer := selfheal.NewEngine(resolverEngine, gate, nop)
	sessionRepo := memory.NewSessionRepository(cfg.Pipeline.SessionTTL, cfg.Pipeline.SweepInterval)
	sessions := session.NewManager(sessionRepo, cfg.Pipeline.SessionTTL, cfg.Pipeline.SweepInterval, nop)
	orchestrator := pipeline.NewOrchestrator(resolverEngine, gate, healer, sessions, nop)

	sessionID := uuid.NewString()
	color.Yellow("Session: %s", sessionID)
	fmt.Println("Type a request and press enter. Commands: /analyze <text>, /session, /reset, /quit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "/quit":
			return

		case line == "/reset":
			orchestrator.ResetSession(sessionID)
			color.Yellow("Session reset")

		case line == "/session":
			state := orchestrator.GetSessionState(sessionID)
			if state == nil {
				color.Red("No session state (expired?)")
				continue
			}
			color.Yellow("Domain: %s | Turns: %d", state.Domain, len(state.History))
			fmt.Printf("Constraints: %+v\n", state.Constraints)

		case strings.HasPrefix(line, "/analyze "):
			analysis := orchestrator.AnalyzeOnly(strings.TrimPrefix(line, "/analyze "))
			color.Green("Intent: %s (%.2f), rules: %v",
				analysis.Classification.Intent,
				analysis.Classification.Confidence,
				analysis.Classification.MatchedRules)
			fmt.Printf("Entities: %+v\n", analysis.NormalizedInput.Entities)
			fmt.Printf("Constraints: %+v\n", analysis.Constraints)

		default:
			result := orchestrator.Process(context.Background(), line, pipeline.Options{
				SessionID: sessionID,
			})

			if !result.Success {
				color.Red("FAILED (%dms): %s", result.ProcessingTimeMs, result.Error)
				continue
			}

			color.Green("Intent: %s (%.2f) | Quality: %.2f | Repairs: %d | %dms",
				result.Intent,
				result.Confidence,
				result.QualityScore,
				len(result.RepairAttempts),
				result.ProcessingTimeMs)

			if items, ok := result.Output.Items(); ok {
				for i, item := range items {
					fmt.Printf("  %d. %s\n", i+1, item)
				}
			} else {
				fmt.Println(result.Output.Flatten())
			}
		}
	}
}
