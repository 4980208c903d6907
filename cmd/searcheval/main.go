// Command searcheval evaluates named search approaches over a shared
// query set and compares them. The run is described by a YAML file
// holding the judge settings, the queries, and each approach's
// pre-retrieved ranked results; the output is a JSON artifact with
// per-approach summaries and, for multi-approach runs, a comparison
// report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/ahrav/go-searcheval/infrastructure/judge"
	"github.com/ahrav/go-searcheval/infrastructure/llm"
	"github.com/ahrav/go-searcheval/infrastructure/middleware"
	"github.com/ahrav/go-searcheval/internal/domain"
	"github.com/ahrav/go-searcheval/internal/evaluation"
	"github.com/ahrav/go-searcheval/internal/ports"
)

func main() {
	var (
		configPath = flag.String("config", "run.yaml", "Run configuration file")
		outputPath = flag.String("output", "report.json", "Output artifact path")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config, err := evaluation.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	j, err := buildJudge(config.Judge)
	if err != nil {
		log.Fatalf("Failed to build judge: %v", err)
	}

	evaluator, err := evaluation.NewEvaluator(j, evaluation.EvaluatorConfig{
		Fields:     config.Evaluation.Fields,
		Debug:      config.Evaluation.Debug,
		NDCGCutoff: config.Evaluation.NDCGCutoff,
	})
	if err != nil {
		log.Fatalf("Failed to build evaluator: %v", err)
	}
	runner, err := evaluation.NewRunner(evaluator, config.Evaluation.QueryConcurrency)
	if err != nil {
		log.Fatalf("Failed to build runner: %v", err)
	}

	queries := config.QuerySet()
	summaries := make([]*domain.ApproachSummary, 0, len(config.Approaches))
	for _, approach := range config.Approaches {
		summary, err := runner.Run(ctx, approach.Name, approach.SearchFunc(), queries)
		if err != nil {
			log.Fatalf("Approach %q did not complete: %v", approach.Name, err)
		}
		summaries = append(summaries, summary)
		fmt.Printf("Evaluated %q: %d queries, %d failed, NDCG mean %.4f\n",
			summary.Name, len(summary.Outcomes), summary.FailureCount,
			summary.Aggregates[domain.MetricNDCG].Mean)
	}

	var report *domain.ComparisonReport
	if len(summaries) > 1 {
		report, err = evaluation.Compare(summaries)
		if err != nil {
			log.Fatalf("Comparison failed: %v", err)
		}
		printReport(report)
	}

	if err := evaluation.SaveRun(*outputPath, summaries, report); err != nil {
		log.Fatalf("Failed to save run artifact: %v", err)
	}
	fmt.Printf("\nRun artifact saved to %s\n", *outputPath)
}

// buildJudge assembles the configured judgment source: the lexical
// judge, or an LLM judge with metrics, tracing, and optional rate
// limiting, wrapped with retry when configured.
func buildJudge(settings evaluation.JudgeSettings) (ports.Judge, error) {
	var base ports.Judge

	if settings.Provider == "lexical" {
		base = judge.NewLexicalJudge()
	} else {
		if settings.APIKeyEnv == "" {
			return nil, fmt.Errorf("provider %q requires api_key_env", settings.Provider)
		}
		apiKey := os.Getenv(settings.APIKeyEnv)

		middlewares := []llm.Middleware{
			llm.TracingMiddleware("searcheval"),
			llm.MetricsMiddleware(middleware.NewPrometheusMetrics(nil)),
		}
		if settings.RequestsPerSecond > 0 {
			burst := settings.Burst
			if burst < 1 {
				burst = 1
			}
			middlewares = append(middlewares, llm.RateLimitMiddleware(rate.Limit(settings.RequestsPerSecond), burst))
		}

		core, err := llm.NewCoreLLM(settings.Provider, llm.ClientConfig{
			APIKey:  apiKey,
			Model:   settings.Model,
			BaseURL: settings.BaseURL,
		}, middlewares...)
		if err != nil {
			return nil, fmt.Errorf("create %s client: %w", settings.Provider, err)
		}

		judgeConfig := judge.DefaultLLMJudgeConfig()
		judgeConfig.Temperature = settings.Temperature
		if settings.MaxTokens > 0 {
			judgeConfig.MaxTokens = settings.MaxTokens
		}
		if settings.MaxConcurrency > 0 {
			judgeConfig.MaxConcurrency = settings.MaxConcurrency
		}
		base, err = judge.NewLLMJudge(core, judgeConfig)
		if err != nil {
			return nil, err
		}
	}

	if settings.Retry.MaxAttempts > 1 {
		retryConfig := judge.DefaultRetryConfig()
		retryConfig.MaxAttempts = settings.Retry.MaxAttempts
		if settings.Retry.BaseDelayMs > 0 {
			retryConfig.BaseDelay = time.Duration(settings.Retry.BaseDelayMs) * time.Millisecond
		}
		if settings.Retry.MaxDelayMs > 0 {
			retryConfig.MaxDelay = time.Duration(settings.Retry.MaxDelayMs) * time.Millisecond
		}
		if settings.Retry.JitterPercent > 0 {
			retryConfig.JitterPercent = settings.Retry.JitterPercent
		}
		base = judge.WithRetry(base, retryConfig)
	}
	return base, nil
}

// printReport renders the comparison to stdout in a compact table.
func printReport(report *domain.ComparisonReport) {
	fmt.Printf("\nComparison (baseline: %s)\n", report.Baseline)
	for _, metric := range domain.MetricNames {
		fmt.Printf("  %s:\n", metric)
		for _, name := range report.Approaches {
			fmt.Printf("    %-24s wins %3d  delta vs baseline %+.4f\n",
				name, report.WinCounts[metric][name], report.MeanDeltas[metric][name])
		}
	}
}
