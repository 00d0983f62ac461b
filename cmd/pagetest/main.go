package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/qalab/page-test-gen/internal/model"
	"github.com/qalab/page-test-gen/internal/pagetest"
)

type cli struct {
	URL         string        `arg:"" help:"Page URL to analyze."`
	CSV         string        `help:"Write the generated test cases to this CSV file." type:"path"`
	Timeout     time.Duration `help:"Overall analysis timeout." default:"60s"`
	Concurrency int           `help:"Concurrent link probes." default:"10"`
	Verbose     bool          `short:"v" help:"Show every test case, not just failures."`
}

func main() {
	var flags cli
	kctx := kong.Parse(&flags,
		kong.Name("pagetest"),
		kong.Description("Analyze a web page and generate test cases from what it finds."),
	)
	kctx.FatalIfErrorf(run(flags))
}

func run(flags cli) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		Level:           log.InfoLevel,
	})
	if flags.Verbose {
		logger.SetLevel(log.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, flags.Timeout)
	defer cancel()

	fetcher := pagetest.NewHTTPFetcher(pagetest.FetcherOptions{}, slog.New(logger))
	language := pagetest.NewLanguageAnalyzer(pagetest.DefaultLanguageCodes())
	checker := pagetest.NewChecker(flags.Concurrency, 5*time.Second)
	engine := pagetest.NewEngine(fetcher, language, checker)

	logger.Info("analyzing", "url", flags.URL)
	report, err := engine.Analyze(ctx, flags.URL)
	if err != nil {
		return err
	}

	printSummary(logger, report)

	if flags.CSV != "" {
		if err := writeCSV(flags.CSV, report.TestCases); err != nil {
			return err
		}
		logger.Info("wrote test cases", "file", flags.CSV, "count", len(report.TestCases))
	}
	return nil
}

func printSummary(logger *log.Logger, report *model.Report) {
	var passed, failed, warnings int
	for _, tc := range report.TestCases {
		switch tc.Status {
		case model.StatusPass:
			passed++
		case model.StatusFail:
			failed++
		case model.StatusWarning:
			warnings++
		}

		switch tc.Status {
		case model.StatusFail:
			logger.Error(tc.Description, "id", tc.ID, "actual", tc.ActualResult)
		case model.StatusWarning:
			logger.Warn(tc.Description, "id", tc.ID, "actual", tc.ActualResult)
		default:
			logger.Debug(tc.Description, "id", tc.ID, "status", tc.Status, "actual", tc.ActualResult)
		}
	}

	logger.Info("analysis complete",
		"links", len(report.Links),
		"forms", len(report.Forms),
		"test_cases", len(report.TestCases),
		"passed", passed,
		"failed", failed,
		"warnings", warnings,
	)
}

func writeCSV(path string, cases []model.TestCase) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := pagetest.WriteTestCasesCSV(f, cases); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
