package pagetest

import (
	"context"
	"net/url"

	"github.com/qalab/page-test-gen/internal/model"
	"github.com/qalab/page-test-gen/internal/platform/errs"
)

// languageAnalyzer defines how the engine classifies content language.
type languageAnalyzer interface {
	Analyze(htmlContent, pageURL string) (*model.LanguageAnalysis, error)
}

// endpointChecker defines how the engine probes link and form endpoints.
type endpointChecker interface {
	CheckLinks(ctx context.Context, links []model.Link) []model.LinkCheck
	CheckForms(ctx context.Context, forms []model.Form) []model.FormCheck
}

// Engine orchestrates fetching, parsing, language analysis, endpoint
// probing, and test-case synthesis.
type Engine struct {
	fetcher  Fetcher
	language languageAnalyzer
	checker  endpointChecker
}

// NewEngine returns an Engine backed by the given collaborators.
func NewEngine(fetcher Fetcher, language languageAnalyzer, checker endpointChecker) *Engine {
	return &Engine{
		fetcher:  fetcher,
		language: language,
		checker:  checker,
	}
}

// Analyze runs the full pipeline for one URL and returns the assembled
// report. A language analysis failure degrades the report rather than
// failing the run; every other stage error aborts.
func (e *Engine) Analyze(ctx context.Context, targetURL string) (*model.Report, error) {
	parsed, err := url.Parse(targetURL)
	if err != nil {
		return nil, &errs.AppError{
			Kind:    errs.InvalidInput,
			Message: "Invalid URL format. Please ensure you entered a valid URL (e.g., https://example.com).",
			Cause:   err,
		}
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, &errs.AppError{
			Kind:    errs.InvalidInput,
			Message: "Invalid URL format. Please ensure you entered a valid URL (e.g., https://example.com).",
		}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, &errs.AppError{
			Kind:    errs.InvalidInput,
			Message: "Only http and https URLs are supported.",
		}
	}

	body, err := e.fetcher.Fetch(ctx, targetURL)
	if err != nil {
		return nil, err
	}

	parser, err := NewParser(body, targetURL)
	if err != nil {
		return nil, err
	}

	links := parser.Links()
	forms := parser.Forms()
	structure := parser.Structure()

	language, err := e.language.Analyze(body, targetURL)
	if err != nil {
		language = &model.LanguageAnalysis{
			OtherLanguages: []model.OtherLanguage{},
			Direction:      "ltr",
			Err:            err.Error(),
		}
	}

	linkChecks := e.checker.CheckLinks(ctx, links)
	formChecks := e.checker.CheckForms(ctx, forms)

	testCases := GenerateTestCases(SynthesisInput{
		Links:      links,
		LinkChecks: linkChecks,
		Forms:      forms,
		Structure:  structure,
		Language:   language,
	})

	return &model.Report{
		URL:        targetURL,
		Links:      links,
		LinkChecks: linkChecks,
		Forms:      forms,
		FormChecks: formChecks,
		Structure:  structure,
		Language:   language,
		TestCases:  testCases,
	}, nil
}
