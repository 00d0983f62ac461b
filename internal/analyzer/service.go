package analyzer

import (
	"context"
	"errors"
	"log/slog"

	"github.com/qalab/page-test-gen/internal/model"
	"github.com/qalab/page-test-gen/internal/platform/errs"
	"github.com/qalab/page-test-gen/internal/platform/requestid"
)

// Service orchestrates a ReportProvider and logs results.
type Service struct {
	provider ReportProvider
	logger   *slog.Logger
}

// NewService creates a Service backed by the given provider.
func NewService(provider ReportProvider, logger *slog.Logger) *Service {
	return &Service{provider: provider, logger: logger}
}

// Analyze delegates to the provider and logs the outcome.
func (s *Service) Analyze(ctx context.Context, targetURL string) (*model.Report, error) {
	logger := s.logger.With("url", targetURL, "request_id", requestid.FromContext(ctx))

	report, err := s.provider.Analyze(ctx, targetURL)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = &errs.AppError{
				Kind:    errs.Timeout,
				Message: "Analysis timed out. The target URL may be slow to respond.",
				Cause:   err,
			}
		}

		attrs := []any{"error", err}
		var appErr *errs.AppError
		if errors.As(err, &appErr) && appErr.UpstreamStatus != 0 {
			attrs = append(attrs, "target_status", appErr.UpstreamStatus)
		}
		logger.Error("analysis failed", attrs...)
		return nil, err
	}

	counts := statusCounts(report.TestCases)
	logger.Info("analysis complete",
		"links", len(report.Links),
		"forms", len(report.Forms),
		"test_cases", len(report.TestCases),
		"passed", counts[model.StatusPass],
		"failed", counts[model.StatusFail],
		"warnings", counts[model.StatusWarning],
	)
	return report, nil
}

func statusCounts(cases []model.TestCase) map[model.Status]int {
	counts := make(map[model.Status]int, 4)
	for _, tc := range cases {
		counts[tc.Status]++
	}
	return counts
}
