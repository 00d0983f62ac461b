package analyzer

import (
	"context"

	"github.com/qalab/page-test-gen/internal/model"
)

// ReportProvider defines the contract for any analysis engine.
type ReportProvider interface {
	Analyze(ctx context.Context, targetURL string) (*model.Report, error)
}
