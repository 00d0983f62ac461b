package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/qalab/page-test-gen/internal/model"
	"github.com/qalab/page-test-gen/internal/pagetest"
	"github.com/qalab/page-test-gen/internal/platform/errs"
)

const analyzeTimeout = 60 * time.Second

// Cloudflare's code for upstream TLS failures; no stdlib constant exists.
const statusTLSFailed = 526

var errURLRequired = errors.New("the \"url\" field is required")

// Transport handles HTTP requests for page analysis.
type Transport struct {
	service *Service
	logger  *slog.Logger
}

// NewTransport creates an HTTP transport backed by the given service.
func NewTransport(service *Service, logger *slog.Logger) *Transport {
	return &Transport{service: service, logger: logger}
}

// RegisterRoutes attaches the transport's handlers to the given mux.
func (t *Transport) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /analyze", t.handleAnalyze)
	mux.HandleFunc("POST /analyze/csv", t.handleAnalyzeCSV)
}

type analyzeRequest struct {
	URL string `json:"url"`
}

func (r analyzeRequest) validate() error {
	if r.URL == "" {
		return errURLRequired
	}
	return nil
}

func (t *Transport) decodeAnalyzeRequest(w http.ResponseWriter, r *http.Request) (analyzeRequest, bool) {
	const maxRequestBody = 1 << 20 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		t.renderError(w, http.StatusBadRequest, "Invalid request body. Please send a JSON object with a \"url\" field.")
		return req, false
	}
	if err := req.validate(); err != nil {
		t.renderError(w, http.StatusBadRequest, err.Error())
		return req, false
	}
	return req, true
}

func (t *Transport) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, ok := t.decodeAnalyzeRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), analyzeTimeout)
	defer cancel()

	report, err := t.service.Analyze(ctx, req.URL)
	if err != nil {
		t.handleServiceError(w, err)
		return
	}

	t.renderJSON(w, http.StatusOK, report)
}

// handleAnalyzeCSV runs the same analysis but returns only the test cases,
// as a downloadable CSV attachment.
func (t *Transport) handleAnalyzeCSV(w http.ResponseWriter, r *http.Request) {
	req, ok := t.decodeAnalyzeRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), analyzeTimeout)
	defer cancel()

	report, err := t.service.Analyze(ctx, req.URL)
	if err != nil {
		t.handleServiceError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := pagetest.WriteTestCasesCSV(&buf, report.TestCases); err != nil {
		t.logger.Error("failed to encode csv", "error", err)
		t.renderError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	filename := fmt.Sprintf("test_cases_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (t *Transport) handleServiceError(w http.ResponseWriter, err error) {
	var appErr *errs.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		switch appErr.Kind {
		case errs.InvalidInput:
			status = http.StatusBadRequest
		case errs.ConnectionFailed, errs.HTTPStatus:
			status = http.StatusBadGateway
		case errs.Timeout:
			status = http.StatusGatewayTimeout
		case errs.TLSFailure:
			status = statusTLSFailed
		case errs.EmptyContent, errs.ParsingFailed:
			status = http.StatusUnprocessableEntity
		case errs.Unknown:
			// 500 Internal Server Error
		}
		t.renderError(w, status, appErr.Message)
		return
	}

	t.renderError(w, http.StatusInternalServerError, "An unexpected error occurred.")
}

func (t *Transport) renderJSON(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		t.logger.Error("failed to encode response", "error", err)
		http.Error(w, `{"error":"Internal Server Error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (t *Transport) renderError(w http.ResponseWriter, status int, message string) {
	errorText := http.StatusText(status)
	if errorText == "" {
		errorText = "Secure Connection Failed"
	}
	t.renderJSON(w, status, model.ErrorResponse{
		Error:      errorText,
		StatusCode: status,
		Message:    message,
	})
}
