package pagetest

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/qalab/page-test-gen/internal/platform/errs"
)

// Fetcher defines how the engine retrieves raw page content.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

const (
	defaultConnectTimeout = 5 * time.Second
	defaultReadTimeout    = 30 * time.Second
	defaultMaxRetries     = 3

	retryBackoffBase = 500 * time.Millisecond
	poolSize         = 100
	fetchUserAgent   = "Mozilla/5.0 (compatible; PageTestBot/1.0)"

	// Cap response bodies at 10 MB to prevent memory exhaustion from
	// extremely large or infinite responses.
	maxResponseBody = 10 << 20
)

// retryStatuses are the response codes the transport-level retry layer acts
// on. This layer is independent of the Fetch-level timeout and TLS retries;
// the two stack.
var retryStatuses = map[int]bool{
	http.StatusRequestTimeout:      true,
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// retryTransport re-issues bodyless requests that drew a retryable status,
// with exponential backoff starting at retryBackoffBase.
type retryTransport struct {
	base       http.RoundTripper
	maxRetries int
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	for attempt := range t.maxRetries {
		if err != nil || !retryStatuses[resp.StatusCode] || req.Body != nil {
			return resp, err
		}

		// Drain a little so the pooled connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		_ = resp.Body.Close()

		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(retryBackoffBase << attempt):
		}
		resp, err = t.base.RoundTrip(req)
	}
	return resp, err
}

// FetcherOptions tunes the fetch policy. Zero values fall back to the
// defaults (5s connect, 30s read, 3 transport retries).
type FetcherOptions struct {
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	MaxRetries     int
}

func (o FetcherOptions) withDefaults() FetcherOptions {
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = defaultConnectTimeout
	}
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = defaultReadTimeout
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = defaultMaxRetries
	}
	return o
}

// HTTPFetcher implements Fetcher with a layered retry policy: a timed-out
// attempt is retried once with the read timeout doubled, and a certificate
// failure is retried once without verification. The unverified retry is a
// deliberate security downgrade carried over from the original fetch
// policy; it is logged, and a failure of that retry surfaces as TLSFailure.
// Connection-level failures are terminal immediately.
type HTTPFetcher struct {
	client         *http.Client
	insecureClient *http.Client
	readTimeout    time.Duration
	logger         *slog.Logger
}

// NewHTTPFetcher returns a fetcher whose transports share a keep-alive pool,
// block private/reserved addresses at dial time, and independently retry
// {408,429,500,502,503,504} responses with exponential backoff.
func NewHTTPFetcher(opts FetcherOptions, logger *slog.Logger) *HTTPFetcher {
	opts = opts.withDefaults()

	transport := &http.Transport{
		DialContext:         safeDialer(opts.ConnectTimeout).DialContext,
		MaxIdleConns:        poolSize,
		MaxIdleConnsPerHost: poolSize,
		IdleConnTimeout:     90 * time.Second,
	}
	insecure := transport.Clone()
	insecure.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // last-resort retry after a verification failure

	return newHTTPFetcher(opts, logger, transport, insecure)
}

func newHTTPFetcher(opts FetcherOptions, logger *slog.Logger, transport, insecureTransport http.RoundTripper) *HTTPFetcher {
	opts = opts.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}

	return &HTTPFetcher{
		client:         &http.Client{Transport: &retryTransport{base: transport, maxRetries: opts.MaxRetries}},
		insecureClient: &http.Client{Transport: &retryTransport{base: insecureTransport, maxRetries: opts.MaxRetries}},
		readTimeout:    opts.ReadTimeout,
		logger:         logger,
	}
}

// Fetch retrieves the page at the given URL and returns its decoded body.
// A blank or whitespace-only body is a terminal EmptyContent error and is
// never retried.
func (f *HTTPFetcher) Fetch(ctx context.Context, targetURL string) (string, error) {
	body, err := f.fetchWithPolicy(ctx, targetURL)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(body) == "" {
		return "", &errs.AppError{
			Kind:    errs.EmptyContent,
			Message: "The page responded but returned no content to analyze.",
		}
	}
	return body, nil
}

func (f *HTTPFetcher) fetchWithPolicy(ctx context.Context, targetURL string) (string, error) {
	body, err := f.attempt(ctx, f.client, targetURL, f.readTimeout)
	switch {
	case err == nil:
		return body, nil

	case isTimeout(err):
		// The original timeout is logged but not surfaced; the retry's
		// outcome wins.
		f.logger.Warn("fetch timed out, retrying with extended read timeout",
			"url", targetURL, "error", err)
		body, retryErr := f.attempt(ctx, f.client, targetURL, 2*f.readTimeout)
		if retryErr != nil {
			return "", classifyFetchError(retryErr)
		}
		return body, nil

	case isCertificateError(err):
		f.logger.Warn("certificate verification failed, retrying without verification",
			"url", targetURL, "error", err)
		body, retryErr := f.attempt(ctx, f.insecureClient, targetURL, f.readTimeout)
		if retryErr != nil {
			return "", &errs.AppError{
				Kind:    errs.TLSFailure,
				Message: "Failed to establish a secure connection to the page.",
				Cause:   retryErr,
			}
		}
		return body, nil

	default:
		return "", classifyFetchError(err)
	}
}

func (f *HTTPFetcher) attempt(ctx context.Context, client *http.Client, targetURL string, readTimeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return "", &errs.AppError{
			Kind:    errs.InvalidInput,
			Message: "The URL could not be turned into a request.",
			Cause:   err,
		}
	}
	req.Header.Set("User-Agent", fetchUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return "", &errs.AppError{
			Kind:           errs.HTTPStatus,
			UpstreamStatus: resp.StatusCode,
			Message:        "The page returned an error status.",
		}
	}

	limited := io.LimitReader(resp.Body, maxResponseBody)
	reader, convErr := charset.NewReader(limited, resp.Header.Get("Content-Type"))
	if convErr != nil {
		reader = limited
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isCertificateError(err error) bool {
	var (
		verifyErr   *tls.CertificateVerificationError
		authErr     x509.UnknownAuthorityError
		hostnameErr x509.HostnameError
		invalidErr  x509.CertificateInvalidError
	)
	return errors.As(err, &verifyErr) ||
		errors.As(err, &authErr) ||
		errors.As(err, &hostnameErr) ||
		errors.As(err, &invalidErr)
}

// classifyFetchError maps raw transport failures onto the error taxonomy so
// callers can tell a timeout from an unreachable host from a TLS problem.
func classifyFetchError(err error) error {
	var appErr *errs.AppError
	if errors.As(err, &appErr) {
		return err
	}

	switch {
	case isTimeout(err):
		return &errs.AppError{
			Kind:    errs.Timeout,
			Message: "The page took too long to respond.",
			Cause:   err,
		}
	case isCertificateError(err):
		return &errs.AppError{
			Kind:    errs.TLSFailure,
			Message: "Failed to establish a secure connection to the page.",
			Cause:   err,
		}
	default:
		return &errs.AppError{
			Kind:    errs.ConnectionFailed,
			Message: "Could not establish a connection to the page.",
			Cause:   err,
		}
	}
}
