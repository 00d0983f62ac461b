package errs

import "fmt"

// Kind categorizes application errors so callers can distinguish transport
// failure classes and map them to HTTP statuses.
type Kind int

const (
	// Unknown represents an unclassified error.
	Unknown Kind = iota
	// InvalidInput indicates the supplied URL was malformed (HTTP 400).
	InvalidInput
	// ConnectionFailed indicates the target could not be reached (HTTP 502).
	ConnectionFailed
	// Timeout indicates the target took too long to respond, even after the
	// extended-timeout retry (HTTP 504).
	Timeout
	// TLSFailure indicates a secure connection could not be established even
	// after retrying without certificate verification (HTTP 526).
	TLSFailure
	// HTTPStatus indicates the target answered with an error status (HTTP 502).
	HTTPStatus
	// EmptyContent indicates the target responded with a blank body (HTTP 422).
	EmptyContent
	// ParsingFailed indicates the page content could not be parsed or a
	// parser precondition was violated (HTTP 422).
	ParsingFailed
)

// AppError carries a category, user message, and original cause.
type AppError struct {
	Kind           Kind
	UpstreamStatus int // HTTP status code returned by the target domain
	Message        string
	Cause          error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}
