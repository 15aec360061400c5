package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/navtool/chartload/errors"
)

// Kind categorizes load failures by the stage that produced them.
// The controller assigns the kind explicitly based on which stage failed;
// it is never inferred from message text.
type Kind string

const (
	// KindNetwork covers fetch failures: connectivity, timeouts, not-found
	KindNetwork Kind = "network"
	// KindExtraction covers corrupt or unreadable archives
	KindExtraction Kind = "extraction"
	// KindIntegrity covers digest mismatches
	KindIntegrity Kind = "integrity"
	// KindParsing covers payloads the decoder rejected
	KindParsing Kind = "parsing"
)

// Kinds lists every failure kind the pipeline can produce.
var Kinds = []Kind{KindNetwork, KindExtraction, KindIntegrity, KindParsing}

// LoadError is the uniform failure value for every pipeline stage.
// Immutable once constructed; build one through the per-kind constructors.
type LoadError struct {
	Kind    Kind
	Message string
	Detail  string
	Context map[string]any
	Trace   string

	cause error
}

// ErrorOption customizes a LoadError during construction.
type ErrorOption func(*LoadError)

// WithDetail attaches a secondary human-readable detail string.
func WithDetail(detail string) ErrorOption {
	return func(e *LoadError) {
		e.Detail = detail
	}
}

// WithContext merges contextual key/value data onto the error.
func WithContext(ctx map[string]any) ErrorOption {
	return func(e *LoadError) {
		if e.Context == nil {
			e.Context = make(map[string]any, len(ctx))
		}
		for k, v := range ctx {
			e.Context[k] = v
		}
	}
}

// WithContextValue attaches a single contextual key/value pair.
func WithContextValue(key string, value any) ErrorOption {
	return func(e *LoadError) {
		if e.Context == nil {
			e.Context = make(map[string]any, 1)
		}
		e.Context[key] = value
	}
}

// WithCause records the underlying collaborator error.
func WithCause(err error) ErrorOption {
	return func(e *LoadError) {
		e.cause = err
	}
}

// CaptureTrace records the execution stack at the construction site.
// The controller applies this only when the event logger runs in debug mode,
// so traces never leak into normal operation.
func CaptureTrace() ErrorOption {
	return func(e *LoadError) {
		e.Trace = fmt.Sprintf("%+v", errors.WithStack(errors.New("execution trace")))
	}
}

func newLoadError(kind Kind, message string, opts []ErrorOption) *LoadError {
	e := &LoadError{
		Kind:    kind,
		Message: message,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewNetworkError reports a fetch-stage failure.
func NewNetworkError(message string, opts ...ErrorOption) *LoadError {
	return newLoadError(KindNetwork, message, opts)
}

// NewExtractionError reports an extract-stage failure.
func NewExtractionError(message string, opts ...ErrorOption) *LoadError {
	return newLoadError(KindExtraction, message, opts)
}

// NewIntegrityError reports a failed digest verification.
func NewIntegrityError(message string, opts ...ErrorOption) *LoadError {
	return newLoadError(KindIntegrity, message, opts)
}

// NewParsingError reports a decode-stage failure.
func NewParsingError(message string, opts ...ErrorOption) *LoadError {
	return newLoadError(KindParsing, message, opts)
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.cause != nil {
		b.WriteString(": ")
		b.WriteString(e.cause.Error())
	}
	return b.String()
}

// Unwrap exposes the underlying collaborator error for errors.Is/As chains.
func (e *LoadError) Unwrap() error {
	return e.cause
}

// Is reports kind equality against another *LoadError target, so
// errors.Is(err, &LoadError{Kind: KindNetwork}) matches any network failure.
func (e *LoadError) Is(target error) bool {
	t, ok := target.(*LoadError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && (t.Message == "" || t.Message == e.Message)
}

// HasTrace reports whether an execution trace was captured.
func (e *LoadError) HasTrace() bool {
	return e.Trace != ""
}

// ContextKeys returns the context keys in sorted order, for stable logging.
func (e *LoadError) ContextKeys() []string {
	if len(e.Context) == 0 {
		return nil
	}
	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
