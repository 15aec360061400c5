package pipeline

import (
	"fmt"
	"strings"
	"sync"
)

// Event discriminators carried in every structured record.
const (
	EventLoadSuccess    = "load_success"
	EventLoadFailure    = "load_failure"
	EventRetryAttempt   = "retry_attempt"
	EventIntegrityCheck = "integrity_check"
)

// LineSink receives one formatted free-text line per emitted line.
type LineSink func(line string)

// StructuredSink receives one mapping per logical event.
type StructuredSink func(record map[string]any)

// EventLogger turns controller events into free-text lines and structured
// records, filtered by verbosity mode.
//
// It operates in normal or debug mode. Normal-mode failure output is a
// single line with the chart id and error kind only; debug mode adds detail,
// every context entry, the retry count, and trace content when captured.
// Mode changes apply to subsequent events, never retroactively.
//
// Both sinks are optional and independently settable. A sink that is absent
// or panics never affects the other sink or the controller's outcome.
// Safe for concurrent use by multiple in-flight loads.
type EventLogger struct {
	mu         sync.Mutex
	debug      bool
	closed     bool
	line       LineSink
	structured StructuredSink
}

// NewEventLogger creates an EventLogger in normal mode with no sinks.
func NewEventLogger() *EventLogger {
	return &EventLogger{}
}

// SetDebugMode switches between normal (false) and debug (true) verbosity.
func (l *EventLogger) SetDebugMode(debug bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debug = debug
}

// DebugEnabled reports whether the logger is in debug mode.
func (l *EventLogger) DebugEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.debug
}

// SetLineSink installs the free-text sink. Effective for subsequent events.
func (l *EventLogger) SetLineSink(sink LineSink) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.line = sink
}

// SetStructuredSink installs the structured sink. Effective for subsequent events.
func (l *EventLogger) SetStructuredSink(sink StructuredSink) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.structured = sink
}

// Dispose detaches both sinks and puts the logger in a closed state.
// Events offered after disposal are dropped.
func (l *EventLogger) Dispose() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	l.line = nil
	l.structured = nil
}

// LoadSuccess emits the terminal success event. Duration and chart id are
// never suppressed, regardless of mode.
func (l *EventLogger) LoadSuccess(chartID, loadID string, durationMS int64, retryCount int) {
	lines := []string{
		fmt.Sprintf("chart %s loaded in %dms", chartID, durationMS),
	}
	record := map[string]any{
		"event":      EventLoadSuccess,
		"chartId":    chartID,
		"load_id":    loadID,
		"durationMs": durationMS,
		"retryCount": retryCount,
	}
	l.emit(lines, record)
}

// LoadFailure emits the terminal failure event. In normal mode: one line,
// chart id and kind, nothing else. In debug mode: detail, every context
// entry, retry count, and the trace when one was captured.
func (l *EventLogger) LoadFailure(chartID, loadID string, loadErr *LoadError, retryCount int) {
	debug := l.DebugEnabled()

	lines := []string{
		fmt.Sprintf("chart %s load failed: %s", chartID, loadErr.Kind),
	}
	record := map[string]any{
		"event":      EventLoadFailure,
		"chartId":    chartID,
		"load_id":    loadID,
		"kind":       string(loadErr.Kind),
		"message":    loadErr.Message,
		"retryCount": retryCount,
	}

	if debug {
		lines = append(lines, fmt.Sprintf("  message: %s", loadErr.Message))
		if loadErr.Detail != "" {
			lines = append(lines, fmt.Sprintf("  detail: %s", loadErr.Detail))
			record["detail"] = loadErr.Detail
		}
		for _, k := range loadErr.ContextKeys() {
			v := loadErr.Context[k]
			lines = append(lines, fmt.Sprintf("  %s: %v", k, v))
			if _, reserved := record[k]; !reserved {
				record[k] = v
			}
		}
		lines = append(lines, fmt.Sprintf("  retries: %d", retryCount))
		if loadErr.HasTrace() {
			for _, traceLine := range strings.Split(strings.TrimRight(loadErr.Trace, "\n"), "\n") {
				lines = append(lines, "  trace: "+traceLine)
			}
			record["trace"] = loadErr.Trace
		}
	}

	l.emit(lines, record)
}

// RetryAttempt emits a retry event with the upcoming attempt number and the
// backoff preceding it.
func (l *EventLogger) RetryAttempt(attempt Attempt) {
	lines := []string{
		fmt.Sprintf("chart %s retry: attempt %d after %dms", attempt.ChartID, attempt.Number, attempt.BackoffMS),
	}
	record := map[string]any{
		"event":     EventRetryAttempt,
		"chartId":   attempt.ChartID,
		"attempt":   attempt.Number,
		"backoffMs": attempt.BackoffMS,
	}
	l.emit(lines, record)
}

// IntegrityChecked emits the verdict of one verification step.
func (l *EventLogger) IntegrityChecked(check IntegrityCheck) {
	lines := []string{
		fmt.Sprintf("chart %s integrity: expected %s computed %s match=%t",
			check.ChartID, check.ExpectedDigest, check.ComputedDigest, check.Match),
	}
	record := map[string]any{
		"event":        EventIntegrityCheck,
		"chartId":      check.ChartID,
		"expectedHash": check.ExpectedDigest,
		"computedHash": check.ComputedDigest,
		"match":        check.Match,
	}
	l.emit(lines, record)
}

// emit dispatches one logical event to both sinks. Sink panics are swallowed
// so a failing sink can never alter the pipeline's outcome or starve the
// other sink.
func (l *EventLogger) emit(lines []string, record map[string]any) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	line := l.line
	structured := l.structured
	l.mu.Unlock()

	if line != nil {
		for _, s := range lines {
			dispatchLine(line, s)
		}
	}
	if structured != nil {
		dispatchRecord(structured, record)
	}
}

func dispatchLine(sink LineSink, line string) {
	defer func() {
		_ = recover()
	}()
	sink(line)
}

func dispatchRecord(sink StructuredSink, record map[string]any) {
	defer func() {
		_ = recover()
	}()
	sink(record)
}
