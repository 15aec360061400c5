package pipeline

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedOutput struct {
	mu      sync.Mutex
	lines   []string
	records []map[string]any
}

func (r *recordedOutput) lineSink(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, line)
}

func (r *recordedOutput) structuredSink(record map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
}

func (r *recordedOutput) allLines() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return strings.Join(r.lines, "\n")
}

func newRecordedLogger() (*EventLogger, *recordedOutput) {
	out := &recordedOutput{}
	l := NewEventLogger()
	l.SetLineSink(out.lineSink)
	l.SetStructuredSink(out.structuredSink)
	return l, out
}

func TestNormalModeFailureSingleLine(t *testing.T) {
	l, out := newRecordedLogger()

	err := NewParsingError("decoder rejected payload",
		WithDetail("unexpected field"),
		WithContextValue("zipPath", "/tmp/US5WA50M.zip"),
		CaptureTrace(),
	)
	l.LoadFailure("US5WA50M", "load-1", err, 2)

	require.Len(t, out.lines, 1)
	assert.Contains(t, out.lines[0], "US5WA50M")
	assert.Contains(t, out.lines[0], "parsing")
	// Never detail, context, or trace content in normal mode
	assert.NotContains(t, out.lines[0], "unexpected field")
	assert.NotContains(t, out.lines[0], "zipPath")
	assert.NotContains(t, out.lines[0], "trace")
}

func TestDebugModeFailureFullDetail(t *testing.T) {
	l, out := newRecordedLogger()
	l.SetDebugMode(true)

	err := NewParsingError("decoder rejected payload",
		WithDetail("unexpected field at offset 42"),
		WithContext(map[string]any{
			"zipPath":      "/path/US5WA50M.zip",
			"fileSize":     147000,
			"expectedHash": "abc123",
		}),
		CaptureTrace(),
	)
	l.LoadFailure("US5WA50M", "load-1", err, 2)

	assert.Greater(t, len(out.lines), 1)
	text := out.allLines()
	assert.Contains(t, text, "unexpected field at offset 42")
	assert.Contains(t, text, "/path/US5WA50M.zip")
	assert.Contains(t, text, "147000")
	assert.Contains(t, text, "retries: 2")
	assert.Contains(t, text, "trace:")

	// Structured record carries the context entries unchanged
	require.Len(t, out.records, 1)
	rec := out.records[0]
	assert.Equal(t, EventLoadFailure, rec["event"])
	assert.Equal(t, "US5WA50M", rec["chartId"])
	assert.Equal(t, "/path/US5WA50M.zip", rec["zipPath"])
	assert.Equal(t, 147000, rec["fileSize"])
	assert.Equal(t, "abc123", rec["expectedHash"])
	assert.Equal(t, 2, rec["retryCount"])
	assert.NotEmpty(t, rec["trace"])
}

func TestDebugModeWithoutTraceOmitsTraceKey(t *testing.T) {
	l, out := newRecordedLogger()
	l.SetDebugMode(true)

	l.LoadFailure("US5WA50M", "load-1", NewNetworkError("fetch failed"), 0)

	require.Len(t, out.records, 1)
	_, present := out.records[0]["trace"]
	assert.False(t, present)
	assert.NotContains(t, out.allLines(), "trace:")
}

func TestModeChangeAppliesToSubsequentEventsOnly(t *testing.T) {
	l, out := newRecordedLogger()

	err := NewNetworkError("fetch failed", WithDetail("timeout"))
	l.LoadFailure("A", "load-1", err, 0)
	normalLines := len(out.lines)

	l.SetDebugMode(true)
	l.LoadFailure("A", "load-2", err, 0)

	assert.Equal(t, 1, normalLines)
	assert.Greater(t, len(out.lines), normalLines+1)
}

func TestSuccessEventContent(t *testing.T) {
	l, out := newRecordedLogger()

	l.LoadSuccess("US5WA50M", "load-1", 342, 1)

	require.Len(t, out.lines, 1)
	assert.Contains(t, out.lines[0], "US5WA50M")
	assert.Contains(t, out.lines[0], "342")

	require.Len(t, out.records, 1)
	rec := out.records[0]
	assert.Equal(t, EventLoadSuccess, rec["event"])
	assert.Equal(t, int64(342), rec["durationMs"])
	assert.Equal(t, 1, rec["retryCount"])
}

func TestRetryAttemptEventContent(t *testing.T) {
	l, out := newRecordedLogger()

	l.RetryAttempt(Attempt{ChartID: "US5WA50M", Number: 2, BackoffMS: 100})

	require.Len(t, out.records, 1)
	rec := out.records[0]
	assert.Equal(t, EventRetryAttempt, rec["event"])
	assert.Equal(t, "US5WA50M", rec["chartId"])
	assert.Equal(t, 2, rec["attempt"])
	assert.Equal(t, int64(100), rec["backoffMs"])
	assert.Contains(t, out.lines[0], "100")
}

func TestIntegrityCheckEventContent(t *testing.T) {
	l, out := newRecordedLogger()

	l.IntegrityChecked(IntegrityCheck{
		ChartID:        "US5WA50M",
		ExpectedDigest: "abc123",
		ComputedDigest: "def456",
		Match:          false,
	})

	require.Len(t, out.records, 1)
	rec := out.records[0]
	assert.Equal(t, EventIntegrityCheck, rec["event"])
	assert.Equal(t, "abc123", rec["expectedHash"])
	assert.Equal(t, "def456", rec["computedHash"])
	assert.Equal(t, false, rec["match"])
	assert.Contains(t, out.lines[0], "abc123")
	assert.Contains(t, out.lines[0], "def456")
}

func TestPanickingLineSinkDoesNotStarveStructuredSink(t *testing.T) {
	out := &recordedOutput{}
	l := NewEventLogger()
	l.SetLineSink(func(string) {
		panic("sink exploded")
	})
	l.SetStructuredSink(out.structuredSink)

	assert.NotPanics(t, func() {
		l.LoadSuccess("US5WA50M", "load-1", 10, 0)
	})
	require.Len(t, out.records, 1)
	assert.Equal(t, EventLoadSuccess, out.records[0]["event"])
}

func TestNoSinksIsHarmless(t *testing.T) {
	l := NewEventLogger()
	assert.NotPanics(t, func() {
		l.LoadSuccess("A", "load-1", 1, 0)
		l.LoadFailure("A", "load-2", NewNetworkError("x"), 0)
		l.RetryAttempt(Attempt{ChartID: "A", Number: 2, BackoffMS: 100})
		l.IntegrityChecked(IntegrityCheck{ChartID: "A"})
	})
}

func TestDisposeDetachesSinksAndDropsEvents(t *testing.T) {
	l, out := newRecordedLogger()

	l.LoadSuccess("A", "load-1", 1, 0)
	l.Dispose()
	l.LoadSuccess("A", "load-2", 2, 0)
	l.LoadFailure("A", "load-3", NewNetworkError("x"), 0)

	assert.Len(t, out.records, 1)
	assert.Len(t, out.lines, 1)
}

func TestSinkSwapAffectsSubsequentEvents(t *testing.T) {
	first := &recordedOutput{}
	second := &recordedOutput{}
	l := NewEventLogger()
	l.SetStructuredSink(first.structuredSink)

	l.LoadSuccess("A", "load-1", 1, 0)
	l.SetStructuredSink(second.structuredSink)
	l.LoadSuccess("A", "load-2", 2, 0)

	assert.Len(t, first.records, 1)
	assert.Len(t, second.records, 1)
}

func TestConcurrentEmitSafety(t *testing.T) {
	l, out := newRecordedLogger()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				l.LoadSuccess("chart", "load", int64(n), 0)
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, out.records, 8*50)
	assert.Len(t, out.lines, 8*50)
}
