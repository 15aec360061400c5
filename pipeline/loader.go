package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Fetcher produces the raw archive bytes for a chart id.
// Failures are classified as network errors.
type Fetcher interface {
	Fetch(ctx context.Context, chartID string) ([]byte, error)
}

// Extractor unpacks the archive and returns the chart payload.
// Failures are classified as extraction errors.
type Extractor interface {
	Extract(ctx context.Context, chartID string, archive []byte) ([]byte, error)
}

// Decoder turns a verified payload into chart data. The decoded value's
// structure is opaque to the pipeline. Failures are classified as parsing
// errors.
type Decoder interface {
	Decode(ctx context.Context, chartID string, payload []byte) (any, error)
}

// DigestProvider supplies the expected payload digest per chart id,
// typically backed by a chart catalog.
type DigestProvider interface {
	ExpectedDigest(chartID string) (string, error)
}

// Deps bundles the external collaborators a Loader drives.
type Deps struct {
	Fetcher   Fetcher
	Extractor Extractor
	Decoder   Decoder
	Digests   DigestProvider
}

// Config controls retry behavior.
type Config struct {
	// MaxAttempts bounds tries per load when LoadChart is called with
	// maxAttempts <= 0.
	MaxAttempts int
	Backoff     BackoffPolicy
	// UseJitter schedules waits with BackoffPolicy.JitteredDelay instead of
	// the raw Delay. Logged backoffMs always reflects the scheduled wait.
	UseJitter bool
	// RetryableKinds marks which failure kinds warrant another attempt.
	// Nil selects the defaults: network, extraction, and integrity retry;
	// parsing does not, since a payload that failed to decode once will
	// fail deterministically again.
	RetryableKinds map[Kind]bool
}

// DefaultConfig returns the default retry configuration.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		Backoff:     DefaultBackoffPolicy,
		RetryableKinds: map[Kind]bool{
			KindNetwork:    true,
			KindExtraction: true,
			KindIntegrity:  true,
			KindParsing:    false,
		},
	}
}

// Loader drives the fetch → extract → verify → decode sequence for one
// chart per call, classifying failures and retrying per policy. Each
// LoadChart invocation is an independent unit of work; concurrent loads
// share only the event logger, which is safe for that.
type Loader struct {
	deps     Deps
	cfg      Config
	verifier *Verifier
	events   *EventLogger
	logger   *zap.SugaredLogger

	// wait is the sole suspension point between attempts; injectable so
	// tests can run without real sleeps.
	wait func(ctx context.Context, d time.Duration) error
}

// NewLoader creates a Loader. A nil events logger is replaced with an inert
// one; a nil zap logger with a no-op.
func NewLoader(deps Deps, cfg Config, events *EventLogger, logger *zap.SugaredLogger) *Loader {
	if events == nil {
		events = NewEventLogger()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = DefaultConfig().MaxAttempts
	}
	if cfg.Backoff == (BackoffPolicy{}) {
		cfg.Backoff = DefaultBackoffPolicy
	}
	if cfg.RetryableKinds == nil {
		cfg.RetryableKinds = DefaultConfig().RetryableKinds
	}
	return &Loader{
		deps:     deps,
		cfg:      cfg,
		verifier: NewVerifier(),
		events:   events,
		logger:   logger,
		wait:     sleepWait,
	}
}

// Events returns the event logger the loader emits to.
func (l *Loader) Events() *EventLogger {
	return l.events
}

// LoadChart runs the stage sequence for chartID, retrying per policy, and
// returns the terminal outcome. maxAttempts <= 0 falls back to the
// configured default. On context cancellation the returned outcome is
// cancelled and no terminal event is emitted.
func (l *Loader) LoadChart(ctx context.Context, chartID string, maxAttempts int) Outcome {
	if maxAttempts <= 0 {
		maxAttempts = l.cfg.MaxAttempts
	}
	loadID := uuid.NewString()
	log := l.logger.With("chartId", chartID, "load_id", loadID)

	start := time.Now()
	retryCount := 0

	for attempt := 1; ; attempt++ {
		if ctx.Err() != nil {
			log.Debugw("Load cancelled before attempt", "attempt", attempt)
			return l.cancelled(chartID, loadID, retryCount)
		}

		chart, loadErr := l.runAttempt(ctx, log, chartID, attempt)
		if loadErr == nil {
			durationMS := time.Since(start).Milliseconds()
			l.events.LoadSuccess(chartID, loadID, durationMS, retryCount)
			log.Infow("Chart loaded",
				"attempt", attempt,
				"durationMs", durationMS,
				"retryCount", retryCount)
			return Outcome{
				State:      StateSucceeded,
				ChartID:    chartID,
				LoadID:     loadID,
				DurationMS: durationMS,
				RetryCount: retryCount,
				Chart:      chart,
			}
		}

		if ctx.Err() != nil {
			return l.cancelled(chartID, loadID, retryCount)
		}

		if attempt >= maxAttempts || !l.cfg.RetryableKinds[loadErr.Kind] {
			l.events.LoadFailure(chartID, loadID, loadErr, retryCount)
			log.Warnw("Chart load failed",
				"kind", string(loadErr.Kind),
				"error", loadErr,
				"attempts", attempt,
				"retryCount", retryCount)
			return Outcome{
				State:      StateFailed,
				ChartID:    chartID,
				LoadID:     loadID,
				RetryCount: retryCount,
				Err:        loadErr,
			}
		}

		delay := l.cfg.Backoff.Delay(attempt)
		if l.cfg.UseJitter {
			delay = l.cfg.Backoff.JitteredDelay(attempt)
		}
		retryCount++
		l.events.RetryAttempt(Attempt{
			ChartID:   chartID,
			Number:    attempt + 1,
			BackoffMS: delay.Milliseconds(),
		})
		log.Debugw("Scheduling retry",
			"failed_attempt", attempt,
			"kind", string(loadErr.Kind),
			"backoffMs", delay.Milliseconds())

		if err := l.wait(ctx, delay); err != nil {
			log.Debugw("Load cancelled during backoff", "attempt", attempt)
			return l.cancelled(chartID, loadID, retryCount)
		}
	}
}

// runAttempt executes one full stage sequence. Every attempt restarts from
// fetch so extracted or verified state is never reused stale.
func (l *Loader) runAttempt(ctx context.Context, log *zap.SugaredLogger, chartID string, attempt int) (any, *LoadError) {
	archive, err := l.deps.Fetcher.Fetch(ctx, chartID)
	if err != nil {
		log.Debugw("Fetch failed", "attempt", attempt, "error", err)
		return nil, NewNetworkError("failed to fetch chart archive",
			l.errOpts(WithCause(err), WithContextValue("chartId", chartID))...)
	}

	payload, err := l.deps.Extractor.Extract(ctx, chartID, archive)
	if err != nil {
		log.Debugw("Extract failed", "attempt", attempt, "error", err)
		return nil, NewExtractionError("failed to extract chart payload",
			l.errOpts(WithCause(err), WithContextValue("archiveSize", len(archive)))...)
	}

	expected, err := l.deps.Digests.ExpectedDigest(chartID)
	if err != nil {
		// No digest to verify against: the payload cannot be trusted, so
		// this is an integrity failure rather than a lookup concern of its own.
		log.Debugw("Expected digest unavailable", "attempt", attempt, "error", err)
		return nil, NewIntegrityError("expected digest unavailable",
			l.errOpts(WithCause(err), WithDetail("chart has no catalog digest"))...)
	}

	check := l.verifier.Check(chartID, payload, expected)
	l.events.IntegrityChecked(check)
	if !check.Match {
		log.Debugw("Digest mismatch",
			"attempt", attempt,
			"expectedHash", check.ExpectedDigest,
			"computedHash", check.ComputedDigest)
		return nil, NewIntegrityError("payload digest mismatch",
			l.errOpts(
				WithContextValue("expectedHash", check.ExpectedDigest),
				WithContextValue("computedHash", check.ComputedDigest),
			)...)
	}

	chart, err := l.deps.Decoder.Decode(ctx, chartID, payload)
	if err != nil {
		log.Debugw("Decode failed", "attempt", attempt, "error", err)
		return nil, NewParsingError("failed to decode chart payload",
			l.errOpts(WithCause(err), WithContextValue("payloadSize", len(payload)))...)
	}

	return chart, nil
}

// errOpts appends trace capture to the given options when the event logger
// runs in debug mode, so traces exist exactly when failure events can show them.
func (l *Loader) errOpts(opts ...ErrorOption) []ErrorOption {
	if l.events.DebugEnabled() {
		opts = append(opts, CaptureTrace())
	}
	return opts
}

func (l *Loader) cancelled(chartID, loadID string, retryCount int) Outcome {
	return Outcome{
		State:      StateCancelled,
		ChartID:    chartID,
		LoadID:     loadID,
		RetryCount: retryCount,
	}
}

func sleepWait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
