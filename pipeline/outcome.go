package pipeline

// State is the terminal resolution of one load request.
type State int

const (
	StateSucceeded State = iota
	StateFailed
	StateCancelled
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Attempt describes one execution of the stage sequence. The controller
// creates one before each try and discards it once the attempt resolves.
type Attempt struct {
	ChartID string
	// Number is 1-based.
	Number int
	// BackoffMS is the wait that preceded this attempt; 0 for the first.
	BackoffMS int64
}

// Outcome is the terminal result of a load request.
//
// Succeeded outcomes carry the decoded chart and the elapsed duration from
// first attempt start to resolution, inclusive of backoff waits. Failed
// outcomes carry the classified error and no duration. Cancelled outcomes
// carry neither; no terminal event is emitted for them.
type Outcome struct {
	State      State
	ChartID    string
	LoadID     string
	DurationMS int64
	// RetryCount counts retries performed; 0 means the first attempt
	// resolved the load. Equals the number of retry_attempt events logged.
	RetryCount int
	Err        *LoadError
	// Chart is the decoder's output, opaque to the pipeline.
	Chart any
}

// Succeeded reports whether all stages completed.
func (o Outcome) Succeeded() bool {
	return o.State == StateSucceeded
}

// Failed reports whether the load exhausted its attempts or hit a
// non-retryable failure.
func (o Outcome) Failed() bool {
	return o.State == StateFailed
}

// Cancelled reports whether the caller cancelled the load before a
// terminal resolution.
func (o Outcome) Cancelled() bool {
	return o.State == StateCancelled
}
