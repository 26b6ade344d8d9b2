package promo

// Outcome is the terminal state of one promotion run.
type Outcome string

const (
	// OutcomePosted means a tweet went out and a history entry was appended.
	OutcomePosted Outcome = "posted"
	// OutcomeSkipped means the activity gate blocked the run. Still a
	// successful run, not an error.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFailed means the run aborted with an error.
	OutcomeFailed Outcome = "failed"
)

// RunResult is the single terminal outcome of a run. Exactly one is produced
// per invocation.
type RunResult struct {
	Outcome Outcome
	Message string
	Entry   *HistoryEntry
	Err     error
}
