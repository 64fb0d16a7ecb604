package domain

// OutcomeStatus classifies the terminal state of a single deletion attempt.
type OutcomeStatus string

const (
	StatusDeleted OutcomeStatus = "deleted"
	StatusFailed  OutcomeStatus = "failed"
	StatusSkipped OutcomeStatus = "skipped"
)

// DeletionOutcome records what happened to one selected repository.
// Outcomes are produced only by the deletion executor, exactly one per
// attempted identifier, and are immutable once written.
type DeletionOutcome struct {
	ID     string        `json:"id"`
	Status OutcomeStatus `json:"status"`
	Err    error         `json:"-"`
}

// Deleted reports whether the repository was actually removed.
func (o DeletionOutcome) Deleted() bool {
	return o.Status == StatusDeleted
}

// Failed reports whether the attempt ended in an error.
func (o DeletionOutcome) Failed() bool {
	return o.Status == StatusFailed
}
