package domain

import "time"

// TerminalState is a recorded outcome of running a submission's code in the
// sandbox (e.g. "passed", "failed", a compiler diagnostic).
type TerminalState struct {
	State      string    `json:"state" bson:"state"`
	RecordedAt time.Time `json:"recorded_at" bson:"recorded_at"`
}

// SubmittedFile is a single file handed in with a submission.
type SubmittedFile struct {
	Name    string `json:"name" bson:"name"`
	Content string `json:"content,omitempty" bson:"content,omitempty"`
}

// SubmissionRecord is one hand-in of an assignment. Records are never updated
// in place: a resubmission deletes the previous record and inserts a new one.
//
// At most one record exists at any time for a given (username, environment)
// pair and for a given (group_number, environment) pair. Any group member may
// submit for the whole group; the latest submission wins at both
// granularities because grading reads by either key.
type SubmissionRecord struct {
	ID             string          `json:"id" bson:"_id,omitempty"`
	Username       string          `json:"username" bson:"username"`
	GroupNumber    int             `json:"group_number" bson:"group_number"`
	Environment    string          `json:"environment" bson:"environment"`
	CreatedAt      time.Time       `json:"created_at" bson:"created_at"`
	TerminalStates []TerminalState `json:"terminal_states" bson:"terminal_states"`
	Files          []SubmittedFile `json:"files" bson:"files"`
}

// SubmissionSummary is the projected view returned to callers listing
// submissions: which assignment, and when it last changed.
type SubmissionSummary struct {
	AssignmentName string    `json:"assignment_name"`
	LastChanged    time.Time `json:"last_changed"`
}
