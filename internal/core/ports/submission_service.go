package ports

import (
	"context"
	"time"

	"github.com/codehive/classroom/internal/core/domain"
)

// SubmitInput carries everything needed to record one assignment hand-in.
type SubmitInput struct {
	Username       string
	GroupNumber    int
	Environment    string
	TerminalStates []domain.TerminalState
	Files          []domain.SubmittedFile
}

// SubmitResult reports the stored record's key and timestamp.
type SubmitResult struct {
	Environment string
	SubmittedAt time.Time
}

// SubmissionService exposes the submission lifecycle.
type SubmissionService interface {
	// Submit supersedes any prior submission for the same user or the same
	// group on this assignment, then stores the new record. After a
	// successful call exactly one record exists for (username, environment)
	// and for (groupNumber, environment).
	//
	// Concurrent submits for the same keys are not serialized here: the last
	// insert to complete wins, regardless of call order.
	Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error)
	// GetSubmissions lists the submissions visible to a user: their own plus
	// their group's.
	GetSubmissions(ctx context.Context, username string, groupNumber int) ([]domain.SubmissionSummary, error)
}
