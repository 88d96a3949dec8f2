package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/codehive/classroom/internal/core/domain"
	"github.com/codehive/classroom/internal/core/ports"
)

type submissionService struct {
	repo ports.SubmissionRepository
	log  zerolog.Logger
	now  func() time.Time
}

// NewSubmissionService returns a SubmissionService implementation.
func NewSubmissionService(repo ports.SubmissionRepository, log zerolog.Logger) ports.SubmissionService {
	return &submissionService{repo: repo, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// Submit stores a new submission record, superseding any prior record for the
// same (username, environment) and the same (groupNumber, environment). The
// repository runs all three steps in one transaction, so a failure leaves the
// previous state intact.
//
// Concurrent submits for the same keys are not serialized: the last insert to
// commit wins, regardless of call order.
func (s *submissionService) Submit(ctx context.Context, input ports.SubmitInput) (*ports.SubmitResult, error) {
	submittedAt := s.now()

	record := &domain.SubmissionRecord{
		Username:       input.Username,
		GroupNumber:    input.GroupNumber,
		Environment:    input.Environment,
		CreatedAt:      submittedAt,
		TerminalStates: input.TerminalStates,
		Files:          input.Files,
	}

	if err := s.repo.Replace(ctx, record); err != nil {
		s.log.Error().Err(err).
			Str("username", input.Username).
			Int("group", input.GroupNumber).
			Str("environment", input.Environment).
			Msg("failed to store submission")
		return nil, err
	}

	s.log.Info().
		Str("username", input.Username).
		Int("group", input.GroupNumber).
		Str("environment", input.Environment).
		Int("files", len(input.Files)).
		Msg("submission stored")

	return &ports.SubmitResult{
		Environment: input.Environment,
		SubmittedAt: submittedAt,
	}, nil
}

// GetSubmissions lists submissions belonging to the user or their group.
func (s *submissionService) GetSubmissions(ctx context.Context, username string, groupNumber int) ([]domain.SubmissionSummary, error) {
	return s.repo.ListByOwner(ctx, username, groupNumber)
}
