package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/codehive/classroom/internal/core/domain"
	"github.com/codehive/classroom/internal/core/ports"
)

type rosterService struct {
	repo ports.RosterRepository
	log  zerolog.Logger
}

// NewRosterService returns a RosterService implementation.
func NewRosterService(repo ports.RosterRepository, log zerolog.Logger) ports.RosterService {
	return &rosterService{repo: repo, log: log}
}

// UpdateCourseMembership applies the whole membership change atomically. On
// failure the transaction is rolled back and the result carries the message;
// no user's course set differs from before the call. Nothing is retried.
func (s *rosterService) UpdateCourseMembership(ctx context.Context, input ports.MembershipUpdateInput) ports.MembershipUpdateResult {
	err := s.repo.UpdateMembership(ctx, input.AddUserIDs, input.RemoveUserIDs, input.CourseID)
	if err != nil {
		s.log.Error().Err(err).
			Str("course_id", input.CourseID).
			Int("add", len(input.AddUserIDs)).
			Int("remove", len(input.RemoveUserIDs)).
			Msg("roster update aborted")
		return ports.MembershipUpdateResult{Error: true, Message: err.Error()}
	}

	s.log.Info().
		Str("course_id", input.CourseID).
		Int("add", len(input.AddUserIDs)).
		Int("remove", len(input.RemoveUserIDs)).
		Msg("roster updated")
	return ports.MembershipUpdateResult{Error: false, Message: "membership updated"}
}

func (s *rosterService) ListAllCourses(ctx context.Context) ([]*domain.CourseRecord, error) {
	return s.repo.ListCourses(ctx)
}
