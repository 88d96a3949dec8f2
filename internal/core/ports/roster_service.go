package ports

import (
	"context"

	"github.com/codehive/classroom/internal/core/domain"
)

// MembershipUpdateInput names the accounts entering and leaving a course.
type MembershipUpdateInput struct {
	AddUserIDs    []string
	RemoveUserIDs []string
	CourseID      string
}

// MembershipUpdateResult reports the outcome of a roster transaction. When
// Error is true the whole transaction was rolled back and Message describes
// the failure; no partial membership change is ever visible.
type MembershipUpdateResult struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// RosterService exposes course-membership operations.
type RosterService interface {
	// UpdateCourseMembership applies the whole change or none of it. No
	// automatic retries; callers may re-issue the operation.
	UpdateCourseMembership(ctx context.Context, input MembershipUpdateInput) MembershipUpdateResult
	ListAllCourses(ctx context.Context) ([]*domain.CourseRecord, error)
}
