package ports

import (
	"context"

	"github.com/codehive/classroom/internal/core/domain"
)

// RosterRepository maintains the user↔course membership references and reads
// course documents.
type RosterRepository interface {
	// UpdateMembership adds courseID to every account in addIDs (set
	// semantics, no duplicates) and removes it from every account in
	// removeIDs, atomically: any failure rolls back both steps. An ID present
	// in both lists ends without the course (removal is applied second).
	UpdateMembership(ctx context.Context, addIDs, removeIDs []string, courseID string) error
	// ListCourses returns every course projected to id, name and assignments.
	ListCourses(ctx context.Context) ([]*domain.CourseRecord, error)
}
