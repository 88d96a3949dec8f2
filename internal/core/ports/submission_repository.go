package ports

import (
	"context"

	"github.com/codehive/classroom/internal/core/domain"
)

// SubmissionRepository defines persistence operations for submissions.
type SubmissionRepository interface {
	// Replace removes every record matching (record.Username,
	// record.Environment), every record matching (record.GroupNumber,
	// record.Environment), and inserts record — all inside one transaction.
	// Either all three steps commit or none of them are visible.
	Replace(ctx context.Context, record *domain.SubmissionRecord) error
	// ListByOwner returns every record whose username OR group number
	// matches, projected to assignment name and last-changed time. No order
	// across assignments is guaranteed.
	ListByOwner(ctx context.Context, username string, groupNumber int) ([]domain.SubmissionSummary, error)
}
