package ports

import (
	"context"

	"github.com/codehive/classroom/internal/core/domain"
)

// AccountRepository defines persistence operations on user documents. All
// operations are single-document; per-document atomicity in the store is the
// only coordination they need.
type AccountRepository interface {
	// FindByUsername returns the account, or (nil, nil) when absent.
	FindByUsername(ctx context.Context, username string) (*domain.UserAccount, error)
	// SetPassword stores the new hash and removes any legacy plaintext
	// password field in one atomic update.
	SetPassword(ctx context.Context, username, passwordHash string) error
	// ListEnvironments is a projection-only read; an absent field reads as an
	// empty list.
	ListEnvironments(ctx context.Context, username string) ([]domain.EnvironmentDescriptor, error)
	// AddEnvironment appends env only if no existing entry shares its name.
	// A duplicate name is a silent no-op, not an error.
	AddEnvironment(ctx context.Context, username string, env domain.EnvironmentDescriptor) error
	// RemoveEnvironment pulls the entry with the given name; no-op if absent.
	RemoveEnvironment(ctx context.Context, username, name string) error
	// ListAll returns every account projected to its roster-relevant fields.
	ListAll(ctx context.Context) ([]*domain.UserAccount, error)
}
