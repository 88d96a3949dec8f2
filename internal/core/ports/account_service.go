package ports

import (
	"context"

	"github.com/codehive/classroom/internal/core/domain"
)

// AddEnvironmentInput carries the fields of a new sandbox environment.
type AddEnvironmentInput struct {
	Username    string
	Name        string
	Description string
	InstanceID  string
}

// AccountService exposes account and environment-list operations.
type AccountService interface {
	// GetAccount returns the account, or (nil, nil) when absent.
	GetAccount(ctx context.Context, username string) (*domain.UserAccount, error)
	// ChangePassword hashes the plaintext and atomically replaces the stored
	// credential, clearing any legacy plaintext field.
	ChangePassword(ctx context.Context, username, newPassword string) error
	ListEnvironments(ctx context.Context, username string) ([]domain.EnvironmentDescriptor, error)
	// AddEnvironment is a no-op when the user already has an environment with
	// that name.
	AddEnvironment(ctx context.Context, input AddEnvironmentInput) error
	// RemoveEnvironment is a no-op when no environment with that name exists.
	RemoveEnvironment(ctx context.Context, username, name string) error
	ListAllUsers(ctx context.Context) ([]*domain.UserAccount, error)
}
