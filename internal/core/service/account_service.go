package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/codehive/classroom/internal/core/domain"
	"github.com/codehive/classroom/internal/core/ports"
)

// passwordCost is the bcrypt cost factor for stored credentials.
const passwordCost = 10

type accountService struct {
	repo ports.AccountRepository
	log  zerolog.Logger
}

// NewAccountService returns an AccountService implementation.
func NewAccountService(repo ports.AccountRepository, log zerolog.Logger) ports.AccountService {
	return &accountService{repo: repo, log: log}
}

// GetAccount returns the account, or (nil, nil) when absent.
func (s *accountService) GetAccount(ctx context.Context, username string) (*domain.UserAccount, error) {
	return s.repo.FindByUsername(ctx, username)
}

// ChangePassword hashes the plaintext with bcrypt and swaps the stored
// credential in one atomic update, dropping any legacy plaintext field.
func (s *accountService) ChangePassword(ctx context.Context, username, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), passwordCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo.SetPassword(ctx, username, string(hash)); err != nil {
		s.log.Error().Err(err).Str("username", username).Msg("failed to change password")
		return err
	}

	s.log.Info().Str("username", username).Msg("password changed")
	return nil
}

func (s *accountService) ListEnvironments(ctx context.Context, username string) ([]domain.EnvironmentDescriptor, error) {
	return s.repo.ListEnvironments(ctx, username)
}

// AddEnvironment is idempotent at the postcondition level: after the call an
// environment with that name exists, whether or not this call created it.
func (s *accountService) AddEnvironment(ctx context.Context, input ports.AddEnvironmentInput) error {
	env := domain.EnvironmentDescriptor{
		Name:        input.Name,
		Description: input.Description,
		InstanceID:  input.InstanceID,
	}

	if err := s.repo.AddEnvironment(ctx, input.Username, env); err != nil {
		s.log.Error().Err(err).Str("username", input.Username).Str("environment", input.Name).Msg("failed to add environment")
		return err
	}

	s.log.Info().Str("username", input.Username).Str("environment", input.Name).Msg("environment added")
	return nil
}

// RemoveEnvironment guarantees the entry is absent afterwards; removing a
// name that was never there is a successful no-op.
func (s *accountService) RemoveEnvironment(ctx context.Context, username, name string) error {
	if err := s.repo.RemoveEnvironment(ctx, username, name); err != nil {
		s.log.Error().Err(err).Str("username", username).Str("environment", name).Msg("failed to remove environment")
		return err
	}
	return nil
}

func (s *accountService) ListAllUsers(ctx context.Context) ([]*domain.UserAccount, error) {
	return s.repo.ListAll(ctx)
}
