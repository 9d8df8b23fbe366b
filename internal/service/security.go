package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/vietanh2810/festival-api/internal/apperror"
	"github.com/vietanh2810/festival-api/internal/domain"
	"github.com/vietanh2810/festival-api/internal/repository"
)

type SecurityUserRepository interface {
	FindByUsername(ctx context.Context, username string) (domain.User, error)
}

type SessionValidator interface {
	Validate(ctx context.Context, value string, caller domain.User) (domain.Token, error)
}

// SecurityService gates every mutating operation: the requester must exist,
// be active, and present a valid token of their own.
type SecurityService struct {
	users  SecurityUserRepository
	tokens SessionValidator
}

func NewSecurityService(users SecurityUserRepository, tokens SessionValidator) *SecurityService {
	return &SecurityService{
		users:  users,
		tokens: tokens,
	}
}

// ValidateRequester resolves the requesting account and checks its session.
func (s *SecurityService) ValidateRequester(ctx context.Context, username, tokenValue string) (domain.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, apperror.New(apperror.NotFound, "requester not found")
		}

		return domain.User{}, fmt.Errorf("s.users.FindByUsername -> %w", err)
	}

	if !user.Active {
		return domain.User{}, apperror.New(apperror.AccountDeactivated, "account is deactivated")
	}

	if _, err := s.tokens.Validate(ctx, tokenValue, user); err != nil {
		return domain.User{}, err
	}

	return user, nil
}
