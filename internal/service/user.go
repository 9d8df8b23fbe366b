package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/vietanh2810/festival-api/internal/apperror"
	"github.com/vietanh2810/festival-api/internal/domain"
	"github.com/vietanh2810/festival-api/internal/repository"
)

// maxFailedAttempts is the strike limit shared by the login and password
// update counters. Reaching it deactivates the account.
const maxFailedAttempts = 3

type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Count(ctx context.Context) (int64, error)
	Save(ctx context.Context, user domain.User) (domain.User, error)
	Delete(ctx context.Context, id uint) error
}

type UserSessionManager interface {
	Generate(ctx context.Context, user domain.User) (domain.Token, error)
	Deactivate(ctx context.Context, userID uint) error
}

type UserService struct {
	repo   UserRepository
	tokens UserSessionManager
}

func NewUserService(repo UserRepository, tokens UserSessionManager) *UserService {
	return &UserService{
		repo:   repo,
		tokens: tokens,
	}
}

// Register creates an account. The very first account becomes an active ADMIN;
// every later one is an inactive USER until an admin activates it.
func (s *UserService) Register(ctx context.Context, username, password, fullName string) (domain.User, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Count -> %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}

	user := domain.User{
		Username:      username,
		Password:      string(hash),
		FullName:      fullName,
		PermanentRole: domain.RoleUser,
		Active:        false,
	}
	if count == 0 {
		user.PermanentRole = domain.RoleAdmin
		user.Active = true
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return domain.User{}, apperror.New(apperror.Conflict, "username already taken")
		}

		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// Login authenticates the account and issues a fresh session token. The third
// consecutive wrong password deactivates the account.
func (s *UserService) Login(ctx context.Context, username, password string) (domain.User, domain.Token, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, domain.Token{}, apperror.New(apperror.InvalidCredentials, "wrong username or password")
		}

		return domain.User{}, domain.Token{}, fmt.Errorf("s.repo.FindByUsername -> %w", err)
	}

	if !user.Active {
		return domain.User{}, domain.Token{}, apperror.New(apperror.AccountDeactivated, "account is deactivated")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return domain.User{}, domain.Token{}, s.recordLoginFailure(ctx, user)
	}

	if user.FailedLoginAttempts != 0 {
		user.FailedLoginAttempts = 0
		if user, err = s.repo.Save(ctx, user); err != nil {
			return domain.User{}, domain.Token{}, fmt.Errorf("s.repo.Save -> %w", err)
		}
	}

	token, err := s.tokens.Generate(ctx, user)
	if err != nil {
		return domain.User{}, domain.Token{}, fmt.Errorf("s.tokens.Generate -> %w", err)
	}

	return user, token, nil
}

// Logout retires every session the caller holds.
func (s *UserService) Logout(ctx context.Context, user domain.User) error {
	if err := s.tokens.Deactivate(ctx, user.ID); err != nil {
		return fmt.Errorf("s.tokens.Deactivate -> %w", err)
	}

	return nil
}

// UpdatePassword rotates the caller's session before the old password is even
// checked, so the presented token can never be reused afterwards. A wrong old
// password drives its own strike counter.
func (s *UserService) UpdatePassword(ctx context.Context, user domain.User, oldPassword, newPassword string) (domain.Token, error) {
	token, err := s.tokens.Generate(ctx, user)
	if err != nil {
		return domain.Token{}, fmt.Errorf("s.tokens.Generate -> %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return domain.Token{}, s.recordPasswordFailure(ctx, user)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return domain.Token{}, fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}

	user.Password = string(hash)
	user.FailedPasswordUpdates = 0
	if _, err := s.repo.Save(ctx, user); err != nil {
		return domain.Token{}, fmt.Errorf("s.repo.Save -> %w", err)
	}

	return token, nil
}

// UpdateInfo changes the full name and/or username of target. Non-admins may
// only update themselves. A username change rotates the target's session; the
// fresh token is returned when the target is the requester.
func (s *UserService) UpdateInfo(ctx context.Context, requester domain.User, targetUsername, newUsername, fullName string) (domain.User, *domain.Token, error) {
	target, err := s.resolveTarget(ctx, requester, targetUsername)
	if err != nil {
		return domain.User{}, nil, err
	}

	rotate := false
	if newUsername != "" && newUsername != target.Username {
		exists, err := s.repo.ExistsByUsername(ctx, newUsername)
		if err != nil {
			return domain.User{}, nil, fmt.Errorf("s.repo.ExistsByUsername -> %w", err)
		}
		if exists {
			return domain.User{}, nil, apperror.New(apperror.Conflict, "username already taken")
		}

		target.Username = newUsername
		rotate = true
	}

	if fullName != "" {
		target.FullName = fullName
	}

	updated, err := s.repo.Save(ctx, target)
	if err != nil {
		return domain.User{}, nil, fmt.Errorf("s.repo.Save -> %w", err)
	}

	if !rotate {
		return updated, nil, nil
	}

	if updated.ID != requester.ID {
		if err := s.tokens.Deactivate(ctx, updated.ID); err != nil {
			return domain.User{}, nil, fmt.Errorf("s.tokens.Deactivate -> %w", err)
		}

		return updated, nil, nil
	}

	token, err := s.tokens.Generate(ctx, updated)
	if err != nil {
		return domain.User{}, nil, fmt.Errorf("s.tokens.Generate -> %w", err)
	}

	return updated, &token, nil
}

// UpdateAccountStatus activates or deactivates target. ADMIN only.
// Deactivation retires every session the target holds.
func (s *UserService) UpdateAccountStatus(ctx context.Context, requester domain.User, targetUsername string, active bool) (domain.User, error) {
	if !requester.IsAdmin() {
		return domain.User{}, apperror.New(apperror.Forbidden, "only an admin may change account status")
	}

	target, err := s.repo.FindByUsername(ctx, targetUsername)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, apperror.New(apperror.NotFound, "user not found")
		}

		return domain.User{}, fmt.Errorf("s.repo.FindByUsername -> %w", err)
	}

	target.Active = active
	if active {
		target.FailedLoginAttempts = 0
		target.FailedPasswordUpdates = 0
	}

	updated, err := s.repo.Save(ctx, target)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Save -> %w", err)
	}

	if !active {
		if err := s.tokens.Deactivate(ctx, updated.ID); err != nil {
			return domain.User{}, fmt.Errorf("s.tokens.Deactivate -> %w", err)
		}
	}

	return updated, nil
}

// Delete removes target together with its tokens. ADMIN only.
func (s *UserService) Delete(ctx context.Context, requester domain.User, targetUsername string) error {
	if !requester.IsAdmin() {
		return apperror.New(apperror.Forbidden, "only an admin may delete accounts")
	}

	target, err := s.repo.FindByUsername(ctx, targetUsername)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperror.New(apperror.NotFound, "user not found")
		}

		return fmt.Errorf("s.repo.FindByUsername -> %w", err)
	}

	if err := s.repo.Delete(ctx, target.ID); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *UserService) resolveTarget(ctx context.Context, requester domain.User, targetUsername string) (domain.User, error) {
	if targetUsername == "" || targetUsername == requester.Username {
		return requester, nil
	}

	if !requester.IsAdmin() {
		return domain.User{}, apperror.New(apperror.Forbidden, "only an admin may update other accounts")
	}

	target, err := s.repo.FindByUsername(ctx, targetUsername)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, apperror.New(apperror.NotFound, "user not found")
		}

		return domain.User{}, fmt.Errorf("s.repo.FindByUsername -> %w", err)
	}

	return target, nil
}

func (s *UserService) recordLoginFailure(ctx context.Context, user domain.User) error {
	user.FailedLoginAttempts++
	if user.FailedLoginAttempts >= maxFailedAttempts {
		user.Active = false
	}

	if _, err := s.repo.Save(ctx, user); err != nil {
		return fmt.Errorf("s.repo.Save -> %w", err)
	}

	if !user.Active {
		if err := s.tokens.Deactivate(ctx, user.ID); err != nil {
			return fmt.Errorf("s.tokens.Deactivate -> %w", err)
		}

		return apperror.New(apperror.AccountDeactivated, "account deactivated after repeated login failures")
	}

	return apperror.New(apperror.InvalidCredentials, "wrong username or password")
}

func (s *UserService) recordPasswordFailure(ctx context.Context, user domain.User) error {
	user.FailedPasswordUpdates++
	if user.FailedPasswordUpdates >= maxFailedAttempts {
		user.Active = false
	}

	if _, err := s.repo.Save(ctx, user); err != nil {
		return fmt.Errorf("s.repo.Save -> %w", err)
	}

	if !user.Active {
		if err := s.tokens.Deactivate(ctx, user.ID); err != nil {
			return fmt.Errorf("s.tokens.Deactivate -> %w", err)
		}

		return apperror.New(apperror.AccountDeactivated, "account deactivated after repeated password failures")
	}

	return apperror.New(apperror.InvalidCredentials, "wrong old password")
}
