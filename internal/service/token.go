package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vietanh2810/festival-api/internal/apperror"
	"github.com/vietanh2810/festival-api/internal/domain"
	"github.com/vietanh2810/festival-api/internal/repository"
)

type SessionTokenRepository interface {
	Replace(ctx context.Context, token domain.Token) (domain.Token, error)
	FindByValue(ctx context.Context, value string) (domain.Token, error)
	DeactivateAllByUser(ctx context.Context, userID uint) error
	DeleteAllByUser(ctx context.Context, userID uint) error
}

type SessionUserStore interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	Save(ctx context.Context, user domain.User) (domain.User, error)
}

// TokenService manages server-side sessions. A user holds at most one active
// token at a time; issuing a new one retires every previous token.
type TokenService struct {
	repo       SessionTokenRepository
	users      SessionUserStore
	signingKey []byte
	lifetime   time.Duration

	now func() time.Time
}

func NewTokenService(repo SessionTokenRepository, users SessionUserStore, signingKey string, lifetime time.Duration) *TokenService {
	return &TokenService{
		repo:       repo,
		users:      users,
		signingKey: []byte(signingKey),
		lifetime:   lifetime,
		now:        time.Now,
	}
}

// Generate deactivates every existing token of the user, mints a fresh one and
// persists it, all in one store transaction.
func (s *TokenService) Generate(ctx context.Context, user domain.User) (domain.Token, error) {
	now := s.now()
	expiresAt := now.Add(s.lifetime)

	value, err := s.mintValue(user, now, expiresAt)
	if err != nil {
		return domain.Token{}, fmt.Errorf("s.mintValue -> %w", err)
	}

	token, err := s.repo.Replace(ctx, domain.Token{
		Value:     value,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
		Active:    true,
	})
	if err != nil {
		return domain.Token{}, fmt.Errorf("s.repo.Replace -> %w", err)
	}

	return token, nil
}

// Validate checks the presented token value on behalf of caller. A token
// presented by someone other than its owner forcibly deactivates the accounts
// and sessions of both parties, except for any party holding the ADMIN
// permanent role.
func (s *TokenService) Validate(ctx context.Context, value string, caller domain.User) (domain.Token, error) {
	token, err := s.repo.FindByValue(ctx, value)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return domain.Token{}, apperror.New(apperror.Unauthenticated, "unknown token")
		}

		return domain.Token{}, fmt.Errorf("s.repo.FindByValue -> %w", err)
	}

	if !token.Active {
		return domain.Token{}, apperror.New(apperror.SessionInactive, "token has been deactivated")
	}

	if token.Expired(s.now()) {
		return domain.Token{}, apperror.New(apperror.SessionExpired, "token has expired")
	}

	if token.UserID != caller.ID {
		if err := s.punishMismatch(ctx, token.UserID, caller); err != nil {
			return domain.Token{}, err
		}

		return domain.Token{}, apperror.New(apperror.TokenOwnershipViolation, "token does not belong to the requester")
	}

	return token, nil
}

// Deactivate retires every token held by the user without deleting them.
func (s *TokenService) Deactivate(ctx context.Context, userID uint) error {
	if err := s.repo.DeactivateAllByUser(ctx, userID); err != nil {
		return fmt.Errorf("s.repo.DeactivateAllByUser -> %w", err)
	}

	return nil
}

// DeleteAll removes every token held by the user.
func (s *TokenService) DeleteAll(ctx context.Context, userID uint) error {
	if err := s.repo.DeleteAllByUser(ctx, userID); err != nil {
		return fmt.Errorf("s.repo.DeleteAllByUser -> %w", err)
	}

	return nil
}

func (s *TokenService) punishMismatch(ctx context.Context, ownerID uint, caller domain.User) error {
	owner, err := s.users.FindByID(ctx, ownerID)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("s.users.FindByID -> %w", err)
	}
	if err == nil {
		if err := s.deactivateParty(ctx, owner); err != nil {
			return err
		}
	}

	return s.deactivateParty(ctx, caller)
}

// deactivateParty forcibly deactivates one side of an ownership violation:
// the account itself and every session it holds. ADMIN accounts are exempt.
func (s *TokenService) deactivateParty(ctx context.Context, user domain.User) error {
	if user.IsAdmin() {
		return nil
	}

	user.Active = false
	if _, err := s.users.Save(ctx, user); err != nil {
		return fmt.Errorf("s.users.Save -> %w", err)
	}

	if err := s.repo.DeactivateAllByUser(ctx, user.ID); err != nil {
		return fmt.Errorf("s.repo.DeactivateAllByUser -> %w", err)
	}

	return nil
}

// mintValue produces the signed token value. Validity is still decided by the
// stored session record; the signature only makes values unforgeable.
func (s *TokenService) mintValue(user domain.User, now, expiresAt time.Time) (string, error) {
	jti := make([]byte, 16)
	if _, err := rand.Read(jti); err != nil {
		return "", err
	}

	claims := jwt.RegisteredClaims{
		ID:        hex.EncodeToString(jti),
		Subject:   user.Username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
}
