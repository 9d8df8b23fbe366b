package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/festival-api/internal/domain"
	"github.com/vietanh2810/festival-api/internal/repository/dao"
)

var ErrTokenNotFound = dao.ErrTokenNotFound

type TokenDAO interface {
	Replace(ctx context.Context, token dao.Token) (dao.Token, error)
	FindByValue(ctx context.Context, value string) (dao.Token, error)
	DeactivateAllByUserID(ctx context.Context, userID uint) error
	DeleteAllByUserID(ctx context.Context, userID uint) error
}

type TokenRepository struct {
	dao TokenDAO
}

func NewTokenRepository(dao TokenDAO) *TokenRepository {
	return &TokenRepository{
		dao: dao,
	}
}

// Replace persists a fresh token and deactivates all prior tokens of its
// owner in the same transaction.
func (r *TokenRepository) Replace(ctx context.Context, token domain.Token) (domain.Token, error) {
	created, err := r.dao.Replace(ctx, dao.Token{
		Value:     token.Value,
		UserID:    token.UserID,
		ExpiresAt: token.ExpiresAt,
		Active:    token.Active,
	})
	if err != nil {
		return domain.Token{}, fmt.Errorf("r.dao.Replace -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *TokenRepository) FindByValue(ctx context.Context, value string) (domain.Token, error) {
	found, err := r.dao.FindByValue(ctx, value)
	if err != nil {
		if err == dao.ErrTokenNotFound {
			return domain.Token{}, ErrTokenNotFound
		}

		return domain.Token{}, fmt.Errorf("r.dao.FindByValue -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *TokenRepository) DeactivateAllByUser(ctx context.Context, userID uint) error {
	if err := r.dao.DeactivateAllByUserID(ctx, userID); err != nil {
		return fmt.Errorf("r.dao.DeactivateAllByUserID -> %w", err)
	}

	return nil
}

func (r *TokenRepository) DeleteAllByUser(ctx context.Context, userID uint) error {
	if err := r.dao.DeleteAllByUserID(ctx, userID); err != nil {
		return fmt.Errorf("r.dao.DeleteAllByUserID -> %w", err)
	}

	return nil
}

func (r *TokenRepository) daoToDomain(t dao.Token) domain.Token {
	return domain.Token{
		ID:        t.ID,
		Value:     t.Value,
		UserID:    t.UserID,
		ExpiresAt: t.ExpiresAt,
		Active:    t.Active,
	}
}
