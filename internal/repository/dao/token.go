package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrTokenNotFound = errors.New("token not found")

type Token struct {
	ID uint `gorm:"primaryKey"`

	Value  string `gorm:"unique;not null"`
	UserID uint   `gorm:"not null;index"`
	User   User   `gorm:"foreignKey:UserID"`

	ExpiresAt time.Time `gorm:"not null"`
	Active    bool      `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
}

type TokenDAO struct {
	db *gorm.DB
}

func NewTokenDAO(db *gorm.DB) *TokenDAO {
	return &TokenDAO{
		db: db,
	}
}

// Replace deactivates every token the user owns and inserts the new one as a
// single transaction, so at most one active token survives the call.
func (d *TokenDAO) Replace(ctx context.Context, token Token) (Token, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Token{}).
			Where("user_id = ?", token.UserID).
			Update("active", false).Error; err != nil {
			return err
		}

		return tx.Create(&token).Error
	})
	if err != nil {
		return Token{}, err
	}

	return token, nil
}

func (d *TokenDAO) FindByValue(ctx context.Context, value string) (Token, error) {
	var token Token

	result := d.db.WithContext(ctx).First(&token, "value = ?", value)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Token{}, ErrTokenNotFound
		}

		return Token{}, result.Error
	}

	return token, nil
}

func (d *TokenDAO) DeactivateAllByUserID(ctx context.Context, userID uint) error {
	return d.db.WithContext(ctx).Model(&Token{}).
		Where("user_id = ?", userID).
		Update("active", false).Error
}

func (d *TokenDAO) DeleteAllByUserID(ctx context.Context, userID uint) error {
	return d.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&Token{}).Error
}
