package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrFestivalNameExists = errors.New("festival name already exists")
	ErrFestivalNotFound   = errors.New("festival not found")
	ErrStaleFestivalState = errors.New("festival is not in the expected state")
)

type VenueLayout struct {
	Stages      []string `json:"stages"`
	VendorAreas []string `json:"vendor_areas"`
	Facilities  []string `json:"facilities"`
}

type Budget struct {
	Tracking        float64 `json:"tracking"`
	Costs           float64 `json:"costs"`
	Logistics       float64 `json:"logistics"`
	ExpectedRevenue float64 `json:"expected_revenue"`
}

type VendorManagement struct {
	FoodStalls        []string `json:"food_stalls"`
	MerchandiseBooths []string `json:"merchandise_booths"`
}

type Festival struct {
	ID uint `gorm:"primaryKey"`

	Name        string `gorm:"unique;not null"`
	Description string
	Venue       string `gorm:"not null"`

	Dates []time.Time `gorm:"serializer:json"`
	State string      `gorm:"not null"`

	VenueLayout      *VenueLayout      `gorm:"serializer:json"`
	Budget           *Budget           `gorm:"serializer:json"`
	VendorManagement *VendorManagement `gorm:"serializer:json"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type FestivalUserRole struct {
	ID uint `gorm:"primaryKey"`

	FestivalID uint   `gorm:"not null;uniqueIndex:idx_festival_user_role"`
	UserID     uint   `gorm:"not null;uniqueIndex:idx_festival_user_role"`
	Role       string `gorm:"not null;uniqueIndex:idx_festival_user_role"`
	Founder    bool   `gorm:"not null;default:false"`
}

// RoleRow is a role binding joined with the bound user's username.
type RoleRow struct {
	FestivalUserRole
	Username string
}

type FestivalDAO struct {
	db *gorm.DB
}

func NewFestivalDAO(db *gorm.DB) *FestivalDAO {
	return &FestivalDAO{
		db: db,
	}
}

// Insert creates the festival and its founder organizer binding as one
// transaction.
func (d *FestivalDAO) Insert(ctx context.Context, festival Festival, creatorID uint) (Festival, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&festival).Error; err != nil {
			return err
		}

		role := FestivalUserRole{
			FestivalID: festival.ID,
			UserID:     creatorID,
			Role:       "ORGANIZER",
			Founder:    true,
		}

		return tx.Create(&role).Error
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) &&
			pgErr.Code == pgerrcode.UniqueViolation &&
			strings.Contains(pgErr.Message, `unique constraint "uni_festivals_name"`) {
			return Festival{}, ErrFestivalNameExists
		}

		return Festival{}, err
	}

	return festival, nil
}

func (d *FestivalDAO) FindByID(ctx context.Context, id uint) (Festival, error) {
	var festival Festival

	result := d.db.WithContext(ctx).First(&festival, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Festival{}, ErrFestivalNotFound
		}

		return Festival{}, result.Error
	}

	return festival, nil
}

func (d *FestivalDAO) FindAll(ctx context.Context) ([]Festival, error) {
	var festivals []Festival

	result := d.db.WithContext(ctx).Find(&festivals)
	if result.Error != nil {
		return nil, result.Error
	}

	return festivals, nil
}

func (d *FestivalDAO) ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Festival{}).
		Where("name = ? AND id <> ?", name, excludeID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

func (d *FestivalDAO) Update(ctx context.Context, festival Festival) (Festival, error) {
	result := d.db.WithContext(ctx).Save(&festival)
	if result.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return Festival{}, ErrFestivalNameExists
		}

		return Festival{}, result.Error
	}

	return festival, nil
}

// Delete removes the festival with its role bindings, performances and their
// band member associations.
func (d *FestivalDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("festival_id = ?", id).Delete(&FestivalUserRole{}).Error; err != nil {
			return err
		}

		var performances []Performance
		if err := tx.Where("festival_id = ?", id).Find(&performances).Error; err != nil {
			return err
		}
		for i := range performances {
			if err := tx.Model(&performances[i]).Association("BandMembers").Clear(); err != nil {
				return err
			}
		}
		if err := tx.Where("festival_id = ?", id).Delete(&Performance{}).Error; err != nil {
			return err
		}

		return tx.Delete(&Festival{}, id).Error
	})
}

// AdvanceState moves the festival from exactly `from` to `to`. The compare
// and set keeps two concurrent advances from both succeeding.
func (d *FestivalDAO) AdvanceState(ctx context.Context, id uint, from, to string) error {
	result := d.db.WithContext(ctx).Model(&Festival{}).
		Where("id = ? AND state = ?", id, from).
		Update("state", to)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaleFestivalState
	}

	return nil
}

// StartDecision advances FINAL_SUBMISSION -> DECISION and auto-rejects every
// performance that was not finally submitted, in one transaction.
func (d *FestivalDAO) StartDecision(ctx context.Context, id uint, rejectionReason string) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Festival{}).
			Where("id = ? AND state = ?", id, "FINAL_SUBMISSION").
			Update("state", "DECISION")
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStaleFestivalState
		}

		return tx.Model(&Performance{}).
			Where("festival_id = ? AND finally_submitted = ? AND state <> ?", id, false, "REJECTED").
			Updates(map[string]interface{}{
				"state":            "REJECTED",
				"rejection_reason": rejectionReason,
			}).Error
	})
}

// GrantRole inserts a binding unless the exact triple already exists.
func (d *FestivalDAO) GrantRole(ctx context.Context, role FestivalUserRole) error {
	var count int64

	result := d.db.WithContext(ctx).Model(&FestivalUserRole{}).
		Where("festival_id = ? AND user_id = ? AND role = ?", role.FestivalID, role.UserID, role.Role).
		Count(&count)
	if result.Error != nil {
		return result.Error
	}
	if count > 0 {
		return nil
	}

	return d.db.WithContext(ctx).Create(&role).Error
}

func (d *FestivalDAO) HasRole(ctx context.Context, festivalID, userID uint, role string) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&FestivalUserRole{}).
		Where("festival_id = ? AND user_id = ? AND role = ?", festivalID, userID, role).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

func (d *FestivalDAO) FindRolesByFestivalID(ctx context.Context, festivalID uint) ([]RoleRow, error) {
	var rows []RoleRow

	result := d.db.WithContext(ctx).Model(&FestivalUserRole{}).
		Select("festival_user_roles.*, users.username AS username").
		Joins("JOIN users ON users.id = festival_user_roles.user_id").
		Where("festival_user_roles.festival_id = ?", festivalID).
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	return rows, nil
}

// RevokeRole deletes a non-founder binding. Founder bindings are never removed.
func (d *FestivalDAO) RevokeRole(ctx context.Context, festivalID, userID uint, role string) error {
	return d.db.WithContext(ctx).
		Where("festival_id = ? AND user_id = ? AND role = ? AND founder = ?", festivalID, userID, role, false).
		Delete(&FestivalUserRole{}).Error
}
