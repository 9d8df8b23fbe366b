package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrPerformanceNameExists = errors.New("performance name already exists in this festival")
	ErrPerformanceNotFound   = errors.New("performance not found")
)

type MerchandiseItem struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Price       float64 `json:"price"`
}

type Performance struct {
	ID uint `gorm:"primaryKey"`

	FestivalID uint   `gorm:"not null;uniqueIndex:idx_performance_festival_name"`
	Name       string `gorm:"not null;uniqueIndex:idx_performance_festival_name"`

	Description string `gorm:"not null"`
	Genre       string `gorm:"not null"`
	Duration    int    `gorm:"not null"`

	CreatorID   uint   `gorm:"not null"`
	Creator     User   `gorm:"foreignKey:CreatorID"`
	BandMembers []User `gorm:"many2many:performance_band_members"`

	TechnicalRequirement string
	Setlist              []string          `gorm:"serializer:json"`
	MerchandiseItems     []MerchandiseItem `gorm:"serializer:json"`
	RehearsalTimes       []string          `gorm:"serializer:json"`
	PerformanceSlots     []string          `gorm:"serializer:json"`

	StageManagerID *uint
	StageManager   *User `gorm:"foreignKey:StageManagerID"`

	Score            *float64
	ReviewerComments string
	RejectionReason  string
	FinallySubmitted bool   `gorm:"not null;default:false"`
	State            string `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type PerformanceDAO struct {
	db *gorm.DB
}

func NewPerformanceDAO(db *gorm.DB) *PerformanceDAO {
	return &PerformanceDAO{
		db: db,
	}
}

// Insert creates the performance together with the festival ARTIST grants for
// the creator and band members, as one transaction.
func (d *PerformanceDAO) Insert(ctx context.Context, performance Performance, artistGrants []FestivalUserRole) (Performance, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&performance).Error; err != nil {
			return err
		}

		for _, grant := range artistGrants {
			var count int64
			if err := tx.Model(&FestivalUserRole{}).
				Where("festival_id = ? AND user_id = ? AND role = ?", grant.FestivalID, grant.UserID, grant.Role).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			grant := grant
			if err := tx.Create(&grant).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return Performance{}, ErrPerformanceNameExists
		}

		return Performance{}, err
	}

	return performance, nil
}

func (d *PerformanceDAO) FindByID(ctx context.Context, id uint) (Performance, error) {
	var performance Performance

	result := d.db.WithContext(ctx).
		Preload("Creator").
		Preload("BandMembers").
		Preload("StageManager").
		First(&performance, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Performance{}, ErrPerformanceNotFound
		}

		return Performance{}, result.Error
	}

	return performance, nil
}

func (d *PerformanceDAO) FindAll(ctx context.Context) ([]Performance, error) {
	var performances []Performance

	result := d.db.WithContext(ctx).
		Preload("Creator").
		Preload("BandMembers").
		Preload("StageManager").
		Find(&performances)
	if result.Error != nil {
		return nil, result.Error
	}

	return performances, nil
}

func (d *PerformanceDAO) FindAllByFestivalID(ctx context.Context, festivalID uint) ([]Performance, error) {
	var performances []Performance

	result := d.db.WithContext(ctx).
		Preload("Creator").
		Preload("BandMembers").
		Preload("StageManager").
		Where("festival_id = ?", festivalID).
		Find(&performances)
	if result.Error != nil {
		return nil, result.Error
	}

	return performances, nil
}

func (d *PerformanceDAO) ExistsByFestivalAndName(ctx context.Context, festivalID uint, name string, excludeID uint) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Performance{}).
		Where("festival_id = ? AND lower(name) = lower(?) AND id <> ?", festivalID, name, excludeID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

// Update saves scalar fields and replaces the band member association when
// members are supplied, granting ARTIST bindings for new members atomically.
func (d *PerformanceDAO) Update(ctx context.Context, performance Performance, artistGrants []FestivalUserRole) (Performance, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("BandMembers", "Creator", "StageManager").Save(&performance).Error; err != nil {
			return err
		}

		if performance.BandMembers != nil {
			if err := tx.Model(&performance).Association("BandMembers").Replace(performance.BandMembers); err != nil {
				return err
			}
		}

		for _, grant := range artistGrants {
			var count int64
			if err := tx.Model(&FestivalUserRole{}).
				Where("festival_id = ? AND user_id = ? AND role = ?", grant.FestivalID, grant.UserID, grant.Role).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			grant := grant
			if err := tx.Create(&grant).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return Performance{}, ErrPerformanceNameExists
		}

		return Performance{}, err
	}

	return performance, nil
}

func (d *PerformanceDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		performance := Performance{ID: id}
		if err := tx.Model(&performance).Association("BandMembers").Clear(); err != nil {
			return err
		}

		return tx.Delete(&Performance{}, id).Error
	})
}
