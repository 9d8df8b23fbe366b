package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/festival-api/internal/domain"
	"github.com/vietanh2810/festival-api/internal/repository/dao"
)

var (
	ErrPerformanceNameExists = dao.ErrPerformanceNameExists
	ErrPerformanceNotFound   = dao.ErrPerformanceNotFound
)

type PerformanceDAO interface {
	Insert(ctx context.Context, performance dao.Performance, artistGrants []dao.FestivalUserRole) (dao.Performance, error)
	FindByID(ctx context.Context, id uint) (dao.Performance, error)
	FindAll(ctx context.Context) ([]dao.Performance, error)
	FindAllByFestivalID(ctx context.Context, festivalID uint) ([]dao.Performance, error)
	ExistsByFestivalAndName(ctx context.Context, festivalID uint, name string, excludeID uint) (bool, error)
	Update(ctx context.Context, performance dao.Performance, artistGrants []dao.FestivalUserRole) (dao.Performance, error)
	Delete(ctx context.Context, id uint) error
}

type PerformanceRepository struct {
	dao PerformanceDAO
}

func NewPerformanceRepository(dao PerformanceDAO) *PerformanceRepository {
	return &PerformanceRepository{
		dao: dao,
	}
}

// Create inserts the performance and grants festival ARTIST bindings to the
// given users in one transaction.
func (r *PerformanceRepository) Create(ctx context.Context, performance domain.Performance, artistIDs []uint) (domain.Performance, error) {
	created, err := r.dao.Insert(ctx, r.domainToDAO(performance), r.artistGrants(performance.FestivalID, artistIDs))
	if err != nil {
		if err == dao.ErrPerformanceNameExists {
			return domain.Performance{}, ErrPerformanceNameExists
		}

		return domain.Performance{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *PerformanceRepository) FindByID(ctx context.Context, id uint) (domain.Performance, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		if err == dao.ErrPerformanceNotFound {
			return domain.Performance{}, ErrPerformanceNotFound
		}

		return domain.Performance{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *PerformanceRepository) FindAll(ctx context.Context) ([]domain.Performance, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return r.allToDomain(found), nil
}

func (r *PerformanceRepository) FindAllByFestival(ctx context.Context, festivalID uint) ([]domain.Performance, error) {
	found, err := r.dao.FindAllByFestivalID(ctx, festivalID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAllByFestivalID -> %w", err)
	}

	return r.allToDomain(found), nil
}

func (r *PerformanceRepository) ExistsByFestivalAndName(ctx context.Context, festivalID uint, name string, excludeID uint) (bool, error) {
	exists, err := r.dao.ExistsByFestivalAndName(ctx, festivalID, name, excludeID)
	if err != nil {
		return false, fmt.Errorf("r.dao.ExistsByFestivalAndName -> %w", err)
	}

	return exists, nil
}

// Save persists the performance; newArtistIDs get festival ARTIST bindings in
// the same transaction.
func (r *PerformanceRepository) Save(ctx context.Context, performance domain.Performance, newArtistIDs []uint) (domain.Performance, error) {
	updated, err := r.dao.Update(ctx, r.domainToDAO(performance), r.artistGrants(performance.FestivalID, newArtistIDs))
	if err != nil {
		if err == dao.ErrPerformanceNameExists {
			return domain.Performance{}, ErrPerformanceNameExists
		}

		return domain.Performance{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *PerformanceRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *PerformanceRepository) artistGrants(festivalID uint, userIDs []uint) []dao.FestivalUserRole {
	grants := make([]dao.FestivalUserRole, 0, len(userIDs))
	for _, id := range userIDs {
		grants = append(grants, dao.FestivalUserRole{
			FestivalID: festivalID,
			UserID:     id,
			Role:       string(domain.FestivalRoleArtist),
		})
	}

	return grants
}

func (r *PerformanceRepository) allToDomain(found []dao.Performance) []domain.Performance {
	performances := make([]domain.Performance, 0, len(found))
	for _, p := range found {
		performances = append(performances, r.daoToDomain(p))
	}

	return performances
}

func (r *PerformanceRepository) daoToDomain(p dao.Performance) domain.Performance {
	performance := domain.Performance{
		ID:                        p.ID,
		FestivalID:                p.FestivalID,
		Name:                      p.Name,
		Description:               p.Description,
		Genre:                     p.Genre,
		Duration:                  p.Duration,
		CreatorID:                 p.CreatorID,
		TechnicalRequirement:      p.TechnicalRequirement,
		Setlist:                   p.Setlist,
		PreferredRehearsalTimes:   p.RehearsalTimes,
		PreferredPerformanceSlots: p.PerformanceSlots,
		StageManagerID:            p.StageManagerID,
		Score:                     p.Score,
		ReviewerComments:          p.ReviewerComments,
		RejectionReason:           p.RejectionReason,
		FinallySubmitted:          p.FinallySubmitted,
		State:                     domain.PerformanceState(p.State),
		CreatedAt:                 p.CreatedAt,
		UpdatedAt:                 p.UpdatedAt,
	}

	performance.Creator = userDAOToDomain(p.Creator)
	for _, m := range p.BandMembers {
		performance.BandMembers = append(performance.BandMembers, userDAOToDomain(m))
	}
	if p.StageManager != nil {
		manager := userDAOToDomain(*p.StageManager)
		performance.StageManager = &manager
	}

	for _, item := range p.MerchandiseItems {
		performance.MerchandiseItems = append(performance.MerchandiseItems, domain.MerchandiseItem(item))
	}

	return performance
}

func (r *PerformanceRepository) domainToDAO(p domain.Performance) dao.Performance {
	performance := dao.Performance{
		ID:                   p.ID,
		FestivalID:           p.FestivalID,
		Name:                 p.Name,
		Description:          p.Description,
		Genre:                p.Genre,
		Duration:             p.Duration,
		CreatorID:            p.CreatorID,
		TechnicalRequirement: p.TechnicalRequirement,
		Setlist:              p.Setlist,
		RehearsalTimes:       p.PreferredRehearsalTimes,
		PerformanceSlots:     p.PreferredPerformanceSlots,
		StageManagerID:       p.StageManagerID,
		Score:                p.Score,
		ReviewerComments:     p.ReviewerComments,
		RejectionReason:      p.RejectionReason,
		FinallySubmitted:     p.FinallySubmitted,
		State:                string(p.State),
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}

	for _, m := range p.BandMembers {
		performance.BandMembers = append(performance.BandMembers, dao.User{ID: m.ID})
	}

	for _, item := range p.MerchandiseItems {
		performance.MerchandiseItems = append(performance.MerchandiseItems, dao.MerchandiseItem(item))
	}

	return performance
}

func userDAOToDomain(u dao.User) domain.User {
	return domain.User{
		ID:            u.ID,
		Username:      u.Username,
		FullName:      u.FullName,
		PermanentRole: domain.PermanentRole(u.PermanentRole),
		Active:        u.Active,
	}
}
