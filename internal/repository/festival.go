package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/festival-api/internal/domain"
	"github.com/vietanh2810/festival-api/internal/repository/dao"
)

var (
	ErrFestivalNameExists = dao.ErrFestivalNameExists
	ErrFestivalNotFound   = dao.ErrFestivalNotFound
	ErrStaleFestivalState = dao.ErrStaleFestivalState
)

type FestivalDAO interface {
	Insert(ctx context.Context, festival dao.Festival, creatorID uint) (dao.Festival, error)
	FindByID(ctx context.Context, id uint) (dao.Festival, error)
	FindAll(ctx context.Context) ([]dao.Festival, error)
	ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error)
	Update(ctx context.Context, festival dao.Festival) (dao.Festival, error)
	Delete(ctx context.Context, id uint) error
	AdvanceState(ctx context.Context, id uint, from, to string) error
	StartDecision(ctx context.Context, id uint, rejectionReason string) error
	GrantRole(ctx context.Context, role dao.FestivalUserRole) error
	HasRole(ctx context.Context, festivalID, userID uint, role string) (bool, error)
	FindRolesByFestivalID(ctx context.Context, festivalID uint) ([]dao.RoleRow, error)
	RevokeRole(ctx context.Context, festivalID, userID uint, role string) error
}

type FestivalRepository struct {
	dao FestivalDAO
}

func NewFestivalRepository(dao FestivalDAO) *FestivalRepository {
	return &FestivalRepository{
		dao: dao,
	}
}

func (r *FestivalRepository) Create(ctx context.Context, festival domain.Festival, creatorID uint) (domain.Festival, error) {
	created, err := r.dao.Insert(ctx, r.domainToDAO(festival), creatorID)
	if err != nil {
		if err == dao.ErrFestivalNameExists {
			return domain.Festival{}, ErrFestivalNameExists
		}

		return domain.Festival{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

// FindByID loads the festival together with its role bindings.
func (r *FestivalRepository) FindByID(ctx context.Context, id uint) (domain.Festival, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		if err == dao.ErrFestivalNotFound {
			return domain.Festival{}, ErrFestivalNotFound
		}

		return domain.Festival{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	festival := r.daoToDomain(found)

	rows, err := r.dao.FindRolesByFestivalID(ctx, id)
	if err != nil {
		return domain.Festival{}, fmt.Errorf("r.dao.FindRolesByFestivalID -> %w", err)
	}
	festival.Roles = r.rolesToDomain(rows)

	return festival, nil
}

func (r *FestivalRepository) FindAll(ctx context.Context) ([]domain.Festival, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	festivals := make([]domain.Festival, 0, len(found))
	for _, f := range found {
		festivals = append(festivals, r.daoToDomain(f))
	}

	return festivals, nil
}

func (r *FestivalRepository) ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error) {
	exists, err := r.dao.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return false, fmt.Errorf("r.dao.ExistsByName -> %w", err)
	}

	return exists, nil
}

func (r *FestivalRepository) Save(ctx context.Context, festival domain.Festival) (domain.Festival, error) {
	updated, err := r.dao.Update(ctx, r.domainToDAO(festival))
	if err != nil {
		if err == dao.ErrFestivalNameExists {
			return domain.Festival{}, ErrFestivalNameExists
		}

		return domain.Festival{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *FestivalRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *FestivalRepository) AdvanceState(ctx context.Context, id uint, from, to domain.FestivalState) error {
	if err := r.dao.AdvanceState(ctx, id, string(from), string(to)); err != nil {
		if err == dao.ErrStaleFestivalState {
			return ErrStaleFestivalState
		}

		return fmt.Errorf("r.dao.AdvanceState -> %w", err)
	}

	return nil
}

func (r *FestivalRepository) StartDecision(ctx context.Context, id uint, rejectionReason string) error {
	if err := r.dao.StartDecision(ctx, id, rejectionReason); err != nil {
		if err == dao.ErrStaleFestivalState {
			return ErrStaleFestivalState
		}

		return fmt.Errorf("r.dao.StartDecision -> %w", err)
	}

	return nil
}

func (r *FestivalRepository) GrantRole(ctx context.Context, festivalID, userID uint, role domain.FestivalRole) error {
	err := r.dao.GrantRole(ctx, dao.FestivalUserRole{
		FestivalID: festivalID,
		UserID:     userID,
		Role:       string(role),
	})
	if err != nil {
		return fmt.Errorf("r.dao.GrantRole -> %w", err)
	}

	return nil
}

func (r *FestivalRepository) HasRole(ctx context.Context, festivalID, userID uint, role domain.FestivalRole) (bool, error) {
	has, err := r.dao.HasRole(ctx, festivalID, userID, string(role))
	if err != nil {
		return false, fmt.Errorf("r.dao.HasRole -> %w", err)
	}

	return has, nil
}

func (r *FestivalRepository) RevokeRole(ctx context.Context, festivalID, userID uint, role domain.FestivalRole) error {
	if err := r.dao.RevokeRole(ctx, festivalID, userID, string(role)); err != nil {
		return fmt.Errorf("r.dao.RevokeRole -> %w", err)
	}

	return nil
}

func (r *FestivalRepository) rolesToDomain(rows []dao.RoleRow) []domain.FestivalUserRole {
	roles := make([]domain.FestivalUserRole, 0, len(rows))
	for _, row := range rows {
		roles = append(roles, domain.FestivalUserRole{
			ID:         row.ID,
			FestivalID: row.FestivalID,
			UserID:     row.UserID,
			Username:   row.Username,
			Role:       domain.FestivalRole(row.Role),
			Founder:    row.Founder,
		})
	}

	return roles
}

func (r *FestivalRepository) daoToDomain(f dao.Festival) domain.Festival {
	festival := domain.Festival{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		Venue:       f.Venue,
		Dates:       f.Dates,
		State:       domain.FestivalState(f.State),
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}

	if f.VenueLayout != nil {
		festival.VenueLayout = &domain.VenueLayout{
			Stages:      f.VenueLayout.Stages,
			VendorAreas: f.VenueLayout.VendorAreas,
			Facilities:  f.VenueLayout.Facilities,
		}
	}
	if f.Budget != nil {
		festival.Budget = &domain.Budget{
			Tracking:        f.Budget.Tracking,
			Costs:           f.Budget.Costs,
			Logistics:       f.Budget.Logistics,
			ExpectedRevenue: f.Budget.ExpectedRevenue,
		}
	}
	if f.VendorManagement != nil {
		festival.VendorManagement = &domain.VendorManagement{
			FoodStalls:        f.VendorManagement.FoodStalls,
			MerchandiseBooths: f.VendorManagement.MerchandiseBooths,
		}
	}

	return festival
}

func (r *FestivalRepository) domainToDAO(f domain.Festival) dao.Festival {
	festival := dao.Festival{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		Venue:       f.Venue,
		Dates:       f.Dates,
		State:       string(f.State),
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}

	if f.VenueLayout != nil {
		festival.VenueLayout = &dao.VenueLayout{
			Stages:      f.VenueLayout.Stages,
			VendorAreas: f.VenueLayout.VendorAreas,
			Facilities:  f.VenueLayout.Facilities,
		}
	}
	if f.Budget != nil {
		festival.Budget = &dao.Budget{
			Tracking:        f.Budget.Tracking,
			Costs:           f.Budget.Costs,
			Logistics:       f.Budget.Logistics,
			ExpectedRevenue: f.Budget.ExpectedRevenue,
		}
	}
	if f.VendorManagement != nil {
		festival.VendorManagement = &dao.VendorManagement{
			FoodStalls:        f.VendorManagement.FoodStalls,
			MerchandiseBooths: f.VendorManagement.MerchandiseBooths,
		}
	}

	return festival
}
