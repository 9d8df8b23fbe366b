package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vietanh2810/festival-api/internal/apperror"
	"github.com/vietanh2810/festival-api/internal/domain"
	"github.com/vietanh2810/festival-api/internal/repository"
)

// autoRejectionReason is stamped on performances swept during the decision
// phase start.
const autoRejectionReason = "not finally submitted before decision"

type FestivalRepository interface {
	Create(ctx context.Context, festival domain.Festival, creatorID uint) (domain.Festival, error)
	FindByID(ctx context.Context, id uint) (domain.Festival, error)
	FindAll(ctx context.Context) ([]domain.Festival, error)
	ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error)
	Save(ctx context.Context, festival domain.Festival) (domain.Festival, error)
	Delete(ctx context.Context, id uint) error
	AdvanceState(ctx context.Context, id uint, from, to domain.FestivalState) error
	StartDecision(ctx context.Context, id uint, rejectionReason string) error
	GrantRole(ctx context.Context, festivalID, userID uint, role domain.FestivalRole) error
	HasRole(ctx context.Context, festivalID, userID uint, role domain.FestivalRole) (bool, error)
	RevokeRole(ctx context.Context, festivalID, userID uint, role domain.FestivalRole) error
}

type FestivalUserResolver interface {
	FindByUsername(ctx context.Context, username string) (domain.User, error)
}

// FestivalUpdate carries the editable festival fields. Nil pointers and nil
// slices leave the corresponding field untouched.
type FestivalUpdate struct {
	Name             *string
	Description      *string
	Venue            *string
	Dates            []time.Time
	VenueLayout      *domain.VenueLayout
	Budget           *domain.Budget
	VendorManagement *domain.VendorManagement
	Organizers       []string
	Staff            []string
}

type FestivalService struct {
	repo  FestivalRepository
	users FestivalUserResolver
}

func NewFestivalService(repo FestivalRepository, users FestivalUserResolver) *FestivalService {
	return &FestivalService{
		repo:  repo,
		users: users,
	}
}

// Create opens a new festival in the CREATED phase and binds the creator as
// its founding organizer.
func (s *FestivalService) Create(ctx context.Context, requester domain.User, festival domain.Festival) (domain.Festival, error) {
	if festival.Name == "" || festival.Venue == "" || len(festival.Dates) == 0 {
		return domain.Festival{}, apperror.New(apperror.ValidationFailed, "festival needs a name, a venue and at least one date")
	}

	festival.State = domain.FestivalCreated

	created, err := s.repo.Create(ctx, festival, requester.ID)
	if err != nil {
		if errors.Is(err, repository.ErrFestivalNameExists) {
			return domain.Festival{}, apperror.New(apperror.Conflict, "festival name already taken")
		}

		return domain.Festival{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return s.find(ctx, created.ID)
}

// Update edits festival fields. Name, description, venue and dates stay
// editable in every phase; venue layout, budget and vendor management freeze
// once the festival is announced. Supplied organizer and staff sets are
// reconciled against the current bindings; the founder binding survives every
// reconciliation.
func (s *FestivalService) Update(ctx context.Context, requester domain.User, id uint, update FestivalUpdate) (domain.Festival, error) {
	festival, err := s.requireOrganizer(ctx, requester, id)
	if err != nil {
		return domain.Festival{}, err
	}

	if update.Name != nil && *update.Name != festival.Name {
		if *update.Name == "" {
			return domain.Festival{}, apperror.New(apperror.ValidationFailed, "festival name must not be empty")
		}

		exists, err := s.repo.ExistsByName(ctx, *update.Name, festival.ID)
		if err != nil {
			return domain.Festival{}, fmt.Errorf("s.repo.ExistsByName -> %w", err)
		}
		if exists {
			return domain.Festival{}, apperror.New(apperror.Conflict, "festival name already taken")
		}

		festival.Name = *update.Name
	}

	if update.Description != nil {
		festival.Description = *update.Description
	}
	if update.Venue != nil {
		if *update.Venue == "" {
			return domain.Festival{}, apperror.New(apperror.ValidationFailed, "festival venue must not be empty")
		}
		festival.Venue = *update.Venue
	}
	if update.Dates != nil {
		if len(update.Dates) == 0 {
			return domain.Festival{}, apperror.New(apperror.ValidationFailed, "festival needs at least one date")
		}
		festival.Dates = update.Dates
	}

	if update.VenueLayout != nil || update.Budget != nil || update.VendorManagement != nil {
		if festival.State == domain.FestivalAnnounced {
			return domain.Festival{}, apperror.New(apperror.Forbidden, "festival setup is frozen after announcement")
		}

		if update.VenueLayout != nil {
			festival.VenueLayout = update.VenueLayout
		}
		if update.Budget != nil {
			festival.Budget = update.Budget
		}
		if update.VendorManagement != nil {
			festival.VendorManagement = update.VendorManagement
		}
	}

	if _, err := s.repo.Save(ctx, festival); err != nil {
		return domain.Festival{}, fmt.Errorf("s.repo.Save -> %w", err)
	}

	if update.Organizers != nil {
		if err := s.reconcileRole(ctx, festival, domain.FestivalRoleOrganizer, update.Organizers); err != nil {
			return domain.Festival{}, err
		}
	}
	if update.Staff != nil {
		if err := s.reconcileRole(ctx, festival, domain.FestivalRoleStaff, update.Staff); err != nil {
			return domain.Festival{}, err
		}
	}

	return s.find(ctx, festival.ID)
}

// AddOrganizers grants the ORGANIZER role to each named user. Existing
// bindings are kept as-is.
func (s *FestivalService) AddOrganizers(ctx context.Context, requester domain.User, id uint, usernames []string) (domain.Festival, error) {
	return s.addRole(ctx, requester, id, domain.FestivalRoleOrganizer, usernames)
}

// AddStaff grants the STAFF role to each named user.
func (s *FestivalService) AddStaff(ctx context.Context, requester domain.User, id uint, usernames []string) (domain.Festival, error) {
	return s.addRole(ctx, requester, id, domain.FestivalRoleStaff, usernames)
}

// Delete removes a festival that never left the CREATED phase, together with
// its role bindings and performances.
func (s *FestivalService) Delete(ctx context.Context, requester domain.User, id uint) error {
	festival, err := s.requireOrganizer(ctx, requester, id)
	if err != nil {
		return err
	}

	if festival.State != domain.FestivalCreated {
		return apperror.New(apperror.Forbidden, "only a festival still in the created phase can be deleted")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *FestivalService) StartSubmission(ctx context.Context, requester domain.User, id uint) (domain.Festival, error) {
	return s.advance(ctx, requester, id, domain.FestivalCreated, domain.FestivalSubmission)
}

func (s *FestivalService) StartAssignment(ctx context.Context, requester domain.User, id uint) (domain.Festival, error) {
	return s.advance(ctx, requester, id, domain.FestivalSubmission, domain.FestivalAssignment)
}

func (s *FestivalService) StartReview(ctx context.Context, requester domain.User, id uint) (domain.Festival, error) {
	return s.advance(ctx, requester, id, domain.FestivalAssignment, domain.FestivalReview)
}

func (s *FestivalService) StartScheduling(ctx context.Context, requester domain.User, id uint) (domain.Festival, error) {
	return s.advance(ctx, requester, id, domain.FestivalReview, domain.FestivalScheduling)
}

func (s *FestivalService) StartFinalSubmission(ctx context.Context, requester domain.User, id uint) (domain.Festival, error) {
	return s.advance(ctx, requester, id, domain.FestivalScheduling, domain.FestivalFinalSubmission)
}

// StartDecision moves the festival into the DECISION phase and, in the same
// transaction, rejects every performance that was not finally submitted.
func (s *FestivalService) StartDecision(ctx context.Context, requester domain.User, id uint) (domain.Festival, error) {
	if _, err := s.requireOrganizer(ctx, requester, id); err != nil {
		return domain.Festival{}, err
	}

	if err := s.repo.StartDecision(ctx, id, autoRejectionReason); err != nil {
		if errors.Is(err, repository.ErrStaleFestivalState) {
			return domain.Festival{}, apperror.New(apperror.InvalidPhaseTransition, "festival is not in the final submission phase")
		}

		return domain.Festival{}, fmt.Errorf("s.repo.StartDecision -> %w", err)
	}

	return s.find(ctx, id)
}

func (s *FestivalService) Announce(ctx context.Context, requester domain.User, id uint) (domain.Festival, error) {
	return s.advance(ctx, requester, id, domain.FestivalDecision, domain.FestivalAnnounced)
}

// View returns the festival together with whether the requester may see its
// full detail. Anonymous callers pass a nil requester.
func (s *FestivalService) View(ctx context.Context, requester *domain.User, id uint) (domain.Festival, bool, error) {
	festival, err := s.find(ctx, id)
	if err != nil {
		return domain.Festival{}, false, err
	}

	return festival, s.canViewFullDetail(festival, requester), nil
}

// Search filters festivals word-wise on name, venue and dates. Every word of
// the query must match at least one of those fields.
func (s *FestivalService) Search(ctx context.Context, requester *domain.User, query string) ([]domain.Festival, []bool, error) {
	festivals, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	words := strings.Fields(strings.ToLower(query))

	matched := make([]domain.Festival, 0, len(festivals))
	detailed := make([]bool, 0, len(festivals))
	for _, f := range festivals {
		if !matchesFestival(f, words) {
			continue
		}

		detail := false
		if requester != nil {
			full, err := s.hasAnyRole(ctx, f.ID, *requester)
			if err != nil {
				return nil, nil, err
			}
			detail = full
		}

		matched = append(matched, f)
		detailed = append(detailed, detail)
	}

	return matched, detailed, nil
}

func (s *FestivalService) advance(ctx context.Context, requester domain.User, id uint, from, to domain.FestivalState) (domain.Festival, error) {
	if _, err := s.requireOrganizer(ctx, requester, id); err != nil {
		return domain.Festival{}, err
	}

	if err := s.repo.AdvanceState(ctx, id, from, to); err != nil {
		if errors.Is(err, repository.ErrStaleFestivalState) {
			return domain.Festival{}, apperror.New(apperror.InvalidPhaseTransition,
				fmt.Sprintf("festival is not in the %s phase", strings.ToLower(string(from))))
		}

		return domain.Festival{}, fmt.Errorf("s.repo.AdvanceState -> %w", err)
	}

	return s.find(ctx, id)
}

func (s *FestivalService) addRole(ctx context.Context, requester domain.User, id uint, role domain.FestivalRole, usernames []string) (domain.Festival, error) {
	festival, err := s.requireOrganizer(ctx, requester, id)
	if err != nil {
		return domain.Festival{}, err
	}

	for _, username := range usernames {
		user, err := s.users.FindByUsername(ctx, username)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domain.Festival{}, apperror.New(apperror.NotFound, fmt.Sprintf("user %q not found", username))
			}

			return domain.Festival{}, fmt.Errorf("s.users.FindByUsername -> %w", err)
		}

		if err := s.repo.GrantRole(ctx, festival.ID, user.ID, role); err != nil {
			return domain.Festival{}, fmt.Errorf("s.repo.GrantRole -> %w", err)
		}
	}

	return s.find(ctx, festival.ID)
}

// reconcileRole grants missing bindings from target and revokes bindings no
// longer listed. Founder bindings are never revoked.
func (s *FestivalService) reconcileRole(ctx context.Context, festival domain.Festival, role domain.FestivalRole, target []string) error {
	wanted := make(map[string]bool, len(target))
	for _, username := range target {
		wanted[username] = true
	}

	current := make(map[string]bool)
	for _, binding := range festival.Roles {
		if binding.Role == role {
			current[binding.Username] = true
		}
	}

	for username := range wanted {
		if current[username] {
			continue
		}

		user, err := s.users.FindByUsername(ctx, username)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return apperror.New(apperror.NotFound, fmt.Sprintf("user %q not found", username))
			}

			return fmt.Errorf("s.users.FindByUsername -> %w", err)
		}

		if err := s.repo.GrantRole(ctx, festival.ID, user.ID, role); err != nil {
			return fmt.Errorf("s.repo.GrantRole -> %w", err)
		}
	}

	for _, binding := range festival.Roles {
		if binding.Role != role || wanted[binding.Username] || binding.Founder {
			continue
		}

		if err := s.repo.RevokeRole(ctx, festival.ID, binding.UserID, role); err != nil {
			return fmt.Errorf("s.repo.RevokeRole -> %w", err)
		}
	}

	return nil
}

func (s *FestivalService) requireOrganizer(ctx context.Context, requester domain.User, id uint) (domain.Festival, error) {
	festival, err := s.find(ctx, id)
	if err != nil {
		return domain.Festival{}, err
	}

	organizer, err := s.repo.HasRole(ctx, id, requester.ID, domain.FestivalRoleOrganizer)
	if err != nil {
		return domain.Festival{}, fmt.Errorf("s.repo.HasRole -> %w", err)
	}
	if !organizer {
		return domain.Festival{}, apperror.New(apperror.Forbidden, "requester is not an organizer of this festival")
	}

	return festival, nil
}

func (s *FestivalService) find(ctx context.Context, id uint) (domain.Festival, error) {
	festival, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrFestivalNotFound) {
			return domain.Festival{}, apperror.New(apperror.NotFound, "festival not found")
		}

		return domain.Festival{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return festival, nil
}

func (s *FestivalService) hasAnyRole(ctx context.Context, festivalID uint, user domain.User) (bool, error) {
	if user.IsAdmin() {
		return true, nil
	}

	for _, role := range []domain.FestivalRole{domain.FestivalRoleOrganizer, domain.FestivalRoleStaff} {
		ok, err := s.repo.HasRole(ctx, festivalID, user.ID, role)
		if err != nil {
			return false, fmt.Errorf("s.repo.HasRole -> %w", err)
		}
		if ok {
			return true, nil
		}
	}

	return false, nil
}

func (s *FestivalService) canViewFullDetail(festival domain.Festival, requester *domain.User) bool {
	if requester == nil {
		return false
	}
	if requester.IsAdmin() {
		return true
	}

	for _, binding := range festival.Roles {
		if binding.UserID == requester.ID &&
			(binding.Role == domain.FestivalRoleOrganizer || binding.Role == domain.FestivalRoleStaff) {
			return true
		}
	}

	return false
}

func matchesFestival(f domain.Festival, words []string) bool {
	if len(words) == 0 {
		return true
	}

	haystack := []string{strings.ToLower(f.Name), strings.ToLower(f.Venue)}
	for _, d := range f.Dates {
		haystack = append(haystack, d.Format("2006-01-02"))
	}

	for _, word := range words {
		found := false
		for _, field := range haystack {
			if strings.Contains(field, word) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}
