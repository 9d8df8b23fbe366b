package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/vietanh2810/festival-api/internal/apperror"
	"github.com/vietanh2810/festival-api/internal/domain"
	"github.com/vietanh2810/festival-api/internal/repository"
)

type PerformanceRepository interface {
	Create(ctx context.Context, performance domain.Performance, artistIDs []uint) (domain.Performance, error)
	FindByID(ctx context.Context, id uint) (domain.Performance, error)
	FindAll(ctx context.Context) ([]domain.Performance, error)
	FindAllByFestival(ctx context.Context, festivalID uint) ([]domain.Performance, error)
	ExistsByFestivalAndName(ctx context.Context, festivalID uint, name string, excludeID uint) (bool, error)
	Save(ctx context.Context, performance domain.Performance, newArtistIDs []uint) (domain.Performance, error)
	Delete(ctx context.Context, id uint) error
}

type PerformanceFestivalRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Festival, error)
	HasRole(ctx context.Context, festivalID, userID uint, role domain.FestivalRole) (bool, error)
}

type PerformanceUserResolver interface {
	FindByUsername(ctx context.Context, username string) (domain.User, error)
}

// PerformanceCreate carries the fields accepted when a performance is opened.
// Everything beyond name, description, genre, duration and the band is
// optional until submission.
type PerformanceCreate struct {
	Name                      string
	Description               string
	Genre                     string
	Duration                  int
	BandMembers               []string
	TechnicalRequirement      string
	Setlist                   []string
	MerchandiseItems          []domain.MerchandiseItem
	PreferredRehearsalTimes   []string
	PreferredPerformanceSlots []string
}

// PerformanceUpdate carries the editable fields. Nil leaves a field untouched.
type PerformanceUpdate struct {
	Name                      *string
	Description               *string
	Genre                     *string
	Duration                  *int
	BandMembers               []string
	TechnicalRequirement      *string
	Setlist                   []string
	MerchandiseItems          []domain.MerchandiseItem
	PreferredRehearsalTimes   []string
	PreferredPerformanceSlots []string
}

type PerformanceService struct {
	repo      PerformanceRepository
	festivals PerformanceFestivalRepository
	users     PerformanceUserResolver
}

func NewPerformanceService(repo PerformanceRepository, festivals PerformanceFestivalRepository, users PerformanceUserResolver) *PerformanceService {
	return &PerformanceService{
		repo:      repo,
		festivals: festivals,
		users:     users,
	}
}

// Create opens a performance under the festival. The creator becomes its
// immutable main artist; creator and every listed band member receive the
// festival ARTIST role in the same transaction as the insert.
func (s *PerformanceService) Create(ctx context.Context, requester domain.User, festivalID uint, input PerformanceCreate) (domain.Performance, error) {
	if _, err := s.findFestival(ctx, festivalID); err != nil {
		return domain.Performance{}, err
	}

	if input.Name == "" || input.Description == "" || input.Genre == "" || input.Duration <= 0 {
		return domain.Performance{}, apperror.New(apperror.ValidationFailed, "performance needs a name, description, genre and positive duration")
	}
	if len(input.BandMembers) == 0 {
		return domain.Performance{}, apperror.New(apperror.ValidationFailed, "performance needs at least one band member")
	}

	exists, err := s.repo.ExistsByFestivalAndName(ctx, festivalID, input.Name, 0)
	if err != nil {
		return domain.Performance{}, fmt.Errorf("s.repo.ExistsByFestivalAndName -> %w", err)
	}
	if exists {
		return domain.Performance{}, apperror.New(apperror.Conflict, "performance name already taken in this festival")
	}

	members, err := s.resolveMembers(ctx, requester, input.BandMembers)
	if err != nil {
		return domain.Performance{}, err
	}

	performance := domain.Performance{
		FestivalID:                festivalID,
		Name:                      input.Name,
		Description:               input.Description,
		Genre:                     input.Genre,
		Duration:                  input.Duration,
		CreatorID:                 requester.ID,
		BandMembers:               members,
		TechnicalRequirement:      input.TechnicalRequirement,
		Setlist:                   input.Setlist,
		MerchandiseItems:          input.MerchandiseItems,
		PreferredRehearsalTimes:   input.PreferredRehearsalTimes,
		PreferredPerformanceSlots: input.PreferredPerformanceSlots,
		State:                     domain.PerformanceCreated,
	}

	artistIDs := []uint{requester.ID}
	for _, m := range members {
		artistIDs = append(artistIDs, m.ID)
	}

	created, err := s.repo.Create(ctx, performance, artistIDs)
	if err != nil {
		if errors.Is(err, repository.ErrPerformanceNameExists) {
			return domain.Performance{}, apperror.New(apperror.Conflict, "performance name already taken in this festival")
		}

		return domain.Performance{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return s.find(ctx, created.ID)
}

// Update edits a performance that has not been submitted yet. Creator only.
func (s *PerformanceService) Update(ctx context.Context, requester domain.User, id uint, update PerformanceUpdate) (domain.Performance, error) {
	performance, err := s.requireCreator(ctx, requester, id)
	if err != nil {
		return domain.Performance{}, err
	}

	if performance.State != domain.PerformanceCreated {
		return domain.Performance{}, apperror.New(apperror.Forbidden, "performance can no longer be modified after submission")
	}

	if update.Name != nil && *update.Name != performance.Name {
		if *update.Name == "" {
			return domain.Performance{}, apperror.New(apperror.ValidationFailed, "performance name must not be empty")
		}

		exists, err := s.repo.ExistsByFestivalAndName(ctx, performance.FestivalID, *update.Name, performance.ID)
		if err != nil {
			return domain.Performance{}, fmt.Errorf("s.repo.ExistsByFestivalAndName -> %w", err)
		}
		if exists {
			return domain.Performance{}, apperror.New(apperror.Conflict, "performance name already taken in this festival")
		}

		performance.Name = *update.Name
	}

	if update.Description != nil {
		performance.Description = *update.Description
	}
	if update.Genre != nil {
		performance.Genre = *update.Genre
	}
	if update.Duration != nil {
		if *update.Duration <= 0 {
			return domain.Performance{}, apperror.New(apperror.ValidationFailed, "performance duration must be positive")
		}
		performance.Duration = *update.Duration
	}
	if update.TechnicalRequirement != nil {
		performance.TechnicalRequirement = *update.TechnicalRequirement
	}
	if update.Setlist != nil {
		performance.Setlist = update.Setlist
	}
	if update.MerchandiseItems != nil {
		performance.MerchandiseItems = update.MerchandiseItems
	}
	if update.PreferredRehearsalTimes != nil {
		performance.PreferredRehearsalTimes = update.PreferredRehearsalTimes
	}
	if update.PreferredPerformanceSlots != nil {
		performance.PreferredPerformanceSlots = update.PreferredPerformanceSlots
	}

	var newArtistIDs []uint
	if update.BandMembers != nil {
		members, err := s.resolveMembers(ctx, requester, update.BandMembers)
		if err != nil {
			return domain.Performance{}, err
		}

		for _, m := range members {
			if !performance.HasBandMember(m.ID) {
				newArtistIDs = append(newArtistIDs, m.ID)
			}
		}
		performance.BandMembers = members
	}

	if _, err := s.repo.Save(ctx, performance, newArtistIDs); err != nil {
		if errors.Is(err, repository.ErrPerformanceNameExists) {
			return domain.Performance{}, apperror.New(apperror.Conflict, "performance name already taken in this festival")
		}

		return domain.Performance{}, fmt.Errorf("s.repo.Save -> %w", err)
	}

	return s.find(ctx, performance.ID)
}

// AddBandMember adds one user to the band and grants them the festival ARTIST
// role. Creator only, before submission.
func (s *PerformanceService) AddBandMember(ctx context.Context, requester domain.User, id uint, username string) (domain.Performance, error) {
	performance, err := s.requireCreator(ctx, requester, id)
	if err != nil {
		return domain.Performance{}, err
	}

	if performance.State != domain.PerformanceCreated {
		return domain.Performance{}, apperror.New(apperror.Forbidden, "performance can no longer be modified after submission")
	}

	member, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.Performance{}, apperror.New(apperror.NotFound, fmt.Sprintf("user %q not found", username))
		}

		return domain.Performance{}, fmt.Errorf("s.users.FindByUsername -> %w", err)
	}

	if member.ID == performance.CreatorID || performance.HasBandMember(member.ID) {
		return performance, nil
	}

	performance.BandMembers = append(performance.BandMembers, member)
	if _, err := s.repo.Save(ctx, performance, []uint{member.ID}); err != nil {
		return domain.Performance{}, fmt.Errorf("s.repo.Save -> %w", err)
	}

	return s.find(ctx, performance.ID)
}

// Submit hands the performance in for review. Requires the festival to be in
// its submission phase and every mandatory field to be populated.
func (s *PerformanceService) Submit(ctx context.Context, requester domain.User, id uint) (domain.Performance, error) {
	performance, err := s.requireCreator(ctx, requester, id)
	if err != nil {
		return domain.Performance{}, err
	}

	if err := s.requireFestivalPhase(ctx, performance.FestivalID, domain.FestivalSubmission); err != nil {
		return domain.Performance{}, err
	}

	if performance.State != domain.PerformanceCreated {
		return domain.Performance{}, apperror.New(apperror.InvalidStatusTransition, "performance has already been submitted")
	}

	if !performance.Complete() {
		return domain.Performance{}, apperror.New(apperror.ValidationFailed, "all mandatory fields must be filled before submission")
	}

	performance.State = domain.PerformanceSubmitted

	return s.save(ctx, performance)
}

// Withdraw removes a performance that was never submitted. Creator only.
func (s *PerformanceService) Withdraw(ctx context.Context, requester domain.User, id uint) error {
	performance, err := s.requireCreator(ctx, requester, id)
	if err != nil {
		return err
	}

	if performance.State != domain.PerformanceCreated {
		return apperror.New(apperror.InvalidStatusTransition, "only an unsubmitted performance can be withdrawn")
	}

	if err := s.repo.Delete(ctx, performance.ID); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

// AssignStageManager binds a festival staff member as the performance's stage
// manager. Organizer only, during the assignment phase.
func (s *PerformanceService) AssignStageManager(ctx context.Context, requester domain.User, id uint, username string) (domain.Performance, error) {
	performance, err := s.requireOrganizer(ctx, requester, id)
	if err != nil {
		return domain.Performance{}, err
	}

	if err := s.requireFestivalPhase(ctx, performance.FestivalID, domain.FestivalAssignment); err != nil {
		return domain.Performance{}, err
	}

	manager, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.Performance{}, apperror.New(apperror.NotFound, fmt.Sprintf("user %q not found", username))
		}

		return domain.Performance{}, fmt.Errorf("s.users.FindByUsername -> %w", err)
	}

	isStaff, err := s.festivals.HasRole(ctx, performance.FestivalID, manager.ID, domain.FestivalRoleStaff)
	if err != nil {
		return domain.Performance{}, fmt.Errorf("s.festivals.HasRole -> %w", err)
	}
	if !isStaff {
		return domain.Performance{}, apperror.New(apperror.ValidationFailed, "stage manager must hold the festival staff role")
	}

	performance.StageManagerID = &manager.ID

	return s.save(ctx, performance)
}

// Review records score and comments. Assigned stage manager only, during the
// review phase.
func (s *PerformanceService) Review(ctx context.Context, requester domain.User, id uint, score float64, comments string) (domain.Performance, error) {
	performance, err := s.find(ctx, id)
	if err != nil {
		return domain.Performance{}, err
	}

	if performance.StageManagerID == nil || *performance.StageManagerID != requester.ID {
		return domain.Performance{}, apperror.New(apperror.Forbidden, "only the assigned stage manager may review this performance")
	}

	if err := s.requireFestivalPhase(ctx, performance.FestivalID, domain.FestivalReview); err != nil {
		return domain.Performance{}, err
	}

	if performance.State != domain.PerformanceSubmitted {
		return domain.Performance{}, apperror.New(apperror.InvalidStatusTransition, "only a submitted performance can be reviewed")
	}

	if score < 0 || score > 10 {
		return domain.Performance{}, apperror.New(apperror.ValidationFailed, "score must be between 0 and 10")
	}
	if comments == "" {
		return domain.Performance{}, apperror.New(apperror.ValidationFailed, "reviewer comments must not be empty")
	}

	performance.Score = &score
	performance.ReviewerComments = comments
	performance.State = domain.PerformanceReviewed

	return s.save(ctx, performance)
}

// Approve marks a reviewed performance as approved. Organizer only, during
// the scheduling phase.
func (s *PerformanceService) Approve(ctx context.Context, requester domain.User, id uint) (domain.Performance, error) {
	performance, err := s.requireOrganizer(ctx, requester, id)
	if err != nil {
		return domain.Performance{}, err
	}

	if err := s.requireFestivalPhase(ctx, performance.FestivalID, domain.FestivalScheduling); err != nil {
		return domain.Performance{}, err
	}

	if performance.State != domain.PerformanceReviewed {
		return domain.Performance{}, apperror.New(apperror.InvalidStatusTransition, "only a reviewed performance can be approved")
	}

	performance.State = domain.PerformanceApproved

	return s.save(ctx, performance)
}

// Reject marks the performance rejected with a reason. Organizer only, during
// the scheduling or decision phase. REJECTED is absorbing.
func (s *PerformanceService) Reject(ctx context.Context, requester domain.User, id uint, reason string) (domain.Performance, error) {
	performance, err := s.requireOrganizer(ctx, requester, id)
	if err != nil {
		return domain.Performance{}, err
	}

	if err := s.requireFestivalPhase(ctx, performance.FestivalID, domain.FestivalScheduling, domain.FestivalDecision); err != nil {
		return domain.Performance{}, err
	}

	if reason == "" {
		return domain.Performance{}, apperror.New(apperror.ValidationFailed, "rejection reason must not be empty")
	}

	performance.RejectionReason = reason
	performance.State = domain.PerformanceRejected

	return s.save(ctx, performance)
}

// FinalSubmit locks in the final setlist, rehearsal times and slot
// selections. Creator only, during the final submission phase. Status is left
// untouched; only the finally-submitted flag flips.
func (s *PerformanceService) FinalSubmit(ctx context.Context, requester domain.User, id uint, setlist, rehearsalTimes, slots []string) (domain.Performance, error) {
	performance, err := s.requireCreator(ctx, requester, id)
	if err != nil {
		return domain.Performance{}, err
	}

	if err := s.requireFestivalPhase(ctx, performance.FestivalID, domain.FestivalFinalSubmission); err != nil {
		return domain.Performance{}, err
	}

	if len(setlist) == 0 || len(rehearsalTimes) == 0 || len(slots) == 0 {
		return domain.Performance{}, apperror.New(apperror.ValidationFailed, "final setlist, rehearsal times and slot selections must not be empty")
	}

	performance.Setlist = setlist
	performance.PreferredRehearsalTimes = rehearsalTimes
	performance.PreferredPerformanceSlots = slots
	performance.FinallySubmitted = true

	return s.save(ctx, performance)
}

// Accept schedules an approved performance. Organizer only, during the
// decision phase.
func (s *PerformanceService) Accept(ctx context.Context, requester domain.User, id uint) (domain.Performance, error) {
	performance, err := s.requireOrganizer(ctx, requester, id)
	if err != nil {
		return domain.Performance{}, err
	}

	if err := s.requireFestivalPhase(ctx, performance.FestivalID, domain.FestivalDecision); err != nil {
		return domain.Performance{}, err
	}

	if performance.State != domain.PerformanceApproved {
		return domain.Performance{}, apperror.New(apperror.InvalidStatusTransition, "only an approved performance can be scheduled")
	}

	performance.State = domain.PerformanceScheduled

	return s.save(ctx, performance)
}

// View returns the performance together with whether the requester may see
// its full detail. Anonymous callers pass a nil requester.
func (s *PerformanceService) View(ctx context.Context, requester *domain.User, id uint) (domain.Performance, bool, error) {
	performance, err := s.find(ctx, id)
	if err != nil {
		return domain.Performance{}, false, err
	}

	detail, err := s.canViewFullDetail(ctx, performance, requester)
	if err != nil {
		return domain.Performance{}, false, err
	}

	return performance, detail, nil
}

// Search filters performances word-wise on name, genre and artist usernames.
// Anonymous callers only see scheduled performances. Results are sorted by
// genre then name, case-insensitive.
func (s *PerformanceService) Search(ctx context.Context, requester *domain.User, query string) ([]domain.Performance, []bool, error) {
	performances, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	words := strings.Fields(strings.ToLower(query))

	matched := make([]domain.Performance, 0, len(performances))
	for _, p := range performances {
		if requester == nil && p.State != domain.PerformanceScheduled {
			continue
		}
		if matchesPerformance(p, words) {
			matched = append(matched, p)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		gi, gj := strings.ToLower(matched[i].Genre), strings.ToLower(matched[j].Genre)
		if gi != gj {
			return gi < gj
		}

		return strings.ToLower(matched[i].Name) < strings.ToLower(matched[j].Name)
	})

	detailed := make([]bool, 0, len(matched))
	for _, p := range matched {
		detail, err := s.canViewFullDetail(ctx, p, requester)
		if err != nil {
			return nil, nil, err
		}
		detailed = append(detailed, detail)
	}

	return matched, detailed, nil
}

func (s *PerformanceService) requireCreator(ctx context.Context, requester domain.User, id uint) (domain.Performance, error) {
	performance, err := s.find(ctx, id)
	if err != nil {
		return domain.Performance{}, err
	}

	if performance.CreatorID != requester.ID {
		return domain.Performance{}, apperror.New(apperror.Forbidden, "only the creator may perform this operation")
	}

	return performance, nil
}

func (s *PerformanceService) requireOrganizer(ctx context.Context, requester domain.User, id uint) (domain.Performance, error) {
	performance, err := s.find(ctx, id)
	if err != nil {
		return domain.Performance{}, err
	}

	organizer, err := s.festivals.HasRole(ctx, performance.FestivalID, requester.ID, domain.FestivalRoleOrganizer)
	if err != nil {
		return domain.Performance{}, fmt.Errorf("s.festivals.HasRole -> %w", err)
	}
	if !organizer {
		return domain.Performance{}, apperror.New(apperror.Forbidden, "requester is not an organizer of this festival")
	}

	return performance, nil
}

func (s *PerformanceService) requireFestivalPhase(ctx context.Context, festivalID uint, phases ...domain.FestivalState) error {
	festival, err := s.findFestival(ctx, festivalID)
	if err != nil {
		return err
	}

	for _, phase := range phases {
		if festival.State == phase {
			return nil
		}
	}

	names := make([]string, 0, len(phases))
	for _, phase := range phases {
		names = append(names, strings.ToLower(string(phase)))
	}

	return apperror.New(apperror.Forbidden,
		fmt.Sprintf("festival must be in the %s phase for this operation", strings.Join(names, " or ")))
}

// resolveMembers turns band member usernames into users, skipping the
// creator, who is always the main artist.
func (s *PerformanceService) resolveMembers(ctx context.Context, creator domain.User, usernames []string) ([]domain.User, error) {
	members := make([]domain.User, 0, len(usernames))
	seen := map[uint]bool{creator.ID: true}
	for _, username := range usernames {
		user, err := s.users.FindByUsername(ctx, username)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return nil, apperror.New(apperror.NotFound, fmt.Sprintf("user %q not found", username))
			}

			return nil, fmt.Errorf("s.users.FindByUsername -> %w", err)
		}

		if seen[user.ID] {
			continue
		}
		seen[user.ID] = true
		members = append(members, user)
	}

	return members, nil
}

func (s *PerformanceService) canViewFullDetail(ctx context.Context, performance domain.Performance, requester *domain.User) (bool, error) {
	if requester == nil {
		return false, nil
	}
	if requester.IsAdmin() ||
		performance.CreatorID == requester.ID ||
		performance.HasBandMember(requester.ID) ||
		(performance.StageManagerID != nil && *performance.StageManagerID == requester.ID) {
		return true, nil
	}

	organizer, err := s.festivals.HasRole(ctx, performance.FestivalID, requester.ID, domain.FestivalRoleOrganizer)
	if err != nil {
		return false, fmt.Errorf("s.festivals.HasRole -> %w", err)
	}

	return organizer, nil
}

func (s *PerformanceService) find(ctx context.Context, id uint) (domain.Performance, error) {
	performance, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPerformanceNotFound) {
			return domain.Performance{}, apperror.New(apperror.NotFound, "performance not found")
		}

		return domain.Performance{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return performance, nil
}

func (s *PerformanceService) findFestival(ctx context.Context, id uint) (domain.Festival, error) {
	festival, err := s.festivals.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrFestivalNotFound) {
			return domain.Festival{}, apperror.New(apperror.NotFound, "festival not found")
		}

		return domain.Festival{}, fmt.Errorf("s.festivals.FindByID -> %w", err)
	}

	return festival, nil
}

func (s *PerformanceService) save(ctx context.Context, performance domain.Performance) (domain.Performance, error) {
	if _, err := s.repo.Save(ctx, performance, nil); err != nil {
		return domain.Performance{}, fmt.Errorf("s.repo.Save -> %w", err)
	}

	return s.find(ctx, performance.ID)
}

func matchesPerformance(p domain.Performance, words []string) bool {
	if len(words) == 0 {
		return true
	}

	haystack := []string{strings.ToLower(p.Name), strings.ToLower(p.Genre), strings.ToLower(p.Creator.Username)}
	for _, m := range p.BandMembers {
		haystack = append(haystack, strings.ToLower(m.Username))
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
