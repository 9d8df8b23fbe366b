package service

import (
	"context"
	"strings"

	"github.com/vietanh2810/festival-api/internal/domain"
	"github.com/vietanh2810/festival-api/internal/repository"
)

// In-memory stores implementing the repository interfaces the services
// consume. They honor the same sentinel-error contract as the real
// repositories.

type fakeUserStore struct {
	nextID uint
	users  map[uint]domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uint]domain.User)}
}

func (f *fakeUserStore) Create(_ context.Context, user domain.User) (domain.User, error) {
	for _, u := range f.users {
		if u.Username == user.Username {
			return domain.User{}, repository.ErrUsernameExists
		}
	}

	f.nextID++
	user.ID = f.nextID
	f.users[user.ID] = user

	return user, nil
}

func (f *fakeUserStore) FindByID(_ context.Context, id uint) (domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	return user, nil
}

func (f *fakeUserStore) FindByUsername(_ context.Context, username string) (domain.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}

	return domain.User{}, repository.ErrUserNotFound
}

func (f *fakeUserStore) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, u := range f.users {
		if u.Username == username {
			return true, nil
		}
	}

	return false, nil
}

func (f *fakeUserStore) Count(_ context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

func (f *fakeUserStore) Save(_ context.Context, user domain.User) (domain.User, error) {
	if _, ok := f.users[user.ID]; !ok {
		return domain.User{}, repository.ErrUserNotFound
	}
	f.users[user.ID] = user

	return user, nil
}

func (f *fakeUserStore) Delete(_ context.Context, id uint) error {
	if _, ok := f.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(f.users, id)

	return nil
}

type fakeTokenStore struct {
	nextID uint
	tokens []domain.Token
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{}
}

func (f *fakeTokenStore) Replace(_ context.Context, token domain.Token) (domain.Token, error) {
	for i := range f.tokens {
		if f.tokens[i].UserID == token.UserID {
			f.tokens[i].Active = false
		}
	}

	f.nextID++
	token.ID = f.nextID
	f.tokens = append(f.tokens, token)

	return token, nil
}

func (f *fakeTokenStore) FindByValue(_ context.Context, value string) (domain.Token, error) {
	for _, t := range f.tokens {
		if t.Value == value {
			return t, nil
		}
	}

	return domain.Token{}, repository.ErrTokenNotFound
}

func (f *fakeTokenStore) DeactivateAllByUser(_ context.Context, userID uint) error {
	for i := range f.tokens {
		if f.tokens[i].UserID == userID {
			f.tokens[i].Active = false
		}
	}

	return nil
}

func (f *fakeTokenStore) DeleteAllByUser(_ context.Context, userID uint) error {
	kept := f.tokens[:0]
	for _, t := range f.tokens {
		if t.UserID != userID {
			kept = append(kept, t)
		}
	}
	f.tokens = kept

	return nil
}

func (f *fakeTokenStore) activeCount(userID uint) int {
	n := 0
	for _, t := range f.tokens {
		if t.UserID == userID && t.Active {
			n++
		}
	}

	return n
}

type fakeFestivalStore struct {
	nextID       uint
	nextRoleID   uint
	festivals    map[uint]domain.Festival
	roles        []domain.FestivalUserRole
	users        *fakeUserStore
	performances *fakePerformanceStore
}

func newFakeFestivalStore(users *fakeUserStore) *fakeFestivalStore {
	return &fakeFestivalStore{
		festivals: make(map[uint]domain.Festival),
		users:     users,
	}
}

func (f *fakeFestivalStore) Create(ctx context.Context, festival domain.Festival, creatorID uint) (domain.Festival, error) {
	for _, existing := range f.festivals {
		if strings.EqualFold(existing.Name, festival.Name) {
			return domain.Festival{}, repository.ErrFestivalNameExists
		}
	}

	f.nextID++
	festival.ID = f.nextID
	f.festivals[festival.ID] = festival
	f.grant(festival.ID, creatorID, domain.FestivalRoleOrganizer, true)

	return festival, nil
}

func (f *fakeFestivalStore) FindByID(_ context.Context, id uint) (domain.Festival, error) {
	festival, ok := f.festivals[id]
	if !ok {
		return domain.Festival{}, repository.ErrFestivalNotFound
	}

	festival.Roles = nil
	for _, r := range f.roles {
		if r.FestivalID == id {
			festival.Roles = append(festival.Roles, r)
		}
	}

	return festival, nil
}

func (f *fakeFestivalStore) FindAll(ctx context.Context) ([]domain.Festival, error) {
	var all []domain.Festival
	for id := uint(1); id <= f.nextID; id++ {
		if festival, err := f.FindByID(ctx, id); err == nil {
			all = append(all, festival)
		}
	}

	return all, nil
}

func (f *fakeFestivalStore) ExistsByName(_ context.Context, name string, excludeID uint) (bool, error) {
	for _, existing := range f.festivals {
		if existing.ID != excludeID && strings.EqualFold(existing.Name, name) {
			return true, nil
		}
	}

	return false, nil
}

func (f *fakeFestivalStore) Save(_ context.Context, festival domain.Festival) (domain.Festival, error) {
	if _, ok := f.festivals[festival.ID]; !ok {
		return domain.Festival{}, repository.ErrFestivalNotFound
	}
	festival.Roles = nil
	f.festivals[festival.ID] = festival

	return festival, nil
}

func (f *fakeFestivalStore) Delete(_ context.Context, id uint) error {
	delete(f.festivals, id)

	kept := f.roles[:0]
	for _, r := range f.roles {
		if r.FestivalID != id {
			kept = append(kept, r)
		}
	}
	f.roles = kept

	return nil
}

func (f *fakeFestivalStore) AdvanceState(_ context.Context, id uint, from, to domain.FestivalState) error {
	festival, ok := f.festivals[id]
	if !ok || festival.State != from {
		return repository.ErrStaleFestivalState
	}

	festival.State = to
	f.festivals[id] = festival

	return nil
}

func (f *fakeFestivalStore) StartDecision(ctx context.Context, id uint, rejectionReason string) error {
	if err := f.AdvanceState(ctx, id, domain.FestivalFinalSubmission, domain.FestivalDecision); err != nil {
		return err
	}

	if f.performances == nil {
		return nil
	}

	for pid, p := range f.performances.performances {
		if p.FestivalID != id || p.FinallySubmitted || p.State == domain.PerformanceRejected {
			continue
		}
		p.State = domain.PerformanceRejected
		p.RejectionReason = rejectionReason
		f.performances.performances[pid] = p
	}

	return nil
}

func (f *fakeFestivalStore) GrantRole(_ context.Context, festivalID, userID uint, role domain.FestivalRole) error {
	f.grant(festivalID, userID, role, false)

	return nil
}

func (f *fakeFestivalStore) HasRole(_ context.Context, festivalID, userID uint, role domain.FestivalRole) (bool, error) {
	for _, r := range f.roles {
		if r.FestivalID == festivalID && r.UserID == userID && r.Role == role {
			return true, nil
		}
	}

	return false, nil
}

func (f *fakeFestivalStore) RevokeRole(_ context.Context, festivalID, userID uint, role domain.FestivalRole) error {
	kept := f.roles[:0]
	for _, r := range f.roles {
		if r.FestivalID == festivalID && r.UserID == userID && r.Role == role && !r.Founder {
			continue
		}
		kept = append(kept, r)
	}
	f.roles = kept

	return nil
}

func (f *fakeFestivalStore) grant(festivalID, userID uint, role domain.FestivalRole, founder bool) {
	for _, r := range f.roles {
		if r.FestivalID == festivalID && r.UserID == userID && r.Role == role {
			return
		}
	}

	username := ""
	if f.users != nil {
		if u, ok := f.users.users[userID]; ok {
			username = u.Username
		}
	}

	f.nextRoleID++
	f.roles = append(f.roles, domain.FestivalUserRole{
		ID:         f.nextRoleID,
		FestivalID: festivalID,
		UserID:     userID,
		Username:   username,
		Role:       role,
		Founder:    founder,
	})
}

type fakePerformanceStore struct {
	nextID       uint
	performances map[uint]domain.Performance
	festivals    *fakeFestivalStore
	users        *fakeUserStore
}

func newFakePerformanceStore(festivals *fakeFestivalStore, users *fakeUserStore) *fakePerformanceStore {
	store := &fakePerformanceStore{
		performances: make(map[uint]domain.Performance),
		festivals:    festivals,
		users:        users,
	}
	festivals.performances = store

	return store
}

func (f *fakePerformanceStore) Create(_ context.Context, performance domain.Performance, artistIDs []uint) (domain.Performance, error) {
	for _, existing := range f.performances {
		if existing.FestivalID == performance.FestivalID && strings.EqualFold(existing.Name, performance.Name) {
			return domain.Performance{}, repository.ErrPerformanceNameExists
		}
	}

	f.nextID++
	performance.ID = f.nextID
	f.performances[performance.ID] = performance

	for _, id := range artistIDs {
		f.festivals.grant(performance.FestivalID, id, domain.FestivalRoleArtist, false)
	}

	return performance, nil
}

func (f *fakePerformanceStore) FindByID(_ context.Context, id uint) (domain.Performance, error) {
	performance, ok := f.performances[id]
	if !ok {
		return domain.Performance{}, repository.ErrPerformanceNotFound
	}

	return f.hydrate(performance), nil
}

func (f *fakePerformanceStore) FindAll(ctx context.Context) ([]domain.Performance, error) {
	var all []domain.Performance
	for id := uint(1); id <= f.nextID; id++ {
		if p, err := f.FindByID(ctx, id); err == nil {
			all = append(all, p)
		}
	}

	return all, nil
}

func (f *fakePerformanceStore) FindAllByFestival(ctx context.Context, festivalID uint) ([]domain.Performance, error) {
	all, _ := f.FindAll(ctx)

	var matched []domain.Performance
	for _, p := range all {
		if p.FestivalID == festivalID {
			matched = append(matched, p)
		}
	}

	return matched, nil
}

func (f *fakePerformanceStore) ExistsByFestivalAndName(_ context.Context, festivalID uint, name string, excludeID uint) (bool, error) {
	for _, existing := range f.performances {
		if existing.ID != excludeID && existing.FestivalID == festivalID && strings.EqualFold(existing.Name, name) {
			return true, nil
		}
	}

	return false, nil
}

func (f *fakePerformanceStore) Save(_ context.Context, performance domain.Performance, newArtistIDs []uint) (domain.Performance, error) {
	if _, ok := f.performances[performance.ID]; !ok {
		return domain.Performance{}, repository.ErrPerformanceNotFound
	}
	f.performances[performance.ID] = performance

	for _, id := range newArtistIDs {
		f.festivals.grant(performance.FestivalID, id, domain.FestivalRoleArtist, false)
	}

	return performance, nil
}

func (f *fakePerformanceStore) Delete(_ context.Context, id uint) error {
	if _, ok := f.performances[id]; !ok {
		return repository.ErrPerformanceNotFound
	}
	delete(f.performances, id)

	return nil
}

func (f *fakePerformanceStore) hydrate(p domain.Performance) domain.Performance {
	if f.users == nil {
		return p
	}

	if creator, ok := f.users.users[p.CreatorID]; ok {
		p.Creator = creator
	}
	if p.StageManagerID != nil {
		if manager, ok := f.users.users[*p.StageManagerID]; ok {
			p.StageManager = &manager
		}
	}

	return p
}
