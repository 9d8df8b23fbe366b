package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/festival-api/internal/apperror"
	"github.com/vietanh2810/festival-api/internal/domain"
)

type festivalServiceFixture struct {
	users     *fakeUserStore
	festivals *fakeFestivalStore
	svc       *FestivalService

	organizer domain.User
	outsider  domain.User
}

func newFestivalServiceFixture(t *testing.T) *festivalServiceFixture {
	t.Helper()

	users := newFakeUserStore()
	festivals := newFakeFestivalStore(users)

	organizer, err := users.Create(context.Background(), domain.User{Username: "olivia_org", Active: true})
	require.NoError(t, err)
	outsider, err := users.Create(context.Background(), domain.User{Username: "oscar_out", Active: true})
	require.NoError(t, err)

	return &festivalServiceFixture{
		users:     users,
		festivals: festivals,
		svc:       NewFestivalService(festivals, users),
		organizer: organizer,
		outsider:  outsider,
	}
}

func (f *festivalServiceFixture) createFestival(t *testing.T, name string) domain.Festival {
	t.Helper()

	festival, err := f.svc.Create(context.Background(), f.organizer, domain.Festival{
		Name:  name,
		Venue: "Riverside Park",
		Dates: []time.Time{time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)},
	})
	require.NoError(t, err)

	return festival
}

// advanceTo walks the festival forward one phase at a time until target.
func (f *festivalServiceFixture) advanceTo(t *testing.T, id uint, target domain.FestivalState) {
	t.Helper()

	steps := []struct {
		state domain.FestivalState
		fn    func(context.Context, domain.User, uint) (domain.Festival, error)
	}{
		{domain.FestivalSubmission, f.svc.StartSubmission},
		{domain.FestivalAssignment, f.svc.StartAssignment},
		{domain.FestivalReview, f.svc.StartReview},
		{domain.FestivalScheduling, f.svc.StartScheduling},
		{domain.FestivalFinalSubmission, f.svc.StartFinalSubmission},
		{domain.FestivalDecision, f.svc.StartDecision},
		{domain.FestivalAnnounced, f.svc.Announce},
	}

	for _, step := range steps {
		festival, err := step.fn(context.Background(), f.organizer, id)
		require.NoError(t, err)
		if festival.State == target {
			return
		}
	}

	t.Fatalf("never reached state %v", target)
}

func TestFestivalService_Create_GrantsFounderOrganizer(t *testing.T) {
	f := newFestivalServiceFixture(t)

	festival := f.createFestival(t, "Summer Sounds")
	assert.Equal(t, domain.FestivalCreated, festival.State)

	require.Len(t, festival.Roles, 1)
	assert.Equal(t, domain.FestivalRoleOrganizer, festival.Roles[0].Role)
	assert.Equal(t, f.organizer.ID, festival.Roles[0].UserID)
	assert.True(t, festival.Roles[0].Founder)
}

func TestFestivalService_Create_Validation(t *testing.T) {
	f := newFestivalServiceFixture(t)

	_, err := f.svc.Create(context.Background(), f.organizer, domain.Festival{Name: "No Dates", Venue: "Park"})
	assert.Equal(t, apperror.ValidationFailed, apperror.KindOf(err))

	f.createFestival(t, "Summer Sounds")
	_, err = f.svc.Create(context.Background(), f.organizer, domain.Festival{
		Name:  "Summer Sounds",
		Venue: "Elsewhere",
		Dates: []time.Time{time.Now()},
	})
	assert.Equal(t, apperror.Conflict, apperror.KindOf(err))
}

func TestFestivalService_PhaseAdvance_RequiresExactPredecessor(t *testing.T) {
	f := newFestivalServiceFixture(t)
	festival := f.createFestival(t, "Summer Sounds")

	// Skipping ahead is rejected.
	_, err := f.svc.StartAssignment(context.Background(), f.organizer, festival.ID)
	assert.Equal(t, apperror.InvalidPhaseTransition, apperror.KindOf(err))

	advanced, err := f.svc.StartSubmission(context.Background(), f.organizer, festival.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FestivalSubmission, advanced.State)

	// Phases never repeat.
	_, err = f.svc.StartSubmission(context.Background(), f.organizer, festival.ID)
	assert.Equal(t, apperror.InvalidPhaseTransition, apperror.KindOf(err))
}

func TestFestivalService_PhaseAdvance_OrganizerOnly(t *testing.T) {
	f := newFestivalServiceFixture(t)
	festival := f.createFestival(t, "Summer Sounds")

	_, err := f.svc.StartSubmission(context.Background(), f.outsider, festival.ID)
	assert.Equal(t, apperror.Forbidden, apperror.KindOf(err))
}

func TestFestivalService_FullPhaseChain(t *testing.T) {
	f := newFestivalServiceFixture(t)
	festival := f.createFestival(t, "Summer Sounds")

	f.advanceTo(t, festival.ID, domain.FestivalAnnounced)

	final, _, err := f.svc.View(context.Background(), nil, festival.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FestivalAnnounced, final.State)
}

func TestFestivalService_StartDecision_SweepsUnsubmittedPerformances(t *testing.T) {
	f := newFestivalServiceFixture(t)
	festival := f.createFestival(t, "Summer Sounds")
	performances := newFakePerformanceStore(f.festivals, f.users)

	submitted, err := performances.Create(context.Background(), domain.Performance{
		FestivalID: festival.ID, Name: "The Finishers", State: domain.PerformanceApproved, FinallySubmitted: true,
	}, nil)
	require.NoError(t, err)
	straggler, err := performances.Create(context.Background(), domain.Performance{
		FestivalID: festival.ID, Name: "The Stragglers", State: domain.PerformanceApproved,
	}, nil)
	require.NoError(t, err)
	alreadyRejected, err := performances.Create(context.Background(), domain.Performance{
		FestivalID: festival.ID, Name: "The Dropouts", State: domain.PerformanceRejected, RejectionReason: "poor review",
	}, nil)
	require.NoError(t, err)

	f.advanceTo(t, festival.ID, domain.FestivalFinalSubmission)

	advanced, err := f.svc.StartDecision(context.Background(), f.organizer, festival.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FestivalDecision, advanced.State)

	kept, err := performances.FindByID(context.Background(), submitted.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PerformanceApproved, kept.State)

	swept, err := performances.FindByID(context.Background(), straggler.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PerformanceRejected, swept.State)
	assert.Equal(t, autoRejectionReason, swept.RejectionReason)

	untouched, err := performances.FindByID(context.Background(), alreadyRejected.ID)
	require.NoError(t, err)
	assert.Equal(t, "poor review", untouched.RejectionReason)
}

func TestFestivalService_Update_FounderSurvivesReconciliation(t *testing.T) {
	f := newFestivalServiceFixture(t)
	festival := f.createFestival(t, "Summer Sounds")

	helper, err := f.users.Create(context.Background(), domain.User{Username: "helen_help", Active: true})
	require.NoError(t, err)

	_, err = f.svc.AddOrganizers(context.Background(), f.organizer, festival.ID, []string{helper.Username})
	require.NoError(t, err)

	// A target set omitting the founder cannot remove the founder binding.
	updated, err := f.svc.Update(context.Background(), f.organizer, festival.ID, FestivalUpdate{
		Organizers: []string{helper.Username},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"olivia_org", "helen_help"}, updated.Organizers())

	// Non-founder organizers are removable.
	updated, err = f.svc.Update(context.Background(), f.organizer, festival.ID, FestivalUpdate{
		Organizers: []string{f.organizer.Username},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"olivia_org"}, updated.Organizers())
}

func TestFestivalService_Update_SetupFrozenAfterAnnouncement(t *testing.T) {
	f := newFestivalServiceFixture(t)
	festival := f.createFestival(t, "Summer Sounds")

	budget := &domain.Budget{Tracking: 1000}

	_, err := f.svc.Update(context.Background(), f.organizer, festival.ID, FestivalUpdate{Budget: budget})
	require.NoError(t, err)

	f.advanceTo(t, festival.ID, domain.FestivalAnnounced)

	_, err = f.svc.Update(context.Background(), f.organizer, festival.ID, FestivalUpdate{Budget: budget})
	assert.Equal(t, apperror.Forbidden, apperror.KindOf(err))

	// Name and description stay editable.
	name := "Summer Sounds 2026"
	updated, err := f.svc.Update(context.Background(), f.organizer, festival.ID, FestivalUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
}

func TestFestivalService_Update_NameConflict(t *testing.T) {
	f := newFestivalServiceFixture(t)
	f.createFestival(t, "Summer Sounds")
	festival := f.createFestival(t, "Winter Waves")

	name := "Summer Sounds"
	_, err := f.svc.Update(context.Background(), f.organizer, festival.ID, FestivalUpdate{Name: &name})
	assert.Equal(t, apperror.Conflict, apperror.KindOf(err))
}

func TestFestivalService_Delete_OnlyWhileCreated(t *testing.T) {
	f := newFestivalServiceFixture(t)
	festival := f.createFestival(t, "Summer Sounds")

	_, err := f.svc.StartSubmission(context.Background(), f.organizer, festival.ID)
	require.NoError(t, err)

	err = f.svc.Delete(context.Background(), f.organizer, festival.ID)
	assert.Equal(t, apperror.Forbidden, apperror.KindOf(err))

	fresh := f.createFestival(t, "Winter Waves")
	require.NoError(t, f.svc.Delete(context.Background(), f.organizer, fresh.ID))

	_, _, err = f.svc.View(context.Background(), nil, fresh.ID)
	assert.Equal(t, apperror.NotFound, apperror.KindOf(err))
}

func TestFestivalService_AddStaff_Idempotent(t *testing.T) {
	f := newFestivalServiceFixture(t)
	festival := f.createFestival(t, "Summer Sounds")

	staff, err := f.users.Create(context.Background(), domain.User{Username: "sam_staff", Active: true})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		updated, err := f.svc.AddStaff(context.Background(), f.organizer, festival.ID, []string{staff.Username})
		require.NoError(t, err)
		assert.Equal(t, []string{"sam_staff"}, updated.Staff())
	}
}

func TestFestivalService_View_DetailIsRoleSensitive(t *testing.T) {
	f := newFestivalServiceFixture(t)
	festival := f.createFestival(t, "Summer Sounds")

	_, detailed, err := f.svc.View(context.Background(), nil, festival.ID)
	require.NoError(t, err)
	assert.False(t, detailed)

	_, detailed, err = f.svc.View(context.Background(), &f.outsider, festival.ID)
	require.NoError(t, err)
	assert.False(t, detailed)

	_, detailed, err = f.svc.View(context.Background(), &f.organizer, festival.ID)
	require.NoError(t, err)
	assert.True(t, detailed)
}

func TestFestivalService_Search_FiltersByWords(t *testing.T) {
	f := newFestivalServiceFixture(t)
	f.createFestival(t, "Summer Sounds")
	f.createFestival(t, "Winter Waves")

	matched, _, err := f.svc.Search(context.Background(), nil, "summer")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "Summer Sounds", matched[0].Name)

	// Every word must match some field.
	matched, _, err = f.svc.Search(context.Background(), nil, "summer atlantis")
	require.NoError(t, err)
	assert.Empty(t, matched)

	// Date words match too.
	matched, _, err = f.svc.Search(context.Background(), nil, "2026-07-10")
	require.NoError(t, err)
	assert.Len(t, matched, 2)

	matched, _, err = f.svc.Search(context.Background(), nil, "")
	require.NoError(t, err)
	assert.Len(t, matched, 2)
}
