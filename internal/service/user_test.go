package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vietanh2810/festival-api/internal/apperror"
	"github.com/vietanh2810/festival-api/internal/domain"
)

type userServiceFixture struct {
	users  *fakeUserStore
	tokens *fakeTokenStore
	svc    *UserService
}

func newUserServiceFixture() *userServiceFixture {
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	tokenSvc := NewTokenService(tokens, users, testSigningKey, 2*time.Hour)

	return &userServiceFixture{
		users:  users,
		tokens: tokens,
		svc:    NewUserService(users, tokenSvc),
	}
}

func TestUserService_Register_FirstAccountIsActiveAdmin(t *testing.T) {
	f := newUserServiceFixture()

	first, err := f.svc.Register(context.Background(), "alice_w", "Sup3r$ecret", "Alice Walker")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, first.PermanentRole)
	assert.True(t, first.Active)

	second, err := f.svc.Register(context.Background(), "bob_smith", "Sup3r$ecret", "Bob Smith")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, second.PermanentRole)
	assert.False(t, second.Active)
}

func TestUserService_Register_DuplicateUsername(t *testing.T) {
	f := newUserServiceFixture()

	_, err := f.svc.Register(context.Background(), "alice_w", "Sup3r$ecret", "Alice Walker")
	require.NoError(t, err)

	_, err = f.svc.Register(context.Background(), "alice_w", "0ther$ecret", "Another Alice")
	assert.Equal(t, apperror.Conflict, apperror.KindOf(err))
}

func TestUserService_Register_StoresHashedPassword(t *testing.T) {
	f := newUserServiceFixture()

	user, err := f.svc.Register(context.Background(), "alice_w", "Sup3r$ecret", "Alice Walker")
	require.NoError(t, err)

	stored := f.users.users[user.ID]
	assert.NotEqual(t, "Sup3r$ecret", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("Sup3r$ecret")))
}

func TestUserService_Login_IssuesToken(t *testing.T) {
	f := newUserServiceFixture()

	_, err := f.svc.Register(context.Background(), "alice_w", "Sup3r$ecret", "Alice Walker")
	require.NoError(t, err)

	user, token, err := f.svc.Login(context.Background(), "alice_w", "Sup3r$ecret")
	require.NoError(t, err)
	assert.Equal(t, "alice_w", user.Username)
	assert.NotEmpty(t, token.Value)
	assert.Equal(t, 1, f.tokens.activeCount(user.ID))
}

func TestUserService_Login_UnknownUser(t *testing.T) {
	f := newUserServiceFixture()

	_, _, err := f.svc.Login(context.Background(), "nobody_here", "Sup3r$ecret")
	assert.Equal(t, apperror.InvalidCredentials, apperror.KindOf(err))
}

func TestUserService_Logout_RetiresSessions(t *testing.T) {
	f := newUserServiceFixture()

	_, err := f.svc.Register(context.Background(), "alice_w", "Sup3r$ecret", "Alice Walker")
	require.NoError(t, err)
	user, _, err := f.svc.Login(context.Background(), "alice_w", "Sup3r$ecret")
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(context.Background(), user))
	assert.Equal(t, 0, f.tokens.activeCount(user.ID))
}

func TestUserService_Login_ThirdFailureDeactivatesAccount(t *testing.T) {
	f := newUserServiceFixture()

	registered, err := f.svc.Register(context.Background(), "alice_w", "Sup3r$ecret", "Alice Walker")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, _, err = f.svc.Login(context.Background(), "alice_w", "wrong-password")
		assert.Equal(t, apperror.InvalidCredentials, apperror.KindOf(err))
	}

	_, _, err = f.svc.Login(context.Background(), "alice_w", "wrong-password")
	assert.Equal(t, apperror.AccountDeactivated, apperror.KindOf(err))
	assert.False(t, f.users.users[registered.ID].Active)

	// Even the right password is rejected once the account is locked.
	_, _, err = f.svc.Login(context.Background(), "alice_w", "Sup3r$ecret")
	assert.Equal(t, apperror.AccountDeactivated, apperror.KindOf(err))
}

func TestUserService_Login_SuccessResetsFailureCounter(t *testing.T) {
	f := newUserServiceFixture()

	registered, err := f.svc.Register(context.Background(), "alice_w", "Sup3r$ecret", "Alice Walker")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, _, err = f.svc.Login(context.Background(), "alice_w", "wrong-password")
		require.Error(t, err)
	}

	_, _, err = f.svc.Login(context.Background(), "alice_w", "Sup3r$ecret")
	require.NoError(t, err)
	assert.Equal(t, 0, f.users.users[registered.ID].FailedLoginAttempts)

	// The counter starts over; two more failures do not lock the account.
	for i := 0; i < 2; i++ {
		_, _, err = f.svc.Login(context.Background(), "alice_w", "wrong-password")
		assert.Equal(t, apperror.InvalidCredentials, apperror.KindOf(err))
	}
	assert.True(t, f.users.users[registered.ID].Active)
}

func TestUserService_UpdatePassword_RotatesTokenBeforeCheck(t *testing.T) {
	f := newUserServiceFixture()

	_, err := f.svc.Register(context.Background(), "alice_w", "Sup3r$ecret", "Alice Walker")
	require.NoError(t, err)

	user, presented, err := f.svc.Login(context.Background(), "alice_w", "Sup3r$ecret")
	require.NoError(t, err)

	// Wrong old password: the change is rejected, yet the presented token is
	// already retired.
	_, err = f.svc.UpdatePassword(context.Background(), user, "wrong-old", "N3w$ecret!")
	assert.Equal(t, apperror.InvalidCredentials, apperror.KindOf(err))

	stored, err := f.tokens.FindByValue(context.Background(), presented.Value)
	require.NoError(t, err)
	assert.False(t, stored.Active)
}

func TestUserService_UpdatePassword_Success(t *testing.T) {
	f := newUserServiceFixture()

	_, err := f.svc.Register(context.Background(), "alice_w", "Sup3r$ecret", "Alice Walker")
	require.NoError(t, err)

	user, _, err := f.svc.Login(context.Background(), "alice_w", "Sup3r$ecret")
	require.NoError(t, err)

	token, err := f.svc.UpdatePassword(context.Background(), user, "Sup3r$ecret", "N3w$ecret!")
	require.NoError(t, err)
	assert.NotEmpty(t, token.Value)
	assert.Equal(t, 1, f.tokens.activeCount(user.ID))

	_, _, err = f.svc.Login(context.Background(), "alice_w", "N3w$ecret!")
	assert.NoError(t, err)
}

func TestUserService_UpdatePassword_ThirdFailureDeactivates(t *testing.T) {
	f := newUserServiceFixture()

	registered, err := f.svc.Register(context.Background(), "alice_w", "Sup3r$ecret", "Alice Walker")
	require.NoError(t, err)

	user := f.users.users[registered.ID]
	for i := 0; i < 2; i++ {
		_, err = f.svc.UpdatePassword(context.Background(), user, "wrong-old", "N3w$ecret!")
		assert.Equal(t, apperror.InvalidCredentials, apperror.KindOf(err))
		user = f.users.users[registered.ID]
	}

	_, err = f.svc.UpdatePassword(context.Background(), user, "wrong-old", "N3w$ecret!")
	assert.Equal(t, apperror.AccountDeactivated, apperror.KindOf(err))
	assert.False(t, f.users.users[registered.ID].Active)
}

func TestUserService_UpdateInfo_SelfUsernameChangeRotatesToken(t *testing.T) {
	f := newUserServiceFixture()

	_, err := f.svc.Register(context.Background(), "alice_w", "Sup3r$ecret", "Alice Walker")
	require.NoError(t, err)

	user, old, err := f.svc.Login(context.Background(), "alice_w", "Sup3r$ecret")
	require.NoError(t, err)

	updated, token, err := f.svc.UpdateInfo(context.Background(), user, "alice_w", "alice_walker", "Alice W.")
	require.NoError(t, err)
	assert.Equal(t, "alice_walker", updated.Username)
	assert.Equal(t, "Alice W.", updated.FullName)
	require.NotNil(t, token)
	assert.NotEqual(t, old.Value, token.Value)
	assert.Equal(t, 1, f.tokens.activeCount(user.ID))
}

func TestUserService_UpdateInfo_UsernameConflict(t *testing.T) {
	f := newUserServiceFixture()

	_, err := f.svc.Register(context.Background(), "alice_w", "Sup3r$ecret", "Alice Walker")
	require.NoError(t, err)
	_, err = f.svc.Register(context.Background(), "bob_smith", "Sup3r$ecret", "Bob Smith")
	require.NoError(t, err)

	alice, _, err := f.svc.Login(context.Background(), "alice_w", "Sup3r$ecret")
	require.NoError(t, err)

	_, _, err = f.svc.UpdateInfo(context.Background(), alice, "alice_w", "bob_smith", "")
	assert.Equal(t, apperror.Conflict, apperror.KindOf(err))
}

func TestUserService_UpdateInfo_NonAdminCannotUpdateOthers(t *testing.T) {
	f := newUserServiceFixture()

	admin, err := f.svc.Register(context.Background(), "admin_01", "Sup3r$ecret", "Admin")
	require.NoError(t, err)
	_, err = f.svc.Register(context.Background(), "bob_smith", "Sup3r$ecret", "Bob Smith")
	require.NoError(t, err)

	bob, err := f.users.FindByUsername(context.Background(), "bob_smith")
	require.NoError(t, err)

	_, _, err = f.svc.UpdateInfo(context.Background(), bob, "admin_01", "", "Hacked")
	assert.Equal(t, apperror.Forbidden, apperror.KindOf(err))

	// The admin may update anyone.
	updated, _, err := f.svc.UpdateInfo(context.Background(), admin, "bob_smith", "", "Robert Smith")
	require.NoError(t, err)
	assert.Equal(t, "Robert Smith", updated.FullName)
}

func TestUserService_UpdateAccountStatus_AdminOnly(t *testing.T) {
	f := newUserServiceFixture()

	admin, err := f.svc.Register(context.Background(), "admin_01", "Sup3r$ecret", "Admin")
	require.NoError(t, err)
	registered, err := f.svc.Register(context.Background(), "bob_smith", "Sup3r$ecret", "Bob Smith")
	require.NoError(t, err)

	_, err = f.svc.UpdateAccountStatus(context.Background(), registered, "admin_01", false)
	assert.Equal(t, apperror.Forbidden, apperror.KindOf(err))

	activated, err := f.svc.UpdateAccountStatus(context.Background(), admin, "bob_smith", true)
	require.NoError(t, err)
	assert.True(t, activated.Active)
}

func TestUserService_UpdateAccountStatus_DeactivationRetiresSessions(t *testing.T) {
	f := newUserServiceFixture()

	admin, err := f.svc.Register(context.Background(), "admin_01", "Sup3r$ecret", "Admin")
	require.NoError(t, err)
	_, err = f.svc.Register(context.Background(), "bob_smith", "Sup3r$ecret", "Bob Smith")
	require.NoError(t, err)

	_, err = f.svc.UpdateAccountStatus(context.Background(), admin, "bob_smith", true)
	require.NoError(t, err)

	bob, _, err := f.svc.Login(context.Background(), "bob_smith", "Sup3r$ecret")
	require.NoError(t, err)
	require.Equal(t, 1, f.tokens.activeCount(bob.ID))

	_, err = f.svc.UpdateAccountStatus(context.Background(), admin, "bob_smith", false)
	require.NoError(t, err)
	assert.Equal(t, 0, f.tokens.activeCount(bob.ID))
}

func TestUserService_Delete_AdminOnly(t *testing.T) {
	f := newUserServiceFixture()

	admin, err := f.svc.Register(context.Background(), "admin_01", "Sup3r$ecret", "Admin")
	require.NoError(t, err)
	bob, err := f.svc.Register(context.Background(), "bob_smith", "Sup3r$ecret", "Bob Smith")
	require.NoError(t, err)

	err = f.svc.Delete(context.Background(), bob, "admin_01")
	assert.Equal(t, apperror.Forbidden, apperror.KindOf(err))

	require.NoError(t, f.svc.Delete(context.Background(), admin, "bob_smith"))

	_, err = f.users.FindByUsername(context.Background(), "bob_smith")
	assert.Error(t, err)
}
