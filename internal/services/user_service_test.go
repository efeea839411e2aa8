package services

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brazzinioc/twitter-api/internal/models"
	"github.com/brazzinioc/twitter-api/internal/storage"
)

func newUserService(t *testing.T) *UserService {
	t.Helper()
	store, err := storage.New(t.TempDir())
	require.NoError(t, err)
	return NewUserService(store, nil)
}

func TestRegister_NeverReturnsCredentials(t *testing.T) {
	svc := newUserService(t)

	user, err := svc.Register("alice@x.com", "pass1234", "Alice", "Smith", nil)
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice@x.com", user.Email)
	assert.Empty(t, user.PasswordHash, "returned user must not carry the credential hash")
	assert.Nil(t, user.UpdatedAt)
	assert.Nil(t, user.DeletedAt)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestRegister_Validation(t *testing.T) {
	svc := newUserService(t)

	tests := []struct {
		name      string
		email     string
		password  string
		firstName string
		lastName  string
	}{
		{"short password", "a@x.com", "short", "Alice", "Smith"},
		{"short first name", "a@x.com", "pass1234", "A", "Smith"},
		{"long last name", "a@x.com", "pass1234", "Alice", strings.Repeat("x", 51)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(tt.email, tt.password, tt.firstName, tt.lastName, nil)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
		})
	}
}

func TestRegister_EmailUniquenessAmongLiveUsers(t *testing.T) {
	svc := newUserService(t)

	first, err := svc.Register("alice@x.com", "pass1234", "Alice", "Smith", nil)
	require.NoError(t, err)

	_, err = svc.Register("alice@x.com", "pass5678", "Alicia", "Jones", nil)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	// After soft-deleting the first account, the email becomes free again.
	_, err = svc.DeleteUser(first.ID)
	require.NoError(t, err)

	second, err := svc.Register("alice@x.com", "pass5678", "Alicia", "Jones", nil)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestRegister_ConcurrentDuplicateEmailsPersistOneUser(t *testing.T) {
	svc := newUserService(t)

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register("alice@x.com", "pass1234", "Alice", "Smith", nil)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
	}
	assert.Equal(t, 1, succeeded, "exactly one registration may win")

	users, err := svc.ListUsers()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alice@x.com", users[0].Email)
}

func TestAuthenticate_SameErrorForUnknownEmailAndWrongPassword(t *testing.T) {
	svc := newUserService(t)

	_, err := svc.Register("alice@x.com", "pass1234", "Alice", "Smith", nil)
	require.NoError(t, err)

	_, err = svc.Authenticate("nobody@x.com", "pass1234")
	require.ErrorIs(t, err, ErrAuthenticationFailed)

	_, err = svc.Authenticate("alice@x.com", "wrongpass")
	require.ErrorIs(t, err, ErrAuthenticationFailed)

	user, err := svc.Authenticate("alice@x.com", "pass1234")
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", user.Email)
	assert.Empty(t, user.PasswordHash)
}

func TestAuthenticate_DeletedUserCannotLogIn(t *testing.T) {
	svc := newUserService(t)

	user, err := svc.Register("alice@x.com", "pass1234", "Alice", "Smith", nil)
	require.NoError(t, err)

	_, err = svc.DeleteUser(user.ID)
	require.NoError(t, err)

	_, err = svc.Authenticate("alice@x.com", "pass1234")
	require.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestUpdateUser_StampsUpdatedAt(t *testing.T) {
	svc := newUserService(t)

	born := "1990-06-15"
	user, err := svc.Register("alice@x.com", "pass1234", "Alice", "Smith", nil)
	require.NoError(t, err)

	updated, err := svc.UpdateUser(user.ID, "alice@x.com", "Alicia", "Smith", &born)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", updated.FirstName)
	require.NotNil(t, updated.BornDate)
	assert.Equal(t, born, *updated.BornDate)
	require.NotNil(t, updated.UpdatedAt)
	assert.Equal(t, user.CreatedAt, updated.CreatedAt)
}

func TestUpdateUser_RejectsEmailOfAnotherLiveUser(t *testing.T) {
	svc := newUserService(t)

	_, err := svc.Register("alice@x.com", "pass1234", "Alice", "Smith", nil)
	require.NoError(t, err)
	bob, err := svc.Register("bob@x.com", "pass1234", "Robert", "Brown", nil)
	require.NoError(t, err)

	_, err = svc.UpdateUser(bob.ID, "alice@x.com", "Robert", "Brown", nil)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestUpdateUser_DeletedOrMissingIsNotFound(t *testing.T) {
	svc := newUserService(t)

	user, err := svc.Register("alice@x.com", "pass1234", "Alice", "Smith", nil)
	require.NoError(t, err)
	_, err = svc.DeleteUser(user.ID)
	require.NoError(t, err)

	_, err = svc.UpdateUser(user.ID, "alice@x.com", "Alice", "Smith", nil)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.UpdateUser("no-such-id", "x@x.com", "Xavier", "Xu", nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateUser_MissingTargetBeatsEmailConflict(t *testing.T) {
	svc := newUserService(t)

	_, err := svc.Register("alice@x.com", "pass1234", "Alice", "Smith", nil)
	require.NoError(t, err)
	bob, err := svc.Register("bob@x.com", "pass1234", "Robert", "Brown", nil)
	require.NoError(t, err)
	_, err = svc.DeleteUser(bob.ID)
	require.NoError(t, err)

	// The target is gone and the requested email belongs to a live user;
	// the absent target decides the outcome.
	_, err = svc.UpdateUser(bob.ID, "alice@x.com", "Robert", "Brown", nil)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.UpdateUser("no-such-id", "alice@x.com", "Xavier", "Xu", nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteUser_SecondDeletePreservesTimestamp(t *testing.T) {
	svc := newUserService(t)

	user, err := svc.Register("alice@x.com", "pass1234", "Alice", "Smith", nil)
	require.NoError(t, err)

	deleted, err := svc.DeleteUser(user.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted.DeletedAt)

	_, err = svc.DeleteUser(user.ID)
	require.ErrorIs(t, err, ErrNotFound)

	// The stored record keeps the first deletion timestamp.
	stored, found, err := svc.users.Find(func(u models.User) bool { return u.ID == user.ID })
	require.NoError(t, err)
	require.True(t, found)
	require.NotNil(t, stored.DeletedAt)
	assert.Equal(t, *deleted.DeletedAt, *stored.DeletedAt)
}

func TestListUsers_ExcludesDeletedPreservesOrder(t *testing.T) {
	svc := newUserService(t)

	alice, err := svc.Register("alice@x.com", "pass1234", "Alice", "Smith", nil)
	require.NoError(t, err)
	_, err = svc.Register("bob@x.com", "pass1234", "Robert", "Brown", nil)
	require.NoError(t, err)
	carol, err := svc.Register("carol@x.com", "pass1234", "Carol", "White", nil)
	require.NoError(t, err)

	_, err = svc.DeleteUser(alice.ID)
	require.NoError(t, err)

	users, err := svc.ListUsers()
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "bob@x.com", users[0].Email)
	assert.Equal(t, carol.ID, users[1].ID)
	for _, u := range users {
		assert.Empty(t, u.PasswordHash)
	}
}

func TestGetUserByID_DeletedBehavesAsAbsent(t *testing.T) {
	svc := newUserService(t)

	user, err := svc.Register("alice@x.com", "pass1234", "Alice", "Smith", nil)
	require.NoError(t, err)

	got, err := svc.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.DeleteUser(user.ID)
	require.NoError(t, err)

	_, err = svc.GetUserByID(user.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
