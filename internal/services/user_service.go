package services

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/brazzinioc/twitter-api/internal/auth"
	"github.com/brazzinioc/twitter-api/internal/models"
	"github.com/brazzinioc/twitter-api/internal/storage"
)

const (
	minNameLength     = 2
	maxNameLength     = 50
	minPasswordLength = 8
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(email, password, firstName, lastName string, bornDate *string) (models.User, error)
	Authenticate(email, password string) (models.User, error)
	GetUserByID(id string) (models.User, error)
	ListUsers() ([]models.User, error)
	UpdateUser(id, email, firstName, lastName string, bornDate *string) (models.User, error)
	DeleteUser(id string) (models.User, error)
}

// UserService provides business logic for user management on top of the
// users collection.
type UserService struct {
	users  *storage.Collection[models.User]
	events EventServiceProvider
}

// NewUserService creates a new UserService.
func NewUserService(store *storage.Store, events EventServiceProvider) *UserService {
	return &UserService{
		users:  storage.NewCollection[models.User](store, "users"),
		events: events,
	}
}

// Register creates a new user, hashing their password. The email must not be
// held by another live user; a soft-deleted user's email may be reused.
func (s *UserService) Register(email, password, firstName, lastName string, bornDate *string) (models.User, error) {
	if err := validateName("first_name", firstName); err != nil {
		return models.User{}, err
	}
	if err := validateName("last_name", lastName); err != nil {
		return models.User{}, err
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return models.User{}, validationErrorf("password must be at least %d characters", minPasswordLength)
	}

	// Hash up front to keep bcrypt work out of the critical section.
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		BornDate:     bornDate,
		CreatedAt:    time.Now().UTC(),
	}

	// The uniqueness check and the append must share one critical section;
	// otherwise concurrent registrations of the same email all pass the
	// check before any of them lands.
	err = s.users.Mutate(func(users []models.User) ([]models.User, error) {
		for _, u := range users {
			if u.Active() && u.Email == email {
				return nil, validationErrorf("email is already registered")
			}
		}
		return append(users, user), nil
	})
	if err != nil {
		return models.User{}, err
	}

	s.recordEvent("user.registered", "New user registered: "+user.Email, user.ID)
	return user.Public(), nil
}

// Authenticate verifies a user's credentials. Unknown email and wrong
// password produce the same error so the two cases cannot be told apart.
func (s *UserService) Authenticate(email, password string) (models.User, error) {
	user, found, err := s.users.Find(func(u models.User) bool {
		return u.Active() && u.Email == email
	})
	if err != nil {
		return models.User{}, err
	}
	if !found || !auth.CheckPassword(password, user.PasswordHash) {
		return models.User{}, ErrAuthenticationFailed
	}
	return user.Public(), nil
}

// GetUserByID retrieves a single live user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	user, found, err := s.users.Find(func(u models.User) bool {
		return u.Active() && u.ID == id
	})
	if err != nil {
		return models.User{}, err
	}
	if !found {
		return models.User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return user.Public(), nil
}

// ListUsers returns all live users in stored order.
func (s *UserService) ListUsers() ([]models.User, error) {
	users, err := s.users.Filter(models.User.Active)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i] = users[i].Public()
	}
	return users, nil
}

// UpdateUser overwrites the mutable profile fields of a live user and stamps
// updated_at. Changing the email re-checks uniqueness against other live
// users.
func (s *UserService) UpdateUser(id, email, firstName, lastName string, bornDate *string) (models.User, error) {
	if err := validateName("first_name", firstName); err != nil {
		return models.User{}, err
	}
	if err := validateName("last_name", lastName); err != nil {
		return models.User{}, err
	}

	var updated models.User
	err := s.users.Mutate(func(users []models.User) ([]models.User, error) {
		// Resolve the target first: an absent or soft-deleted id is
		// NotFound even when the requested email is also in conflict.
		target := -1
		for i, u := range users {
			if u.Active() && u.ID == id {
				target = i
				break
			}
		}
		if target < 0 {
			return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		for i, u := range users {
			if i != target && u.Active() && u.Email == email {
				return nil, validationErrorf("email is already registered")
			}
		}
		now := time.Now().UTC()
		users[target].Email = email
		users[target].FirstName = firstName
		users[target].LastName = lastName
		users[target].BornDate = bornDate
		users[target].UpdatedAt = &now
		updated = users[target]
		return users, nil
	})
	if err != nil {
		return models.User{}, err
	}
	return updated.Public(), nil
}

// DeleteUser soft-deletes a live user. Repeating the call yields ErrNotFound
// and leaves the original deleted_at untouched.
func (s *UserService) DeleteUser(id string) (models.User, error) {
	var deleted models.User
	err := s.users.Mutate(func(users []models.User) ([]models.User, error) {
		for i, u := range users {
			if u.Active() && u.ID == id {
				now := time.Now().UTC()
				users[i].DeletedAt = &now
				deleted = users[i]
				return users, nil
			}
		}
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	})
	if err != nil {
		return models.User{}, err
	}

	s.recordEvent("user.deleted", "User deleted: "+deleted.Email, deleted.ID)
	return deleted.Public(), nil
}

// recordEvent logs a lifecycle event; failures never fail the operation that
// triggered them.
func (s *UserService) recordEvent(eventType, message, subjectID string) {
	if s.events != nil {
		s.events.CreateEvent(eventType, "info", message, &subjectID)
	}
}

func validateName(field, value string) error {
	n := utf8.RuneCountInString(value)
	if n < minNameLength || n > maxNameLength {
		return validationErrorf("%s must be between %d and %d characters", field, minNameLength, maxNameLength)
	}
	return nil
}
