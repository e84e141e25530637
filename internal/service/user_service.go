package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"gymapp/backend/internal/domain"
	"gymapp/backend/internal/repository"
)

// --- Error Definitions ---
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("user with this username already exists")
)

// UserUpdateInput carries the optional fields of a partial user update.
// Nil fields are left untouched. Password is plaintext here and hashed
// before it reaches the repository.
type UserUpdateInput struct {
	Username  *string
	Password  *string
	IsManager *bool
}

// UserService handles account administration. Every operation is
// manager-gated at the API layer, including registration.
type UserService interface {
	Register(ctx context.Context, username, password string, isManager bool) (*domain.User, error)
	GetUser(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, input UserUpdateInput) (*domain.User, error)
	// DeleteUser removes the user's workout assignments first, then the
	// user itself.
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
}

// userService implements the UserService interface.
type userService struct {
	userRepo        repository.UserRepository
	userWorkoutRepo repository.UserWorkoutRepository
}

// NewUserService creates a new instance of userService.
func NewUserService(userRepo repository.UserRepository, userWorkoutRepo repository.UserWorkoutRepository) UserService {
	return &userService{
		userRepo:        userRepo,
		userWorkoutRepo: userWorkoutRepo,
	}
}

// Register creates a new account with a bcrypt-hashed password.
func (s *userService) Register(ctx context.Context, username, password string, isManager bool) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, errors.New("username and password cannot be empty")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
		IsManager:    isManager,
	}

	// The unique username index catches the race between a pre-check and the
	// insert, so the insert itself is the only check needed.
	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	user.ID = userID

	user.PasswordHash = ""
	return user, nil
}

// GetUser retrieves a single user.
func (s *userService) GetUser(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ListUsers retrieves all users.
func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.List(ctx)
}

// UpdateUser applies only the fields present in the input. A supplied
// plaintext password is hashed; the hash itself never appears in input or
// output.
func (s *userService) UpdateUser(ctx context.Context, id primitive.ObjectID, input UserUpdateInput) (*domain.User, error) {
	update := repository.UserUpdate{
		Username:  input.Username,
		IsManager: input.IsManager,
	}
	if input.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, ErrHashingFailed
		}
		hashed := string(hashedPassword)
		update.PasswordHash = &hashed
	}

	err := s.userRepo.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}

	return s.userRepo.GetByID(ctx, id)
}

// DeleteUser removes the user's assignments, then the user row itself. The
// assignments go first so they never reference a missing user.
func (s *userService) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	// Confirm the user exists before touching the link table.
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.userWorkoutRepo.DeleteByUser(ctx, id); err != nil {
		return err
	}

	err := s.userRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
