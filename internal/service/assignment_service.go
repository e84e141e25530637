package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gymapp/backend/internal/domain"
	"gymapp/backend/internal/repository"
)

// --- Error Definitions ---
var (
	ErrAssignmentNotFound = errors.New("assignment not found")
)

// AssignmentService manages which users are assigned which workouts.
type AssignmentService interface {
	// Assign links a workout to the user with the given username. Assigning
	// an already-assigned pair is a successful no-op.
	Assign(ctx context.Context, workoutID primitive.ObjectID, username string) error
	Unassign(ctx context.Context, workoutID, userID primitive.ObjectID) error
	ListAssignedUsers(ctx context.Context, workoutID primitive.ObjectID) ([]domain.User, error)
	// ListWorkoutsFor returns every workout for managers and only the
	// caller's assigned workouts for everyone else.
	ListWorkoutsFor(ctx context.Context, user *domain.User) ([]domain.Workout, error)
}

// assignmentService implements the AssignmentService interface.
type assignmentService struct {
	userRepo        repository.UserRepository
	workoutRepo     repository.WorkoutRepository
	userWorkoutRepo repository.UserWorkoutRepository
}

// NewAssignmentService creates a new instance of assignmentService.
func NewAssignmentService(
	userRepo repository.UserRepository,
	workoutRepo repository.WorkoutRepository,
	userWorkoutRepo repository.UserWorkoutRepository,
) AssignmentService {
	return &assignmentService{
		userRepo:        userRepo,
		workoutRepo:     workoutRepo,
		userWorkoutRepo: userWorkoutRepo,
	}
}

// Assign resolves the username, verifies the workout, and creates the link.
// A duplicate pair reports success: the desired state already holds.
func (s *assignmentService) Assign(ctx context.Context, workoutID primitive.ObjectID, username string) error {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if _, err := s.workoutRepo.GetByID(ctx, workoutID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		return err
	}

	link := &domain.UserWorkoutLink{
		UserID:    user.ID,
		WorkoutID: workoutID,
		IsActive:  true,
	}
	if _, err := s.userWorkoutRepo.Create(ctx, link); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil // Idempotent: the assignment already exists
		}
		return err
	}
	return nil
}

// Unassign deletes the assignment for the given pair.
func (s *assignmentService) Unassign(ctx context.Context, workoutID, userID primitive.ObjectID) error {
	err := s.userWorkoutRepo.Delete(ctx, userID, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}
	return nil
}

// ListAssignedUsers returns the users assigned to a workout.
func (s *assignmentService) ListAssignedUsers(ctx context.Context, workoutID primitive.ObjectID) ([]domain.User, error) {
	if _, err := s.workoutRepo.GetByID(ctx, workoutID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}

	links, err := s.userWorkoutRepo.ListByWorkout(ctx, workoutID)
	if err != nil {
		return nil, err
	}

	userIDs := make([]primitive.ObjectID, 0, len(links))
	for _, link := range links {
		userIDs = append(userIDs, link.UserID)
	}
	users, err := s.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

// ListWorkoutsFor scopes the catalog to the caller: managers see
// everything, regular users only what is assigned to them.
func (s *assignmentService) ListWorkoutsFor(ctx context.Context, user *domain.User) ([]domain.Workout, error) {
	if user.IsManager {
		return s.workoutRepo.List(ctx)
	}

	links, err := s.userWorkoutRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	workoutIDs := make([]primitive.ObjectID, 0, len(links))
	for _, link := range links {
		workoutIDs = append(workoutIDs, link.WorkoutID)
	}
	return s.workoutRepo.GetByIDs(ctx, workoutIDs)
}
