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
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrValidationFailed = errors.New("validation failed")
)

// ExerciseUpdateInput carries the optional fields of a partial exercise
// update. Nil fields are left untouched, not reset to defaults.
type ExerciseUpdateInput struct {
	Title       *string
	Description *string
	VideoURL    *string
	DefaultRest *int
}

// ExerciseService manages the global exercise catalog.
type ExerciseService interface {
	ListExercises(ctx context.Context) ([]domain.Exercise, error)
	CreateExercise(ctx context.Context, title, description, videoURL string, defaultRest *int) (*domain.Exercise, error)
	UpdateExercise(ctx context.Context, id primitive.ObjectID, input ExerciseUpdateInput) (*domain.Exercise, error)
	// DeleteExercise removes the catalog row and every workout prescription
	// that references it.
	DeleteExercise(ctx context.Context, id primitive.ObjectID) error
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo        repository.ExerciseRepository
	workoutExerciseRepo repository.WorkoutExerciseRepository
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, workoutExerciseRepo repository.WorkoutExerciseRepository) ExerciseService {
	return &exerciseService{
		exerciseRepo:        exerciseRepo,
		workoutExerciseRepo: workoutExerciseRepo,
	}
}

// ListExercises retrieves the whole catalog.
func (s *exerciseService) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	return s.exerciseRepo.List(ctx)
}

// CreateExercise adds a new entry to the catalog. A nil defaultRest falls
// back to the catalog default.
func (s *exerciseService) CreateExercise(ctx context.Context, title, description, videoURL string, defaultRest *int) (*domain.Exercise, error) {
	if title == "" || description == "" || videoURL == "" {
		return nil, ErrValidationFailed
	}

	rest := domain.DefaultExerciseRest
	if defaultRest != nil {
		rest = *defaultRest
	}

	exercise := &domain.Exercise{
		Title:       title,
		Description: description,
		VideoURL:    videoURL,
		DefaultRest: rest,
	}

	exerciseID, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	exercise.ID = exerciseID
	return s.exerciseRepo.GetByID(ctx, exerciseID)
}

// UpdateExercise applies only the fields present in the input.
func (s *exerciseService) UpdateExercise(ctx context.Context, id primitive.ObjectID, input ExerciseUpdateInput) (*domain.Exercise, error) {
	update := repository.ExerciseUpdate{
		Title:       input.Title,
		Description: input.Description,
		VideoURL:    input.VideoURL,
		DefaultRest: input.DefaultRest,
	}

	err := s.exerciseRepo.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return s.exerciseRepo.GetByID(ctx, id)
}

// DeleteExercise removes the prescriptions referencing the exercise, then
// the catalog row. Without the first step the link table would keep rows
// pointing at a missing exercise.
func (s *exerciseService) DeleteExercise(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.exerciseRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}

	if err := s.workoutExerciseRepo.DeleteByExercise(ctx, id); err != nil {
		return err
	}

	err := s.exerciseRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}
	return nil
}
