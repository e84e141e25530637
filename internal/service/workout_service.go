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
	ErrWorkoutNotFound = errors.New("workout not found")
	ErrDuplicateLink   = errors.New("exercise is already part of this workout")
	ErrLinkNotFound    = errors.New("exercise is not part of this workout")
)

// WorkoutUpdateInput carries the optional fields of a partial workout update.
type WorkoutUpdateInput struct {
	Title       *string
	Description *string
}

// PrescriptionInput carries the per-workout parameters when attaching an
// exercise. Nil Sets defaults to 3; nil RestSeconds falls back to the
// exercise's own default rest.
type PrescriptionInput struct {
	Order       int
	Sets        *int
	Reps        *int
	TimeSeconds *int
	RestSeconds *int
}

// WorkoutExerciseDetail is the flattened projection of one prescription:
// catalog fields of the exercise combined with the link's parameters. It
// deliberately carries no references back to the workout, so serializing it
// cannot cycle.
type WorkoutExerciseDetail struct {
	ExerciseID  string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	VideoURL    string `json:"videoUrl"`
	Order       int    `json:"order"`
	Sets        int    `json:"sets"`
	Reps        int    `json:"reps"` // 0 when the prescription is time-based
	TimeSeconds *int   `json:"timeSeconds,omitempty"`
	RestSeconds int    `json:"restSeconds"`
}

// WorkoutDetail is the workout header plus its prescriptions in order.
type WorkoutDetail struct {
	ID          string                  `json:"id"`
	Title       string                  `json:"title"`
	Description string                  `json:"description,omitempty"`
	Exercises   []WorkoutExerciseDetail `json:"exercises"`
}

// WorkoutService manages workouts and their exercise prescriptions.
type WorkoutService interface {
	ListWorkouts(ctx context.Context) ([]domain.Workout, error)
	CreateWorkout(ctx context.Context, title, description string) (*domain.Workout, error)
	UpdateWorkout(ctx context.Context, id primitive.ObjectID, input WorkoutUpdateInput) (*domain.Workout, error)
	// DeleteWorkout removes every exercise link and every user assignment
	// referencing the workout before the workout itself, in that order, so
	// the link tables never outlive their workout.
	DeleteWorkout(ctx context.Context, id primitive.ObjectID) error

	// AddExercise attaches an exercise to a workout. Both entities must
	// exist; a second link for the same pair fails with ErrDuplicateLink.
	AddExercise(ctx context.Context, workoutID, exerciseID primitive.ObjectID, input PrescriptionInput) (*domain.WorkoutExerciseLink, error)
	RemoveExercise(ctx context.Context, workoutID, exerciseID primitive.ObjectID) error
	GetDetail(ctx context.Context, workoutID primitive.ObjectID) (*WorkoutDetail, error)
}

// workoutService implements the WorkoutService interface.
type workoutService struct {
	workoutRepo         repository.WorkoutRepository
	exerciseRepo        repository.ExerciseRepository
	workoutExerciseRepo repository.WorkoutExerciseRepository
	userWorkoutRepo     repository.UserWorkoutRepository
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(
	workoutRepo repository.WorkoutRepository,
	exerciseRepo repository.ExerciseRepository,
	workoutExerciseRepo repository.WorkoutExerciseRepository,
	userWorkoutRepo repository.UserWorkoutRepository,
) WorkoutService {
	return &workoutService{
		workoutRepo:         workoutRepo,
		exerciseRepo:        exerciseRepo,
		workoutExerciseRepo: workoutExerciseRepo,
		userWorkoutRepo:     userWorkoutRepo,
	}
}

// ListWorkouts retrieves all workouts.
func (s *workoutService) ListWorkouts(ctx context.Context) ([]domain.Workout, error) {
	return s.workoutRepo.List(ctx)
}

// CreateWorkout creates an empty workout. Description is optional.
func (s *workoutService) CreateWorkout(ctx context.Context, title, description string) (*domain.Workout, error) {
	if title == "" {
		return nil, ErrValidationFailed
	}

	workout := &domain.Workout{
		Title:       title,
		Description: description,
	}

	workoutID, err := s.workoutRepo.Create(ctx, workout)
	if err != nil {
		return nil, err
	}
	return s.workoutRepo.GetByID(ctx, workoutID)
}

// UpdateWorkout applies only the fields present in the input.
func (s *workoutService) UpdateWorkout(ctx context.Context, id primitive.ObjectID, input WorkoutUpdateInput) (*domain.Workout, error) {
	update := repository.WorkoutUpdate{
		Title:       input.Title,
		Description: input.Description,
	}

	err := s.workoutRepo.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return s.workoutRepo.GetByID(ctx, id)
}

// DeleteWorkout cleans up both link tables, then deletes the workout.
func (s *workoutService) DeleteWorkout(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.workoutRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		return err
	}

	if err := s.workoutExerciseRepo.DeleteByWorkout(ctx, id); err != nil {
		return err
	}
	if err := s.userWorkoutRepo.DeleteByWorkout(ctx, id); err != nil {
		return err
	}

	err := s.workoutRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		return err
	}
	return nil
}

// AddExercise verifies both entities exist, checks the pair is not already
// linked, and creates the prescription. The compound unique index backs the
// pre-check up against concurrent inserts.
func (s *workoutService) AddExercise(ctx context.Context, workoutID, exerciseID primitive.ObjectID, input PrescriptionInput) (*domain.WorkoutExerciseLink, error) {
	if _, err := s.workoutRepo.GetByID(ctx, workoutID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	if _, err := s.workoutExerciseRepo.Get(ctx, workoutID, exerciseID); err == nil {
		return nil, ErrDuplicateLink
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	sets := domain.DefaultPrescriptionSets
	if input.Sets != nil {
		sets = *input.Sets
	}
	rest := exercise.DefaultRest
	if input.RestSeconds != nil {
		rest = *input.RestSeconds
	} else if rest == 0 {
		rest = domain.DefaultPrescriptionRest
	}

	link := &domain.WorkoutExerciseLink{
		WorkoutID:   workoutID,
		ExerciseID:  exerciseID,
		Order:       input.Order,
		Sets:        sets,
		Reps:        input.Reps,
		TimeSeconds: input.TimeSeconds,
		RestSeconds: rest,
	}

	linkID, err := s.workoutExerciseRepo.Create(ctx, link)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateLink
		}
		return nil, err
	}
	link.ID = linkID
	return link, nil
}

// RemoveExercise deletes the prescription for the given pair.
func (s *workoutService) RemoveExercise(ctx context.Context, workoutID, exerciseID primitive.ObjectID) error {
	err := s.workoutExerciseRepo.Delete(ctx, workoutID, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrLinkNotFound
		}
		return err
	}
	return nil
}

// GetDetail joins the workout's prescriptions to the catalog and flattens
// each pair into a single entry, preserving the links' ascending order.
func (s *workoutService) GetDetail(ctx context.Context, workoutID primitive.ObjectID) (*WorkoutDetail, error) {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}

	links, err := s.workoutExerciseRepo.ListByWorkout(ctx, workoutID)
	if err != nil {
		return nil, err
	}

	exerciseIDs := make([]primitive.ObjectID, 0, len(links))
	for _, link := range links {
		exerciseIDs = append(exerciseIDs, link.ExerciseID)
	}
	exercises, err := s.exerciseRepo.GetByIDs(ctx, exerciseIDs)
	if err != nil {
		return nil, err
	}
	exercisesByID := make(map[primitive.ObjectID]domain.Exercise, len(exercises))
	for _, exercise := range exercises {
		exercisesByID[exercise.ID] = exercise
	}

	detail := &WorkoutDetail{
		ID:          workout.ID.Hex(),
		Title:       workout.Title,
		Description: workout.Description,
		Exercises:   make([]WorkoutExerciseDetail, 0, len(links)),
	}
	for _, link := range links {
		exercise, ok := exercisesByID[link.ExerciseID]
		if !ok {
			// Link rows pointing at a deleted exercise should not exist;
			// skip rather than fail the whole projection if one does.
			continue
		}
		reps := 0
		if link.Reps != nil {
			reps = *link.Reps
		}
		detail.Exercises = append(detail.Exercises, WorkoutExerciseDetail{
			ExerciseID:  exercise.ID.Hex(),
			Title:       exercise.Title,
			Description: exercise.Description,
			VideoURL:    exercise.VideoURL,
			Order:       link.Order,
			Sets:        link.Sets,
			Reps:        reps,
			TimeSeconds: link.TimeSeconds,
			RestSeconds: link.RestSeconds,
		})
	}
	return detail, nil
}
