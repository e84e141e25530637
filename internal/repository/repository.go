package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gymapp/backend/internal/domain"
)

// Error constants for the repository layer. Services translate these into
// their own sentinels; raw driver errors never cross this boundary.
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserUpdate carries the optional fields of a partial user update. Nil
// fields are left untouched.
type UserUpdate struct {
	Username     *string
	PasswordHash *string
	IsManager    *bool
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, id primitive.ObjectID, update UserUpdate) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ExerciseUpdate carries the optional fields of a partial exercise update.
type ExerciseUpdate struct {
	Title       *string
	Description *string
	VideoURL    *string
	DefaultRest *int
}

// ExerciseRepository defines the interface for interacting with the
// exercise catalog.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Exercise, error)
	List(ctx context.Context) ([]domain.Exercise, error)
	Update(ctx context.Context, id primitive.ObjectID, update ExerciseUpdate) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// WorkoutUpdate carries the optional fields of a partial workout update.
type WorkoutUpdate struct {
	Title       *string
	Description *string
}

// WorkoutRepository defines the interface for interacting with workout data.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Workout, error)
	List(ctx context.Context) ([]domain.Workout, error)
	Update(ctx context.Context, id primitive.ObjectID, update WorkoutUpdate) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// WorkoutExerciseRepository manages the workout-exercise link table.
// Create returns ErrDuplicate when a link for the same (workout, exercise)
// pair already exists.
type WorkoutExerciseRepository interface {
	Create(ctx context.Context, link *domain.WorkoutExerciseLink) (primitive.ObjectID, error)
	Get(ctx context.Context, workoutID, exerciseID primitive.ObjectID) (*domain.WorkoutExerciseLink, error)
	ListByWorkout(ctx context.Context, workoutID primitive.ObjectID) ([]domain.WorkoutExerciseLink, error)
	Delete(ctx context.Context, workoutID, exerciseID primitive.ObjectID) error
	DeleteByWorkout(ctx context.Context, workoutID primitive.ObjectID) error
	DeleteByExercise(ctx context.Context, exerciseID primitive.ObjectID) error
}

// UserWorkoutRepository manages the user-workout assignment table.
// Create returns ErrDuplicate when the (user, workout) pair is already
// assigned.
type UserWorkoutRepository interface {
	Create(ctx context.Context, link *domain.UserWorkoutLink) (primitive.ObjectID, error)
	Get(ctx context.Context, userID, workoutID primitive.ObjectID) (*domain.UserWorkoutLink, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.UserWorkoutLink, error)
	ListByWorkout(ctx context.Context, workoutID primitive.ObjectID) ([]domain.UserWorkoutLink, error)
	Delete(ctx context.Context, userID, workoutID primitive.ObjectID) error
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) error
	DeleteByWorkout(ctx context.Context, workoutID primitive.ObjectID) error
}

// UploadRepository defines the interface for interacting with media upload
// metadata.
type UploadRepository interface {
	Create(ctx context.Context, upload *domain.MediaUpload) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.MediaUpload, error)
}
