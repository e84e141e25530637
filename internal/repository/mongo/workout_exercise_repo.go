package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gymapp/backend/internal/domain"
	"gymapp/backend/internal/repository"
)

const workoutExerciseCollectionName = "workout_exercises"

// mongoWorkoutExerciseRepository implements repository.WorkoutExerciseRepository.
// One document per (workout, exercise) pair, carrying the prescription.
type mongoWorkoutExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutExerciseRepository creates a new workout-exercise link
// repository backed by MongoDB.
func NewMongoWorkoutExerciseRepository(db *mongo.Database) repository.WorkoutExerciseRepository {
	return &mongoWorkoutExerciseRepository{
		collection: db.Collection(workoutExerciseCollectionName),
	}
}

// Create inserts a new link. The compound unique index on
// (workoutId, exerciseId) turns a duplicate pair into repository.ErrDuplicate.
func (r *mongoWorkoutExerciseRepository) Create(ctx context.Context, link *domain.WorkoutExerciseLink) (primitive.ObjectID, error) {
	if link.WorkoutID == primitive.NilObjectID || link.ExerciseID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("link requires workoutId and exerciseId")
	}

	link.ID = primitive.NewObjectID()

	result, err := r.collection.InsertOne(ctx, link)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted link ID")
	}
	return insertedID, nil
}

// Get retrieves the link for a specific (workout, exercise) pair.
func (r *mongoWorkoutExerciseRepository) Get(ctx context.Context, workoutID, exerciseID primitive.ObjectID) (*domain.WorkoutExerciseLink, error) {
	var link domain.WorkoutExerciseLink
	filter := bson.M{"workoutId": workoutID, "exerciseId": exerciseID}

	err := r.collection.FindOne(ctx, filter).Decode(&link)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &link, nil
}

// ListByWorkout retrieves all links for a workout, sorted ascending by the
// order field. The detail projection depends on this ordering.
func (r *mongoWorkoutExerciseRepository) ListByWorkout(ctx context.Context, workoutID primitive.ObjectID) ([]domain.WorkoutExerciseLink, error) {
	filter := bson.M{"workoutId": workoutID}
	findOptions := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	links := []domain.WorkoutExerciseLink{}
	if err = cursor.All(ctx, &links); err != nil {
		return nil, err
	}
	return links, nil
}

// Delete removes the link for a specific (workout, exercise) pair.
func (r *mongoWorkoutExerciseRepository) Delete(ctx context.Context, workoutID, exerciseID primitive.ObjectID) error {
	filter := bson.M{"workoutId": workoutID, "exerciseId": exerciseID}
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByWorkout removes every link referencing the workout. Deleting
// nothing is not an error here: a workout with no exercises is valid.
func (r *mongoWorkoutExerciseRepository) DeleteByWorkout(ctx context.Context, workoutID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"workoutId": workoutID})
	return err
}

// DeleteByExercise removes every link referencing the exercise.
func (r *mongoWorkoutExerciseRepository) DeleteByExercise(ctx context.Context, exerciseID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"exerciseId": exerciseID})
	return err
}

// EnsureWorkoutExerciseIndexes creates the compound unique index enforcing
// one prescription per exercise per workout.
func EnsureWorkoutExerciseIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "workoutId", Value: 1},
				{Key: "exerciseId", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "exerciseId", Value: 1}},
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
