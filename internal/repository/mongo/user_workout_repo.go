package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gymapp/backend/internal/domain"
	"gymapp/backend/internal/repository"
)

const userWorkoutCollectionName = "user_workouts"

// mongoUserWorkoutRepository implements repository.UserWorkoutRepository.
// One document per (user, workout) assignment.
type mongoUserWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoUserWorkoutRepository creates a new assignment repository backed
// by MongoDB.
func NewMongoUserWorkoutRepository(db *mongo.Database) repository.UserWorkoutRepository {
	return &mongoUserWorkoutRepository{
		collection: db.Collection(userWorkoutCollectionName),
	}
}

// Create inserts a new assignment. The compound unique index on
// (userId, workoutId) turns a duplicate pair into repository.ErrDuplicate.
func (r *mongoUserWorkoutRepository) Create(ctx context.Context, link *domain.UserWorkoutLink) (primitive.ObjectID, error) {
	if link.UserID == primitive.NilObjectID || link.WorkoutID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("assignment requires userId and workoutId")
	}

	link.ID = primitive.NewObjectID()
	link.AssignedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, link)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted assignment ID")
	}
	return insertedID, nil
}

// Get retrieves the assignment for a specific (user, workout) pair.
func (r *mongoUserWorkoutRepository) Get(ctx context.Context, userID, workoutID primitive.ObjectID) (*domain.UserWorkoutLink, error) {
	var link domain.UserWorkoutLink
	filter := bson.M{"userId": userID, "workoutId": workoutID}

	err := r.collection.FindOne(ctx, filter).Decode(&link)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &link, nil
}

// ListByUser retrieves all assignments for a user.
func (r *mongoUserWorkoutRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.UserWorkoutLink, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	links := []domain.UserWorkoutLink{}
	if err = cursor.All(ctx, &links); err != nil {
		return nil, err
	}
	return links, nil
}

// ListByWorkout retrieves all assignments referencing a workout.
func (r *mongoUserWorkoutRepository) ListByWorkout(ctx context.Context, workoutID primitive.ObjectID) ([]domain.UserWorkoutLink, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"workoutId": workoutID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	links := []domain.UserWorkoutLink{}
	if err = cursor.All(ctx, &links); err != nil {
		return nil, err
	}
	return links, nil
}

// Delete removes the assignment for a specific (user, workout) pair.
func (r *mongoUserWorkoutRepository) Delete(ctx context.Context, userID, workoutID primitive.ObjectID) error {
	filter := bson.M{"userId": userID, "workoutId": workoutID}
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByUser removes every assignment belonging to the user.
func (r *mongoUserWorkoutRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"userId": userID})
	return err
}

// DeleteByWorkout removes every assignment referencing the workout.
func (r *mongoUserWorkoutRepository) DeleteByWorkout(ctx context.Context, workoutID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"workoutId": workoutID})
	return err
}

// EnsureUserWorkoutIndexes creates the compound unique index enforcing one
// assignment per (user, workout) pair.
func EnsureUserWorkoutIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "workoutId", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "workoutId", Value: 1}},
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
