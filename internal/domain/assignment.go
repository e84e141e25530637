package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserWorkoutLink designates that a user should perform a workout. The
// (UserID, WorkoutID) pair is unique; assigning the same pair twice is a
// no-op rather than an error.
type UserWorkoutLink struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	WorkoutID  primitive.ObjectID `bson:"workoutId" json:"workoutId"`
	IsActive   bool               `bson:"isActive" json:"isActive"`
	AssignedAt time.Time          `bson:"assignedAt" json:"assignedAt"`
}
