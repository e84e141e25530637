package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Defaults applied to a prescription when the caller leaves them unset.
const (
	DefaultPrescriptionSets = 3
	DefaultPrescriptionRest = 90 // Seconds
)

// WorkoutExerciseLink prescribes one exercise within one workout. The
// (WorkoutID, ExerciseID) pair is unique: one prescription per exercise per
// workout, enforced by a compound index.
type WorkoutExerciseLink struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkoutID   primitive.ObjectID `bson:"workoutId" json:"workoutId"`
	ExerciseID  primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	Order       int                `bson:"order" json:"order"` // Sequence position within the workout
	Sets        int                `bson:"sets" json:"sets"`
	Reps        *int               `bson:"reps,omitempty" json:"reps,omitempty"`               // Counted exercise
	TimeSeconds *int               `bson:"timeSeconds,omitempty" json:"timeSeconds,omitempty"` // Timed exercise
	RestSeconds int                `bson:"restSeconds" json:"restSeconds"`
}
