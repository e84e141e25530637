package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultExerciseRest is the rest duration (seconds) applied to a new
// exercise when none is supplied.
const DefaultExerciseRest = 60

// Exercise is a single catalog entry. Its lifecycle is independent of any
// workout that prescribes it.
type Exercise struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	VideoURL    string             `bson:"videoUrl" json:"videoUrl"`
	DefaultRest int                `bson:"defaultRest" json:"defaultRest"` // Seconds
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
