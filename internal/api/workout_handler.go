package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gymapp/backend/internal/domain"
	"gymapp/backend/internal/service"
)

// WorkoutHandler holds the workout and assignment service dependencies.
type WorkoutHandler struct {
	workoutService    service.WorkoutService
	assignmentService service.AssignmentService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService, assignmentService service.AssignmentService) *WorkoutHandler {
	return &WorkoutHandler{
		workoutService:    workoutService,
		assignmentService: assignmentService,
	}
}

// --- DTOs ---

// CreateWorkoutRequest defines the expected JSON for creating a workout.
type CreateWorkoutRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// UpdateWorkoutRequest carries an arbitrary subset of workout fields.
type UpdateWorkoutRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// AddExerciseRequest carries the prescription parameters when attaching an
// exercise to a workout.
type AddExerciseRequest struct {
	Order       int  `json:"order"`
	Sets        *int `json:"sets" binding:"omitempty,min=1"`
	Reps        *int `json:"reps" binding:"omitempty,min=1"`
	TimeSeconds *int `json:"timeSeconds" binding:"omitempty,min=1"`
	RestSeconds *int `json:"restSeconds" binding:"omitempty,min=0"`
}

// WorkoutResponse is the DTO for returning workout header fields.
type WorkoutResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MapWorkoutToResponse converts a domain.Workout to WorkoutResponse DTO.
func MapWorkoutToResponse(w *domain.Workout) WorkoutResponse {
	if w == nil {
		return WorkoutResponse{}
	}
	return WorkoutResponse{
		ID:          w.ID.Hex(),
		Title:       w.Title,
		Description: w.Description,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

// MapWorkoutsToResponse converts a slice of domain.Workout to DTOs.
func MapWorkoutsToResponse(workouts []domain.Workout) []WorkoutResponse {
	responses := make([]WorkoutResponse, len(workouts))
	for i := range workouts {
		responses[i] = MapWorkoutToResponse(&workouts[i])
	}
	return responses
}

// --- Handler Methods ---

// ListWorkouts godoc
// @Summary List workouts visible to the caller
// @Description Managers see the full catalog; regular users only their assigned workouts.
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} WorkoutResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /workouts/ [get]
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	user, err := getUserFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller")
		return
	}

	workouts, err := h.assignmentService.ListWorkoutsFor(c.Request.Context(), user)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list workouts")
		return
	}
	c.JSON(http.StatusOK, MapWorkoutsToResponse(workouts))
}

// GetWorkoutDetail godoc
// @Summary Get a workout with its exercises in prescription order
// @Tags Workouts
// @Produce json
// @Param id path string true "Workout ID"
// @Success 200 {object} service.WorkoutDetail
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{id} [get]
func (h *WorkoutHandler) GetWorkoutDetail(c *gin.Context) {
	workoutID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format")
		return
	}

	detail, err := h.workoutService.GetDetail(c.Request.Context(), workoutID)
	if err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to get workout")
		}
		return
	}
	c.JSON(http.StatusOK, detail)
}

// CreateWorkout godoc
// @Summary Create a new workout
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workout body CreateWorkoutRequest true "Workout details"
// @Success 201 {object} WorkoutResponse
// @Failure 403 {object} gin.H "Forbidden (not a manager)"
// @Router /workouts/ [post]
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	var req CreateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	workout, err := h.workoutService.CreateWorkout(c.Request.Context(), req.Title, req.Description)
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create workout")
		}
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutToResponse(workout))
}

// UpdateWorkout godoc
// @Summary Partially update a workout
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Param workout body UpdateWorkoutRequest true "Fields to update"
// @Success 200 {object} WorkoutResponse
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{id} [patch]
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	workoutID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format")
		return
	}

	var req UpdateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	workout, err := h.workoutService.UpdateWorkout(c.Request.Context(), workoutID, service.WorkoutUpdateInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update workout")
		}
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// DeleteWorkout godoc
// @Summary Delete a workout
// @Description Removes the workout, its prescriptions, and its user assignments.
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Success 200 {object} gin.H "Deleted"
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{id} [delete]
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	workoutID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format")
		return
	}

	if err := h.workoutService.DeleteWorkout(c.Request.Context(), workoutID); err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete workout")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Workout deleted"})
}

// AddExercise godoc
// @Summary Attach an exercise to a workout
// @Description Creates the prescription link; each exercise may appear once per workout.
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Param eid path string true "Exercise ID"
// @Param prescription body AddExerciseRequest true "Prescription parameters"
// @Success 201 {object} gin.H "Exercise added"
// @Failure 400 {object} gin.H "Exercise already part of the workout"
// @Failure 404 {object} gin.H "Workout or exercise not found"
// @Router /workouts/{id}/add-exercise/{eid} [post]
func (h *WorkoutHandler) AddExercise(c *gin.Context) {
	workoutID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format")
		return
	}
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("eid"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}

	// The body is optional: every prescription field has a default.
	var req AddExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	link, err := h.workoutService.AddExercise(c.Request.Context(), workoutID, exerciseID, service.PrescriptionInput{
		Order:       req.Order,
		Sets:        req.Sets,
		Reps:        req.Reps,
		TimeSeconds: req.TimeSeconds,
		RestSeconds: req.RestSeconds,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWorkoutNotFound), errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrDuplicateLink):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to add exercise to workout")
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Exercise added to workout", "link": link})
}

// RemoveExercise godoc
// @Summary Detach an exercise from a workout
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Param eid path string true "Exercise ID"
// @Success 200 {object} gin.H "Exercise removed"
// @Failure 404 {object} gin.H "Link not found"
// @Router /workouts/{id}/exercises/{eid} [delete]
func (h *WorkoutHandler) RemoveExercise(c *gin.Context) {
	workoutID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format")
		return
	}
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("eid"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}

	if err := h.workoutService.RemoveExercise(c.Request.Context(), workoutID, exerciseID); err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to remove exercise from workout")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Exercise removed from workout"})
}

// ListAssignedUsers godoc
// @Summary List users assigned to a workout
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Success 200 {array} UserResponse
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{id}/users [get]
func (h *WorkoutHandler) ListAssignedUsers(c *gin.Context) {
	workoutID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format")
		return
	}

	users, err := h.assignmentService.ListAssignedUsers(c.Request.Context(), workoutID)
	if err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to list assigned users")
		}
		return
	}
	c.JSON(http.StatusOK, MapUsersToResponse(users))
}
