package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gymapp/backend/internal/service"
)

// AssignmentHandler holds the assignment service dependency.
type AssignmentHandler struct {
	assignmentService service.AssignmentService
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(assignmentService service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService}
}

// --- Handler Methods ---

// AssignWorkout godoc
// @Summary Assign a workout to a user by username
// @Description Assigning an already-assigned pair succeeds without creating a duplicate.
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Param username path string true "Username"
// @Success 200 {object} gin.H "Assigned"
// @Failure 404 {object} gin.H "Workout or user not found"
// @Router /assign-workout/{id}/to-user/{username} [post]
func (h *AssignmentHandler) AssignWorkout(c *gin.Context) {
	workoutID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format")
		return
	}
	username := c.Param("username")

	if err := h.assignmentService.Assign(c.Request.Context(), workoutID, username); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrWorkoutNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to assign workout")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Workout assigned"})
}

// UnassignWorkout godoc
// @Summary Remove a user's workout assignment
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Param uid path string true "User ID"
// @Success 200 {object} gin.H "Unassigned"
// @Failure 404 {object} gin.H "Assignment not found"
// @Router /assign-workout/{id}/user/{uid} [delete]
func (h *AssignmentHandler) UnassignWorkout(c *gin.Context) {
	workoutID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format")
		return
	}
	userID, err := primitive.ObjectIDFromHex(c.Param("uid"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	if err := h.assignmentService.Unassign(c.Request.Context(), workoutID, userID); err != nil {
		if errors.Is(err, service.ErrAssignmentNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to unassign workout")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Workout unassigned"})
}
