package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gymapp/backend/internal/config"
	"gymapp/backend/internal/service"
)

// SetupRoutes wires every handler into the router. Mutating catalog and
// assignment routes are manager-gated; the workout list is authenticated
// and role-scoped; catalog reads, workout detail, and static media are
// public.
func SetupRoutes(
	router *gin.Engine,
	cfg config.Config,
	authService service.AuthService,
	userService service.UserService,
	exerciseService service.ExerciseService,
	workoutService service.WorkoutService,
	assignmentService service.AssignmentService,
	mediaService service.MediaService,
) {
	authHandler := NewAuthHandler(authService, userService)
	userHandler := NewUserHandler(userService)
	exerciseHandler := NewExerciseHandler(exerciseService)
	workoutHandler := NewWorkoutHandler(workoutService, assignmentService)
	assignmentHandler := NewAssignmentHandler(assignmentService)
	mediaHandler := NewMediaHandler(mediaService, cfg.Media.VideoDir, cfg.Media.ImageDir)

	authRequired := AuthMiddleware(authService)
	managerRequired := ManagerMiddleware()

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// --- Auth ---
	router.POST("/token", authHandler.Token)
	// Registration is manager-gated, not self-service.
	router.POST("/register", authRequired, managerRequired, authHandler.Register)

	// --- Users (manager only) ---
	userGroup := router.Group("/users")
	userGroup.Use(authRequired, managerRequired)
	{
		userGroup.GET("/", userHandler.ListUsers)
		userGroup.GET("/:id", userHandler.GetUser)
		userGroup.PATCH("/:id", userHandler.UpdateUser)
		userGroup.DELETE("/:id", userHandler.DeleteUser)
	}

	// --- Exercise catalog ---
	exerciseGroup := router.Group("/exercises")
	{
		exerciseGroup.GET("/", exerciseHandler.ListExercises)
		exerciseGroup.POST("/", authRequired, managerRequired, exerciseHandler.CreateExercise)
		exerciseGroup.PATCH("/:id", authRequired, managerRequired, exerciseHandler.UpdateExercise)
		exerciseGroup.DELETE("/:id", authRequired, managerRequired, exerciseHandler.DeleteExercise)
	}

	// --- Workouts ---
	workoutGroup := router.Group("/workouts")
	{
		workoutGroup.GET("/", authRequired, workoutHandler.ListWorkouts)
		workoutGroup.GET("/:id", workoutHandler.GetWorkoutDetail)
		workoutGroup.POST("/", authRequired, managerRequired, workoutHandler.CreateWorkout)
		workoutGroup.PATCH("/:id", authRequired, managerRequired, workoutHandler.UpdateWorkout)
		workoutGroup.DELETE("/:id", authRequired, managerRequired, workoutHandler.DeleteWorkout)

		workoutGroup.POST("/:id/add-exercise/:eid", authRequired, managerRequired, workoutHandler.AddExercise)
		workoutGroup.DELETE("/:id/exercises/:eid", authRequired, managerRequired, workoutHandler.RemoveExercise)
		workoutGroup.GET("/:id/users", authRequired, managerRequired, workoutHandler.ListAssignedUsers)
	}

	// --- Assignments (manager only) ---
	assignGroup := router.Group("/assign-workout")
	assignGroup.Use(authRequired, managerRequired)
	{
		assignGroup.POST("/:id/to-user/:username", assignmentHandler.AssignWorkout)
		assignGroup.DELETE("/:id/user/:uid", assignmentHandler.UnassignWorkout)
	}

	// --- Media ---
	router.GET("/video/:filename", mediaHandler.GetVideo)
	router.GET("/image/:filename", mediaHandler.GetImage)
	mediaGroup := router.Group("/media")
	{
		mediaGroup.POST("/upload-url", authRequired, managerRequired, mediaHandler.RequestUploadURL)
		mediaGroup.GET("/:id/download-url", authRequired, mediaHandler.GetDownloadURL)
	}
}
