package service

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newAssignmentServiceForTest() (AssignmentService, *stubUserRepo, *stubWorkoutRepo, *fakeUserWorkoutRepo) {
	userRepo := newStubUserRepo()
	workoutRepo := newStubWorkoutRepo()
	assignRepo := &fakeUserWorkoutRepo{}
	svc := NewAssignmentService(userRepo, workoutRepo, assignRepo)
	return svc, userRepo, workoutRepo, assignRepo
}

func TestAssignWorkout(t *testing.T) {
	svc, userRepo, workoutRepo, assignRepo := newAssignmentServiceForTest()
	ctx := context.Background()

	userID := userRepo.add("athlete", "password123", false)
	workoutID := workoutRepo.add("Day 1")

	if err := svc.Assign(ctx, workoutID, "athlete"); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	link, err := assignRepo.Get(ctx, userID, workoutID)
	if err != nil {
		t.Fatalf("assignment not stored: %v", err)
	}
	if !link.IsActive {
		t.Error("expected assignment to be active")
	}
}

func TestAssignWorkoutIdempotent(t *testing.T) {
	svc, userRepo, workoutRepo, assignRepo := newAssignmentServiceForTest()
	ctx := context.Background()

	userRepo.add("athlete", "password123", false)
	workoutID := workoutRepo.add("Day 1")

	if err := svc.Assign(ctx, workoutID, "athlete"); err != nil {
		t.Fatalf("first Assign failed: %v", err)
	}
	// Assigning the same pair again succeeds and leaves a single link.
	if err := svc.Assign(ctx, workoutID, "athlete"); err != nil {
		t.Fatalf("second Assign failed: %v", err)
	}
	if len(assignRepo.links) != 1 {
		t.Fatalf("expected exactly 1 assignment, got %d", len(assignRepo.links))
	}
}

func TestAssignWorkoutMissingEntities(t *testing.T) {
	svc, userRepo, workoutRepo, _ := newAssignmentServiceForTest()
	ctx := context.Background()

	userRepo.add("athlete", "password123", false)
	workoutID := workoutRepo.add("Day 1")

	if err := svc.Assign(ctx, workoutID, "nobody"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
	if err := svc.Assign(ctx, primitive.NewObjectID(), "athlete"); !errors.Is(err, ErrWorkoutNotFound) {
		t.Errorf("expected ErrWorkoutNotFound, got %v", err)
	}
}

func TestUnassignWorkout(t *testing.T) {
	svc, userRepo, workoutRepo, _ := newAssignmentServiceForTest()
	ctx := context.Background()

	userID := userRepo.add("athlete", "password123", false)
	workoutID := workoutRepo.add("Day 1")

	if err := svc.Assign(ctx, workoutID, "athlete"); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	if err := svc.Unassign(ctx, workoutID, userID); err != nil {
		t.Fatalf("Unassign failed: %v", err)
	}
	// Second unassign finds nothing.
	if err := svc.Unassign(ctx, workoutID, userID); !errors.Is(err, ErrAssignmentNotFound) {
		t.Errorf("expected ErrAssignmentNotFound, got %v", err)
	}
}

func TestListAssignedUsers(t *testing.T) {
	svc, userRepo, workoutRepo, _ := newAssignmentServiceForTest()
	ctx := context.Background()

	userRepo.add("alice", "password123", false)
	userRepo.add("bob", "password123", false)
	userRepo.add("carol", "password123", false)
	workoutID := workoutRepo.add("Day 1")

	if err := svc.Assign(ctx, workoutID, "alice"); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	if err := svc.Assign(ctx, workoutID, "bob"); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	users, err := svc.ListAssignedUsers(ctx, workoutID)
	if err != nil {
		t.Fatalf("ListAssignedUsers failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 assigned users, got %d", len(users))
	}
	for _, u := range users {
		if u.PasswordHash != "" {
			t.Errorf("password hash leaked for %s", u.Username)
		}
	}
}

func TestListWorkoutsForScoping(t *testing.T) {
	svc, userRepo, workoutRepo, _ := newAssignmentServiceForTest()
	ctx := context.Background()

	managerID := userRepo.add("coach", "password123", true)
	athleteID := userRepo.add("athlete", "password123", false)
	assignedID := workoutRepo.add("Assigned")
	workoutRepo.add("Unassigned")

	if err := svc.Assign(ctx, assignedID, "athlete"); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	manager, _ := userRepo.GetByID(ctx, managerID)
	athlete, _ := userRepo.GetByID(ctx, athleteID)

	managerView, err := svc.ListWorkoutsFor(ctx, manager)
	if err != nil {
		t.Fatalf("ListWorkoutsFor(manager) failed: %v", err)
	}
	if len(managerView) != 2 {
		t.Errorf("manager should see all 2 workouts, got %d", len(managerView))
	}

	athleteView, err := svc.ListWorkoutsFor(ctx, athlete)
	if err != nil {
		t.Fatalf("ListWorkoutsFor(athlete) failed: %v", err)
	}
	if len(athleteView) != 1 {
		t.Fatalf("athlete should see 1 workout, got %d", len(athleteView))
	}
	if athleteView[0].ID != assignedID {
		t.Errorf("athlete sees wrong workout: %+v", athleteView[0])
	}
}
