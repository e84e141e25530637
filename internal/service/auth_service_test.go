package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"gymapp/backend/internal/domain"
	"gymapp/backend/internal/repository"
)

// stubUserRepo is an in-memory UserRepository shared by the service tests.
// It enforces username uniqueness the way the Mongo index does and hands out
// copies so callers cannot mutate stored state.
type stubUserRepo struct {
	users map[primitive.ObjectID]domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[primitive.ObjectID]domain.User{}}
}

func (r *stubUserRepo) add(username, password string, isManager bool) primitive.ObjectID {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	id := primitive.NewObjectID()
	r.users[id] = domain.User{ID: id, Username: username, PasswordHash: string(hash), IsManager: isManager}
	return id
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	for _, u := range r.users {
		if u.Username == user.Username {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	id := primitive.NewObjectID()
	user.ID = id
	r.users[id] = *user
	return id, nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := u
	return &copied, nil
}

func (r *stubUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			copied := u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubUserRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.User, error) {
	result := []domain.User{}
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			result = append(result, u)
		}
	}
	return result, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]domain.User, error) {
	result := []domain.User{}
	for _, u := range r.users {
		result = append(result, u)
	}
	return result, nil
}

func (r *stubUserRepo) Update(_ context.Context, id primitive.ObjectID, update repository.UserUpdate) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	if update.Username != nil {
		for otherID, other := range r.users {
			if otherID != id && other.Username == *update.Username {
				return repository.ErrDuplicate
			}
		}
		u.Username = *update.Username
	}
	if update.PasswordHash != nil {
		u.PasswordHash = *update.PasswordHash
	}
	if update.IsManager != nil {
		u.IsManager = *update.IsManager
	}
	r.users[id] = u
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

const testJWTSecret = "test-secret-not-for-production"

func TestLoginSuccess(t *testing.T) {
	userRepo := newStubUserRepo()
	userRepo.add("manager", "password123", true)
	svc := NewAuthService(userRepo, testJWTSecret, time.Hour)

	token, user, err := svc.Login(context.Background(), "manager", "password123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if token == "" {
		t.Error("expected a non-empty token")
	}
	if user == nil || user.Username != "manager" || !user.IsManager {
		t.Errorf("unexpected user: %+v", user)
	}
	if user.PasswordHash != "" {
		t.Error("password hash leaked from Login")
	}
}

func TestLoginBadCredentials(t *testing.T) {
	userRepo := newStubUserRepo()
	userRepo.add("manager", "password123", true)
	svc := NewAuthService(userRepo, testJWTSecret, time.Hour)
	ctx := context.Background()

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "manager", "wrong"},
		{"unknown user", "nobody", "password123"},
		{"empty password", "manager", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Login(ctx, tc.username, tc.password)
			if !errors.Is(err, ErrAuthenticationFailed) {
				t.Errorf("expected ErrAuthenticationFailed, got %v", err)
			}
		})
	}
}

func TestAuthenticateTokenRoundTrip(t *testing.T) {
	userRepo := newStubUserRepo()
	userID := userRepo.add("athlete", "password123", false)
	svc := NewAuthService(userRepo, testJWTSecret, time.Hour)
	ctx := context.Background()

	token, _, err := svc.Login(ctx, "athlete", "password123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	user, err := svc.AuthenticateToken(ctx, token)
	if err != nil {
		t.Fatalf("AuthenticateToken failed: %v", err)
	}
	if user.ID != userID {
		t.Errorf("expected user %s, got %s", userID.Hex(), user.ID.Hex())
	}
	if user.IsManager {
		t.Error("regular user resolved as manager")
	}
}

func TestAuthenticateTokenInvalid(t *testing.T) {
	userRepo := newStubUserRepo()
	svc := NewAuthService(userRepo, testJWTSecret, time.Hour)

	if _, err := svc.AuthenticateToken(context.Background(), "not-a-token"); !errors.Is(err, ErrInvalidCredential) {
		t.Errorf("expected ErrInvalidCredential, got %v", err)
	}
}

func TestAuthenticateTokenWrongSecret(t *testing.T) {
	userRepo := newStubUserRepo()
	userRepo.add("athlete", "password123", false)
	issuer := NewAuthService(userRepo, "other-secret", time.Hour)
	verifier := NewAuthService(userRepo, testJWTSecret, time.Hour)
	ctx := context.Background()

	token, _, err := issuer.Login(ctx, "athlete", "password123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if _, err := verifier.AuthenticateToken(ctx, token); !errors.Is(err, ErrInvalidCredential) {
		t.Errorf("expected ErrInvalidCredential, got %v", err)
	}
}

func TestAuthenticateTokenDeletedUser(t *testing.T) {
	userRepo := newStubUserRepo()
	userID := userRepo.add("athlete", "password123", false)
	svc := NewAuthService(userRepo, testJWTSecret, time.Hour)
	ctx := context.Background()

	token, _, err := svc.Login(ctx, "athlete", "password123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if err := userRepo.Delete(ctx, userID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := svc.AuthenticateToken(ctx, token); !errors.Is(err, ErrInvalidCredential) {
		t.Errorf("expected ErrInvalidCredential for deleted user, got %v", err)
	}
}

func TestAuthenticateTokenExpired(t *testing.T) {
	userRepo := newStubUserRepo()
	userRepo.add("athlete", "password123", false)
	svc := NewAuthService(userRepo, testJWTSecret, -time.Minute).(*authService)
	ctx := context.Background()

	// NewAuthService normalizes non-positive expirations, so sign an
	// already-expired token directly.
	svc.jwtExpiration = -time.Minute
	user, _ := userRepo.GetByUsername(ctx, "athlete")
	token, err := svc.generateJWT(user)
	if err != nil {
		t.Fatalf("generateJWT failed: %v", err)
	}

	if _, err := svc.AuthenticateToken(ctx, token); !errors.Is(err, ErrInvalidCredential) {
		t.Errorf("expected ErrInvalidCredential for expired token, got %v", err)
	}
}
