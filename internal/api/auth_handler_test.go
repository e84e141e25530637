package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gymapp/backend/internal/domain"
	"gymapp/backend/internal/service"
)

// stubUserService returns canned results for the handler tests.
type stubUserService struct {
	registered  *domain.User
	registerErr error
	users       []domain.User
}

func (s *stubUserService) Register(_ context.Context, username, _ string, isManager bool) (*domain.User, error) {
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	if s.registered != nil {
		return s.registered, nil
	}
	return &domain.User{ID: primitive.NewObjectID(), Username: username, IsManager: isManager}, nil
}

func (s *stubUserService) GetUser(_ context.Context, _ primitive.ObjectID) (*domain.User, error) {
	return nil, service.ErrUserNotFound
}

func (s *stubUserService) ListUsers(_ context.Context) ([]domain.User, error) {
	return s.users, nil
}

func (s *stubUserService) UpdateUser(_ context.Context, _ primitive.ObjectID, _ service.UserUpdateInput) (*domain.User, error) {
	return nil, service.ErrUserNotFound
}

func (s *stubUserService) DeleteUser(_ context.Context, _ primitive.ObjectID) error {
	return service.ErrUserNotFound
}

func newAuthHandlerRouter(userService *stubUserService) *gin.Engine {
	auth := &stubAuthService{tokens: map[string]*domain.User{
		"manager-token": testUser("coach", true),
	}}
	handler := NewAuthHandler(auth, userService)

	router := gin.New()
	router.POST("/token", handler.Token)
	router.POST("/register", handler.Register)
	return router
}

func postForm(router *gin.Engine, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func postJSON(router *gin.Engine, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestTokenEndpoint(t *testing.T) {
	router := newAuthHandlerRouter(&stubUserService{})

	w := postForm(router, "/token", url.Values{"username": {"coach"}, "password": {"password123"}})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body %s)", w.Code, w.Body.String())
	}

	var resp TokenResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.AccessToken == "" {
		t.Error("expected a non-empty access_token")
	}
	if resp.TokenType != "bearer" {
		t.Errorf("expected token_type %q, got %q", "bearer", resp.TokenType)
	}
}

func TestTokenEndpointBadCredentials(t *testing.T) {
	router := newAuthHandlerRouter(&stubUserService{})

	// Bad credentials come back as a 400 on this endpoint.
	w := postForm(router, "/token", url.Values{"username": {"nobody"}, "password": {"wrong"}})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad credentials, got %d", w.Code)
	}

	// So do missing form fields.
	w = postForm(router, "/token", url.Values{"username": {"coach"}})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing password, got %d", w.Code)
	}
}

func TestRegisterEndpoint(t *testing.T) {
	router := newAuthHandlerRouter(&stubUserService{})

	w := postJSON(router, "/register", `{"username":"newuser","password":"longenough","isManager":false}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body %s)", w.Code, w.Body.String())
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp["username"] != "newuser" {
		t.Errorf("unexpected username in response: %v", resp["username"])
	}
	if _, leaked := resp["passwordHash"]; leaked {
		t.Error("password hash leaked in response")
	}
}

func TestRegisterEndpointValidation(t *testing.T) {
	router := newAuthHandlerRouter(&stubUserService{})

	// Password below the minimum length fails binding.
	w := postJSON(router, "/register", `{"username":"newuser","password":"short"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for short password, got %d", w.Code)
	}
}

func TestRegisterEndpointDuplicate(t *testing.T) {
	router := newAuthHandlerRouter(&stubUserService{registerErr: service.ErrDuplicateUsername})

	w := postJSON(router, "/register", `{"username":"taken","password":"longenough"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for duplicate username, got %d", w.Code)
	}
}
