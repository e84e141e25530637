package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gymapp/backend/internal/domain"
	"gymapp/backend/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubAuthService resolves a fixed set of tokens to users.
type stubAuthService struct {
	tokens map[string]*domain.User
}

func (s *stubAuthService) Login(_ context.Context, username, password string) (string, *domain.User, error) {
	for token, user := range s.tokens {
		if user.Username == username {
			return token, user, nil
		}
	}
	return "", nil, service.ErrAuthenticationFailed
}

func (s *stubAuthService) AuthenticateToken(_ context.Context, tokenString string) (*domain.User, error) {
	user, ok := s.tokens[tokenString]
	if !ok {
		return nil, service.ErrInvalidCredential
	}
	return user, nil
}

func testUser(username string, isManager bool) *domain.User {
	return &domain.User{ID: primitive.NewObjectID(), Username: username, IsManager: isManager}
}

func newAuthTestRouter() (*gin.Engine, *stubAuthService) {
	auth := &stubAuthService{tokens: map[string]*domain.User{
		"manager-token": testUser("coach", true),
		"user-token":    testUser("athlete", false),
	}}

	router := gin.New()
	ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "ok"}) }
	router.GET("/protected", AuthMiddleware(auth), ok)
	router.GET("/manager-only", AuthMiddleware(auth), ManagerMiddleware(), ok)
	return router, auth
}

func doRequest(router *gin.Engine, method, target, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	router, _ := newAuthTestRouter()

	cases := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"malformed header", "NotBearer", http.StatusUnauthorized},
		{"unknown token", "Bearer bogus-token", http.StatusUnauthorized},
		{"valid token", "Bearer user-token", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tc.wantStatus {
				t.Errorf("expected status %d, got %d (body %s)", tc.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestManagerMiddleware(t *testing.T) {
	router, _ := newAuthTestRouter()

	if w := doRequest(router, http.MethodGet, "/manager-only", "user-token"); w.Code != http.StatusForbidden {
		t.Errorf("regular user: expected 403, got %d", w.Code)
	}
	if w := doRequest(router, http.MethodGet, "/manager-only", "manager-token"); w.Code != http.StatusOK {
		t.Errorf("manager: expected 200, got %d", w.Code)
	}
	if w := doRequest(router, http.MethodGet, "/manager-only", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: expected 401, got %d", w.Code)
	}
}
