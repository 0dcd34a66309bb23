package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/contactbook-backend/internal/data/repos"
	types "github.com/yungbote/contactbook-backend/internal/domain"
	"github.com/yungbote/contactbook-backend/internal/http/response"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
	"github.com/yungbote/contactbook-backend/internal/services"
)

// downSessionRepo fails every revocation lookup the way an unreachable
// Redis does.
type downSessionRepo struct {
	repos.SessionRepo
}

func (downSessionRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return false, fmt.Errorf("%w: redis check revoked: connection refused", types.ErrIO)
}

func newAuthRouter(t *testing.T, sessions repos.SessionRepo) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.Nop()
	authService := services.NewAuthService(log, repos.NewMemoryUserRepo(), sessions, nil, "test-secret", time.Hour)

	ctx := context.Background()
	if _, err := authService.Signup(ctx, "kim", "pw"); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	token, _, err := authService.Login(ctx, "kim", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	r := gin.New()
	r.GET("/api/contacts", NewAuthMiddleware(log, authService).RequireAuth(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r, token
}

func getWithToken(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuthStorageFailureIs500(t *testing.T) {
	r, token := newAuthRouter(t, downSessionRepo{repos.NewMemorySessionRepo()})

	rec := getWithToken(r, token)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: want=%d got=%d body=%s", http.StatusInternalServerError, rec.Code, rec.Body.String())
	}
	var env response.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Error.Code != "storage_error" {
		t.Fatalf("code: want=storage_error got=%q", env.Error.Code)
	}
}

func TestRequireAuthBadTokenIs401(t *testing.T) {
	r, token := newAuthRouter(t, repos.NewMemorySessionRepo())

	if rec := getWithToken(r, token); rec.Code != http.StatusNoContent {
		t.Fatalf("valid token: want=%d got=%d", http.StatusNoContent, rec.Code)
	}
	rec := getWithToken(r, token+"x")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("tampered token: want=%d got=%d", http.StatusUnauthorized, rec.Code)
	}
	var env response.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Error.Code != "unauthorized" {
		t.Fatalf("code: want=unauthorized got=%q", env.Error.Code)
	}
}
