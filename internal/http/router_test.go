package http

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/contactbook-backend/internal/data/repos"
	types "github.com/yungbote/contactbook-backend/internal/domain"
	httpH "github.com/yungbote/contactbook-backend/internal/http/handlers"
	httpMW "github.com/yungbote/contactbook-backend/internal/http/middleware"
	"github.com/yungbote/contactbook-backend/internal/http/response"
	"github.com/yungbote/contactbook-backend/internal/observability"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
	"github.com/yungbote/contactbook-backend/internal/services"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.Nop()
	metrics := observability.NewMetrics(0)
	store := repos.NewMemoryContactStore()
	sessions := repos.NewMemorySessionRepo()

	authService := services.NewAuthService(log, repos.NewMemoryUserRepo(), sessions, metrics, "test-secret", time.Hour)
	avatarService, err := services.NewAvatarService(log, services.AvatarConfig{})
	require.NoError(t, err)

	return NewRouter(RouterConfig{
		Log:            log,
		Metrics:        metrics,
		ExposeMetrics:  true,
		ServiceName:    "contactbook-test",
		AuthHandler:    httpH.NewAuthHandler(authService, httpH.CookieConfig{}),
		AuthMiddleware: httpMW.NewAuthMiddleware(log, authService),
		ContactHandler: httpH.NewContactHandler(services.NewContactService(log, store, metrics), avatarService),
		ExportHandler:  httpH.NewExportHandler(services.NewExportService(log, store, metrics)),
		ThemeHandler:   httpH.NewThemeHandler(services.NewPreferenceService(log, sessions)),
		HealthHandler:  httpH.NewHealthHandler(),
	})
}

func do(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var rdr *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		rdr = bytes.NewReader(raw)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func signupAndLogin(t *testing.T, r http.Handler, username string) string {
	t.Helper()
	creds := map[string]string{"username": username, "password": "pw-" + username}
	rec := do(r, http.MethodPost, "/api/signup", "", creds)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(r, http.MethodPost, "/api/login", "", creds)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decode[struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
	}](t, rec)
	require.NotEmpty(t, out.AccessToken)
	require.Equal(t, "bearer", out.TokenType)
	require.Equal(t, 3600, out.ExpiresIn)
	return out.AccessToken
}

type contactBody struct {
	Contact types.Contact `json:"contact"`
}

type contactsBody struct {
	Contacts []types.Contact `json:"contacts"`
}

func TestHealthCheck(t *testing.T) {
	r := newTestRouter(t)
	rec := do(r, http.MethodGet, "/healthcheck", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
	require.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newTestRouter(t)
	for _, path := range []string{"/api/contacts", "/api/theme", "/api/export/contacts.csv"} {
		rec := do(r, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code, path)
		env := decode[response.ErrorEnvelope](t, rec)
		require.Equal(t, "unauthorized", env.Error.Code)
	}
	rec := do(r, http.MethodGet, "/api/contacts", "not-a-jwt", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignupLoginErrors(t *testing.T) {
	r := newTestRouter(t)
	signupAndLogin(t, r, "alice")

	rec := do(r, http.MethodPost, "/api/signup", "", map[string]string{"username": " ALICE ", "password": "x"})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, services.ReasonUsernameTaken, decode[response.ErrorEnvelope](t, rec).Error.Message)

	rec = do(r, http.MethodPost, "/api/signup", "", map[string]string{"username": "bob"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, services.ReasonCredentialsRequired, decode[response.ErrorEnvelope](t, rec).Error.Message)

	rec = do(r, http.MethodPost, "/api/login", "", map[string]string{"username": "alice", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, services.ReasonInvalidCredentials, decode[response.ErrorEnvelope](t, rec).Error.Message)
}

func TestLoginSetsCookieAccepted(t *testing.T) {
	r := newTestRouter(t)
	creds := map[string]string{"username": "carol", "password": "pw"}
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/api/signup", "", creds).Code)

	rec := do(r, http.MethodPost, "/api/login", "", creds)
	require.Equal(t, http.StatusOK, rec.Code)
	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == httpMW.SessionCookie {
			session = c
		}
	}
	require.NotNil(t, session)
	require.True(t, session.HttpOnly)
	require.Equal(t, http.SameSiteLaxMode, session.SameSite)

	req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
	req.AddCookie(&http.Cookie{Name: httpMW.SessionCookie, Value: session.Value})
	out := httptest.NewRecorder()
	r.ServeHTTP(out, req)
	require.Equal(t, http.StatusOK, out.Code, out.Body.String())

	out = do(r, http.MethodGet, "/api/contacts?token="+url.QueryEscape(session.Value), "", nil)
	require.Equal(t, http.StatusOK, out.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	r := newTestRouter(t)
	token := signupAndLogin(t, r, "dave")

	rec := do(r, http.MethodPost, "/api/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Set-Cookie"), httpMW.SessionCookie+"=;")

	rec = do(r, http.MethodGet, "/api/contacts", token, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestContactLifecycle(t *testing.T) {
	r := newTestRouter(t)
	token := signupAndLogin(t, r, "erin")

	rec := do(r, http.MethodPost, "/api/contacts", token, map[string]string{
		"name": "  Zed Zulu ", "phone": "5550100", "email": "zed@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	zed := decode[contactBody](t, rec).Contact
	require.Equal(t, "Zed Zulu", zed.Name)
	require.Equal(t, "erin", zed.Owner)
	require.NotEmpty(t, zed.ID)

	rec = do(r, http.MethodPost, "/api/contacts", token, map[string]string{"name": "Amy Able", "phone": "", "email": ""})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(r, http.MethodPost, "/api/contacts", token, map[string]string{"name": "Zed Zulu", "phone": "5550100"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode[response.ErrorEnvelope](t, rec)
	require.Equal(t, "Duplicate contact detected.", env.Error.Message)
	require.Equal(t, "validation_failed", env.Error.Code)

	rec = do(r, http.MethodPost, "/api/contacts", token, map[string]string{"name": "Bad", "phone": "12"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid phone number format.", decode[response.ErrorEnvelope](t, rec).Error.Message)

	rec = do(r, http.MethodGet, "/api/contacts", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[contactsBody](t, rec).Contacts
	require.Len(t, list, 2)
	require.Equal(t, "Amy Able", list[0].Name)
	require.Equal(t, "Zed Zulu", list[1].Name)

	rec = do(r, http.MethodGet, "/api/contacts?q=zulu", token, nil)
	require.Len(t, decode[contactsBody](t, rec).Contacts, 1)

	rec = do(r, http.MethodGet, "/api/contacts/"+zed.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, zed.ID, decode[contactBody](t, rec).Contact.ID)

	rec = do(r, http.MethodPut, "/api/contacts/"+zed.ID, token, map[string]string{
		"name": "Zed Zulu", "phone": "5550199", "email": "zed@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "5550199", decode[contactBody](t, rec).Contact.Phone)

	rec = do(r, http.MethodPost, "/api/contacts/"+zed.ID, token, map[string]string{
		"name": "Zed Z", "phone": "5550199",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(r, http.MethodDelete, "/api/contacts/"+zed.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		rec = do(r, method, "/api/contacts/"+zed.ID, token, nil)
		require.Equal(t, http.StatusNotFound, rec.Code, method)
		require.Equal(t, "not_found", decode[response.ErrorEnvelope](t, rec).Error.Code)
	}
	rec = do(r, http.MethodPut, "/api/contacts/"+zed.ID, token, map[string]string{"name": "Ghost"})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestContactsIsolatedByOwner(t *testing.T) {
	r := newTestRouter(t)
	frank := signupAndLogin(t, r, "frank")
	gina := signupAndLogin(t, r, "gina")

	rec := do(r, http.MethodPost, "/api/contacts", frank, map[string]string{"name": "Hal", "phone": "5551234"})
	require.Equal(t, http.StatusCreated, rec.Code)
	hal := decode[contactBody](t, rec).Contact

	rec = do(r, http.MethodGet, "/api/contacts", gina, nil)
	require.Empty(t, decode[contactsBody](t, rec).Contacts)

	rec = do(r, http.MethodGet, "/api/contacts/"+hal.ID, gina, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(r, http.MethodDelete, "/api/contacts/"+hal.ID, gina, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// The same name and phone under another owner is not a duplicate.
	rec = do(r, http.MethodPost, "/api/contacts", gina, map[string]string{"name": "Hal", "phone": "5551234"})
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestAvatar(t *testing.T) {
	r := newTestRouter(t)
	token := signupAndLogin(t, r, "ivy")
	rec := do(r, http.MethodPost, "/api/contacts", token, map[string]string{"name": "Jo King"})
	require.Equal(t, http.StatusCreated, rec.Code)
	jo := decode[contactBody](t, rec).Contact

	rec = do(r, http.MethodGet, "/api/contacts/"+jo.ID+"/avatar.png", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	require.Equal(t, services.AvatarSize, img.Bounds().Dx())

	rec = do(r, http.MethodGet, "/api/contacts/missing/avatar.png", token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExports(t *testing.T) {
	r := newTestRouter(t)
	token := signupAndLogin(t, r, "kim")
	rec := do(r, http.MethodPost, "/api/contacts", token, map[string]string{"name": "Lou", "phone": "5559876", "email": "lou@example.com"})
	require.Equal(t, http.StatusCreated, rec.Code)
	lou := decode[contactBody](t, rec).Contact

	rec = do(r, http.MethodGet, "/api/export/contacts.pdf", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	require.Equal(t, `attachment; filename=kim_contacts.pdf`, rec.Header().Get("Content-Disposition"))
	require.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))

	rec = do(r, http.MethodGet, "/api/export/contacts/"+lou.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "attachment; filename=contact_"+lou.ID+".pdf", rec.Header().Get("Content-Disposition"))

	rec = do(r, http.MethodGet, "/api/export/contacts.xlsx", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	require.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))

	rec = do(r, http.MethodGet, "/api/export/contacts.csv", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.HasPrefix(rec.Body.String(), "Name,Phone,Email,Created At\r\nLou,5559876,lou@example.com,"))
}

func TestThemeToggle(t *testing.T) {
	r := newTestRouter(t)
	token := signupAndLogin(t, r, "max")

	theme := func() string {
		rec := do(r, http.MethodGet, "/api/theme", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		return decode[map[string]string](t, rec)["theme"]
	}
	require.Equal(t, types.ThemeLight, theme())
	require.Equal(t, http.StatusNoContent, do(r, http.MethodPost, "/api/theme", token, nil).Code)
	require.Equal(t, types.ThemeDark, theme())
	require.Equal(t, http.StatusNoContent, do(r, http.MethodPost, "/api/theme", token, nil).Code)
	require.Equal(t, types.ThemeLight, theme())
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t)
	do(r, http.MethodGet, "/healthcheck", "", nil)
	rec := do(r, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `cb_api_requests_total{method="GET",route="/healthcheck",status="200"} 1.000000`)
}
