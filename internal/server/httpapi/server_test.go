package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/medinvest/medinvest/internal/common"
	"github.com/medinvest/medinvest/internal/logging"
	"github.com/medinvest/medinvest/internal/server/auth"
	"github.com/medinvest/medinvest/internal/server/metrics"
	"github.com/medinvest/medinvest/internal/server/models"
	"github.com/medinvest/medinvest/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	loginRes  *services.LoginResult
	loginErr  error
	principal *services.Principal
	authErr   error
	logoutErr error

	gotEmail  string
	gotToken  string
	loggedOut *auth.Claims
}

func (f *fakeUsers) Login(_ context.Context, email, _ string) (*services.LoginResult, error) {
	f.gotEmail = email
	return f.loginRes, f.loginErr
}

func (f *fakeUsers) Authenticate(_ context.Context, token string) (*services.Principal, error) {
	f.gotToken = token
	return f.principal, f.authErr
}

func (f *fakeUsers) Logout(_ context.Context, claims *auth.Claims) error {
	f.loggedOut = claims
	return f.logoutErr
}

var testUser = &models.User{ID: "u-1", Email: "alice@medinvest.app", FullName: "Alice", PasswordHash: []byte("secret-hash")}

func newTestServer(us UserService) *Server {
	return NewServer(":0", logging.NewDiscard(), us, metrics.New(), 100, 100)
}

func do(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var e errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&e))
	return e.Message
}

func TestLogin_Success(t *testing.T) {
	us := &fakeUsers{loginRes: &services.LoginResult{Token: "tok", User: testUser}}
	rec := do(t, newTestServer(us).Router(), http.MethodPost, LoginPath, "", `{"email":"alice@medinvest.app","password":"pw"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice@medinvest.app", us.gotEmail)

	body := rec.Body.String()
	assert.NotContains(t, body, "secret-hash", "password hash never leaves the server")

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID       string `json:"id"`
			FullName string `json:"full_name"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.Equal(t, "tok", resp.Token)
	assert.Equal(t, "u-1", resp.User.ID)
	assert.Equal(t, "Alice", resp.User.FullName)
}

func TestLogin_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "malformed body", body: `{`, wantStatus: http.StatusBadRequest, wantMsg: "malformed request body"},
		{name: "validation", body: `{}`, err: common.ErrorValidation, wantStatus: http.StatusBadRequest, wantMsg: "email and password are required"},
		{name: "bad credentials", body: `{"email":"a@b.c","password":"x"}`, err: common.ErrorUnauthorized, wantStatus: http.StatusUnauthorized, wantMsg: "invalid email or password"},
		{name: "internal", body: `{"email":"a@b.c","password":"x"}`, err: common.ErrorInternal, wantStatus: http.StatusInternalServerError, wantMsg: "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestServer(&fakeUsers{loginErr: tt.err}).Router(), http.MethodPost, LoginPath, "", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeMessage(t, rec))
		})
	}
}

func TestLogin_RateLimited(t *testing.T) {
	s := NewServer(":0", logging.NewDiscard(), &fakeUsers{loginErr: common.ErrorUnauthorized}, metrics.New(), 0.001, 2)
	h := s.Router()

	for i := 0; i < 2; i++ {
		rec := do(t, h, http.MethodPost, LoginPath, "", `{"email":"a@b.c","password":"x"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec := do(t, h, http.MethodPost, LoginPath, "", `{"email":"a@b.c","password":"x"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestMe(t *testing.T) {
	us := &fakeUsers{principal: &services.Principal{User: testUser, Claims: &auth.Claims{}}}
	rec := do(t, newTestServer(us).Router(), http.MethodGet, MePath, "tok", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tok", us.gotToken)
	assert.Contains(t, rec.Body.String(), `"email":"alice@medinvest.app"`)
}

func TestProtectedRoutes_Unauthorized(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		token  string
		err    error
		want   int
	}{
		{name: "me without token", method: http.MethodGet, path: MePath, want: http.StatusUnauthorized},
		{name: "logout without token", method: http.MethodPost, path: LogoutPath, want: http.StatusUnauthorized},
		{name: "revoked token", method: http.MethodGet, path: MePath, token: "t", err: common.ErrorUnauthorized, want: http.StatusUnauthorized},
		{name: "revocation list down", method: http.MethodGet, path: MePath, token: "t", err: common.ErrorInternal, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestServer(&fakeUsers{authErr: tt.err}).Router(), tt.method, tt.path, tt.token, "")
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestLogout(t *testing.T) {
	claims := &auth.Claims{UserID: "u-1"}
	us := &fakeUsers{principal: &services.Principal{User: testUser, Claims: claims}}
	h := newTestServer(us).Router()

	rec := do(t, h, http.MethodPost, LogoutPath, "tok", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Same(t, claims, us.loggedOut)

	us.logoutErr = errors.New("redis down")
	rec = do(t, h, http.MethodPost, LogoutPath, "tok", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestServer(&fakeUsers{}).Router()

	rec := do(t, h, http.MethodGet, HealthPath, "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = do(t, h, http.MethodGet, MetricsPath, "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `medinvest_auth_http_requests_total{method="GET",path="/health",status="200"} 1`)
}

func TestWrongMethod(t *testing.T) {
	rec := do(t, newTestServer(&fakeUsers{}).Router(), http.MethodGet, LoginPath, "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServe_GracefulShutdown(t *testing.T) {
	listen, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- newTestServer(&fakeUsers{}).Serve(ctx, listen) }()

	url := "http://" + listen.Addr().String() + HealthPath
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRequestID(t *testing.T) {
	h := newTestServer(&fakeUsers{}).Router()

	rec := do(t, h, http.MethodGet, HealthPath, "", "")
	assert.Len(t, rec.Header().Get(RequestIDHeader), 16)

	req := httptest.NewRequest(http.MethodGet, HealthPath, nil)
	req.Header.Set(RequestIDHeader, "abc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get(RequestIDHeader))
}
