package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/profiledash/internal/account"
	"github.com/dmitrijs2005/profiledash/internal/logging"
	"github.com/dmitrijs2005/profiledash/internal/server/accounts"
	"github.com/dmitrijs2005/profiledash/internal/server/throttle"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, limiter *throttle.PeerLimiter) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := accounts.NewService(accounts.NewMemoryRepository(), nil, "test-secret", time.Hour, nil)
	return NewRouter(Deps{Accounts: svc, Limiter: limiter, Logger: logging.Nop{}})
}

func do(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func login(t *testing.T, r http.Handler, email, password string) string {
	t.Helper()
	w := do(t, r, http.MethodPost, "/v1/auth/login", "", loginRequest{Email: email, Password: password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res loginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res.Token
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, nil)
	w := do(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestLoginProfileLogout(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(t, r, http.MethodPost, "/v1/auth/login", "", loginRequest{Email: "admin@example.com", Password: "admin123"})
	require.Equal(t, http.StatusOK, w.Code)

	var res loginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, account.Summary{ID: 1, Email: "admin@example.com", Name: "Admin User", Role: account.RoleAdmin}, res.User)
	require.NotEmpty(t, res.Token)

	w = do(t, r, http.MethodGet, "/v1/profile", res.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var p account.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, "San Francisco, CA", p.Location)

	w = do(t, r, http.MethodPut, "/v1/profile", res.Token, account.ProfilePatch{FullName: "Ada", Email: "admin@example.com", Bio: "new"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, "Ada", p.Name)
	assert.Equal(t, "new", p.Bio)

	w = do(t, r, http.MethodPost, "/v1/auth/logout", res.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/v1/profile", res.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "No token found", errorOf(t, w))
}

func TestLogin_Errors(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(t, r, http.MethodPost, "/v1/auth/login", "", loginRequest{Email: "admin@example.com", Password: "bad"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", errorOf(t, w))

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProtected_RequiresToken(t *testing.T) {
	r := newTestRouter(t, nil)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/v1/profile"},
		{http.MethodPut, "/v1/profile"},
		{http.MethodPost, "/v1/auth/logout"},
	} {
		w := do(t, r, tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, tc.path)
		assert.Equal(t, "No token found", errorOf(t, w))
	}
}

func TestUpdateProfile_Invalid(t *testing.T) {
	r := newTestRouter(t, nil)
	token := login(t, r, "user@example.com", "user123")

	w := do(t, r, http.MethodPut, "/v1/profile", token, account.ProfilePatch{FullName: "", Email: "user@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Full name is required", errorOf(t, w))
}

func TestLogin_Throttled(t *testing.T) {
	r := newTestRouter(t, throttle.NewPeerLimiter(1))

	login(t, r, "user@example.com", "user123")

	w := do(t, r, http.MethodPost, "/v1/auth/login", "", loginRequest{Email: "user@example.com", Password: "user123"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, throttle.MsgTooManyAttempts, errorOf(t, w))
}

type failingAccounts struct {
	accountService
}

func (failingAccounts) ResolveToken(context.Context, string) (int64, error) { return 5, nil }
func (failingAccounts) Profile(context.Context, int64) (account.Profile, error) {
	return account.Profile{}, errors.New("db down")
}

func TestFail_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(Deps{Accounts: failingAccounts{}})

	w := do(t, r, http.MethodGet, "/v1/profile", "tok", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", errorOf(t, w))
}

type missingAccount struct {
	accountService
}

func (missingAccount) ResolveToken(context.Context, string) (int64, error) { return 5, nil }
func (missingAccount) Profile(context.Context, int64) (account.Profile, error) {
	return account.Profile{}, account.ErrAccountNotFound
}

func TestFail_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(Deps{Accounts: missingAccount{}})

	w := do(t, r, http.MethodGet, "/v1/profile", "tok", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", errorOf(t, w))
}

func TestServer_RunAndShutdown(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := lis.Addr().String()
	require.NoError(t, lis.Close())

	gin.SetMode(gin.TestMode)
	s := NewServer(addr, Deps{Accounts: missingAccount{}})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_BadAddress(t *testing.T) {
	s := NewServer("127.0.0.1:99999", Deps{Accounts: missingAccount{}})
	assert.Error(t, s.Run(context.Background()))
}
