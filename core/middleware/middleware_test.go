package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"guidia-api/core/constants"
	"guidia-api/core/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type fakeCache struct {
	blacklist map[string]time.Duration
}

func newFakeCache() *fakeCache {
	return &fakeCache{blacklist: map[string]time.Duration{}}
}

func (f *fakeCache) IsTokenBlacklisted(_ context.Context, token string) (bool, error) {
	_, ok := f.blacklist[token]
	return ok, nil
}

func (f *fakeCache) BlacklistToken(_ context.Context, token string, ttl time.Duration) error {
	f.blacklist[token] = ttl
	return nil
}

func (f *fakeCache) GetUnreadCount(context.Context, string) (int, bool, error) {
	return 0, false, nil
}

func (f *fakeCache) SetUnreadCount(context.Context, string, int) error { return nil }

func (f *fakeCache) InvalidateUnreadCount(context.Context, string) error { return nil }

func (f *fakeCache) Ping(context.Context) error { return nil }

func (f *fakeCache) Close() error { return nil }

func newLogoutContext(e *echo.Echo, token string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/private/auth/logout", nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestLogoutBlacklistsToken(t *testing.T) {
	cache := newFakeCache()
	mw := New(cache)
	e := echo.New()

	c, rec := newLogoutContext(e, "session-token")
	c.Set(constants.ContextTokenData, &utils.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(30 * time.Minute)),
		},
	})

	if err := mw.Logout(c); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	ttl, ok := cache.blacklist["session-token"]
	if !ok {
		t.Fatal("token not blacklisted")
	}
	if ttl <= 0 || ttl > 30*time.Minute {
		t.Errorf("blacklist ttl = %v, want within the token's remaining lifetime", ttl)
	}
}

func TestLogoutWithoutBearer(t *testing.T) {
	mw := New(newFakeCache())
	e := echo.New()

	c, _ := newLogoutContext(e, "")
	err := mw.Logout(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("error = %v, want 401", err)
	}
}

func TestAuthMiddlewareRejectsBlacklistedToken(t *testing.T) {
	cache := newFakeCache()
	cache.blacklist["revoked"] = time.Minute
	mw := New(cache)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/private/meetings", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer revoked")
	c := e.NewContext(req, httptest.NewRecorder())

	called := false
	err := mw.AuthMiddleware()(func(echo.Context) error {
		called = true
		return nil
	})(c)

	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("error = %v, want 401", err)
	}
	if called {
		t.Error("handler ran for a blacklisted token")
	}
}
