package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func sign(t *testing.T, key []byte, c jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(key)
	require.NoError(t, err)
	return s
}

func serve(m *Middleware, r *http.Request) (*httptest.ResponseRecorder, User) {
	var seen User
	h := m.Middleware()(m.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = m.GetUser(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec, seen
}

func withBearer(tok string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/v1/schemes", nil)
	r.Header.Set("Authorization", "Bearer "+tok)
	return r
}

func TestRequire_ValidToken(t *testing.T) {
	m := New(Config{Secret: secret, Issuer: "ops", Audience: "admin"}, nil)
	tok := sign(t, secret, jwt.MapClaims{
		"sub": "alice", "iss": "ops", "aud": "admin", "role": "operator",
		"exp": time.Now().Add(time.Minute).Unix(),
	})

	rec, u := serve(m, withBearer(tok))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "operator", u.Role.Name)
	assert.Equal(t, "bearer", u.AuthenticationSource.Provider)
}

func TestRequire_Rejections(t *testing.T) {
	m := New(Config{Secret: secret, Issuer: "ops"}, nil)
	future := time.Now().Add(time.Minute).Unix()

	cases := map[string]*http.Request{
		"missing":      httptest.NewRequest(http.MethodGet, "/", nil),
		"wrong key":    withBearer(sign(t, []byte("other"), jwt.MapClaims{"sub": "a", "iss": "ops", "exp": future})),
		"wrong issuer": withBearer(sign(t, secret, jwt.MapClaims{"sub": "a", "iss": "evil", "exp": future})),
		"expired":      withBearer(sign(t, secret, jwt.MapClaims{"sub": "a", "iss": "ops", "exp": time.Now().Add(-time.Hour).Unix()})),
		"no subject":   withBearer(sign(t, secret, jwt.MapClaims{"iss": "ops", "exp": future})),
		"garbage":      withBearer("not.a.jwt"),
	}
	for name, r := range cases {
		t.Run(name, func(t *testing.T) {
			rec, _ := serve(m, r)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequire_AdminRole(t *testing.T) {
	m := New(Config{Secret: secret, AdminRole: "admin"}, nil)
	future := time.Now().Add(time.Minute).Unix()

	rec, _ := serve(m, withBearer(sign(t, secret, jwt.MapClaims{"sub": "bob", "role": "viewer", "exp": future})))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = serve(m, withBearer(sign(t, secret, jwt.MapClaims{"sub": "bob", "roles": []string{"admin"}, "exp": future})))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequire_DisabledPassesThrough(t *testing.T) {
	m := New(Config{}, nil)
	assert.False(t, m.Enabled())

	rec, u := serve(m, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, u.Username)
}

func TestDevBypass(t *testing.T) {
	m := New(Config{DevBypass: true}, nil)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Dev-User", "dev")
	rec, u := serve(m, r)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "dev", u.AuthenticationSource.Provider)

	rec, _ = serve(m, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProvideAuthentication_Env(t *testing.T) {
	t.Setenv("ADMIN_JWT_SECRET", "s")
	t.Setenv("ADMIN_JWT_ISSUER", " ops ")
	t.Setenv("ADMIN_JWT_LEEWAY_SECONDS", "5")

	m := ProvideAuthentication(nil)
	assert.True(t, m.Enabled())
	assert.Equal(t, "ops", m.cfg.Issuer)
	assert.Equal(t, 5*time.Second, m.cfg.Leeway)
}
