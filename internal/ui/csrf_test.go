package ui

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noContent() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestCSRFMiddleware_RejectsMissingToken(t *testing.T) {
	h := &Handler{}

	r := httptest.NewRequest(http.MethodPost, "/ui/redeploy", strings.NewReader("id=x"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()

	h.RequireCSRF(noContent()).ServeHTTP(rr, r)
	require.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "Missing CSRF token cookie.")
}

func TestCSRFMiddleware_RejectsMismatchedToken(t *testing.T) {
	h := &Handler{}

	form := url.Values{}
	form.Set("csrf_token", "other")
	r := httptest.NewRequest(http.MethodPost, "/ui/chat", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "abc123"})
	rr := httptest.NewRecorder()

	h.RequireCSRF(noContent()).ServeHTTP(rr, r)
	require.Equal(t, http.StatusForbidden, rr.Code)
}

func TestCSRFMiddleware_AllowsMatchingToken(t *testing.T) {
	h := &Handler{}

	form := url.Values{}
	form.Set("csrf_token", "abc123")
	r := httptest.NewRequest(http.MethodPost, "/ui/chat", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "abc123"})
	rr := httptest.NewRecorder()

	h.RequireCSRF(noContent()).ServeHTTP(rr, r)
	require.Equal(t, http.StatusNoContent, rr.Code)
}

func TestCSRFMiddleware_AllowsHeaderToken(t *testing.T) {
	h := &Handler{}

	r := httptest.NewRequest(http.MethodPost, "/ui/sql/run", nil)
	r.Header.Set("X-CSRF-Token", "abc123")
	r.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "abc123"})
	rr := httptest.NewRecorder()

	h.RequireCSRF(noContent()).ServeHTTP(rr, r)
	require.Equal(t, http.StatusNoContent, rr.Code)
}

func TestCSRFMiddleware_SafeMethodsPass(t *testing.T) {
	h := &Handler{}
	r := httptest.NewRequest(http.MethodGet, "/ui", nil)
	rr := httptest.NewRecorder()

	h.RequireCSRF(noContent()).ServeHTTP(rr, r)
	require.Equal(t, http.StatusNoContent, rr.Code)
}

func TestEnsureCSRFToken_SetsCookieWhenMissing(t *testing.T) {
	h := &Handler{Production: true}

	r := httptest.NewRequest(http.MethodGet, "/ui", nil)
	rr := httptest.NewRecorder()
	h.EnsureCSRFToken(noContent()).ServeHTTP(rr, r)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, csrfCookieName, cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
}

func TestEnsureCSRFToken_KeepsExistingCookie(t *testing.T) {
	h := &Handler{}
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sb strings.Builder
		require.NoError(t, csrfField(r).Render(&sb))
		seen = sb.String()
		w.WriteHeader(http.StatusNoContent)
	})

	r := httptest.NewRequest(http.MethodGet, "/ui", nil)
	r.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "existing"})
	rr := httptest.NewRecorder()
	h.EnsureCSRFToken(next).ServeHTTP(rr, r)

	assert.Empty(t, rr.Result().Cookies())
	assert.Contains(t, seen, `value="existing"`)
}
