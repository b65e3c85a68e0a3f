// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/config"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/constants"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/flash"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/metrics"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/sec"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/users/account"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/users/auth"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/web"
)

type stubResolver struct {
	identity *sec.Identity
}

func (resolver stubResolver) Identify(http.ResponseWriter, *http.Request) (*sec.Identity, string) {
	if resolver.identity == nil {
		return nil, string(auth.StateAnonymous)
	}
	return resolver.identity, string(auth.StateSessionAuthenticated)
}

func newTestRouter(t *testing.T, identity *sec.Identity) http.Handler {
	t.Helper()

	renderer, err := web.NewTemplateRenderer()
	require.NoError(t, err)

	flashes := flash.NewStore(false)
	registry := metrics.NewRegistry()
	cookies := auth.NewCookies(sec.NewCookieSigner(strings.Repeat("s", 32)), false, time.Hour, time.Hour)
	liveness, readiness := NewHealthHandlers(HealthDependencies{}, discardLogger())

	return NewRouter(
		&config.Config{ServerPort: "0", Environment: "development"},
		discardLogger(),
		Dependencies{
			Resolver: stubResolver{identity: identity},
			Renderer: renderer,
			Flashes:  flashes,
			Metrics:  metrics.NewMetrics(registry),
		},
		Handlers{
			Liveness:  liveness,
			Readiness: readiness,
			Metrics:   metrics.Handler(registry),
			Auth:      auth.NewHandler(nil, renderer, flashes, cookies, nil),
			Account:   account.NewHandler(nil, renderer, flashes),
		},
	)
}

func serve(router http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, nil)
	for key, value := range headers {
		request.Header.Set(key, value)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

/*
TestRouter_NotFound ignores browser probes and renders everything else.
*/
func TestRouter_NotFound(t *testing.T) {
	router := newTestRouter(t, nil)

	for _, path := range []string{"/favicon.ico", "/robots.txt", "/.well-known/appspecific/com.chrome.devtools.json"} {
		assert.Equal(t, http.StatusNoContent, serve(router, http.MethodGet, path, nil).Code, path)
	}

	page := serve(router, http.MethodGet, "/suppliers/unknown", nil)
	assert.Equal(t, http.StatusNotFound, page.Code)
	assert.Contains(t, page.Header().Get("Content-Type"), "text/html")

	api := serve(router, http.MethodGet, "/suppliers/unknown", map[string]string{constants.HeaderAccept: "application/json"})
	assert.Equal(t, http.StatusNotFound, api.Code)
	assert.Contains(t, api.Body.String(), `"code":"NOT_FOUND"`)
}

/*
TestRouter_Home shows the resolved identity.
*/
func TestRouter_Home(t *testing.T) {
	anonymous := serve(newTestRouter(t, nil), http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, anonymous.Code)
	assert.Contains(t, anonymous.Body.String(), "Log in")
	assert.Equal(t, "nosniff", anonymous.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, anonymous.Header().Get(constants.HeaderXRequestID))

	alice := &sec.Identity{UserID: "user-1", Username: "alice", Email: "alice@example.com", Role: sec.RoleUser}
	signedIn := serve(newTestRouter(t, alice), http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, signedIn.Code)
	assert.Contains(t, signedIn.Body.String(), "alice@example.com")
}

/*
TestRouter_AdminGuard keeps non-admins away from account management.
*/
func TestRouter_AdminGuard(t *testing.T) {
	path := "/admin/users/0190a000-0000-7000-8000-000000000001/deactivate"

	anonymous := serve(newTestRouter(t, nil), http.MethodPost, path, nil)
	assert.Equal(t, http.StatusFound, anonymous.Code)
	assert.Equal(t, constants.PathLogin, anonymous.Header().Get("Location"))

	user := &sec.Identity{UserID: "user-1", Username: "alice", Role: sec.RoleUser}
	forbidden := serve(newTestRouter(t, user), http.MethodPost, path, map[string]string{
		constants.HeaderXRequestedWith: "XMLHttpRequest",
	})
	assert.Equal(t, http.StatusForbidden, forbidden.Code)
}

/*
TestRouter_Infrastructure serves the probes and the metrics endpoint.
*/
func TestRouter_Infrastructure(t *testing.T) {
	router := newTestRouter(t, nil)

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/health", nil).Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/ready", nil).Code)

	// Resolve one request so the counter has a sample.
	serve(router, http.MethodGet, "/", nil)

	scrape := serve(router, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, scrape.Code)
	assert.Contains(t, scrape.Body.String(), `auth_session_resolutions_total{state="anonymous"}`)
}
