package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLocales() Locales {
	return Locales{
		Supported: []string{"en", "fr"},
		Default:   "en",
		Bypass:    []string{"/admin", "/api", "/_next", "/static", "/favicon.ico", "/maintenance"},
	}
}

func serveLocalized(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rr := httptest.NewRecorder()
	Localize(testLocales())(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	return rr
}

func TestLocalize_UnprefixedPath_Redirects(t *testing.T) {
	rr := serveLocalized(t, "/dashboard/transfers")
	require.Equal(t, http.StatusTemporaryRedirect, rr.Code)
	assert.Equal(t, "/en/dashboard/transfers", rr.Header().Get("Location"))
}

func TestLocalize_Root_RedirectsToDefaultLocale(t *testing.T) {
	rr := serveLocalized(t, "/")
	require.Equal(t, http.StatusTemporaryRedirect, rr.Code)
	assert.Equal(t, "/en", rr.Header().Get("Location"))
}

func TestLocalize_QueryStringPreserved(t *testing.T) {
	rr := serveLocalized(t, "/cards?sort=expiry&page=2")
	require.Equal(t, http.StatusTemporaryRedirect, rr.Code)
	assert.Equal(t, "/en/cards?sort=expiry&page=2", rr.Header().Get("Location"))
}

func TestLocalize_AlreadyPrefixed_PassesThrough(t *testing.T) {
	// Every supported locale passes, not only the default.
	for _, target := range []string{"/en/dashboard", "/fr/dashboard", "/en", "/fr"} {
		rr := serveLocalized(t, target)
		assert.Equal(t, http.StatusOK, rr.Code, target)
	}
}

func TestLocalize_BypassPrefixes_PassThrough(t *testing.T) {
	for _, target := range []string{"/admin/kyc", "/api/users", "/_next/chunk.js", "/favicon.ico", "/maintenance"} {
		rr := serveLocalized(t, target)
		assert.Equal(t, http.StatusOK, rr.Code, target)
	}
}

func TestLocalize_UnsupportedLocaleSegment_TreatedAsUnprefixed(t *testing.T) {
	rr := serveLocalized(t, "/de/dashboard")
	require.Equal(t, http.StatusTemporaryRedirect, rr.Code)
	assert.Equal(t, "/en/de/dashboard", rr.Header().Get("Location"))
}

func TestLocalize_CaseSensitive(t *testing.T) {
	rr := serveLocalized(t, "/EN/dashboard")
	require.Equal(t, http.StatusTemporaryRedirect, rr.Code)
	assert.Equal(t, "/en/EN/dashboard", rr.Header().Get("Location"))
}

func TestLocalize_PrefixAnchoredAtStart(t *testing.T) {
	// A locale segment in the middle of the path does not count.
	rr := serveLocalized(t, "/docs/en/guide")
	require.Equal(t, http.StatusTemporaryRedirect, rr.Code)
	assert.Equal(t, "/en/docs/en/guide", rr.Header().Get("Location"))
}

func TestMaintenance_RewritesNonExemptPaths(t *testing.T) {
	var gotPath string
	capture := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/en/dashboard", nil)
	rr := httptest.NewRecorder()
	Maintenance("/maintenance", []string{"/_next", "/static"})(capture).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "/maintenance", gotPath)
}

func TestMaintenance_BypassAndSelfUntouched(t *testing.T) {
	mw := Maintenance("/maintenance", []string{"/_next", "/static"})
	for _, target := range []string{"/maintenance", "/_next/app.js", "/static/logo.svg"} {
		var gotPath string
		capture := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			w.WriteHeader(http.StatusOK)
		})
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rr := httptest.NewRecorder()
		mw(capture).ServeHTTP(rr, req)
		assert.Equal(t, target, gotPath)
	}
}
