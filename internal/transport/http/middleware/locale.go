package middleware

import (
	"net/http"
	"strings"
)

// Locales is the locale-routing configuration. It is injected explicitly so
// the classifier stays a pure function testable without process-wide state.
type Locales struct {
	Supported []string // ordered; first match wins
	Default   string   // used when the path carries no supported locale
	Bypass    []string // path prefixes exempt from redirection
}

// routeAction is the classification outcome for one request path.
type routeAction int

const (
	actionPass routeAction = iota
	actionRedirect
)

// classify decides what to do with a path. Matching is case-sensitive and
// anchored at the path start; a locale-looking segment outside Supported is
// treated as unprefixed.
func classify(path string, cfg Locales) (routeAction, string) {
	for _, prefix := range cfg.Bypass {
		if strings.HasPrefix(path, prefix) {
			return actionPass, ""
		}
	}
	for _, loc := range cfg.Supported {
		if path == "/"+loc || strings.HasPrefix(path, "/"+loc+"/") {
			return actionPass, ""
		}
	}
	if path == "/" {
		return actionRedirect, "/" + cfg.Default
	}
	return actionRedirect, "/" + cfg.Default + path
}

// Localize redirects any request whose path is neither bypassed nor already
// prefixed with a supported locale to the same path under the default
// locale. The redirect is observable by the client (307), never a silent
// rewrite, and the query string is preserved.
func Localize(cfg Locales) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			action, target := classify(r.URL.Path, cfg)
			if action == actionPass {
				next.ServeHTTP(w, r)
				return
			}
			if q := r.URL.RawQuery; q != "" {
				target += "?" + q
			}
			http.Redirect(w, r, target, http.StatusTemporaryRedirect)
		})
	}
}

// Maintenance rewrites every non-bypassed request internally to the
// maintenance page. This is the alternate operating mode of the edge
// router; it is never combined with Localize.
func Maintenance(page string, bypass []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != page {
				exempt := false
				for _, prefix := range bypass {
					if strings.HasPrefix(r.URL.Path, prefix) {
						exempt = true
						break
					}
				}
				if !exempt {
					r.URL.Path = page
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
