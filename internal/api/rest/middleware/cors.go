package middleware

import (
	"fmt"
	"net/http"
	"regexp"
	"slices"
)

// CORSMiddleware applies the cross-origin policy: an allow-list of origins,
// an optional origin-matching pattern, credentials allowed, all methods and
// headers allowed.
type CORSMiddleware struct {
	origins []string
	pattern *regexp.Regexp
}

// CORSConfig holds configuration for the CORS middleware
type CORSConfig struct {
	Origins       []string
	OriginPattern string // Optional: regexp matched against the Origin header
}

// NewCORSMiddleware creates a new CORS middleware
func NewCORSMiddleware(config CORSConfig) (*CORSMiddleware, error) {
	var pattern *regexp.Regexp
	if config.OriginPattern != "" {
		compiled, err := regexp.Compile(config.OriginPattern)
		if err != nil {
			return nil, fmt.Errorf("compile origin pattern: %w", err)
		}
		pattern = compiled
	}

	return &CORSMiddleware{
		origins: config.Origins,
		pattern: pattern,
	}, nil
}

// Handler returns an HTTP middleware function that applies the CORS policy
// and answers preflight requests.
func (m *CORSMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && m.allowed(origin) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Add("Vary", "Origin")

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				if requested := r.Header.Get("Access-Control-Request-Headers"); requested != "" {
					h.Set("Access-Control-Allow-Headers", requested)
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

func (m *CORSMiddleware) allowed(origin string) bool {
	if slices.Contains(m.origins, origin) {
		return true
	}
	return m.pattern != nil && m.pattern.MatchString(origin)
}
