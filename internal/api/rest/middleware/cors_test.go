package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORSMiddleware_Handler(t *testing.T) {
	testCases := map[string]struct {
		config           CORSConfig
		method           string
		origin           string
		requestMethod    string
		requestHeaders   string
		expectedStatus   int
		expectedOrigin   string
		expectedHeaders  string
		expectCredential bool
	}{
		"should allow a listed origin": {
			config:           CORSConfig{Origins: []string{"http://localhost:3000"}},
			method:           http.MethodGet,
			origin:           "http://localhost:3000",
			expectedStatus:   http.StatusOK,
			expectedOrigin:   "http://localhost:3000",
			expectCredential: true,
		},

		"should allow a pattern-matched origin": {
			config:           CORSConfig{Origins: []string{"http://localhost:3000"}, OriginPattern: `^https://.*\.example\.com$`},
			method:           http.MethodGet,
			origin:           "https://app.example.com",
			expectedStatus:   http.StatusOK,
			expectedOrigin:   "https://app.example.com",
			expectCredential: true,
		},

		"should not decorate a disallowed origin": {
			config:         CORSConfig{Origins: []string{"http://localhost:3000"}},
			method:         http.MethodGet,
			origin:         "https://evil.example.net",
			expectedStatus: http.StatusOK,
			expectedOrigin: "",
		},

		"should answer preflight for an allowed origin": {
			config:           CORSConfig{Origins: []string{"http://localhost:3000"}},
			method:           http.MethodOptions,
			origin:           "http://localhost:3000",
			requestMethod:    http.MethodPost,
			requestHeaders:   "Content-Type",
			expectedStatus:   http.StatusNoContent,
			expectedOrigin:   "http://localhost:3000",
			expectedHeaders:  "Content-Type",
			expectCredential: true,
		},

		"should pass same-origin requests through untouched": {
			config:         CORSConfig{Origins: []string{"http://localhost:3000"}},
			method:         http.MethodGet,
			origin:         "",
			expectedStatus: http.StatusOK,
			expectedOrigin: "",
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			m, err := NewCORSMiddleware(tc.config)
			require.NoError(t, err)

			req := httptest.NewRequest(tc.method, "/health", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			if tc.requestMethod != "" {
				req.Header.Set("Access-Control-Request-Method", tc.requestMethod)
			}
			if tc.requestHeaders != "" {
				req.Header.Set("Access-Control-Request-Headers", tc.requestHeaders)
			}
			recorder := httptest.NewRecorder()

			m.Handler(okHandler()).ServeHTTP(recorder, req)

			assert.Equal(t, tc.expectedStatus, recorder.Code)
			assert.Equal(t, tc.expectedOrigin, recorder.Header().Get("Access-Control-Allow-Origin"))
			if tc.expectCredential {
				assert.Equal(t, "true", recorder.Header().Get("Access-Control-Allow-Credentials"))
			} else {
				assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Credentials"))
			}
			if tc.expectedHeaders != "" {
				assert.Equal(t, tc.expectedHeaders, recorder.Header().Get("Access-Control-Allow-Headers"))
			}
		})
	}
}

func TestNewCORSMiddleware_InvalidPattern(t *testing.T) {
	_, err := NewCORSMiddleware(CORSConfig{OriginPattern: "("})

	assert.ErrorContains(t, err, "compile origin pattern")
}
