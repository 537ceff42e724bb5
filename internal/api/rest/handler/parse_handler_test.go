package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/retailops/order-intake/internal/extractor"
	"github.com/retailops/order-intake/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockParseService struct {
	mock.Mock
}

func (m *mockParseService) Parse(ctx context.Context, text, matcher, lang string) (extractor.Parsed, *extractor.Match, error) {
	args := m.Called(ctx, text, matcher, lang)
	var parsed extractor.Parsed
	if args.Get(0) != nil {
		parsed = args.Get(0).(extractor.Parsed)
	}
	var match *extractor.Match
	if args.Get(1) != nil {
		match = args.Get(1).(*extractor.Match)
	}
	return parsed, match, args.Error(2)
}

func TestParseHandler_Parse(t *testing.T) {
	testCases := map[string]struct {
		body           any
		rawBody        string
		mockParsed     extractor.Parsed
		mockMatch      *extractor.Match
		mockError      error
		expectMockCall bool
		expectedStatus int
		expectedMatch  map[string]any
	}{
		"should return the match for recognised text": {
			body:           map[string]any{"text": "Order OS-1234 confirmed", "matcher": "hybrid", "lang": "en"},
			mockParsed:     extractor.Parsed{"raw_preview": "Order OS-1234 confirmed", "matcher": "hybrid", "lang": "en"},
			mockMatch:      &extractor.Match{OrderCode: "OS-1234", Reason: extractor.ReasonPattern},
			expectMockCall: true,
			expectedStatus: http.StatusOK,
			expectedMatch:  map[string]any{"order_code": "OS-1234", "reason": "regex-match"},
		},

		"should return a null match for unrecognised text": {
			body:           map[string]any{"text": "no code here"},
			mockParsed:     extractor.Parsed{"raw_preview": "no code here", "matcher": "hybrid", "lang": "en"},
			expectMockCall: true,
			expectedStatus: http.StatusOK,
			expectedMatch:  nil,
		},

		"should reject a malformed body": {
			rawBody:        "{not json",
			expectedStatus: http.StatusBadRequest,
		},

		"should map an unsupported lang to bad request": {
			body:           map[string]any{"text": "hello", "lang": "fr"},
			mockError:      &service.ValidationError{Field: "lang", Reason: "must be one of: en, ms"},
			expectMockCall: true,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			svc := &mockParseService{}
			if tc.expectMockCall {
				svc.On("Parse", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("string"), mock.AnythingOfType("string")).
					Return(tc.mockParsed, tc.mockMatch, tc.mockError)
			}

			var req *http.Request
			if tc.rawBody != "" {
				req = httptest.NewRequest(http.MethodPost, "/parse", bytes.NewBufferString(tc.rawBody))
			} else {
				req = httptest.NewRequest(http.MethodPost, "/parse", jsonBody(t, tc.body))
			}
			recorder := httptest.NewRecorder()

			NewParseHandler(svc, testLogger()).Parse(recorder, req)

			assert.Equal(t, tc.expectedStatus, recorder.Code)
			if tc.expectedStatus == http.StatusOK {
				var resp map[string]any
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
				assert.Contains(t, resp, "parsed")
				if tc.expectedMatch == nil {
					assert.Nil(t, resp["match"])
				} else {
					assert.Equal(t, tc.expectedMatch, resp["match"])
				}
			}
			svc.AssertExpectations(t)
		})
	}
}
