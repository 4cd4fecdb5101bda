package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bailbridge-backend/gemini"
	"bailbridge-backend/models"
	"bailbridge-backend/reference"
	"bailbridge-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
	zap.ReplaceGlobals(zap.NewNop())
}

type stubSuggester struct {
	result *service.SuggestResult
	err    error
	got    service.SuggestRequest
	calls  int
}

func (s *stubSuggester) Suggest(_ context.Context, req service.SuggestRequest) (*service.SuggestResult, error) {
	s.calls++
	s.got = req
	return s.result, s.err
}

type stubGenerator struct {
	resp *gemini.Response
	err  error
}

func (g stubGenerator) GenerateContent(context.Context, string) (*gemini.Response, error) {
	return g.resp, g.err
}

const validBody = `{
	"name": "Ravi Kumar",
	"age": 28,
	"gender": "Male",
	"offenseType": "Theft",
	"sectionNumber": "303",
	"priorConvictions": false,
	"employmentStatus": "Employed",
	"familyTies": "Strong",
	"criminalHistory": "None"
}`

func postSuggestion(t *testing.T, r http.Handler, body string) (*httptest.ResponseRecorder, models.SuggestionEnvelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/ai-suggestion", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env models.SuggestionEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestSuggest_Success(t *testing.T) {
	at := time.Date(2025, 3, 4, 5, 6, 7, 890_000_000, time.UTC)
	s := &stubSuggester{result: &service.SuggestResult{Suggestion: "BAIL LIKELY GRANTED", Timestamp: at}}
	r := NewRouter(RouterConfig{Suggester: s})

	w, env := postSuggestion(t, r, validBody)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "BAIL LIKELY GRANTED", env.Suggestion)
	assert.Equal(t, "2025-03-04T05:06:07.890Z", env.Timestamp)
	assert.Empty(t, env.Error)

	assert.Equal(t, 1, s.calls)
	assert.Equal(t, "http://example.com", s.got.Origin)
	assert.Equal(t, "Ravi Kumar", s.got.Facts.Name)
	assert.False(t, s.got.Facts.PriorConvictions)
	assert.False(t, s.got.Facts.HasAdditionalDetails())
}

func TestSuggest_ForwardedProtoOrigin(t *testing.T) {
	s := &stubSuggester{result: &service.SuggestResult{Suggestion: "ok", Timestamp: time.Now()}}
	r := NewRouter(RouterConfig{Suggester: s})

	req := httptest.NewRequest(http.MethodPost, "/api/ai-suggestion", strings.NewReader(validBody))
	req.Host = "bailbridge.example"
	req.Header.Set("X-Forwarded-Proto", "https")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://bailbridge.example", s.got.Origin)
}

func TestSuggest_InvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "{"},
		{"missing prior convictions", strings.Replace(validBody, `"priorConvictions": false,`, "", 1)},
		{"zero age", strings.Replace(validBody, `"age": 28`, `"age": 0`, 1)},
		{"empty section", strings.Replace(validBody, `"sectionNumber": "303"`, `"sectionNumber": ""`, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &stubSuggester{}
			r := NewRouter(RouterConfig{Suggester: s})

			w, env := postSuggestion(t, r, tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.False(t, env.Success)
			assert.Equal(t, models.SuggestionFailureLabel, env.Error)
			assert.True(t, strings.HasPrefix(env.Message, "invalid request body: "), env.Message)
			assert.Equal(t, 0, s.calls)
		})
	}
}

func TestSuggest_UpstreamStatusPropagates(t *testing.T) {
	s := &stubSuggester{err: &gemini.APIError{StatusCode: http.StatusTooManyRequests, Message: "Resource has been exhausted"}}
	r := NewRouter(RouterConfig{Suggester: s})

	w, env := postSuggestion(t, r, validBody)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, models.SuggestionFailureLabel, env.Error)
	assert.Equal(t, "Resource has been exhausted", env.Message)
	assert.Empty(t, env.Suggestion)
}

func TestSuggest_TransportErrorIs500(t *testing.T) {
	s := &stubSuggester{err: &gemini.APIError{Message: "connection refused"}}
	r := NewRouter(RouterConfig{Suggester: s})

	w, env := postSuggestion(t, r, validBody)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, models.SuggestionFailureLabel, env.Error)
	assert.Equal(t, "connection refused", env.Message)
}

func TestSuggest_ReferenceErrorIs500(t *testing.T) {
	s := &stubSuggester{err: errors.New("reference dataset unavailable")}
	r := NewRouter(RouterConfig{Suggester: s})

	w, env := postSuggestion(t, r, validBody)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "reference dataset unavailable", env.Message)
}

func TestSuggest_EndToEndFallback(t *testing.T) {
	svc := service.NewSuggestionService(
		service.SuggestWithReferenceLoader(reference.EmbeddedLoader{}),
		service.SuggestWithGenerator(stubGenerator{resp: &gemini.Response{}}),
	)
	r := NewRouter(RouterConfig{Suggester: svc})
	start := time.Now()

	w, env := postSuggestion(t, r, validBody)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, models.FallbackSuggestion, env.Suggestion)

	ts, err := time.Parse(time.RFC3339Nano, env.Timestamp)
	require.NoError(t, err)
	assert.False(t, ts.Before(start.Truncate(time.Millisecond)))
}

func TestHealth(t *testing.T) {
	r := NewRouter(RouterConfig{Suggester: &stubSuggester{}})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestServeSampleDataset(t *testing.T) {
	r := NewRouter(RouterConfig{Suggester: &stubSuggester{}})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bns_sections.csv", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Equal(t, string(reference.SampleDataset()), w.Body.String())
}

func TestRequestID(t *testing.T) {
	r := NewRouter(RouterConfig{Suggester: &stubSuggester{}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestRateLimit(t *testing.T) {
	s := &stubSuggester{result: &service.SuggestResult{Suggestion: "ok", Timestamp: time.Now()}}
	r := NewRouter(RouterConfig{Suggester: s, RateLimitRPS: 0.001, RateLimitBurst: 1})

	w, _ := postSuggestion(t, r, validBody)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := postSuggestion(t, r, validBody)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, RateLimitedLabel, env.Error)
	assert.Equal(t, 1, s.calls)
}

func TestRateLimit_DisabledByDefault(t *testing.T) {
	s := &stubSuggester{result: &service.SuggestResult{Suggestion: "ok", Timestamp: time.Now()}}
	r := NewRouter(RouterConfig{Suggester: s})

	for i := 0; i < 10; i++ {
		w, _ := postSuggestion(t, r, validBody)
		require.Equal(t, http.StatusOK, w.Code)
	}
}

func TestCORS(t *testing.T) {
	r := NewRouter(RouterConfig{Suggester: &stubSuggester{}, CORSOrigins: []string{"http://localhost:3000"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/ai-suggestion", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PUT")

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
