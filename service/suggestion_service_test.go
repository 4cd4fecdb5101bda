package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"bailbridge-backend/gemini"
	"bailbridge-backend/models"
	"bailbridge-backend/prompt"
	"bailbridge-backend/storage"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLoader struct {
	lines  []string
	err    error
	origin string
}

func (l *stubLoader) Load(_ context.Context, origin string) ([]string, error) {
	l.origin = origin
	return l.lines, l.err
}

type stubGenerator struct {
	resp   *gemini.Response
	err    error
	prompt string
	calls  int
}

func (g *stubGenerator) GenerateContent(_ context.Context, p string) (*gemini.Response, error) {
	g.calls++
	g.prompt = p
	return g.resp, g.err
}

func textResponse(s string) *gemini.Response {
	return &gemini.Response{Candidates: []gemini.Candidate{{
		Content: &gemini.Content{Parts: []gemini.Part{{Text: s}}},
	}}}
}

func sampleFacts() models.CaseFacts {
	return models.CaseFacts{
		Name:             "Ravi Kumar",
		Age:              28,
		Gender:           "Male",
		OffenseType:      "Theft",
		SectionNumber:    "303",
		PriorConvictions: false,
		EmploymentStatus: "Employed",
		FamilyTies:       "Strong",
		CriminalHistory:  "None",
	}
}

func matchingLines(n int) []string {
	lines := []string{"section,offense,punishment"}
	for i := 0; i < n; i++ {
		lines = append(lines, "303,Theft,row")
	}
	return append(lines, "101,Murder,death")
}

func TestSuggest_Success(t *testing.T) {
	start := time.Now()
	loader := &stubLoader{lines: matchingLines(2)}
	gen := &stubGenerator{resp: textResponse("Bail likely granted. 80%")}

	svc := NewSuggestionService(SuggestWithReferenceLoader(loader), SuggestWithGenerator(gen))
	res, err := svc.Suggest(context.Background(), SuggestRequest{Facts: sampleFacts(), Origin: "http://localhost:3000"})
	require.NoError(t, err)

	assert.Equal(t, "Bail likely granted. 80%", res.Suggestion)
	assert.False(t, res.UsedFallback)
	assert.Equal(t, 2, res.MatchedRows)
	assert.False(t, res.Timestamp.Before(start))
	assert.Equal(t, "http://localhost:3000", loader.origin)
	assert.Equal(t, 1, gen.calls)
	assert.Contains(t, gen.prompt, "- Name: Ravi Kumar")
	assert.Contains(t, gen.prompt, "303,Theft,row")
	assert.NotContains(t, gen.prompt, "101,Murder,death")
}

func TestSuggest_FallbackWhenNoCandidate(t *testing.T) {
	gen := &stubGenerator{resp: &gemini.Response{}}
	svc := NewSuggestionService(SuggestWithReferenceLoader(&stubLoader{lines: matchingLines(1)}), SuggestWithGenerator(gen))

	res, err := svc.Suggest(context.Background(), SuggestRequest{Facts: sampleFacts()})
	require.NoError(t, err)
	assert.Equal(t, models.FallbackSuggestion, res.Suggestion)
	assert.True(t, res.UsedFallback)
}

func TestSuggest_FallbackWhenResponseNil(t *testing.T) {
	gen := &stubGenerator{}
	svc := NewSuggestionService(SuggestWithReferenceLoader(&stubLoader{}), SuggestWithGenerator(gen))

	res, err := svc.Suggest(context.Background(), SuggestRequest{Facts: sampleFacts()})
	require.NoError(t, err)
	assert.Equal(t, models.FallbackSuggestion, res.Suggestion)
}

func TestSuggest_GeneratorErrorPassesThrough(t *testing.T) {
	upstream := &gemini.APIError{StatusCode: http.StatusTooManyRequests, Message: "Resource has been exhausted"}
	gen := &stubGenerator{err: upstream}
	svc := NewSuggestionService(SuggestWithReferenceLoader(&stubLoader{lines: matchingLines(1)}), SuggestWithGenerator(gen))

	res, err := svc.Suggest(context.Background(), SuggestRequest{Facts: sampleFacts()})
	assert.Nil(t, res)

	var apiErr *gemini.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Equal(t, "Resource has been exhausted", apiErr.Message)
}

func TestSuggest_ReferenceFailure(t *testing.T) {
	gen := &stubGenerator{resp: textResponse("unused")}
	loader := &stubLoader{err: errors.New("fetch dataset: status 404")}
	svc := NewSuggestionService(SuggestWithReferenceLoader(loader), SuggestWithGenerator(gen))

	_, err := svc.Suggest(context.Background(), SuggestRequest{Facts: sampleFacts()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrReferenceUnavailable))
	assert.Contains(t, err.Error(), "status 404")
	assert.Equal(t, 0, gen.calls)
}

func TestSuggest_ReferenceFailureKeepsCause(t *testing.T) {
	gen := &stubGenerator{resp: textResponse("unused")}
	loader := &stubLoader{err: eris.Wrap(storage.ErrObjectNotFound, "storage reference loader: download")}
	svc := NewSuggestionService(SuggestWithReferenceLoader(loader), SuggestWithGenerator(gen))

	_, err := svc.Suggest(context.Background(), SuggestRequest{Facts: sampleFacts()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrReferenceUnavailable))
	assert.True(t, errors.Is(err, storage.ErrObjectNotFound))
	assert.True(t, strings.HasPrefix(err.Error(), ErrReferenceUnavailable.Error()), err.Error())
}

func TestSuggest_GeneratorNotSet(t *testing.T) {
	svc := NewSuggestionService()
	_, err := svc.Suggest(context.Background(), SuggestRequest{Facts: sampleFacts()})
	assert.True(t, errors.Is(err, ErrGeneratorNotSet))
}

func TestSuggest_MatchLimitFollowsRevision(t *testing.T) {
	tests := []struct {
		rev  prompt.Revision
		want int
	}{
		{prompt.RevisionShort, 5},
		{prompt.RevisionDetailed, 10},
	}

	for _, tt := range tests {
		t.Run(string(tt.rev), func(t *testing.T) {
			gen := &stubGenerator{resp: textResponse("ok")}
			svc := NewSuggestionService(
				SuggestWithReferenceLoader(&stubLoader{lines: matchingLines(20)}),
				SuggestWithGenerator(gen),
				SuggestWithRevision(tt.rev),
			)

			res, err := svc.Suggest(context.Background(), SuggestRequest{Facts: sampleFacts()})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.MatchedRows)
			assert.Equal(t, tt.want, strings.Count(gen.prompt, "303,Theft,row"))
		})
	}
}

func TestSuggest_UsesClock(t *testing.T) {
	fixed := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	svc := NewSuggestionService(
		SuggestWithReferenceLoader(&stubLoader{}),
		SuggestWithGenerator(&stubGenerator{resp: textResponse("ok")}),
		SuggestWithClock(func() time.Time { return fixed }),
	)

	res, err := svc.Suggest(context.Background(), SuggestRequest{Facts: sampleFacts()})
	require.NoError(t, err)
	assert.Equal(t, fixed, res.Timestamp)
}

func TestSuggest_DefaultsToEmbeddedDataset(t *testing.T) {
	gen := &stubGenerator{resp: textResponse("ok")}
	svc := NewSuggestionService(SuggestWithGenerator(gen))

	res, err := svc.Suggest(context.Background(), SuggestRequest{Facts: sampleFacts()})
	require.NoError(t, err)
	assert.Equal(t, prompt.RevisionShort, svc.Revision())
	assert.Greater(t, res.MatchedRows, 0)
}
