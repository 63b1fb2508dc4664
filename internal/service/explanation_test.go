package service_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"quizdesk/internal/ai"
	"quizdesk/internal/domain"
	"quizdesk/internal/service"
	"quizdesk/internal/settings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAITestStore(t *testing.T, baseURL string) *settings.Store {
	t.Helper()
	store := newSettingsStore(t)
	doc, err := store.Get()
	require.NoError(t, err)
	doc.AIConfig.BaseURL = baseURL
	doc.AIConfig.APIKey = "sk-test"
	doc.AIConfig.Model = "test-model"
	_, err = store.Update(doc)
	require.NoError(t, err)
	return store
}

func TestExplainGeneratesAndCaches(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, `{"choices":[{"message":{"content":"## Correct Answer\nB."}}]}`)
	}))
	defer server.Close()

	store := newAITestStore(t, server.URL)
	svc := service.NewExplanationService(store, ai.NewClient(time.Second))

	result, err := svc.Explain(context.Background(), 7, "stem", "B")
	require.NoError(t, err)
	assert.Equal(t, "## Correct Answer\nB.", result.Content)
	assert.False(t, result.Cached)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	// Second request is served from the cache without touching upstream.
	result, err = svc.Explain(context.Background(), 7, "stem", "B")
	require.NoError(t, err)
	assert.Equal(t, "## Correct Answer\nB.", result.Content)
	assert.True(t, result.Cached)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestExplainDistinctQuestionsCachedSeparately(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		fmt.Fprintf(w, `{"choices":[{"message":{"content":"explanation %d"}}]}`, n)
	}))
	defer server.Close()

	store := newAITestStore(t, server.URL)
	svc := service.NewExplanationService(store, ai.NewClient(time.Second))

	first, err := svc.Explain(context.Background(), 1, "stem one", "A")
	require.NoError(t, err)
	second, err := svc.Explain(context.Background(), 2, "stem two", "B")
	require.NoError(t, err)

	assert.Equal(t, "explanation 1", first.Content)
	assert.Equal(t, "explanation 2", second.Content)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestExplainMissingAPIKey(t *testing.T) {
	store := newSettingsStore(t) // defaults: empty API key
	svc := service.NewExplanationService(store, ai.NewClient(time.Second))

	_, err := svc.Explain(context.Background(), 1, "stem", "A")
	require.Error(t, err)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrMissingAPIKey, domainErr.Code)
}

func TestExplainFailureIsNotCached(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"choices":[{"message":{"content":"recovered"}}]}`)
	}))
	defer server.Close()

	store := newAITestStore(t, server.URL)
	svc := service.NewExplanationService(store, ai.NewClient(time.Second))

	_, err := svc.Explain(context.Background(), 3, "stem", "A")
	require.Error(t, err)

	// The failed attempt left no cache entry, so a retry hits upstream.
	result, err := svc.Explain(context.Background(), 3, "stem", "A")
	require.NoError(t, err)
	assert.Equal(t, "recovered", result.Content)
	assert.False(t, result.Cached)
}

func TestExplainStreamForwardsChunksAndCaches(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "text/event-stream")
		for _, chunk := range []string{"Hello", " ", "world"} {
			fmt.Fprintf(w, "data: {\"choices\":[{\"delta\":{\"content\":%q}}]}\n\n", chunk)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	store := newAITestStore(t, server.URL)
	svc := service.NewExplanationService(store, ai.NewClient(time.Second))

	var received []string
	result, err := svc.ExplainStream(context.Background(), 9, "stem", "A", func(chunk string) {
		received = append(received, chunk)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Hello", " ", "world"}, received)
	assert.Equal(t, "Hello world", result.Content)
	assert.False(t, result.Cached)

	// A later stream for the same question replays the cached text as
	// one chunk without an upstream call.
	received = nil
	result, err = svc.ExplainStream(context.Background(), 9, "stem", "A", func(chunk string) {
		received = append(received, chunk)
	})
	require.NoError(t, err)
	assert.True(t, result.Cached)
	assert.Equal(t, []string{"Hello world"}, received)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
