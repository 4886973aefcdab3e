package retriever

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ifrc-sync/internal/httpx"
	"ifrc-sync/internal/pager"
)

func TestRetrieverWalksPagedAPI(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("offset") {
		case "":
			_, _ = w.Write([]byte(`{"count":3,"next":"` + srv.URL + `/?offset=2","results":[{"id":1},{"id":2}]}`))
		case "2":
			_, _ = w.Write([]byte(`{"count":3,"next":null,"results":[{"id":3}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	r := New(Config{UserAgent: "test", RequestsPerSecond: 100, Retry: httpx.RetryConfig{MaxAttempts: 1}})

	var ids []string
	pages, err := pager.New(r).Walk(context.Background(), srv.URL+"/", "countries_{index}.json", pager.HandlerFunc(func(rec map[string]any) {
		ids = append(ids, rec["id"].(interface{ String() string }).String())
	}))
	require.NoError(t, err)
	assert.Equal(t, 2, pages)
	assert.Equal(t, []string{"1", "2", "3"}, ids)
}

func TestRetrieverErrorNamesKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	r := New(Config{Retry: httpx.RetryConfig{MaxAttempts: 1}})

	var out map[string]any
	err := r.FetchJSON(context.Background(), srv.URL, "appeals_0.json", &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "appeals_0.json")

	var herr *httpx.HTTPError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, http.StatusForbidden, herr.StatusCode)
}

func TestRetrieverCanceledWhilePacing(t *testing.T) {
	r := New(Config{RequestsPerSecond: 0.001, Timeout: time.Second})
	// drain the single burst token
	require.True(t, r.limiter.Allow())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out map[string]any
	err := r.FetchJSON(ctx, "http://127.0.0.1:0", "k", &out)
	require.Error(t, err)
}
