package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/lk2023060901/assistant-plugins/internal/websearch/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dropConnection makes the fake page server close the connection without a response
const dropConnection = "\x00drop"

// newTavilyServer serves both the search API and the result pages it points to
func newTavilyServer(t *testing.T, pages map[string]string) (*httptest.Server, *int32) {
	t.Helper()
	var pageHits int32
	mux := http.NewServeMux()
	var srv *httptest.Server

	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tavily-key", r.Header.Get("Authorization"))

		var req tavilyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		type result struct {
			Title   string `json:"title"`
			URL     string `json:"url"`
			Content string `json:"content"`
		}
		var results []result
		for _, path := range []string{"/one", "/two"} {
			results = append(results, result{
				Title:   "Title " + path,
				URL:     srv.URL + path,
				Content: "short snippet",
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"query": req.Query, "results": results})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&pageHits, 1)
		page, ok := pages[r.URL.Path]
		if !ok {
			http.Error(w, "gone", http.StatusNotFound)
			return
		}
		if page == dropConnection {
			if hj, ok := w.(http.Hijacker); assert.True(t, ok) {
				conn, _, err := hj.Hijack()
				if assert.NoError(t, err) {
					_ = conn.Close()
				}
			}
			return
		}
		fmt.Fprint(w, page)
	})

	srv = httptest.NewServer(mux)
	return srv, &pageHits
}

func TestTavilyProvider_Search(t *testing.T) {
	srv, hits := newTavilyServer(t, map[string]string{
		"/one": `<html><body><nav>menu</nav><main><p>Full article one</p><a href="/x">link</a></main></body></html>`,
		"/two": `<html><body><p>Full article two</p></body></html>`,
	})
	defer srv.Close()

	p, err := NewTavilyProvider(&types.ProviderConfig{
		ID:      types.EngineTavily,
		Name:    "Tavily",
		APIHost: srv.URL,
		APIKey:  "tavily-key",
	}, nil)
	require.NoError(t, err)

	resp, err := p.Search(context.Background(), &types.SearchRequest{Query: "articles"})
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(hits))
	assert.Equal(t, "articles", resp.Query)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "Title /one", resp.Results[0].Title)
	assert.Equal(t, srv.URL+"/one", resp.Results[0].URL)
	assert.Equal(t, "Full article one", resp.Results[0].Content)
	assert.Equal(t, "Full article two", resp.Results[1].Content)
}

func TestTavilyProvider_SearchTruncatesFetchedContent(t *testing.T) {
	srv, _ := newTavilyServer(t, map[string]string{
		"/one": `<p>abcdefghij</p>`,
		"/two": `<p>klmnopqrst</p>`,
	})
	defer srv.Close()

	p, err := NewTavilyProvider(&types.ProviderConfig{
		ID:            types.EngineTavily,
		Name:          "Tavily",
		APIHost:       srv.URL,
		APIKey:        "tavily-key",
		ContentLength: 3,
	}, nil)
	require.NoError(t, err)

	resp, err := p.Search(context.Background(), &types.SearchRequest{Query: "q"})
	require.NoError(t, err)
	assert.Equal(t, "abc", resp.Results[0].Content)
	assert.Equal(t, "klm", resp.Results[1].Content)
}

func TestTavilyProvider_SearchFailsWhenAnyPageFails(t *testing.T) {
	srv, _ := newTavilyServer(t, map[string]string{
		"/one": `<p>only the first page is reachable</p>`,
		"/two": dropConnection,
	})
	defer srv.Close()

	p, err := NewTavilyProvider(&types.ProviderConfig{
		ID:      types.EngineTavily,
		Name:    "Tavily",
		APIHost: srv.URL,
		APIKey:  "tavily-key",
	}, nil)
	require.NoError(t, err)

	resp, err := p.Search(context.Background(), &types.SearchRequest{Query: "q"})
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, types.ErrFetchFailed)
}

func TestTavilyProvider_SearchConvertsErrorPages(t *testing.T) {
	srv, hits := newTavilyServer(t, map[string]string{
		"/one": `<p>first page</p>`,
	})
	defer srv.Close()

	p, err := NewTavilyProvider(&types.ProviderConfig{
		ID:      types.EngineTavily,
		Name:    "Tavily",
		APIHost: srv.URL,
		APIKey:  "tavily-key",
	}, nil)
	require.NoError(t, err)

	resp, err := p.Search(context.Background(), &types.SearchRequest{Query: "q"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(hits))
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "first page", resp.Results[0].Content)
	assert.Equal(t, "gone", resp.Results[1].Content)
}

func TestTavilyProvider_SearchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"invalid key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	p, err := NewTavilyProvider(&types.ProviderConfig{
		ID:      types.EngineTavily,
		Name:    "Tavily",
		APIHost: srv.URL,
		APIKey:  "tavily-key",
	}, nil)
	require.NoError(t, err)

	_, err = p.Search(context.Background(), &types.SearchRequest{Query: "q"})
	var pe *types.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "HTTP_401", pe.Code)
	assert.Equal(t, types.EngineTavily, pe.Provider)
}

func TestNewTavilyProvider_DefaultHost(t *testing.T) {
	p, err := NewTavilyProvider(&types.ProviderConfig{ID: types.EngineTavily, Name: "Tavily", APIKey: "k"}, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultTavilyHost, p.(*TavilyProvider).GetConfig().APIHost)
}
