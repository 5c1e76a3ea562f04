package localindex

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Query(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "golang tips", r.URL.Query().Get("q"))
		assert.Equal(t, "3", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"title":"T","url":"file:///a.html","content":"<p>x</p>"}]`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL+"/", time.Second)
	require.NoError(t, err)

	docs, err := client.Query(context.Background(), "golang tips", 3)
	require.NoError(t, err)
	assert.Equal(t, []Document{{Title: "T", URL: "file:///a.html", Content: "<p>x</p>"}}, docs)
}

func TestClient_QueryErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "index unavailable", http.StatusServiceUnavailable)
		}},
		{"malformed json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{not json`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			client, err := NewClient(srv.URL, time.Second)
			require.NoError(t, err)

			_, err = client.Query(context.Background(), "q", 5)
			assert.Error(t, err)
		})
	}
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient("not a url", time.Second)
	assert.Error(t, err)
}

func TestIndexFunc(t *testing.T) {
	var gotLimit int
	idx := IndexFunc(func(ctx context.Context, text string, limit int) ([]Document, error) {
		gotLimit = limit
		return []Document{{Title: text}}, nil
	})

	docs, err := idx.Query(context.Background(), "hello", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, gotLimit)
	assert.Equal(t, "hello", docs[0].Title)
}
