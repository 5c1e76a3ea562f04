package media

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lk2023060901/assistant-plugins/internal/pkg/minio"
)

// newObjectStore backs an ObjectStore with an in-memory S3 endpoint and
// returns the uploaded object keys with their content types
func newObjectStore(t *testing.T) (*ObjectStore, map[string]string) {
	t.Helper()
	var mu sync.Mutex
	uploaded := map[string]string{}

	s3 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusNotImplemented)
			return
		}
		_, _ = io.Copy(io.Discard, r.Body)
		mu.Lock()
		uploaded[strings.TrimPrefix(r.URL.Path, "/media/")] = r.Header.Get("Content-Type")
		mu.Unlock()
		w.Header().Set("ETag", `"0"`)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(s3.Close)

	client, err := minio.NewClient(&minio.Config{
		Endpoint:        strings.TrimPrefix(s3.URL, "http://"),
		AccessKeyID:     "minioadmin",
		SecretAccessKey: "minioadmin",
		Region:          "us-east-1",
		BucketLookup:    minio.BucketLookupPath,
		Bucket:          "media",
	}, zap.NewNop())
	require.NoError(t, err)

	return NewObjectStore(client, "videos", time.Second, zap.NewNop()), uploaded
}

func TestObjectStore_SaveContents(t *testing.T) {
	store, uploaded := newObjectStore(t)

	raw, err := store.SaveContents(context.Background(), "mp4", base64.StdEncoding.EncodeToString([]byte("VIDEO")))
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u.Path, "/media/videos/"))
	assert.True(t, strings.HasSuffix(u.Path, ".mp4"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
	assert.Contains(t, uploaded, strings.TrimPrefix(u.Path, "/media/"))
}

func TestObjectStore_Download(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/webm")
		_, _ = w.Write([]byte("REMOTE"))
	}))
	defer origin.Close()

	store, uploaded := newObjectStore(t)

	raw, err := store.Download(context.Background(), origin.URL+"/result")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	key := strings.TrimPrefix(u.Path, "/media/")
	assert.True(t, strings.HasSuffix(key, ".webm"))
	assert.Equal(t, "video/webm", uploaded[key])
}
