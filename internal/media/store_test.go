package media

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestExtensionFromContentType(t *testing.T) {
	tests := []struct {
		contentType string
		want        string
	}{
		{"video/mp4", "mp4"},
		{"video/webm; codecs=vp9", "webm"},
		{"VIDEO/QUICKTIME", "quicktime"},
		{"", "mp4"},
		{"garbage", "mp4"},
		{"video/*", "mp4"},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtensionFromContentType(tt.contentType, "mp4"))
		})
	}
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, "mp4", extensionFor("https://cdn.example/out/clip.MP4?sig=1", "video/webm"))
	assert.Equal(t, "webm", extensionFor("https://cdn.example/out/clip", "video/webm"))
	assert.Equal(t, DefaultExtension, extensionFor("https://cdn.example/out/clip", ""))
}

func newLocalStore(t *testing.T) (*LocalStore, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "media")
	store, err := NewLocalStore(dir, time.Second, zap.NewNop())
	require.NoError(t, err)
	return store, dir
}

func pathFromFileURL(t *testing.T, raw string) string {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "file", u.Scheme)
	return filepath.FromSlash(u.Path)
}

func TestLocalStore_SaveContents(t *testing.T) {
	store, dir := newLocalStore(t)

	u, err := store.SaveContents(context.Background(), "webm", base64.StdEncoding.EncodeToString([]byte("VIDEO")))
	require.NoError(t, err)

	name := pathFromFileURL(t, u)
	assert.Equal(t, dir, filepath.Dir(name))
	assert.Equal(t, ".webm", filepath.Ext(name))

	data, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "VIDEO", string(data))
}

func TestLocalStore_SaveContentsInvalidBase64(t *testing.T) {
	store, _ := newLocalStore(t)

	_, err := store.SaveContents(context.Background(), "mp4", "not base64!")
	assert.Error(t, err)
}

func TestLocalStore_Download(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "missing") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "video/mp4")
		_, _ = w.Write([]byte("REMOTE"))
	}))
	defer server.Close()

	store, _ := newLocalStore(t)

	u, err := store.Download(context.Background(), server.URL+"/files/result")
	require.NoError(t, err)

	name := pathFromFileURL(t, u)
	assert.Equal(t, ".mp4", filepath.Ext(name))
	data, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "REMOTE", string(data))

	_, err = store.Download(context.Background(), server.URL+"/files/missing")
	assert.Error(t, err)
}

func TestNewFileName(t *testing.T) {
	a, b := newFileName(".mp4"), newFileName("mp4")
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(a, ".mp4"))
	assert.True(t, strings.HasSuffix(newFileName(""), "."+DefaultExtension))
}
