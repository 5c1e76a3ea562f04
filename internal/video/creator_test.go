package video

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lk2023060901/assistant-plugins/internal/conf"
	"github.com/lk2023060901/assistant-plugins/internal/video/types"
)

type savedFile struct {
	ext      string
	contents string
}

// memoryStore records what the creator persists
type memoryStore struct {
	saved      []savedFile
	downloaded []string
	err        error
}

func (m *memoryStore) SaveContents(ctx context.Context, ext, base64Data string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.saved = append(m.saved, savedFile{ext: ext, contents: base64Data})
	return "file:///media/saved." + ext, nil
}

func (m *memoryStore) Download(ctx context.Context, remoteURL string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.downloaded = append(m.downloaded, remoteURL)
	return "file:///media/downloaded.mp4", nil
}

func newCreator(t *testing.T, cfg conf.VideoConfig, store *memoryStore) *Creator {
	t.Helper()
	c, err := NewCreator(cfg, store, zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestCreator_GetEngines(t *testing.T) {
	none := newCreator(t, conf.VideoConfig{}, &memoryStore{})
	assert.Empty(t, none.GetEngines(true))
	assert.Equal(t, []types.EngineInfo{
		{ID: types.EngineReplicate, Name: "Replicate"},
		{ID: types.EngineFalAI, Name: "fal.ai"},
	}, none.GetEngines(false))

	cfg := conf.VideoConfig{}
	cfg.FalAI.APIKey = "fal"
	onlyFal := newCreator(t, cfg, &memoryStore{})
	assert.Equal(t, []types.EngineInfo{{ID: types.EngineFalAI, Name: "fal.ai"}}, onlyFal.GetEngines(true))
}

func TestCreator_UnsupportedEngine(t *testing.T) {
	store := &memoryStore{}
	c := newCreator(t, conf.VideoConfig{}, store)

	result := c.Execute(context.Background(), types.Engine("bogus"), "m", nil, nil)
	assert.Equal(t, types.GenerationResult{Error: "Unsupported engine"}, result)
	assert.Empty(t, store.saved)
	assert.Empty(t, store.downloaded)
}

func TestCreator_MissingAPIKey(t *testing.T) {
	c := newCreator(t, conf.VideoConfig{}, &memoryStore{})

	for _, engine := range []types.Engine{types.EngineReplicate, types.EngineFalAI} {
		result := c.Execute(context.Background(), engine, "m", nil, nil)
		assert.Equal(t, types.ErrMissingAPIKey.Error(), result.Error)
		assert.Empty(t, result.URL)
	}
}

func TestFalAIInput(t *testing.T) {
	ref := &types.Reference{MimeType: "image/png", Contents: "AAAA"}

	tests := []struct {
		name      string
		params    map[string]any
		reference *types.Reference
		want      map[string]any
	}{
		{"empty", nil, nil, map[string]any{}},
		{"prompt only", map[string]any{"prompt": "a cat", "fps": 24}, nil, map[string]any{"prompt": "a cat"}},
		{"empty prompt", map[string]any{"prompt": ""}, nil, map[string]any{}},
		{"zero prompt", map[string]any{"prompt": float64(0)}, nil, map[string]any{}},
		{"zero int prompt", map[string]any{"prompt": 0}, nil, map[string]any{}},
		{"false prompt", map[string]any{"prompt": false}, nil, map[string]any{}},
		{"numeric prompt", map[string]any{"prompt": 7}, nil, map[string]any{"prompt": 7}},
		{"reference only", nil, ref, map[string]any{"image_url": "data:image/png;base64,AAAA"}},
		{"both", map[string]any{"prompt": "a cat"}, ref, map[string]any{
			"prompt":    "a cat",
			"image_url": "data:image/png;base64,AAAA",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FalAIInput(tt.params, tt.reference))
		})
	}
}

func newReplicateServer(t *testing.T, contentType string) *httptest.Server {
	t.Helper()
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/models/acme/video/predictions":
			var payload map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, map[string]any{"prompt": "a cat", "fps": float64(24)}, payload["input"])
			_, _ = w.Write([]byte(`{"id":"p","status":"succeeded","output":["` + server.URL + `/files/out","` + server.URL + `/files/second"]}`))
		case "/files/out":
			if contentType == "" {
				w.Header()["Content-Type"] = nil
			} else {
				w.Header().Set("Content-Type", contentType)
			}
			_, _ = w.Write([]byte("VIDEO"))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	return server
}

func TestCreator_Replicate(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		wantExt     string
	}{
		{"typed output", "video/webm", "webm"},
		{"untyped output", "", "mp4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newReplicateServer(t, tt.contentType)
			defer server.Close()

			cfg := conf.VideoConfig{}
			cfg.Replicate.APIKey = "r8"
			cfg.Replicate.BaseURL = server.URL
			cfg.Replicate.PollInterval = 10 * time.Millisecond
			store := &memoryStore{}

			result := newCreator(t, cfg, store).Execute(context.Background(), types.EngineReplicate, "acme/video",
				map[string]any{"prompt": "a cat", "fps": 24}, nil)

			require.Empty(t, result.Error)
			assert.Equal(t, "file:///media/saved."+tt.wantExt, result.URL)
			require.Len(t, store.saved, 1)
			assert.Equal(t, tt.wantExt, store.saved[0].ext)
			assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("VIDEO")), store.saved[0].contents)
		})
	}
}

func TestCreator_ReplicateFailureIsValue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Invalid token"}`))
	}))
	defer server.Close()

	cfg := conf.VideoConfig{}
	cfg.Replicate.APIKey = "r8"
	cfg.Replicate.BaseURL = server.URL

	result := newCreator(t, cfg, &memoryStore{}).Execute(context.Background(), types.EngineReplicate, "acme/video", nil, nil)
	assert.Contains(t, result.Error, "Invalid token")
	assert.Empty(t, result.URL)
}

func TestCreator_FalAI(t *testing.T) {
	var received map[string]any
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/fal-ai/video":
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			_, _ = w.Write([]byte(`{"request_id":"r","status_url":"` + server.URL + `/status","response_url":"` + server.URL + `/response"}`))
		case "/status":
			_, _ = w.Write([]byte(`{"status":"COMPLETED"}`))
		case "/response":
			_, _ = w.Write([]byte(`{"video":{"url":"https://cdn.example/v.mp4"}}`))
		}
	}))
	defer server.Close()

	cfg := conf.VideoConfig{}
	cfg.FalAI.APIKey = "fal"
	cfg.FalAI.QueueURL = server.URL
	cfg.FalAI.PollInterval = 10 * time.Millisecond
	store := &memoryStore{}

	result := newCreator(t, cfg, store).Execute(context.Background(), types.EngineFalAI, "fal-ai/video",
		map[string]any{"prompt": "a cat"}, &types.Reference{MimeType: "image/jpeg", Contents: "Zm9v"})

	assert.Equal(t, types.GenerationResult{URL: "file:///media/downloaded.mp4"}, result)
	assert.Equal(t, []string{"https://cdn.example/v.mp4"}, store.downloaded)
	assert.Equal(t, map[string]any{"prompt": "a cat", "image_url": "data:image/jpeg;base64,Zm9v"}, received)
}

func TestCreator_StoreFailureIsValue(t *testing.T) {
	server := newReplicateServer(t, "video/mp4")
	defer server.Close()

	cfg := conf.VideoConfig{}
	cfg.Replicate.APIKey = "r8"
	cfg.Replicate.BaseURL = server.URL

	store := &memoryStore{err: errors.New("disk full")}
	result := newCreator(t, cfg, store).Execute(context.Background(), types.EngineReplicate, "acme/video",
		map[string]any{"prompt": "a cat", "fps": 24}, nil)
	assert.Equal(t, types.GenerationResult{Error: "disk full"}, result)
}
