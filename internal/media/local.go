package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	whttp "github.com/lk2023060901/assistant-plugins/internal/websearch/http"
)

// LocalStore keeps media in a directory and returns file:// URLs
type LocalStore struct {
	dir        string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewLocalStore creates dir if needed
func NewLocalStore(dir string, downloadTimeout time.Duration, logger *zap.Logger) (*LocalStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve media dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}

	return &LocalStore{
		dir:        abs,
		httpClient: whttp.NewHTTPClient(downloadTimeout),
		logger:     logger,
	}, nil
}

// SaveContents implements Store
func (s *LocalStore) SaveContents(ctx context.Context, ext, base64Data string) (string, error) {
	data, err := decodeContents(base64Data)
	if err != nil {
		return "", err
	}

	name := filepath.Join(s.dir, newFileName(ext))
	if err := os.WriteFile(name, data, 0644); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}

	s.logger.Info("media saved", zap.String("path", name), zap.Int("size", len(data)))
	return fileURL(name), nil
}

// Download implements Store
func (s *LocalStore) Download(ctx context.Context, remoteURL string) (string, error) {
	resp, err := fetch(ctx, s.httpClient, remoteURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	name := filepath.Join(s.dir, newFileName(extensionFor(remoteURL, resp.Header.Get("Content-Type"))))
	f, err := os.Create(name)
	if err != nil {
		return "", fmt.Errorf("create media file: %w", err)
	}

	n, err := io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(name)
		return "", fmt.Errorf("write media file: %w", err)
	}

	s.logger.Info("media downloaded",
		zap.String("url", remoteURL),
		zap.String("path", name),
		zap.Int64("size", n),
	)
	return fileURL(name), nil
}

func fileURL(name string) string {
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(name)}).String()
}
