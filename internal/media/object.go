package media

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/lk2023060901/assistant-plugins/internal/pkg/minio"
	whttp "github.com/lk2023060901/assistant-plugins/internal/websearch/http"
)

// ObjectStore keeps media in an S3-compatible bucket and returns presigned URLs
type ObjectStore struct {
	client     *minio.Client
	prefix     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewObjectStore writes objects under prefix in the client's bucket
func NewObjectStore(client *minio.Client, prefix string, downloadTimeout time.Duration, logger *zap.Logger) *ObjectStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ObjectStore{
		client:     client,
		prefix:     prefix,
		httpClient: whttp.NewHTTPClient(downloadTimeout),
		logger:     logger,
	}
}

// SaveContents implements Store
func (s *ObjectStore) SaveContents(ctx context.Context, ext, base64Data string) (string, error) {
	data, err := decodeContents(base64Data)
	if err != nil {
		return "", err
	}

	key := minio.ObjectKey(s.prefix, newFileName(ext))
	if _, err := s.client.PutObject(ctx, key, bytes.NewReader(data), int64(len(data)), minio.DetectContentType(key)); err != nil {
		return "", err
	}
	return s.presign(ctx, key)
}

// Download implements Store
func (s *ObjectStore) Download(ctx context.Context, remoteURL string) (string, error) {
	resp, err := fetch(ctx, s.httpClient, remoteURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	key := minio.ObjectKey(s.prefix, newFileName(extensionFor(remoteURL, contentType)))
	if contentType == "" {
		contentType = minio.DetectContentType(key)
	}

	if _, err := s.client.PutObject(ctx, key, resp.Body, resp.ContentLength, contentType); err != nil {
		return "", err
	}

	s.logger.Info("media downloaded", zap.String("url", remoteURL), zap.String("object", key))
	return s.presign(ctx, key)
}

func (s *ObjectStore) presign(ctx context.Context, key string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, key)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
