// Package media persists generated files and hands back a URL the host can open.
package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
)

// DefaultExtension is used when neither URL nor content type names a format
const DefaultExtension = "bin"

// Store saves media and returns a URL for it
type Store interface {
	// SaveContents writes base64 data to a new file with the given extension
	SaveContents(ctx context.Context, ext, base64Data string) (string, error)

	// Download copies a remote file into the store
	Download(ctx context.Context, remoteURL string) (string, error)
}

// ExtensionFromContentType returns the subtype of a MIME type
// ("video/webm; codecs=vp9" gives "webm"), or fallback when there is none.
func ExtensionFromContentType(contentType, fallback string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return fallback
	}
	_, subtype, ok := strings.Cut(mediaType, "/")
	if !ok || subtype == "" || subtype == "*" {
		return fallback
	}
	return subtype
}

// extensionFor picks the file extension of a downloaded resource
func extensionFor(remoteURL, contentType string) string {
	if u, err := url.Parse(remoteURL); err == nil {
		if ext := strings.TrimPrefix(path.Ext(u.Path), "."); ext != "" {
			return strings.ToLower(ext)
		}
	}
	return ExtensionFromContentType(contentType, DefaultExtension)
}

func newFileName(ext string) string {
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	if ext == "" {
		ext = DefaultExtension
	}
	return uuid.New().String() + "." + ext
}

func decodeContents(base64Data string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(base64Data)
	if err != nil {
		return nil, fmt.Errorf("decode contents: %w", err)
	}
	return data, nil
}

// fetch opens remoteURL; the caller closes the body
func fetch(ctx context.Context, client *http.Client, remoteURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, remoteURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", remoteURL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("download %s: unexpected status code: %d", remoteURL, resp.StatusCode)
	}
	return resp, nil
}
