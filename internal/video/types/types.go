// Package types holds the shared video generation types.
package types

import "errors"

// Engine identifies a video generation backend
type Engine string

const (
	EngineReplicate Engine = "replicate"
	EngineFalAI     Engine = "falai"
)

// Valid reports whether e is one of the supported engines
func (e Engine) Valid() bool {
	switch e {
	case EngineReplicate, EngineFalAI:
		return true
	}
	return false
}

// EngineInfo is one selectable engine as shown to the user
type EngineInfo struct {
	ID   Engine `json:"id"`
	Name string `json:"name"`
}

// Reference is an optional media input, typically a start frame image
type Reference struct {
	MimeType string `json:"mimeType"`
	Contents string `json:"contents"` // base64
}

// DataURL renders the reference as a data: URL
func (r *Reference) DataURL() string {
	return "data:" + r.MimeType + ";base64," + r.Contents
}

// GenerationResult carries exactly one of URL or Error
type GenerationResult struct {
	URL   string `json:"url,omitempty"`
	Error string `json:"error,omitempty"`
}

// Failed reports whether the generation produced an error
func (r GenerationResult) Failed() bool {
	return r.Error != ""
}

var (
	ErrUnsupportedEngine = errors.New("Unsupported engine")
	ErrMissingAPIKey     = errors.New("missing API key")
	ErrNoOutput          = errors.New("generation returned no output")
	ErrTimeout           = errors.New("generation timed out")
)
