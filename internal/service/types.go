package service

import (
	"github.com/lk2023060901/assistant-plugins/internal/plugin"
	videotypes "github.com/lk2023060901/assistant-plugins/internal/video/types"
)

// ExecutePluginRequest carries the tool call arguments
type ExecutePluginRequest struct {
	Arguments map[string]any `json:"arguments"`
}

// ExecutePluginResponse is the tool result plus the status line the host shows
type ExecutePluginResponse struct {
	Name        string `json:"name"`
	Result      any    `json:"result"`
	Description string `json:"description"`
}

// PluginInfo is a plugin listing entry with its status strings
type PluginInfo struct {
	plugin.Descriptor
	PreparationDescription string `json:"preparationDescription"`
	RunningDescription     string `json:"runningDescription"`
}

// GenerateVideoRequest asks an engine for one video
type GenerateVideoRequest struct {
	Engine     string                `json:"engine" binding:"required"`
	Model      string                `json:"model" binding:"required"`
	Parameters map[string]any        `json:"parameters"`
	Reference  *videotypes.Reference `json:"reference"`
}

// ListEnginesRequest filters the engine listing
type ListEnginesRequest struct {
	CheckAPIKey bool `form:"check_api_key"`
}
