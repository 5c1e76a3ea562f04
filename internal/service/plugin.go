// Package service exposes plugins and video generation over HTTP.
package service

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lk2023060901/assistant-plugins/internal/pkg/errors"
	"github.com/lk2023060901/assistant-plugins/internal/pkg/logger"
	"github.com/lk2023060901/assistant-plugins/internal/pkg/response"
	"github.com/lk2023060901/assistant-plugins/internal/plugin"
)

// PluginService Plugin HTTP 服务
type PluginService struct {
	registry *plugin.Registry
	logger   *logger.Logger
}

// NewPluginService creates the plugin HTTP service
func NewPluginService(registry *plugin.Registry, logger *logger.Logger) *PluginService {
	return &PluginService{
		registry: registry,
		logger:   logger,
	}
}

// RegisterRoutes mounts the plugin routes on rg
func (s *PluginService) RegisterRoutes(rg *gin.RouterGroup) {
	plugins := rg.Group("/plugins")
	plugins.GET("", s.ListPlugins)
	plugins.POST("/:name/execute", s.ExecutePlugin)
}

// ListPlugins returns every registered plugin with its metadata
func (s *PluginService) ListPlugins(c *gin.Context) {
	list := s.registry.List()
	infos := make([]PluginInfo, 0, len(list))
	for _, p := range list {
		infos = append(infos, PluginInfo{
			Descriptor:             plugin.Describe(p),
			PreparationDescription: p.PreparationDescription(),
			RunningDescription:     p.RunningDescription(),
		})
	}
	response.Success(c, infos)
}

// ExecutePlugin runs one plugin. Plugin failures are part of the result, not HTTP errors.
func (s *PluginService) ExecutePlugin(c *gin.Context) {
	name := c.Param("name")
	p, ok := s.registry.Get(name)
	if !ok {
		response.HandleError(c, errors.NewPluginNotFoundError(name))
		return
	}
	if !p.IsEnabled() {
		response.ErrorWithCode(c, errors.ErrPluginDisabled, name)
		return
	}

	var req ExecutePluginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, errors.Wrap(err, errors.ErrPluginInvalidArgs, err.Error()))
		return
	}

	ctx := logger.WithPlugin(c.Request.Context(), name)
	c.Request = c.Request.WithContext(ctx)

	result := p.Execute(ctx, req.Arguments)
	s.logger.WithContext(ctx).Debug("plugin executed", zap.Any("arguments", req.Arguments))
	if failed(result) {
		logger.ErrorContext(ctx, "plugin returned an error", zap.Any("result", result))
	}

	response.Success(c, ExecutePluginResponse{
		Name:        name,
		Result:      result,
		Description: p.CompletedDescription(req.Arguments, result),
	})
}

// failed reports whether a plugin result carries an error
func failed(result any) bool {
	f, ok := result.(interface{ Failed() bool })
	return ok && f.Failed()
}
