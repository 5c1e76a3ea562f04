package service

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lk2023060901/assistant-plugins/internal/pkg/errors"
	"github.com/lk2023060901/assistant-plugins/internal/pkg/logger"
	"github.com/lk2023060901/assistant-plugins/internal/pkg/response"
	"github.com/lk2023060901/assistant-plugins/internal/video"
	videotypes "github.com/lk2023060901/assistant-plugins/internal/video/types"
)

// VideoService Video HTTP 服务
type VideoService struct {
	creator *video.Creator
	logger  *logger.Logger
}

// NewVideoService creates the video HTTP service
func NewVideoService(creator *video.Creator, logger *logger.Logger) *VideoService {
	return &VideoService{
		creator: creator,
		logger:  logger,
	}
}

// RegisterRoutes mounts the video routes on rg
func (s *VideoService) RegisterRoutes(rg *gin.RouterGroup) {
	v := rg.Group("/video")
	v.GET("/engines", s.ListEngines)
	v.POST("/generate", s.Generate)
}

// ListEngines returns the selectable engines
func (s *VideoService) ListEngines(c *gin.Context) {
	var req ListEnginesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.HandleError(c, errors.NewValidationError(err))
		return
	}
	response.Success(c, s.creator.GetEngines(req.CheckAPIKey))
}

// Generate creates one video. Generation failures come back in the result's error field.
func (s *VideoService) Generate(c *gin.Context) {
	var req GenerateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, errors.Wrap(err, errors.ErrVideoInvalidRequest, err.Error()))
		return
	}

	ctx := c.Request.Context()
	s.logger.WithContext(ctx).Debug("video generation requested",
		zap.String("engine", req.Engine),
		zap.String("model", req.Model),
	)
	result := s.creator.Execute(ctx, videotypes.Engine(req.Engine), req.Model, req.Parameters, req.Reference)
	if result.Failed() {
		logger.ErrorContext(ctx, "video generation returned an error",
			zap.String("engine", req.Engine),
			zap.String("error", result.Error),
		)
	} else {
		logger.InfoContext(ctx, "video generated", zap.String("engine", req.Engine), zap.String("url", result.URL))
	}

	response.Success(c, result)
}
