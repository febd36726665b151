package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"aquasense-design/internal/models"
	"aquasense-design/internal/repository"
)

// 请求来源
const (
	SourceHTTP   = "http"
	SourceMQTT   = "mqtt"
	SourceStream = "stream"
)

// Dispatcher 推理调度（由 dispatcher.Dispatcher 实现）
type Dispatcher interface {
	Dispatch(ctx context.Context, sample models.InfluentSample) (*models.DesignResponse, error)
}

// ResponseCache 推理结果缓存（由 store.DesignCache 实现）
type ResponseCache interface {
	Get(ctx context.Context, f models.Features) *models.DesignResponse
	Put(ctx context.Context, f models.Features, resp *models.DesignResponse)
}

// PredictionStore 推理存档（由 repository.PredictionRepository 实现）
type PredictionStore interface {
	Insert(ctx context.Context, row *repository.PredictionRow) error
}

// ResultPublisher 推理结果下游发布
type ResultPublisher interface {
	Publish(ctx context.Context, result *DesignResult) error
}

// DesignResult 一次推理的结果及元信息
type DesignResult struct {
	RequestID string                `json:"request_id"`
	Source    string                `json:"source"`
	Site      string                `json:"site,omitempty"`
	Sample    models.InfluentSample `json:"input"`
	Response  models.DesignResponse `json:"design"`
	Cached    bool                  `json:"cached"`
	CreatedAt time.Time             `json:"created_at"`
}

// DesignService 推理用例：缓存 → 调度 → 存档 → 发布
//
// cache/store/publisher 均可为 nil。存档与发布失败只记录日志，不影响响应。
type DesignService struct {
	dispatcher Dispatcher
	cache      ResponseCache
	store      PredictionStore
	publisher  ResultPublisher
	logger     *zap.Logger
	now        func() time.Time
}

// DesignServiceOption 可选组件
type DesignServiceOption func(*DesignService)

func WithCache(c ResponseCache) DesignServiceOption {
	return func(s *DesignService) { s.cache = c }
}

func WithPredictionStore(p PredictionStore) DesignServiceOption {
	return func(s *DesignService) { s.store = p }
}

func WithPublisher(p ResultPublisher) DesignServiceOption {
	return func(s *DesignService) { s.publisher = p }
}

// NewDesignService 创建推理服务
func NewDesignService(d Dispatcher, logger *zap.Logger, opts ...DesignServiceOption) *DesignService {
	s := &DesignService{
		dispatcher: d,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Predict 对一条进水样本给出设计
func (s *DesignService) Predict(ctx context.Context, sample models.InfluentSample, source, site string) (*DesignResult, error) {
	if err := sample.Validate(); err != nil {
		return nil, err
	}
	f := sample.Features()

	result := &DesignResult{
		RequestID: uuid.NewString(),
		Source:    source,
		Site:      site,
		Sample:    sample,
		CreatedAt: s.now().UTC(),
	}

	if s.cache != nil {
		if resp := s.cache.Get(ctx, f); resp != nil {
			result.Response = *resp
			result.Cached = true
		}
	}
	if !result.Cached {
		resp, err := s.dispatcher.Dispatch(ctx, sample)
		if err != nil {
			s.logger.Warn("Design prediction failed",
				zap.String("request_id", result.RequestID),
				zap.String("source", source),
				zap.Error(err),
			)
			return nil, err
		}
		result.Response = *resp
		if s.cache != nil {
			s.cache.Put(ctx, f, resp)
		}
	}

	if s.store != nil {
		row := &repository.PredictionRow{
			RequestID: result.RequestID,
			Source:    source,
			Sample:    sample,
			Response:  result.Response,
			CreatedAt: result.CreatedAt,
		}
		if err := s.store.Insert(ctx, row); err != nil {
			s.logger.Error("Failed to store prediction",
				zap.String("request_id", result.RequestID),
				zap.Error(err),
			)
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, result); err != nil {
			s.logger.Error("Failed to publish prediction",
				zap.String("request_id", result.RequestID),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("Design predicted",
		zap.String("request_id", result.RequestID),
		zap.String("source", source),
		zap.Int("predicted_type", result.Response.PredictedType),
		zap.Bool("cached", result.Cached),
	)
	return result, nil
}
