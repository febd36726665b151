package predictor

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"aquasense-design/internal/models"
)

// 模型服务上的模型名
const (
	ModelClassifier = "type_classifier"
)

func timesModel(id models.ArchetypeID) string     { return fmt.Sprintf("type%d_times", int(id)) }
func equipmentModel(id models.ArchetypeID) string { return fmt.Sprintf("type%d_equipment", int(id)) }
func costModel(id models.ArchetypeID) string      { return fmt.Sprintf("type%d_cost", int(id)) }

// predictRequest 模型服务请求
type predictRequest struct {
	Features []float64 `json:"features"`
}

// predictResponse 模型服务响应；prediction 为标量或向量
type predictResponse struct {
	Prediction json.RawMessage `json:"prediction"`
	Error      string          `json:"error,omitempty"`
}

// RemoteClient 外部模型服务客户端
// POST {base}/models/{model}/predict  {"features":[9]} -> {"prediction": ...}
type RemoteClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewRemoteClient 创建模型服务客户端
func NewRemoteClient(baseURL string, timeout time.Duration, retries int, logger *zap.Logger) *RemoteClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(retries).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &RemoteClient{
		httpClient: client,
		logger:     logger,
	}
}

// predict 调用指定模型，返回原始 prediction
func (c *RemoteClient) predict(ctx context.Context, model string, f models.Features) (json.RawMessage, error) {
	var response predictResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("model", model).
		SetBody(predictRequest{Features: f[:]}).
		SetResult(&response).
		SetError(&response).
		Post("/models/{model}/predict")

	if err != nil {
		c.logger.Error("Model server call failed",
			zap.String("model", model),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to call model %s: %w", model, err)
	}
	if resp.IsError() {
		c.logger.Error("Model server returned error",
			zap.String("model", model),
			zap.Int("status_code", resp.StatusCode()),
			zap.String("msg", response.Error),
		)
		return nil, fmt.Errorf("model %s error: %s (status: %d)", model, response.Error, resp.StatusCode())
	}
	if len(response.Prediction) == 0 {
		return nil, fmt.Errorf("model %s returned no prediction", model)
	}
	return response.Prediction, nil
}

// decodeScalar 接受 3.0 或 [3.0]
func decodeScalar(raw json.RawMessage) (float64, error) {
	var v float64
	if err := json.Unmarshal(raw, &v); err == nil {
		return v, nil
	}
	var vs []float64
	if err := json.Unmarshal(raw, &vs); err != nil {
		return 0, fmt.Errorf("failed to decode scalar prediction: %w", err)
	}
	if len(vs) != 1 {
		return 0, fmt.Errorf("expected a single prediction, got %d values", len(vs))
	}
	return vs[0], nil
}

// Classifier 远程分类器
func (c *RemoteClient) Classifier() Classifier { return remoteClassifier{c} }

// Triple 远程三元组
func (c *RemoteClient) Triple(id models.ArchetypeID) Triple {
	p := remoteTriple{client: c, id: id}
	return Triple{Durations: p, Equipment: p, Cost: p}
}

type remoteClassifier struct{ client *RemoteClient }

func (r remoteClassifier) Classify(ctx context.Context, f models.Features) (int, error) {
	raw, err := r.client.predict(ctx, ModelClassifier, f)
	if err != nil {
		return 0, err
	}
	v, err := decodeScalar(raw)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) {
		return 0, &models.ClassificationError{Value: v}
	}
	return int(v), nil
}

type remoteTriple struct {
	client *RemoteClient
	id     models.ArchetypeID
}

func (r remoteTriple) PredictDurations(ctx context.Context, f models.Features) ([]float64, error) {
	raw, err := r.client.predict(ctx, timesModel(r.id), f)
	if err != nil {
		return nil, err
	}
	var out []float64
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode %s prediction: %w", timesModel(r.id), err)
	}
	return out, nil
}

func (r remoteTriple) PredictEquipment(ctx context.Context, f models.Features) ([]string, error) {
	raw, err := r.client.predict(ctx, equipmentModel(r.id), f)
	if err != nil {
		return nil, err
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode %s prediction: %w", equipmentModel(r.id), err)
	}
	return out, nil
}

func (r remoteTriple) PredictCost(ctx context.Context, f models.Features) (float64, error) {
	raw, err := r.client.predict(ctx, costModel(r.id), f)
	if err != nil {
		return 0, err
	}
	return decodeScalar(raw)
}

// NewRemoteRegistry 全部由模型服务承担的注册表
func NewRemoteRegistry(c *RemoteClient) (*Registry, error) {
	triples := make(map[models.ArchetypeID]Triple, len(models.AllArchetypes))
	for _, id := range models.AllArchetypes {
		triples[id] = c.Triple(id)
	}
	return NewRegistry(c.Classifier(), triples)
}
