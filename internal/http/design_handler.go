package httpapi

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"aquasense-design/internal/dataset"
	"aquasense-design/internal/models"
	"aquasense-design/internal/repository"
	"aquasense-design/internal/schema"
	"aquasense-design/internal/service"
)

// DesignPredictor 推理用例（由 service.DesignService 实现）
type DesignPredictor interface {
	Predict(ctx context.Context, sample models.InfluentSample, source, site string) (*service.DesignResult, error)
}

// PredictionReader 推理存档查询
type PredictionReader interface {
	GetByRequestID(ctx context.Context, requestID string) (*repository.PredictionRow, error)
}

// CacheAdmin 推理缓存管理
type CacheAdmin interface {
	Size(ctx context.Context) (int, error)
	Purge(ctx context.Context) (int64, error)
}

// DesignHandler 设计推理接口
//
// predictions 与 cache 可为 nil，对应接口返回 503。
type DesignHandler struct {
	predictor   DesignPredictor
	predictions PredictionReader
	cache       CacheAdmin
	logger      *zap.Logger
}

func NewDesignHandler(p DesignPredictor, predictions PredictionReader, cache CacheAdmin, logger *zap.Logger) *DesignHandler {
	return &DesignHandler{
		predictor:   p,
		predictions: predictions,
		cache:       cache,
		logger:      logger,
	}
}

// predictResult /api/v1/design/predict 的 result 字段
type predictResult struct {
	RequestID string `json:"request_id"`
	Cached    bool   `json:"cached"`
	models.DesignResponse
}

func (h *DesignHandler) predict(r *http.Request) (*service.DesignResult, error) {
	body, err := readBody(r, maxBodyBytes)
	if err != nil {
		return nil, &models.InputError{Field: "body", Reason: err.Error()}
	}
	sample, err := models.ParseInfluentRequest(body)
	if err != nil {
		return nil, err
	}
	return h.predictor.Predict(r.Context(), sample, service.SourceHTTP, r.URL.Query().Get("site"))
}

// Predict POST /api/v1/design/predict
func (h *DesignHandler) Predict(w http.ResponseWriter, r *http.Request) {
	res, err := h.predict(r)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("Predict design failed", zap.Error(err))
		}
		writeJSON(w, status, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(predictResult{
		RequestID:      res.RequestID,
		Cached:         res.Cached,
		DesignResponse: res.Response,
	}))
}

// PredictLegacy POST /predict-design
func (h *DesignHandler) PredictLegacy(w http.ResponseWriter, r *http.Request) {
	res, err := h.predict(r)
	if err != nil {
		writeJSON(w, statusFor(err), map[string]string{"detail": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, res.Response)
}

// StageInfo 单个工段的列与设备词表
type StageInfo struct {
	Key             string   `json:"key"`
	Name            string   `json:"name"`
	DurationColumn  string   `json:"duration_column"`
	EquipmentColumn string   `json:"equipment_column"`
	Equipment       []string `json:"equipment"`
}

// SchemaInfo 一个工艺类型的 schema
type SchemaInfo struct {
	ArchetypeID int         `json:"archetype_id"`
	Name        string      `json:"name"`
	Table       string      `json:"table"`
	Features    []string    `json:"features"`
	Stages      []StageInfo `json:"stages"`
	Columns     []string    `json:"columns"`
}

func schemaInfo(id models.ArchetypeID) (*SchemaInfo, error) {
	stages, err := schema.Stages(id)
	if err != nil {
		return nil, err
	}
	cols, err := schema.TableColumns(id)
	if err != nil {
		return nil, err
	}
	info := &SchemaInfo{
		ArchetypeID: int(id),
		Name:        id.String(),
		Table:       dataset.TableName(id),
		Features:    schema.FeatureColumns(),
		Columns:     cols,
	}
	for _, s := range stages {
		info.Stages = append(info.Stages, StageInfo{
			Key:             s.Key,
			Name:            s.Name,
			DurationColumn:  s.DurationColumn(),
			EquipmentColumn: s.EquipmentColumn(),
			Equipment:       s.Equipment,
		})
	}
	return info, nil
}

// ListSchemas GET /api/v1/design/schema
func (h *DesignHandler) ListSchemas(w http.ResponseWriter, r *http.Request) {
	items := make([]*SchemaInfo, 0, len(models.AllArchetypes))
	for _, id := range models.AllArchetypes {
		info, err := schemaInfo(id)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
			return
		}
		items = append(items, info)
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"items":         items,
		"union_table":   dataset.UnionTableName,
		"union_columns": schema.UnionColumns(),
	}))
}

// GetSchema GET /api/v1/design/schema/{archetype_id}
func (h *DesignHandler) GetSchema(w http.ResponseWriter, r *http.Request, rawID string) {
	info, err := schemaInfo(models.ArchetypeID(parseInt(rawID, 0)))
	if err != nil {
		writeJSON(w, http.StatusNotFound, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(info))
}

// GetPrediction GET /api/v1/design/predictions/{request_id}
func (h *DesignHandler) GetPrediction(w http.ResponseWriter, r *http.Request, requestID string) {
	if h.predictions == nil {
		writeJSON(w, http.StatusServiceUnavailable, Fail("prediction archive disabled"))
		return
	}
	row, err := h.predictions.GetByRequestID(r.Context(), requestID)
	if err != nil {
		if errors.Is(err, repository.ErrPredictionNotFound) {
			writeJSON(w, http.StatusNotFound, Fail(err.Error()))
			return
		}
		h.logger.Error("Get prediction failed", zap.String("request_id", requestID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"request_id": row.RequestID,
		"source":     row.Source,
		"input":      row.Sample,
		"design":     row.Response,
		"created_at": row.CreatedAt,
	}))
}

// CacheStats GET /api/v1/design/cache
func (h *DesignHandler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		writeJSON(w, http.StatusServiceUnavailable, Fail("cache disabled"))
		return
	}
	n, err := h.cache.Size(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]int{"entries": n}))
}

// PurgeCache DELETE /api/v1/design/cache
func (h *DesignHandler) PurgeCache(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		writeJSON(w, http.StatusServiceUnavailable, Fail("cache disabled"))
		return
	}
	n, err := h.cache.Purge(r.Context())
	if err != nil {
		h.logger.Error("Purge cache failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}
	h.logger.Info("Design cache purged", zap.Int64("deleted", n))
	writeJSON(w, http.StatusOK, Ok(map[string]int64{"deleted": n}))
}
