package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"aquasense-design/internal/models"
)

// PredictionRow 一次推理的存档
type PredictionRow struct {
	RequestID string
	Source    string // http | mqtt | stream
	Sample    models.InfluentSample
	Response  models.DesignResponse
	CreatedAt time.Time
}

// ErrPredictionNotFound 请求编号不存在
var ErrPredictionNotFound = errors.New("prediction not found")

// PredictionRepository 推理结果存档
type PredictionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPredictionRepository 创建仓库
func NewPredictionRepository(db *sql.DB, logger *zap.Logger) *PredictionRepository {
	return &PredictionRepository{
		db:     db,
		logger: logger,
	}
}

// Insert 写入一次推理结果
func (r *PredictionRepository) Insert(ctx context.Context, row *PredictionRow) error {
	features, err := json.Marshal(row.Sample)
	if err != nil {
		return &models.PersistError{Op: "encode features", Err: err}
	}
	times, err := json.Marshal(row.Response.StageTimesMin)
	if err != nil {
		return &models.PersistError{Op: "encode stage times", Err: err}
	}
	equipment, err := json.Marshal(row.Response.StageEquipment)
	if err != nil {
		return &models.PersistError{Op: "encode stage equipment", Err: err}
	}

	query := `
		INSERT INTO design_predictions (
			request_id,
			source,
			features,
			predicted_type,
			stage_times_min,
			stage_equipment,
			cost_per_m3_inr
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (request_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query,
		row.RequestID,
		row.Source,
		features,
		row.Response.PredictedType,
		times,
		equipment,
		row.Response.CostPerM3INR,
	); err != nil {
		return &models.PersistError{Op: "insert design_predictions", Err: err}
	}
	return nil
}

// GetByRequestID 按请求编号查询
func (r *PredictionRepository) GetByRequestID(ctx context.Context, requestID string) (*PredictionRow, error) {
	query := `
		SELECT
			request_id,
			source,
			features,
			predicted_type,
			stage_times_min,
			stage_equipment,
			cost_per_m3_inr,
			created_at
		FROM design_predictions
		WHERE request_id = $1
	`
	var (
		row                    PredictionRow
		features, times, equip []byte
	)
	err := r.db.QueryRowContext(ctx, query, requestID).Scan(
		&row.RequestID,
		&row.Source,
		&features,
		&row.Response.PredictedType,
		&times,
		&equip,
		&row.Response.CostPerM3INR,
		&row.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPredictionNotFound
		}
		return nil, &models.PersistError{Op: "query design_predictions", Err: err}
	}

	if err := json.Unmarshal(features, &row.Sample); err != nil {
		return nil, &models.PersistError{Op: "decode features", Err: err}
	}
	if err := json.Unmarshal(times, &row.Response.StageTimesMin); err != nil {
		return nil, &models.PersistError{Op: "decode stage times", Err: err}
	}
	if err := json.Unmarshal(equip, &row.Response.StageEquipment); err != nil {
		return nil, &models.PersistError{Op: "decode stage equipment", Err: err}
	}
	return &row, nil
}
