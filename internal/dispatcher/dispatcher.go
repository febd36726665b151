// Package dispatcher 设计推理调度
//
// 状态流转：RECEIVED → CLASSIFIED → PREDICTED → ASSEMBLED，任何一步失败进入 ERROR。
// 每个请求独立、同步执行，预测器注册表只读，并发请求之间无需协调。
package dispatcher

import (
	"context"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"aquasense-design/internal/models"
	"aquasense-design/internal/predictor"
	"aquasense-design/internal/schema"
)

// State 调度状态
type State int

const (
	StateReceived State = iota
	StateClassified
	StatePredicted
	StateAssembled
	StateError
)

func (s State) String() string {
	switch s {
	case StateReceived:
		return "RECEIVED"
	case StateClassified:
		return "CLASSIFIED"
	case StatePredicted:
		return "PREDICTED"
	case StateAssembled:
		return "ASSEMBLED"
	case StateError:
		return "ERROR"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// DispatchError 调度失败；Stage 为失败前最后到达的状态
type DispatchError struct {
	Stage       State
	ArchetypeID models.ArchetypeID // 分类前失败时为 0
	Err         error
}

func (e *DispatchError) Error() string {
	if e.ArchetypeID != 0 {
		return fmt.Sprintf("dispatch failed after %s (archetype %d): %v", e.Stage, int(e.ArchetypeID), e.Err)
	}
	return fmt.Sprintf("dispatch failed after %s: %v", e.Stage, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// Dispatcher 推理调度器
type Dispatcher struct {
	registry *predictor.Registry
	logger   *zap.Logger
}

// New 创建调度器
func New(registry *predictor.Registry, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{registry: registry, logger: logger}
}

// Dispatch 分类并调用对应工艺类型的预测器，组装响应
//
// 失败时不返回部分组装的响应。
func (d *Dispatcher) Dispatch(ctx context.Context, sample models.InfluentSample) (*models.DesignResponse, error) {
	state := StateReceived
	fail := func(id models.ArchetypeID, err error) (*models.DesignResponse, error) {
		d.logger.Debug("Dispatch failed",
			zap.String("state", state.String()),
			zap.Int("archetype_id", int(id)),
			zap.Error(err),
		)
		return nil, &DispatchError{Stage: state, ArchetypeID: id, Err: err}
	}

	if err := sample.Validate(); err != nil {
		return fail(0, err)
	}
	features := sample.Features()

	// RECEIVED → CLASSIFIED
	raw, err := d.registry.Classifier().Classify(ctx, features)
	if err != nil {
		return fail(0, &models.ClassificationError{Cause: err})
	}
	id := models.ArchetypeID(raw)
	if !id.Valid() {
		return fail(0, &models.ClassificationError{Value: raw})
	}
	state = StateClassified

	// CLASSIFIED → PREDICTED
	triple, err := d.registry.Triple(id)
	if err != nil {
		return fail(id, err)
	}
	durations, err := triple.Durations.PredictDurations(ctx, features)
	if err != nil {
		return fail(id, fmt.Errorf("failed to predict stage durations: %w", err))
	}
	labels, err := triple.Equipment.PredictEquipment(ctx, features)
	if err != nil {
		return fail(id, fmt.Errorf("failed to predict equipment: %w", err))
	}
	cost, err := triple.Cost.PredictCost(ctx, features)
	if err != nil {
		return fail(id, fmt.Errorf("failed to predict cost: %w", err))
	}
	if !finite(cost) {
		return fail(id, &models.NonFinitePredictionError{ArchetypeID: id, Column: schema.ColumnCostPerM3, Value: cost})
	}

	named, err := schema.ZipDurations(id, durations)
	if err != nil {
		return fail(id, err)
	}
	for _, n := range named {
		if !finite(n.Minutes) {
			return fail(id, &models.NonFinitePredictionError{ArchetypeID: id, Column: n.Column, Value: n.Minutes})
		}
	}
	equipment, err := schema.ZipEquipment(id, labels)
	if err != nil {
		return fail(id, err)
	}
	state = StatePredicted

	// PREDICTED → ASSEMBLED
	resp := &models.DesignResponse{
		PredictedType:  int(id),
		StageTimesMin:  make(map[string]float64, len(named)),
		StageEquipment: make(map[string]string, len(equipment)),
		CostPerM3INR:   Round2(cost),
	}
	for _, n := range named {
		resp.StageTimesMin[n.Column] = Round2(n.Minutes)
	}
	for _, e := range equipment {
		resp.StageEquipment[e.Column] = e.Label
	}
	state = StateAssembled

	d.logger.Debug("Dispatch completed",
		zap.String("state", state.String()),
		zap.Int("archetype_id", int(id)),
		zap.Float64("cost_per_m3_inr", resp.CostPerM3INR),
	)
	return resp, nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Round2 四舍五入到两位小数（仅用于展示）
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
