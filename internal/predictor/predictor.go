// Package predictor 分类器与各工艺类型预测器
//
// 分类器和每种工艺类型的 (停留时间, 设备, 成本) 预测器三元组在启动时装入 Registry，
// 之后只读，可被并发请求共享。
package predictor

import (
	"context"
	"fmt"

	"aquasense-design/internal/models"
)

// Classifier 工艺类型分类器
//
// 返回原始预测值，是否落在 1–5 由调用方校验。
type Classifier interface {
	Classify(ctx context.Context, f models.Features) (int, error)
}

// DurationPredictor 停留时间预测，向量长度应等于该类型的工段列数
type DurationPredictor interface {
	PredictDurations(ctx context.Context, f models.Features) ([]float64, error)
}

// EquipmentPredictor 设备选型预测，向量长度应等于该类型的设备列数
type EquipmentPredictor interface {
	PredictEquipment(ctx context.Context, f models.Features) ([]string, error)
}

// CostPredictor 单方成本预测（INR/m³）
type CostPredictor interface {
	PredictCost(ctx context.Context, f models.Features) (float64, error)
}

// Triple 单一工艺类型的预测器三元组
type Triple struct {
	Durations DurationPredictor
	Equipment EquipmentPredictor
	Cost      CostPredictor
}

func (t Triple) complete() bool {
	return t.Durations != nil && t.Equipment != nil && t.Cost != nil
}

// Registry 不可变的预测器注册表
type Registry struct {
	classifier Classifier
	triples    map[models.ArchetypeID]Triple
}

// NewRegistry 构造注册表；五种工艺类型都必须有完整的三元组
func NewRegistry(classifier Classifier, triples map[models.ArchetypeID]Triple) (*Registry, error) {
	if classifier == nil {
		return nil, fmt.Errorf("classifier is required")
	}
	copied := make(map[models.ArchetypeID]Triple, len(triples))
	for id, t := range triples {
		if !id.Valid() {
			return nil, &models.UnknownArchetypeError{ArchetypeID: id}
		}
		copied[id] = t
	}
	for _, id := range models.AllArchetypes {
		t, ok := copied[id]
		if !ok || !t.complete() {
			return nil, fmt.Errorf("incomplete predictor triple for %s", id)
		}
	}
	return &Registry{classifier: classifier, triples: copied}, nil
}

// Classifier 分类器
func (r *Registry) Classifier() Classifier {
	return r.classifier
}

// Triple 查询工艺类型的预测器三元组
func (r *Registry) Triple(id models.ArchetypeID) (Triple, error) {
	t, ok := r.triples[id]
	if !ok {
		return Triple{}, &models.UnknownArchetypeError{ArchetypeID: id}
	}
	return t, nil
}
