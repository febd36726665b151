// Package consumer 进水遥测与批量请求的消费者
package consumer

import (
	"context"

	"aquasense-design/internal/models"
	"aquasense-design/internal/service"
)

// DesignPredictor 推理用例（由 service.DesignService 实现）
type DesignPredictor interface {
	Predict(ctx context.Context, sample models.InfluentSample, source, site string) (*service.DesignResult, error)
}
