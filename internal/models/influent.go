package models

import (
	"math"
)

// FeatureCount 模型输入特征数量
const FeatureCount = 9

// Features 模型输入向量，顺序固定：
// [pH, TDS_mgL, turbidity_NTU, BOD_mgL, COD_mgL, total_nitrogen_mgL, temperature_C, flow_m3_day, heavy_metals(0/1)]
type Features [FeatureCount]float64

// InfluentSample 进水水质样本（不可变）
type InfluentSample struct {
	PH            float64 `json:"pH"`
	TDS           float64 `json:"TDS_mgL"`
	Turbidity     float64 `json:"turbidity_NTU"`
	BOD           float64 `json:"BOD_mgL"`
	COD           float64 `json:"COD_mgL"`
	TotalNitrogen float64 `json:"total_nitrogen_mgL"`
	Temperature   float64 `json:"temperature_C"`
	FlowM3PerDay  float64 `json:"flow_m3_day"`
	HeavyMetals   bool    `json:"heavy_metals"`
}

// HeavyMetalsFlag 重金属标志（0/1）
func (s InfluentSample) HeavyMetalsFlag() float64 {
	if s.HeavyMetals {
		return 1
	}
	return 0
}

// TotalVolumeLPerDay 日处理量（升）
func (s InfluentSample) TotalVolumeLPerDay() float64 {
	return s.FlowM3PerDay * 1000
}

// Features 按固定顺序输出特征向量
func (s InfluentSample) Features() Features {
	return Features{
		s.PH,
		s.TDS,
		s.Turbidity,
		s.BOD,
		s.COD,
		s.TotalNitrogen,
		s.Temperature,
		s.FlowM3PerDay,
		s.HeavyMetalsFlag(),
	}
}

// Validate 边界校验：所有读数有限、pH 在 0–14、浓度非负、流量 > 0
//
// 流量是成本分母，必须在任何成本计算之前拒绝 0 或负值。
func (s InfluentSample) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"pH", s.PH},
		{"TDS_mgL", s.TDS},
		{"turbidity_NTU", s.Turbidity},
		{"BOD_mgL", s.BOD},
		{"COD_mgL", s.COD},
		{"total_nitrogen_mgL", s.TotalNitrogen},
		{"temperature_C", s.Temperature},
		{"flow_m3_day", s.FlowM3PerDay},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return &InputError{Field: f.name, Value: f.value, Reason: "must be a finite number"}
		}
	}

	if s.FlowM3PerDay <= 0 {
		return &InputError{Field: "flow_m3_day", Value: s.FlowM3PerDay, Reason: "must be greater than 0"}
	}
	if s.PH < 0 || s.PH > 14 {
		return &InputError{Field: "pH", Value: s.PH, Reason: "must be within [0, 14]"}
	}
	for _, f := range fields[1:6] {
		if f.value < 0 {
			return &InputError{Field: f.name, Value: f.value, Reason: "must not be negative"}
		}
	}
	return nil
}

// SampleFromFeatures 从特征向量还原样本
// heavy_metals 必须是 0 或 1
func SampleFromFeatures(f Features) (InfluentSample, error) {
	hm := f[8]
	if hm != 0 && hm != 1 {
		return InfluentSample{}, &InputError{Field: "heavy_metals", Value: hm, Reason: "must be 0 or 1"}
	}
	return InfluentSample{
		PH:            f[0],
		TDS:           f[1],
		Turbidity:     f[2],
		BOD:           f[3],
		COD:           f[4],
		TotalNitrogen: f[5],
		Temperature:   f[6],
		FlowM3PerDay:  f[7],
		HeavyMetals:   hm == 1,
	}, nil
}
