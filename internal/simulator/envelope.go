package simulator

import (
	"aquasense-design/internal/indices"
	"aquasense-design/internal/models"
)

// Envelope 进水采样范围（仅数据生成使用）
type Envelope struct {
	PH            indices.Band
	TDS           indices.Band
	Turbidity     indices.Band
	BOD           indices.Band
	COD           indices.Band
	TotalNitrogen indices.Band
	Temperature   indices.Band
	Flow          indices.Band
	HeavyMetalsP  float64 // 0 表示该类型不含重金属，不抽样
}

func (e Envelope) bands() [8]indices.Band {
	return [8]indices.Band{e.PH, e.TDS, e.Turbidity, e.BOD, e.COD, e.TotalNitrogen, e.Temperature, e.Flow}
}

// Draw 按特征顺序依次抽取一条样本
func (e Envelope) Draw(s Sampler) models.InfluentSample {
	out := models.InfluentSample{
		PH:            s.Uniform(e.PH.Lo, e.PH.Hi),
		TDS:           s.Uniform(e.TDS.Lo, e.TDS.Hi),
		Turbidity:     s.Uniform(e.Turbidity.Lo, e.Turbidity.Hi),
		BOD:           s.Uniform(e.BOD.Lo, e.BOD.Hi),
		COD:           s.Uniform(e.COD.Lo, e.COD.Hi),
		TotalNitrogen: s.Uniform(e.TotalNitrogen.Lo, e.TotalNitrogen.Hi),
		Temperature:   s.Uniform(e.Temperature.Lo, e.Temperature.Hi),
		FlowM3PerDay:  s.Uniform(e.Flow.Lo, e.Flow.Hi),
	}
	if e.HeavyMetalsP > 0 {
		out.HeavyMetals = s.Bernoulli(e.HeavyMetalsP)
	}
	return out
}

// Score 样本落在范围内的特征个数（0–9）
//
// 重金属：类型不含重金属时只有 hm=0 计分，否则两种取值都计分。
func (e Envelope) Score(s models.InfluentSample) int {
	f := s.Features()
	score := 0
	for i, b := range e.bands() {
		if f[i] >= b.Lo && f[i] <= b.Hi {
			score++
		}
	}
	if !s.HeavyMetals || e.HeavyMetalsP > 0 {
		score++
	}
	return score
}

// Contains 全部特征均在范围内
func (e Envelope) Contains(s models.InfluentSample) bool {
	return e.Score(s) == models.FeatureCount
}
