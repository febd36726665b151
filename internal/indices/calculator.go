// Package indices 严重度指数计算
//
// 每个工艺类型的除数与截断区间集中在 paramsByArchetype 查找表中，
// Compute 为纯函数：同一样本、同一工艺类型始终得到相同结果。
package indices

import (
	"math"

	"aquasense-design/internal/models"
)

// Band 截断区间 [Lo, Hi]
type Band struct {
	Lo float64
	Hi float64
}

// Clamp 截断到区间内
func (b Band) Clamp(v float64) float64 {
	return Clip(v, b.Lo, b.Hi)
}

// Ratio value/Divisor 后截断；Divisor 为 0 表示该指数不适用
type Ratio struct {
	Divisor float64
	Band    Band
}

func (r Ratio) applies() bool { return r.Divisor != 0 }

func (r Ratio) of(v float64) float64 {
	return r.Band.Clamp(v / r.Divisor)
}

// Params 单个工艺类型的指数参数
type Params struct {
	Turbidity Ratio // turbidity / divisor（类型 2 称 grease，类型 3 称 grit）
	Organic   Ratio // BOD / divisor
	// OrganicCODDivisor > 0 时 organic = (BOD/Organic.Divisor + COD/OrganicCODDivisor) / 2 再截断
	OrganicCODDivisor float64
	TDS               Ratio // TDS / divisor
	Sludge            Ratio // COD / divisor
	// SludgeHeavyMetalWeight > 0 时 sludge = organic + weight*hm，不截断
	SludgeHeavyMetalWeight float64
}

var paramsByArchetype = map[models.ArchetypeID]Params{
	models.ArchetypePotable: {
		Turbidity:         Ratio{Divisor: 30, Band: Band{0.2, 3.0}},
		Organic:           Ratio{Divisor: 5, Band: Band{0.2, 3.0}},
		OrganicCODDivisor: 25,
	},
	models.ArchetypeDomestic: {
		Turbidity: Ratio{Divisor: 150, Band: Band{0.3, 3.0}},
		Organic:   Ratio{Divisor: 250, Band: Band{0.4, 3.0}},
	},
	models.ArchetypeRecycleMBR: {
		Turbidity: Ratio{Divisor: 150, Band: Band{0.3, 3.0}},
		Organic:   Ratio{Divisor: 200, Band: Band{0.5, 2.5}},
		TDS:       Ratio{Divisor: 1000, Band: Band{0.3, 3.0}},
	},
	models.ArchetypeIndustrial: {
		Organic:                Ratio{Divisor: 300, Band: Band{0.3, 3.0}},
		OrganicCODDivisor:      600,
		TDS:                    Ratio{Divisor: 2000, Band: Band{0.4, 3.0}},
		SludgeHeavyMetalWeight: 0.5,
	},
	models.ArchetypeHighOrganic: {
		Organic: Ratio{Divisor: 1000, Band: Band{0.5, 3.0}},
		Sludge:  Ratio{Divisor: 2000, Band: Band{0.5, 3.0}},
	},
}

// ParamsFor 查询工艺类型的指数参数
func ParamsFor(id models.ArchetypeID) (Params, error) {
	p, ok := paramsByArchetype[id]
	if !ok {
		return Params{}, &models.UnknownArchetypeError{ArchetypeID: id}
	}
	return p, nil
}

// Compute 按工艺类型计算严重度指数，不适用的指数为 0
func Compute(id models.ArchetypeID, s models.InfluentSample) (models.SeverityIndices, error) {
	p, err := ParamsFor(id)
	if err != nil {
		return models.SeverityIndices{}, err
	}

	var out models.SeverityIndices
	if p.Turbidity.applies() {
		out.TurbidityIndex = p.Turbidity.of(s.Turbidity)
	}
	if p.Organic.applies() {
		if p.OrganicCODDivisor > 0 {
			raw := (s.BOD/p.Organic.Divisor + s.COD/p.OrganicCODDivisor) / 2
			out.OrganicIndex = p.Organic.Band.Clamp(raw)
		} else {
			out.OrganicIndex = p.Organic.of(s.BOD)
		}
	}
	if p.TDS.applies() {
		out.TDSIndex = p.TDS.of(s.TDS)
	}
	switch {
	case p.SludgeHeavyMetalWeight > 0:
		out.SludgeIndex = out.OrganicIndex + p.SludgeHeavyMetalWeight*s.HeavyMetalsFlag()
	case p.Sludge.applies():
		out.SludgeIndex = p.Sludge.of(s.COD)
	}
	out.PHDeviation = math.Abs(s.PH - 7.0)
	return out, nil
}

// Clip 截断到 [lo, hi]
func Clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
