// Package simulator 五种工艺类型的参数化设计模拟器
//
// 每个模拟器根据进水样本和严重度指数生成各工段停留时间、设备选型和成本。
// 列名一律取自 schema 注册表，记录通过 schema.NewRecord 构造。
package simulator

import (
	"fmt"

	"aquasense-design/internal/indices"
	"aquasense-design/internal/models"
)

// Simulator 单一工艺类型的模拟器
type Simulator interface {
	Archetype() models.ArchetypeID
	Envelope() Envelope
	// Bands 各工段停留时间的截断区间，顺序与 schema.StageColumns 一致
	Bands() []indices.Band
	// SimulateOne 对一条样本生成设计记录；每个工段的 base 抽样一次
	SimulateOne(sample models.InfluentSample, s Sampler) (*models.DesignRecord, error)
}

var simulators = map[models.ArchetypeID]Simulator{
	models.ArchetypePotable:     potable{},
	models.ArchetypeDomestic:    domestic{},
	models.ArchetypeRecycleMBR:  recycleMBR{},
	models.ArchetypeIndustrial:  industrial{},
	models.ArchetypeHighOrganic: highOrganic{},
}

// For 获取工艺类型的模拟器
func For(id models.ArchetypeID) (Simulator, error) {
	sim, ok := simulators[id]
	if !ok {
		return nil, &models.UnknownArchetypeError{ArchetypeID: id}
	}
	return sim, nil
}

// Simulate 用给定种子生成 n 条记录；同一 (seed, n) 结果完全相同
func Simulate(sim Simulator, seed uint64, n int) ([]*models.DesignRecord, error) {
	if n < 0 {
		return nil, fmt.Errorf("record count must not be negative: %d", n)
	}
	rng := NewRandSampler(seed)
	env := sim.Envelope()

	records := make([]*models.DesignRecord, 0, n)
	for i := 0; i < n; i++ {
		rec, err := sim.SimulateOne(env.Draw(rng), rng)
		if err != nil {
			return nil, fmt.Errorf("failed to simulate %s row %d: %w", sim.Archetype(), i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// prepare 边界校验并计算指数
func prepare(id models.ArchetypeID, sample models.InfluentSample) (models.SeverityIndices, error) {
	if err := sample.Validate(); err != nil {
		return models.SeverityIndices{}, err
	}
	return indices.Compute(id, sample)
}

// stageRule duration = clip(U(BaseLo,BaseHi) * (Offset + Coef*index), Min, Max)
type stageRule struct {
	BaseLo float64
	BaseHi float64
	Offset float64
	Coef   float64
	Min    float64
	Max    float64
}

// plain 无修正系数的工段
func plain(lo, hi, min, max float64) stageRule {
	return stageRule{BaseLo: lo, BaseHi: hi, Offset: 1, Min: min, Max: max}
}

func (r stageRule) band() indices.Band { return indices.Band{Lo: r.Min, Hi: r.Max} }

func (r stageRule) draw(s Sampler, index float64) float64 {
	return r.drawPlus(s, index, 0)
}

// drawPlus 在修正后、截断前追加固定分钟数
func (r stageRule) drawPlus(s Sampler, index, extra float64) float64 {
	base := s.Uniform(r.BaseLo, r.BaseHi)
	return indices.Clip(base*(r.Offset+r.Coef*index)+extra, r.Min, r.Max)
}

func bandsOf(rules ...stageRule) []indices.Band {
	out := make([]indices.Band, len(rules))
	for i, r := range rules {
		out[i] = r.band()
	}
	return out
}

// tier v < threshold 选 lower，否则 upper
func tier(v, threshold float64, lower, upper string) string {
	if v < threshold {
		return lower
	}
	return upper
}

func hours(minutes ...float64) float64 {
	total := 0.0
	for _, m := range minutes {
		total += m
	}
	return total / 60
}
