package predictor

import (
	"context"

	"aquasense-design/internal/models"
	"aquasense-design/internal/simulator"
)

// Simulated 以模拟器为后端的确定性预测器（各工段 base 取区间中点）
//
// 未接入模型服务时作为默认预测器使用。
type Simulated struct {
	sim simulator.Simulator
}

// NewSimulated 创建模拟器预测器
func NewSimulated(sim simulator.Simulator) *Simulated {
	return &Simulated{sim: sim}
}

func (p *Simulated) run(f models.Features) (*models.DesignRecord, error) {
	sample, err := models.SampleFromFeatures(f)
	if err != nil {
		return nil, err
	}
	return p.sim.SimulateOne(sample, simulator.MidpointSampler{})
}

// PredictDurations 按工段顺序返回停留时间
func (p *Simulated) PredictDurations(_ context.Context, f models.Features) ([]float64, error) {
	rec, err := p.run(f)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(rec.Durations))
	for i, d := range rec.Durations {
		out[i] = d.Minutes
	}
	return out, nil
}

// PredictEquipment 按工段顺序返回设备标签
func (p *Simulated) PredictEquipment(_ context.Context, f models.Features) ([]string, error) {
	rec, err := p.run(f)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(rec.Equipment))
	for i, e := range rec.Equipment {
		out[i] = e.Label
	}
	return out, nil
}

// PredictCost 单方成本
func (p *Simulated) PredictCost(_ context.Context, f models.Features) (float64, error) {
	rec, err := p.run(f)
	if err != nil {
		return 0, err
	}
	return rec.Cost.CostPerM3INR, nil
}

// Triple 三个角色都由同一个模拟器承担
func (p *Simulated) Triple() Triple {
	return Triple{Durations: p, Equipment: p, Cost: p}
}

// EnvelopeClassifier 按采样范围命中特征数打分，得分最高者胜；同分取编号最小者
type EnvelopeClassifier struct {
	envelopes []archetypeEnvelope
}

type archetypeEnvelope struct {
	id  models.ArchetypeID
	env simulator.Envelope
}

// NewEnvelopeClassifier 用五个模拟器的采样范围构造分类器
func NewEnvelopeClassifier() *EnvelopeClassifier {
	c := &EnvelopeClassifier{}
	for _, id := range models.AllArchetypes {
		sim, _ := simulator.For(id)
		c.envelopes = append(c.envelopes, archetypeEnvelope{id: id, env: sim.Envelope()})
	}
	return c
}

// Classify 返回得分最高的工艺类型
func (c *EnvelopeClassifier) Classify(_ context.Context, f models.Features) (int, error) {
	sample, err := models.SampleFromFeatures(f)
	if err != nil {
		return 0, err
	}
	best, bestScore := models.ArchetypeID(0), -1
	for _, e := range c.envelopes {
		if score := e.env.Score(sample); score > bestScore {
			best, bestScore = e.id, score
		}
	}
	return int(best), nil
}

// NewSimulatedRegistry 全部由模拟器承担的注册表
func NewSimulatedRegistry() (*Registry, error) {
	triples := make(map[models.ArchetypeID]Triple, len(models.AllArchetypes))
	for _, id := range models.AllArchetypes {
		sim, err := simulator.For(id)
		if err != nil {
			return nil, err
		}
		triples[id] = NewSimulated(sim).Triple()
	}
	return NewRegistry(NewEnvelopeClassifier(), triples)
}
