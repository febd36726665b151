package simulator

import (
	"math/rand/v2"
)

// Sampler 随机源抽象
//
// 生成数据用 RandSampler（按工艺类型独立种子），
// 确定性推理用 MidpointSampler（取区间中点）。
type Sampler interface {
	Uniform(lo, hi float64) float64
	Bernoulli(p float64) bool
}

// RandSampler 基于 PCG 的可复现随机源，非并发安全，每个工艺类型各持一个
type RandSampler struct {
	rng *rand.Rand
}

// NewRandSampler 创建随机源；同一 seed 产生相同序列
func NewRandSampler(seed uint64) *RandSampler {
	return &RandSampler{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Uniform [lo, hi) 均匀分布
func (s *RandSampler) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*s.rng.Float64()
}

// Bernoulli 以概率 p 返回 true
func (s *RandSampler) Bernoulli(p float64) bool {
	return s.rng.Float64() < p
}

// MidpointSampler 确定性采样：Uniform 取中点
type MidpointSampler struct{}

func (MidpointSampler) Uniform(lo, hi float64) float64 { return (lo + hi) / 2 }

func (MidpointSampler) Bernoulli(p float64) bool { return p >= 0.5 }
