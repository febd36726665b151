package models

// SeverityIndices 无量纲严重度指数（每个样本重新计算，不缓存）
//
// 不适用于某一工艺类型的指数保持为 0。
type SeverityIndices struct {
	TurbidityIndex float64 `json:"turbidity_index"`
	OrganicIndex   float64 `json:"organic_index"`
	TDSIndex       float64 `json:"tds_index"`
	SludgeIndex    float64 `json:"sludge_index"`
	PHDeviation    float64 `json:"pH_deviation"`
}

// StageDuration 单个工段停留时间（分钟）
type StageDuration struct {
	Column  string  `json:"column"`
	Minutes float64 `json:"minutes"`
}

// EquipmentChoice 单个设备槽位的选型
type EquipmentChoice struct {
	Column string `json:"column"`
	Label  string `json:"label"`
}

// CostBreakdown 成本（INR）
type CostBreakdown struct {
	CapexINR      float64 `json:"capex_inr"`
	OpexPerDayINR float64 `json:"opex_per_day_inr"`
	CostPerM3INR  float64 `json:"cost_per_m3_inr"`
}

// NewCostBreakdown 由 capex/opex 推导单方成本
// 调用方须保证 flow > 0（InfluentSample.Validate）
func NewCostBreakdown(capex, opexPerDay, flowM3PerDay float64) CostBreakdown {
	return CostBreakdown{
		CapexINR:      capex,
		OpexPerDayINR: opexPerDay,
		CostPerM3INR:  opexPerDay / flowM3PerDay,
	}
}

// DesignRecord 一条完整设计记录（生成或推理得到，创建后不再修改）
//
// Durations / Equipment 的顺序与 schema 注册表声明的列顺序一致，
// 只能通过 schema.NewRecord 构造。
type DesignRecord struct {
	Archetype ArchetypeID       `json:"type"`
	Sample    InfluentSample    `json:"sample"`
	Durations []StageDuration   `json:"stage_durations"`
	Equipment []EquipmentChoice `json:"stage_equipment"`
	Cost      CostBreakdown     `json:"cost"`
}

// DurationMap 列名 -> 分钟
func (r *DesignRecord) DurationMap() map[string]float64 {
	out := make(map[string]float64, len(r.Durations))
	for _, d := range r.Durations {
		out[d.Column] = d.Minutes
	}
	return out
}

// EquipmentMap 列名 -> 设备标签
func (r *DesignRecord) EquipmentMap() map[string]string {
	out := make(map[string]string, len(r.Equipment))
	for _, e := range r.Equipment {
		out[e.Column] = e.Label
	}
	return out
}

// DesignResponse 推理响应
type DesignResponse struct {
	PredictedType  int                `json:"predicted_type"`
	StageTimesMin  map[string]float64 `json:"stage_times_min"`
	StageEquipment map[string]string  `json:"stage_equipment"`
	CostPerM3INR   float64            `json:"cost_per_m3_inr"`
}
