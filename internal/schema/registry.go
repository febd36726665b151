// Package schema 工艺类型列注册表
//
// 每种工艺类型的工段顺序、停留时间列名、设备列名以及每个设备槽位的标签词表
// 只在这里声明一次；数据生成、导出和推理调度都通过本包取列名，
// 不允许在别处重复列名字面量。
package schema

import (
	"slices"

	"aquasense-design/internal/models"
)

// Stage 工段定义
type Stage struct {
	Key       string   // 列名主体，如 "coag_floc"
	Name      string   // 展示名
	Equipment []string // 该槽位允许的设备标签
}

// DurationColumn 停留时间列名，如 "t_coag_floc_min"
func (s Stage) DurationColumn() string { return "t_" + s.Key + "_min" }

// EquipmentColumn 设备列名，如 "equip_coag_floc"
func (s Stage) EquipmentColumn() string { return "equip_" + s.Key }

// 固定列
const (
	ColumnType        = "type"
	ColumnTotalVolume = "total_volume_L_day"
	ColumnCapex       = "capex_inr"
	ColumnOpex        = "opex_per_day_inr"
	ColumnCostPerM3   = "cost_per_m3_inr"
)

// FeatureColumns 模型特征列，顺序与 models.Features 一致
var featureColumns = []string{
	"pH",
	"TDS_mgL",
	"turbidity_NTU",
	"BOD_mgL",
	"COD_mgL",
	"total_nitrogen_mgL",
	"temperature_C",
	"flow_m3_day",
	"heavy_metals",
}

var stagesByArchetype = map[models.ArchetypeID][]Stage{
	// Screening → Coagulation & Flocculation → Sedimentation → Filtration → Carbon Polishing → Disinfection
	models.ArchetypePotable: {
		{Key: "screening", Name: "Screening", Equipment: []string{"coarse_bar_screen", "fine_bar_screen"}},
		{Key: "coag_floc", Name: "Coagulation & Flocculation", Equipment: []string{"rapid_mixer_light", "rapid_mixer_standard", "rapid_mixer_high_rate"}},
		{Key: "sedimentation", Name: "Sedimentation", Equipment: []string{"circular_clarifier", "hopper_bottom_clarifier"}},
		{Key: "filtration", Name: "Filtration", Equipment: []string{"rapid_sand_filter", "dual_media_filter"}},
		{Key: "carbon_polishing", Name: "Activated Carbon Polishing", Equipment: []string{"pressure_carbon_filter"}},
		{Key: "disinfection", Name: "Disinfection", Equipment: []string{"uv_disinfection", "chlorination_system"}},
	},
	// Screening → Oil & Grease → Equalization → Coag-Floc → Primary Clarifier → Aeration
	// → Secondary Clarifier → Filtration → Disinfection
	models.ArchetypeDomestic: {
		{Key: "screening", Name: "Screening", Equipment: []string{"manual_bar_screen", "mechanical_bar_screen"}},
		{Key: "oil_grease", Name: "Oil & Grease Removal", Equipment: []string{"api_separator", "cpi_separator"}},
		{Key: "equalization", Name: "Equalization", Equipment: []string{"circular_eq_tank", "rectangular_eq_tank"}},
		{Key: "coag_floc", Name: "Coagulation & Flocculation", Equipment: []string{"flash_mixer_plus_flocculator"}},
		{Key: "primary_clarifier", Name: "Primary Clarifier", Equipment: []string{"primary_clarifier_circular"}},
		{Key: "aeration", Name: "Aeration", Equipment: []string{"extended_aeration", "diffused_aeration"}},
		{Key: "secondary_clarifier", Name: "Secondary Clarifier", Equipment: []string{"secondary_clarifier_circular"}},
		{Key: "filtration", Name: "Filtration", Equipment: []string{"pressure_sand_filter", "dual_media_filter"}},
		{Key: "disinfection", Name: "Disinfection", Equipment: []string{"chlorination"}},
	},
	// Screening → Grit Chamber → Equalization → Biological Reactor → MBR → Activated Carbon → Disinfection
	models.ArchetypeRecycleMBR: {
		{Key: "screening", Name: "Screening", Equipment: []string{"fine_screen"}},
		{Key: "grit_chamber", Name: "Grit Chamber", Equipment: []string{"vortex_grit_chamber", "aerated_grit_chamber"}},
		{Key: "equalization", Name: "Equalization", Equipment: []string{"eq_tank_with_mixing"}},
		{Key: "biological_reactor", Name: "Biological Reactor", Equipment: []string{"anoxic_aerobic_bioreactor"}},
		{Key: "mbr", Name: "Membrane Bioreactor", Equipment: []string{"submerged_mbr", "external_mbr"}},
		{Key: "activated_carbon", Name: "Activated Carbon Filter", Equipment: []string{"pressure_carbon_filter"}},
		{Key: "disinfection", Name: "Disinfection", Equipment: []string{"uv_disinfection"}},
	},
	// Screening → Neutralization → Chemical Precipitation → Heavy Metal Removal → Filter Press → Carbon Filter → RO
	models.ArchetypeIndustrial: {
		{Key: "screening", Name: "Screening", Equipment: []string{"coarse_bar_screen", "fine_bar_screen", "mechanical_screen"}},
		{Key: "neutralization", Name: "Neutralization", Equipment: []string{"batch_neutralization_tank", "continuous_stirred_tank"}},
		{Key: "precipitation", Name: "Chemical Precipitation", Equipment: []string{"circular_clarifier", "rectangular_clarifier"}},
		{Key: "heavy_metal_removal", Name: "Heavy Metal Removal", Equipment: []string{"none", "chemical_precipitation_unit", "precipitation_plus_ion_exchange"}},
		{Key: "filter_press", Name: "Filter Press", Equipment: []string{"plate_and_frame_press", "belt_filter_press"}},
		{Key: "carbon_filter", Name: "Carbon Filter", Equipment: []string{"pressure_carbon_filter", "gravity_carbon_filter"}},
		{Key: "ro", Name: "Reverse Osmosis", Equipment: []string{"single_pass_ro", "double_pass_ro", "ro_with_energy_recovery"}},
	},
	// Screening → Anaerobic Reactor → Biogas Handling → Aeration → Secondary Clarifier
	// → Sludge Handling → Tertiary Filtration
	models.ArchetypeHighOrganic: {
		{Key: "screening", Name: "Screening", Equipment: []string{"coarse_screen", "mechanical_screen"}},
		{Key: "anaerobic_reactor", Name: "Anaerobic Reactor", Equipment: []string{"anaerobic_filter", "uasb_reactor"}},
		{Key: "biogas_handling", Name: "Biogas Handling", Equipment: []string{"biogas_holder_and_flare"}},
		{Key: "aeration", Name: "Aeration Tank", Equipment: []string{"diffused_aeration_tank"}},
		{Key: "secondary_clarifier", Name: "Secondary Clarifier", Equipment: []string{"secondary_clarifier_circular"}},
		{Key: "sludge_handling", Name: "Sludge Handling", Equipment: []string{"sludge_drying_beds", "sludge_thickener_plus_press"}},
		{Key: "tertiary_filtration", Name: "Tertiary Filtration", Equipment: []string{"pressure_sand_filter_plus_acf"}},
	},
}

// FeatureColumns 返回模型特征列（副本）
func FeatureColumns() []string {
	return slices.Clone(featureColumns)
}

// Stages 返回工艺类型的工段定义（副本）
func Stages(id models.ArchetypeID) ([]Stage, error) {
	stages, ok := stagesByArchetype[id]
	if !ok {
		return nil, &models.UnknownArchetypeError{ArchetypeID: id}
	}
	out := make([]Stage, len(stages))
	for i, s := range stages {
		out[i] = Stage{Key: s.Key, Name: s.Name, Equipment: slices.Clone(s.Equipment)}
	}
	return out, nil
}

// StageColumns 停留时间列名（按工段顺序）
func StageColumns(id models.ArchetypeID) ([]string, error) {
	stages, ok := stagesByArchetype[id]
	if !ok {
		return nil, &models.UnknownArchetypeError{ArchetypeID: id}
	}
	cols := make([]string, len(stages))
	for i, s := range stages {
		cols[i] = s.DurationColumn()
	}
	return cols, nil
}

// EquipmentColumns 设备列名（按工段顺序）
func EquipmentColumns(id models.ArchetypeID) ([]string, error) {
	stages, ok := stagesByArchetype[id]
	if !ok {
		return nil, &models.UnknownArchetypeError{ArchetypeID: id}
	}
	cols := make([]string, len(stages))
	for i, s := range stages {
		cols[i] = s.EquipmentColumn()
	}
	return cols, nil
}

// TableColumns 单一工艺类型数据表的完整列顺序：
// type, 特征(不含 heavy_metals), total_volume_L_day, heavy_metals, t_*, equip_*, capex, opex, cost
func TableColumns(id models.ArchetypeID) ([]string, error) {
	stageCols, err := StageColumns(id)
	if err != nil {
		return nil, err
	}
	equipCols, _ := EquipmentColumns(id)

	cols := make([]string, 0, 1+len(featureColumns)+1+len(stageCols)+len(equipCols)+3)
	cols = append(cols, ColumnType)
	cols = append(cols, featureColumns[:8]...)
	cols = append(cols, ColumnTotalVolume, featureColumns[8])
	cols = append(cols, stageCols...)
	cols = append(cols, equipCols...)
	cols = append(cols, ColumnCapex, ColumnOpex, ColumnCostPerM3)
	return cols, nil
}

// UnionColumns 合并表的列：按工艺类型 1..5 依次出现的顺序去重
func UnionColumns() []string {
	var cols []string
	seen := make(map[string]bool)
	for _, id := range models.AllArchetypes {
		tableCols, _ := TableColumns(id)
		for _, c := range tableCols {
			if !seen[c] {
				seen[c] = true
				cols = append(cols, c)
			}
		}
	}
	return cols
}
