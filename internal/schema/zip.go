package schema

import (
	"slices"

	"aquasense-design/internal/models"
)

// ZipDurations 将停留时间向量按位置对应到列名
// 长度必须与注册表一致，不截断也不补齐
func ZipDurations(id models.ArchetypeID, values []float64) ([]models.StageDuration, error) {
	stages, ok := stagesByArchetype[id]
	if !ok {
		return nil, &models.UnknownArchetypeError{ArchetypeID: id}
	}
	if len(values) != len(stages) {
		return nil, &models.SchemaMismatchError{
			ArchetypeID: id,
			Kind:        "stage_durations",
			Expected:    len(stages),
			Actual:      len(values),
		}
	}

	out := make([]models.StageDuration, len(stages))
	for i, s := range stages {
		out[i] = models.StageDuration{Column: s.DurationColumn(), Minutes: values[i]}
	}
	return out, nil
}

// ZipEquipment 将设备标签向量按位置对应到列名，并校验标签属于该槽位词表
func ZipEquipment(id models.ArchetypeID, labels []string) ([]models.EquipmentChoice, error) {
	stages, ok := stagesByArchetype[id]
	if !ok {
		return nil, &models.UnknownArchetypeError{ArchetypeID: id}
	}
	if len(labels) != len(stages) {
		return nil, &models.SchemaMismatchError{
			ArchetypeID: id,
			Kind:        "equipment",
			Expected:    len(stages),
			Actual:      len(labels),
		}
	}

	out := make([]models.EquipmentChoice, len(stages))
	for i, s := range stages {
		if !slices.Contains(s.Equipment, labels[i]) {
			return nil, &models.SchemaMismatchError{
				ArchetypeID: id,
				Kind:        "equipment_label",
				Expected:    len(stages),
				Actual:      len(labels),
				Slot:        s.EquipmentColumn(),
				Label:       labels[i],
			}
		}
		out[i] = models.EquipmentChoice{Column: s.EquipmentColumn(), Label: labels[i]}
	}
	return out, nil
}

// NewRecord 构造设计记录；列名取自注册表，长度与词表在构造时校验
func NewRecord(
	id models.ArchetypeID,
	sample models.InfluentSample,
	durations []float64,
	equipment []string,
	cost models.CostBreakdown,
) (*models.DesignRecord, error) {
	d, err := ZipDurations(id, durations)
	if err != nil {
		return nil, err
	}
	e, err := ZipEquipment(id, equipment)
	if err != nil {
		return nil, err
	}
	return &models.DesignRecord{
		Archetype: id,
		Sample:    sample,
		Durations: d,
		Equipment: e,
		Cost:      cost,
	}, nil
}
