package models

import "fmt"

// ArchetypeID 处理工艺类型（1–5）
type ArchetypeID int

const (
	ArchetypePotable     ArchetypeID = 1 // 饮用水
	ArchetypeDomestic    ArchetypeID = 2 // 生活污水 / 灰水（STP）
	ArchetypeRecycleMBR  ArchetypeID = 3 // 再生水（MBR）
	ArchetypeIndustrial  ArchetypeID = 4 // 工业废水（高 TDS / 重金属）
	ArchetypeHighOrganic ArchetypeID = 5 // 高有机负荷废水
)

// AllArchetypes 按编号排列的全部工艺类型
var AllArchetypes = []ArchetypeID{
	ArchetypePotable,
	ArchetypeDomestic,
	ArchetypeRecycleMBR,
	ArchetypeIndustrial,
	ArchetypeHighOrganic,
}

// Valid 是否为已知工艺类型
func (a ArchetypeID) Valid() bool {
	return a >= ArchetypePotable && a <= ArchetypeHighOrganic
}

// Slug 文件名/表名使用的短名称
func (a ArchetypeID) Slug() string {
	switch a {
	case ArchetypePotable:
		return "potable"
	case ArchetypeDomestic:
		return "domestic"
	case ArchetypeRecycleMBR:
		return "recycle_mbr"
	case ArchetypeIndustrial:
		return "industrial"
	case ArchetypeHighOrganic:
		return "high_organic"
	default:
		return fmt.Sprintf("unknown_%d", int(a))
	}
}

func (a ArchetypeID) String() string {
	return fmt.Sprintf("type%d_%s", int(a), a.Slug())
}
