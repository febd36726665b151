// Package dataset 数据集组装
//
// 把模拟器生成的 DesignRecord 展平为按列名索引的行集；
// 合并表按列名做外连接，某行不存在的列为显式 null（不是 0）。
package dataset

import (
	"fmt"
	"strconv"

	"aquasense-design/internal/models"
	"aquasense-design/internal/schema"
)

// CellKind 单元格类型
type CellKind int

const (
	CellNull CellKind = iota // 零值即 null
	CellNumber
	CellText
)

// Cell 表格单元格
type Cell struct {
	Kind   CellKind
	Number float64
	Text   string
}

// Num 数值单元格
func Num(v float64) Cell { return Cell{Kind: CellNumber, Number: v} }

// Text 文本单元格
func Text(s string) Cell { return Cell{Kind: CellText, Text: s} }

// IsNull 是否为 null
func (c Cell) IsNull() bool { return c.Kind == CellNull }

// String CSV 表示：null 为空串，数值用最短无损格式
func (c Cell) String() string {
	switch c.Kind {
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'g', -1, 64)
	case CellText:
		return c.Text
	default:
		return ""
	}
}

// Table 扁平行集；每行与 Columns 等长
type Table struct {
	Name    string
	Columns []string
	Rows    [][]Cell
}

// ColumnIndex 列下标，不存在返回 -1
func (t *Table) ColumnIndex(col string) int {
	for i, c := range t.Columns {
		if c == col {
			return i
		}
	}
	return -1
}

// Value 读取单元格；列不存在时 ok=false
func (t *Table) Value(row int, col string) (Cell, bool) {
	i := t.ColumnIndex(col)
	if i < 0 || row < 0 || row >= len(t.Rows) {
		return Cell{}, false
	}
	return t.Rows[row][i], true
}

// TableName 单一工艺类型表名，如 "type1_potable_synthetic"
func TableName(id models.ArchetypeID) string {
	return id.String() + "_synthetic"
}

// UnionTableName 合并表名
const UnionTableName = "synthetic_designs_all_types"

// RecordCells 将记录按列名展平
func RecordCells(rec *models.DesignRecord) map[string]Cell {
	s := rec.Sample
	cells := map[string]Cell{
		schema.ColumnType:        Num(float64(rec.Archetype)),
		schema.ColumnTotalVolume: Num(s.TotalVolumeLPerDay()),
		schema.ColumnCapex:       Num(rec.Cost.CapexINR),
		schema.ColumnOpex:        Num(rec.Cost.OpexPerDayINR),
		schema.ColumnCostPerM3:   Num(rec.Cost.CostPerM3INR),
	}
	features := s.Features()
	for i, col := range schema.FeatureColumns() {
		cells[col] = Num(features[i])
	}
	for _, d := range rec.Durations {
		cells[d.Column] = Num(d.Minutes)
	}
	for _, e := range rec.Equipment {
		cells[e.Column] = Text(e.Label)
	}
	return cells
}

// RecordTable 单一工艺类型的记录表
func RecordTable(id models.ArchetypeID, records []*models.DesignRecord) (*Table, error) {
	cols, err := schema.TableColumns(id)
	if err != nil {
		return nil, err
	}
	t := &Table{Name: TableName(id), Columns: cols, Rows: make([][]Cell, 0, len(records))}
	for _, rec := range records {
		if rec.Archetype != id {
			return nil, fmt.Errorf("record of archetype %d in table %s: %w", int(rec.Archetype), t.Name, models.ErrSchemaMismatch)
		}
		t.Rows = append(t.Rows, project(RecordCells(rec), cols))
	}
	return t, nil
}

// Union 按列名外连接；列顺序为各表首次出现的顺序
func Union(name string, tables ...*Table) *Table {
	var cols []string
	seen := make(map[string]bool)
	total := 0
	for _, t := range tables {
		total += len(t.Rows)
		for _, c := range t.Columns {
			if !seen[c] {
				seen[c] = true
				cols = append(cols, c)
			}
		}
	}

	out := &Table{Name: name, Columns: cols, Rows: make([][]Cell, 0, total)}
	for _, t := range tables {
		for _, row := range t.Rows {
			byName := make(map[string]Cell, len(row))
			for i, c := range t.Columns {
				byName[c] = row[i]
			}
			out.Rows = append(out.Rows, project(byName, cols))
		}
	}
	return out
}

// project 按列顺序取值，缺失列为 null
func project(cells map[string]Cell, cols []string) []Cell {
	row := make([]Cell, len(cols))
	for i, c := range cols {
		row[i] = cells[c]
	}
	return row
}
