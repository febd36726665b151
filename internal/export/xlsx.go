package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"aquasense-design/internal/dataset"
)

// SheetName 表名 -> 工作表名："type1_potable_synthetic" -> "type1_potable"，合并表 -> "all_types"
func SheetName(tableName string) string {
	if tableName == dataset.UnionTableName {
		return "all_types"
	}
	name := strings.TrimSuffix(tableName, "_synthetic")
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}

// WriteWorkbook 所有表写入一个工作簿，每张表一个工作表；null 单元格留空
func WriteWorkbook(w io.Writer, tables ...*dataset.Table) error {
	if len(tables) == 0 {
		return fmt.Errorf("no tables to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, t := range tables {
		sheet := SheetName(t.Name)
		index, err := f.NewSheet(sheet)
		if err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
		if i == 0 {
			f.SetActiveSheet(index)
		}
		if err := writeSheet(f, sheet, t, headerStyle); err != nil {
			return err
		}
	}

	// 删除默认的 Sheet1
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to delete default sheet: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, t *dataset.Table, headerStyle int) error {
	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(t.Columns), 1)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(t.Columns))
	if err := f.SetColWidth(sheet, "A", lastCol, 18); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	values := make([]interface{}, len(t.Columns))
	for r, row := range t.Rows {
		for j, c := range row {
			switch c.Kind {
			case dataset.CellNumber:
				values[j] = c.Number
			case dataset.CellText:
				values[j] = c.Text
			default:
				values[j] = nil
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2) // 第 1 行是表头
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", r, sheet, err)
		}
	}
	return nil
}

// WriteWorkbookFile 写出到文件
func WriteWorkbookFile(path string, tables ...*dataset.Table) error {
	return writeFile(path, func(w io.Writer) error { return WriteWorkbook(w, tables...) })
}
