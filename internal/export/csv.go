// Package export 数据集导出（CSV 每表一个文件，XLSX 每表一个工作表）
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"aquasense-design/internal/dataset"
)

// WriteCSV 写出单张表：首行列名，null 为空单元格
func WriteCSV(w io.Writer, t *dataset.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", t.Name, err)
	}

	record := make([]string, len(t.Columns))
	for i, row := range t.Rows {
		for j, c := range row {
			record[j] = c.String()
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i, t.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFiles 每张表写到 dir/{name}.csv，返回写出的路径
func WriteCSVFiles(dir string, tables ...*dataset.Table) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	paths := make([]string, 0, len(tables))
	for _, t := range tables {
		path := filepath.Join(dir, t.Name+".csv")
		if err := writeFile(path, func(w io.Writer) error { return WriteCSV(w, t) }); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
