package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"aquasense-design/internal/dataset"
	"aquasense-design/internal/export"
	"aquasense-design/internal/models"
)

// WorkbookFileName 合并导出的工作簿文件名
const WorkbookFileName = "synthetic_designs.xlsx"

// RecordStore 生成记录入库（由 repository.DesignRecordRepository 实现）
type RecordStore interface {
	InsertBatch(ctx context.Context, batchID string, records []*models.DesignRecord) (int, error)
}

// GenerateOptions 一次生成任务的输出选项
type GenerateOptions struct {
	OutputDir string // 为空则不写文件
	CSV       bool
	XLSX      bool
	Persist   bool // 需要 RecordStore
}

// GenerateReport 生成结果摘要
type GenerateReport struct {
	BatchID   string
	Rows      map[models.ArchetypeID]int
	UnionRows int
	Files     []string
	Persisted int
}

// GeneratorService 合成数据集生成：模拟 → 组表 → 导出 → 入库
type GeneratorService struct {
	assembler *dataset.Assembler
	store     RecordStore
	logger    *zap.Logger
}

// NewGeneratorService store 可为 nil
func NewGeneratorService(store RecordStore, logger *zap.Logger) *GeneratorService {
	return &GeneratorService{
		assembler: dataset.NewAssembler(logger),
		store:     store,
		logger:    logger,
	}
}

// Generate 执行一次生成任务；任何一步失败即返回错误，入库失败包装为 ErrPersistence
func (s *GeneratorService) Generate(ctx context.Context, plan dataset.Plan, opts GenerateOptions) (*GenerateReport, *dataset.Result, error) {
	result, err := s.assembler.Assemble(ctx, plan)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to assemble dataset: %w", err)
	}

	report := &GenerateReport{
		BatchID:   uuid.NewString(),
		Rows:      make(map[models.ArchetypeID]int, len(result.Records)),
		UnionRows: len(result.Union.Rows),
	}
	for id, recs := range result.Records {
		report.Rows[id] = len(recs)
	}

	tables := append(append([]*dataset.Table{}, result.Tables...), result.Union)
	if opts.OutputDir != "" && opts.CSV {
		paths, err := export.WriteCSVFiles(opts.OutputDir, tables...)
		if err != nil {
			return nil, nil, err
		}
		report.Files = append(report.Files, paths...)
	}
	if opts.OutputDir != "" && opts.XLSX {
		path := filepath.Join(opts.OutputDir, WorkbookFileName)
		if err := export.WriteWorkbookFile(path, tables...); err != nil {
			return nil, nil, err
		}
		report.Files = append(report.Files, path)
	}

	if opts.Persist {
		if s.store == nil {
			return nil, nil, &models.PersistError{Op: "insert design records", Err: errors.New("no record store configured")}
		}
		for _, id := range models.AllArchetypes {
			n, err := s.store.InsertBatch(ctx, report.BatchID, result.Records[id])
			if err != nil {
				return nil, nil, err
			}
			report.Persisted += n
		}
	}

	s.logger.Info("Synthetic dataset generated",
		zap.String("batch_id", report.BatchID),
		zap.Int("union_rows", report.UnionRows),
		zap.Int("files", len(report.Files)),
		zap.Int("persisted", report.Persisted),
	)
	return report, result, nil
}
