package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"aquasense-design/internal/models"
)

//go:embed schema.sql
var schemaDDL string

// EnsureSchema 建表（幂等）
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		return &models.PersistError{Op: "ensure schema", Err: err}
	}
	return nil
}

// DesignRecordRepository 生成数据集的持久化
type DesignRecordRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDesignRecordRepository 创建仓库
func NewDesignRecordRepository(db *sql.DB, logger *zap.Logger) *DesignRecordRepository {
	return &DesignRecordRepository{
		db:     db,
		logger: logger,
	}
}

// InsertBatch 在一个事务内写入一个工艺类型的全部记录，任何一条失败整体回滚
func (r *DesignRecordRepository) InsertBatch(ctx context.Context, batchID string, records []*models.DesignRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &models.PersistError{Op: "begin transaction", Err: err}
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO design_records (
			batch_id,
			archetype_id,
			row_index,
			features,
			stage_times_min,
			stage_equipment,
			capex_inr,
			opex_per_day_inr,
			cost_per_m3_inr
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`)
	if err != nil {
		return 0, &models.PersistError{Op: "prepare insert design_records", Err: err}
	}
	defer stmt.Close()

	for i, rec := range records {
		features, durations, equipment, err := encodeRecord(rec)
		if err != nil {
			return 0, &models.PersistError{Op: "encode design record", Err: err}
		}
		if _, err := stmt.ExecContext(ctx,
			batchID,
			int(rec.Archetype),
			i,
			features,
			durations,
			equipment,
			rec.Cost.CapexINR,
			rec.Cost.OpexPerDayINR,
			rec.Cost.CostPerM3INR,
		); err != nil {
			return 0, &models.PersistError{Op: fmt.Sprintf("insert design_records row %d", i), Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, &models.PersistError{Op: "commit design_records", Err: err}
	}

	r.logger.Info("Design records inserted",
		zap.String("batch_id", batchID),
		zap.Int("archetype_id", int(records[0].Archetype)),
		zap.Int("rows", len(records)),
	)
	return len(records), nil
}

// CountByArchetype 统计某批次每个工艺类型的记录数
func (r *DesignRecordRepository) CountByArchetype(ctx context.Context, batchID string) (map[models.ArchetypeID]int, error) {
	query := `
		SELECT archetype_id, COUNT(*)
		FROM design_records
		WHERE batch_id = $1
		GROUP BY archetype_id
		ORDER BY archetype_id
	`
	rows, err := r.db.QueryContext(ctx, query, batchID)
	if err != nil {
		return nil, &models.PersistError{Op: "count design_records", Err: err}
	}
	defer rows.Close()

	counts := make(map[models.ArchetypeID]int)
	for rows.Next() {
		var id, n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, &models.PersistError{Op: "scan design_records count", Err: err}
		}
		counts[models.ArchetypeID(id)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, &models.PersistError{Op: "iterate design_records count", Err: err}
	}
	return counts, nil
}

// encodeRecord 特征、停留时间、设备编码为 JSONB
func encodeRecord(rec *models.DesignRecord) (features, durations, equipment []byte, err error) {
	if features, err = json.Marshal(rec.Sample); err != nil {
		return nil, nil, nil, err
	}
	if durations, err = json.Marshal(rec.DurationMap()); err != nil {
		return nil, nil, nil, err
	}
	if equipment, err = json.Marshal(rec.EquipmentMap()); err != nil {
		return nil, nil, nil, err
	}
	return features, durations, equipment, nil
}
