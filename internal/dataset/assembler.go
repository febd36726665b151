package dataset

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"aquasense-design/internal/models"
	"aquasense-design/internal/simulator"
)

// Plan 每个工艺类型的生成条数与种子
type Plan struct {
	Counts map[models.ArchetypeID]int
	Seeds  map[models.ArchetypeID]uint64
}

// DefaultPlan 默认条数 800/800/800/1000/800，种子等于工艺类型编号
func DefaultPlan() Plan {
	p := Plan{
		Counts: map[models.ArchetypeID]int{
			models.ArchetypePotable:     800,
			models.ArchetypeDomestic:    800,
			models.ArchetypeRecycleMBR:  800,
			models.ArchetypeIndustrial:  1000,
			models.ArchetypeHighOrganic: 800,
		},
		Seeds: make(map[models.ArchetypeID]uint64, len(models.AllArchetypes)),
	}
	for _, id := range models.AllArchetypes {
		p.Seeds[id] = uint64(id)
	}
	return p
}

// seed 未配置时回落到工艺类型编号
func (p Plan) seed(id models.ArchetypeID) uint64 {
	if s, ok := p.Seeds[id]; ok {
		return s
	}
	return uint64(id)
}

// Result 组装结果
type Result struct {
	Tables  []*Table // 按工艺类型 1..5 排列
	Union   *Table
	Records map[models.ArchetypeID][]*models.DesignRecord
}

// Assembler 数据集组装器
type Assembler struct {
	logger *zap.Logger
}

// NewAssembler 创建组装器
func NewAssembler(logger *zap.Logger) *Assembler {
	return &Assembler{logger: logger}
}

// Assemble 并行模拟五种工艺类型（各自独立随机源），生成五张表和合并表
//
// 结果只取决于 Plan，与 goroutine 调度顺序无关。
func (a *Assembler) Assemble(ctx context.Context, plan Plan) (*Result, error) {
	for id, n := range plan.Counts {
		if !id.Valid() {
			return nil, &models.UnknownArchetypeError{ArchetypeID: id}
		}
		if n < 0 {
			return nil, fmt.Errorf("invalid row count for %s: %d", id, n)
		}
	}

	records := make([][]*models.DesignRecord, len(models.AllArchetypes))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range models.AllArchetypes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sim, err := simulator.For(id)
			if err != nil {
				return err
			}
			recs, err := simulator.Simulate(sim, plan.seed(id), plan.Counts[id])
			if err != nil {
				return err
			}
			records[i] = recs
			a.logger.Debug("Archetype simulated",
				zap.Int("archetype_id", int(id)),
				zap.Int("rows", len(recs)),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to simulate archetypes: %w", err)
	}

	res := &Result{
		Tables:  make([]*Table, 0, len(models.AllArchetypes)),
		Records: make(map[models.ArchetypeID][]*models.DesignRecord, len(models.AllArchetypes)),
	}
	for i, id := range models.AllArchetypes {
		t, err := RecordTable(id, records[i])
		if err != nil {
			return nil, err
		}
		res.Tables = append(res.Tables, t)
		res.Records[id] = records[i]
	}
	res.Union = Union(UnionTableName, res.Tables...)

	a.logger.Info("Dataset assembled",
		zap.Int("tables", len(res.Tables)),
		zap.Int("rows", len(res.Union.Rows)),
		zap.Int("columns", len(res.Union.Columns)),
	)
	return res, nil
}
