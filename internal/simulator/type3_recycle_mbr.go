package simulator

import (
	"aquasense-design/internal/indices"
	"aquasense-design/internal/models"
	"aquasense-design/internal/schema"
)

// 类型 3：再生水（MBR）
var (
	recycleScreening    = plain(1, 2, 0.5, 5)
	recycleGrit         = stageRule{BaseLo: 5, BaseHi: 20, Offset: 0.8, Coef: 0.4, Min: 5, Max: 40}
	recycleEqualization = stageRule{BaseLo: 60, BaseHi: 240, Offset: 0.8, Coef: 0.4, Min: 30, Max: 360}
	recycleBioReactor   = stageRule{BaseLo: 180, BaseHi: 480, Offset: 0.8, Coef: 0.5, Min: 120, Max: 720}
	recycleMBRStage     = stageRule{BaseLo: 20, BaseHi: 60, Offset: 0.8, Coef: 0.4, Min: 10, Max: 90}
	recycleCarbon       = stageRule{BaseLo: 10, BaseHi: 20, Offset: 0.8, Coef: 0.5, Min: 5, Max: 60}
	recycleDisinfection = stageRule{BaseLo: 10, BaseHi: 30, Offset: 0.8, Coef: 0.4, Min: 5, Max: 60}
)

const recycleEqualizationFlow = 4000.0

type recycleMBR struct{}

func (recycleMBR) Archetype() models.ArchetypeID { return models.ArchetypeRecycleMBR }

func (recycleMBR) Envelope() Envelope {
	return Envelope{
		PH:            indices.Band{Lo: 6.5, Hi: 8.5},
		TDS:           indices.Band{Lo: 300, Hi: 2000},
		Turbidity:     indices.Band{Lo: 10, Hi: 200},
		BOD:           indices.Band{Lo: 80, Hi: 250},
		COD:           indices.Band{Lo: 200, Hi: 700},
		TotalNitrogen: indices.Band{Lo: 10, Hi: 40},
		Temperature:   indices.Band{Lo: 15, Hi: 40},
		Flow:          indices.Band{Lo: 200, Hi: 8000},
		HeavyMetalsP:  0.1,
	}
}

func (recycleMBR) Bands() []indices.Band {
	return bandsOf(recycleScreening, recycleGrit, recycleEqualization, recycleBioReactor,
		recycleMBRStage, recycleCarbon, recycleDisinfection)
}

func (r recycleMBR) SimulateOne(sample models.InfluentSample, s Sampler) (*models.DesignRecord, error) {
	idx, err := prepare(r.Archetype(), sample)
	if err != nil {
		return nil, err
	}
	oi, grit, tdsi := idx.OrganicIndex, idx.TurbidityIndex, idx.TDSIndex
	flow := sample.FlowM3PerDay

	screening := recycleScreening.draw(s, 0)
	gritChamber := recycleGrit.draw(s, grit)
	eq := recycleEqualization.draw(s, flow/recycleEqualizationFlow)
	bio := recycleBioReactor.draw(s, oi)
	mbr := recycleMBRStage.draw(s, tdsi)
	carbon := recycleCarbon.draw(s, oi)
	disinf := recycleDisinfection.draw(s, oi)

	equipment := []string{
		"fine_screen",
		tier(grit, 1.0, "vortex_grit_chamber", "aerated_grit_chamber"),
		"eq_tank_with_mixing",
		"anoxic_aerobic_bioreactor",
		tier(flow, 3000, "submerged_mbr", "external_mbr"),
		"pressure_carbon_filter",
		"uv_disinfection",
	}

	hm := sample.HeavyMetalsFlag()
	capex := 1.5e6 + 3000*flow + 3e4*hours(bio, mbr, eq) + 2e5*hm
	opex := 2e4 + 14*flow*oi + 5*flow*tdsi + 3*flow

	return schema.NewRecord(r.Archetype(), sample,
		[]float64{screening, gritChamber, eq, bio, mbr, carbon, disinf},
		equipment,
		models.NewCostBreakdown(capex, opex, flow))
}
