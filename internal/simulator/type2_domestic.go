package simulator

import (
	"aquasense-design/internal/indices"
	"aquasense-design/internal/models"
	"aquasense-design/internal/schema"
)

// 类型 2：生活污水 / 灰水
var (
	domesticScreening    = plain(1, 3, 0.5, 5)
	domesticOilGrease    = stageRule{BaseLo: 10, BaseHi: 25, Offset: 0.8, Coef: 0.6, Min: 5, Max: 60}
	domesticEqualization = stageRule{BaseLo: 60, BaseHi: 240, Offset: 0.8, Coef: 0.4, Min: 30, Max: 360}
	domesticCoagFloc     = stageRule{BaseLo: 15, BaseHi: 45, Offset: 0.8, Coef: 0.4, Min: 10, Max: 60}
	domesticPrimary      = stageRule{BaseLo: 60, BaseHi: 180, Offset: 0.8, Coef: 0.4, Min: 30, Max: 240}
	domesticAeration     = stageRule{BaseLo: 180, BaseHi: 720, Offset: 0.8, Coef: 0.4, Min: 120, Max: 960}
	domesticSecondary    = stageRule{BaseLo: 90, BaseHi: 240, Offset: 0.8, Coef: 0.4, Min: 60, Max: 360}
	domesticFiltration   = stageRule{BaseLo: 10, BaseHi: 30, Offset: 0.8, Coef: 0.4, Min: 10, Max: 60}
	domesticDisinfection = stageRule{BaseLo: 15, BaseHi: 45, Offset: 0.8, Coef: 0.3, Min: 10, Max: 60}
)

// 均衡池负荷按设计流量归一
const domesticEqualizationFlow = 5000.0

type domestic struct{}

func (domestic) Archetype() models.ArchetypeID { return models.ArchetypeDomestic }

func (domestic) Envelope() Envelope {
	return Envelope{
		PH:            indices.Band{Lo: 6, Hi: 8.5},
		TDS:           indices.Band{Lo: 300, Hi: 1500},
		Turbidity:     indices.Band{Lo: 20, Hi: 300},
		BOD:           indices.Band{Lo: 150, Hi: 400},
		COD:           indices.Band{Lo: 300, Hi: 800},
		TotalNitrogen: indices.Band{Lo: 15, Hi: 60},
		Temperature:   indices.Band{Lo: 15, Hi: 40},
		Flow:          indices.Band{Lo: 200, Hi: 10000},
	}
}

func (domestic) Bands() []indices.Band {
	return bandsOf(domesticScreening, domesticOilGrease, domesticEqualization, domesticCoagFloc,
		domesticPrimary, domesticAeration, domesticSecondary, domesticFiltration, domesticDisinfection)
}

func (d domestic) SimulateOne(sample models.InfluentSample, s Sampler) (*models.DesignRecord, error) {
	idx, err := prepare(d.Archetype(), sample)
	if err != nil {
		return nil, err
	}
	oi, grease := idx.OrganicIndex, idx.TurbidityIndex
	flow := sample.FlowM3PerDay

	screening := domesticScreening.draw(s, 0)
	oilGrease := domesticOilGrease.draw(s, grease)
	eq := domesticEqualization.draw(s, flow/domesticEqualizationFlow)
	coag := domesticCoagFloc.draw(s, grease)
	primary := domesticPrimary.draw(s, oi)
	aeration := domesticAeration.draw(s, oi)
	secondary := domesticSecondary.draw(s, oi)
	filt := domesticFiltration.draw(s, oi)
	disinf := domesticDisinfection.draw(s, oi)

	equipment := []string{
		tier(flow, 3000, "manual_bar_screen", "mechanical_bar_screen"),
		tier(flow, 5000, "api_separator", "cpi_separator"),
		tier(flow, 3000, "circular_eq_tank", "rectangular_eq_tank"),
		"flash_mixer_plus_flocculator",
		"primary_clarifier_circular",
		tier(flow, 3000, "extended_aeration", "diffused_aeration"),
		"secondary_clarifier_circular",
		tier(sample.BOD, 200, "pressure_sand_filter", "dual_media_filter"),
		"chlorination",
	}

	capex := 8e5 + 2500*flow + 2000*oi*hours(aeration, eq, primary, secondary)
	opex := 1.5e4 + 12*flow*oi + 4*flow + 3000*oi

	return schema.NewRecord(d.Archetype(), sample,
		[]float64{screening, oilGrease, eq, coag, primary, aeration, secondary, filt, disinf},
		equipment,
		models.NewCostBreakdown(capex, opex, flow))
}
