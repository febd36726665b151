package simulator

import (
	"aquasense-design/internal/indices"
	"aquasense-design/internal/models"
	"aquasense-design/internal/schema"
)

// 类型 5：高有机负荷废水
var (
	organicScreening  = plain(1, 3, 0.5, 5)
	organicAnaerobic  = stageRule{BaseLo: 480, BaseHi: 1440, Offset: 0.8, Coef: 0.4, Min: 240, Max: 2880}
	organicBiogas     = stageRule{BaseLo: 5, BaseHi: 30, Offset: 0.8, Coef: 0.4, Min: 5, Max: 60}
	organicAeration   = stageRule{BaseLo: 120, BaseHi: 480, Offset: 0.8, Coef: 0.4, Min: 60, Max: 960}
	organicSecondary  = stageRule{BaseLo: 90, BaseHi: 240, Offset: 0.8, Coef: 0.4, Min: 60, Max: 360}
	organicSludge     = stageRule{BaseLo: 60, BaseHi: 240, Offset: 0.8, Coef: 0.4, Min: 30, Max: 360}
	organicFiltration = stageRule{BaseLo: 10, BaseHi: 30, Offset: 0.8, Coef: 0.3, Min: 10, Max: 60}
)

// 沼气回收抵扣（每 m³·organic_index）
const organicBiogasCredit = 5.0

type highOrganic struct{}

func (highOrganic) Archetype() models.ArchetypeID { return models.ArchetypeHighOrganic }

func (highOrganic) Envelope() Envelope {
	return Envelope{
		PH:            indices.Band{Lo: 6, Hi: 8},
		TDS:           indices.Band{Lo: 500, Hi: 4000},
		Turbidity:     indices.Band{Lo: 50, Hi: 600},
		BOD:           indices.Band{Lo: 500, Hi: 2500},
		COD:           indices.Band{Lo: 800, Hi: 5000},
		TotalNitrogen: indices.Band{Lo: 30, Hi: 200},
		Temperature:   indices.Band{Lo: 20, Hi: 40},
		Flow:          indices.Band{Lo: 100, Hi: 6000},
		HeavyMetalsP:  0.2,
	}
}

func (highOrganic) Bands() []indices.Band {
	return bandsOf(organicScreening, organicAnaerobic, organicBiogas, organicAeration,
		organicSecondary, organicSludge, organicFiltration)
}

func (h highOrganic) SimulateOne(sample models.InfluentSample, s Sampler) (*models.DesignRecord, error) {
	idx, err := prepare(h.Archetype(), sample)
	if err != nil {
		return nil, err
	}
	oi, sludgeIdx := idx.OrganicIndex, idx.SludgeIndex
	flow := sample.FlowM3PerDay

	screening := organicScreening.draw(s, 0)
	anaerobic := organicAnaerobic.draw(s, oi)
	biogas := organicBiogas.draw(s, oi)
	aeration := organicAeration.draw(s, oi)
	secondary := organicSecondary.draw(s, oi)
	sludge := organicSludge.draw(s, sludgeIdx)
	filt := organicFiltration.draw(s, oi)

	equipment := []string{
		tier(flow, 1000, "coarse_screen", "mechanical_screen"),
		tier(flow, 1000, "anaerobic_filter", "uasb_reactor"),
		"biogas_holder_and_flare",
		"diffused_aeration_tank",
		"secondary_clarifier_circular",
		tier(sludgeIdx, 1.0, "sludge_drying_beds", "sludge_thickener_plus_press"),
		"pressure_sand_filter_plus_acf",
	}

	capex := 1.2e6 + 2500*flow + 3e4*oi*hours(anaerobic, aeration, sludge) + 1e5*sample.HeavyMetalsFlag()
	opex := 2e4 + 15*flow*oi + 4000*sludgeIdx + 4*flow - organicBiogasCredit*flow*oi

	return schema.NewRecord(h.Archetype(), sample,
		[]float64{screening, anaerobic, biogas, aeration, secondary, sludge, filt},
		equipment,
		models.NewCostBreakdown(capex, opex, flow))
}
