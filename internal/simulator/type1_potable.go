package simulator

import (
	"aquasense-design/internal/indices"
	"aquasense-design/internal/models"
	"aquasense-design/internal/schema"
)

// 类型 1：饮用水
var (
	potableScreening     = plain(0.5, 2, 0.5, 5)
	potableCoagFloc      = stageRule{BaseLo: 15, BaseHi: 30, Offset: 0.7, Coef: 0.5, Min: 5, Max: 60}
	potableSedimentation = stageRule{BaseLo: 60, BaseHi: 180, Offset: 0.7, Coef: 0.3, Min: 30, Max: 240}
	potableFiltration    = stageRule{BaseLo: 10, BaseHi: 30, Offset: 0.7, Coef: 0.4, Min: 5, Max: 60}
	potableCarbon        = stageRule{BaseLo: 5, BaseHi: 20, Offset: 0.7, Coef: 0.6, Min: 3, Max: 60}
	potableDisinfection  = stageRule{BaseLo: 5, BaseHi: 30, Offset: 0.7, Coef: 0.4, Min: 3, Max: 60}
)

type potable struct{}

func (potable) Archetype() models.ArchetypeID { return models.ArchetypePotable }

func (potable) Envelope() Envelope {
	return Envelope{
		PH:            indices.Band{Lo: 6.5, Hi: 8.5},
		TDS:           indices.Band{Lo: 100, Hi: 1200},
		Turbidity:     indices.Band{Lo: 0.5, Hi: 50},
		BOD:           indices.Band{Lo: 1, Hi: 15},
		COD:           indices.Band{Lo: 5, Hi: 50},
		TotalNitrogen: indices.Band{Lo: 0.5, Hi: 10},
		Temperature:   indices.Band{Lo: 10, Hi: 35},
		Flow:          indices.Band{Lo: 100, Hi: 5000},
		HeavyMetalsP:  0.05,
	}
}

func (potable) Bands() []indices.Band {
	return bandsOf(potableScreening, potableCoagFloc, potableSedimentation,
		potableFiltration, potableCarbon, potableDisinfection)
}

func (p potable) SimulateOne(sample models.InfluentSample, s Sampler) (*models.DesignRecord, error) {
	idx, err := prepare(p.Archetype(), sample)
	if err != nil {
		return nil, err
	}
	ti, oi := idx.TurbidityIndex, idx.OrganicIndex
	turb, flow := sample.Turbidity, sample.FlowM3PerDay

	screening := potableScreening.draw(s, 0)
	coag := potableCoagFloc.draw(s, ti)
	sed := potableSedimentation.draw(s, ti)
	filt := potableFiltration.draw(s, oi)
	carbon := potableCarbon.draw(s, oi)
	disinf := potableDisinfection.draw(s, oi)

	coagMixer := "rapid_mixer_high_rate"
	switch {
	case turb < 10:
		coagMixer = "rapid_mixer_light"
	case turb < 30:
		coagMixer = "rapid_mixer_standard"
	}
	equipment := []string{
		tier(turb, 10, "coarse_bar_screen", "fine_bar_screen"),
		coagMixer,
		tier(flow, 1000, "circular_clarifier", "hopper_bottom_clarifier"),
		tier(turb, 10, "rapid_sand_filter", "dual_media_filter"),
		"pressure_carbon_filter",
		tier(flow, 1000, "uv_disinfection", "chlorination_system"),
	}

	capex := 3e5 + 1500*flow + 10*sample.TDS + 5e3*oi*hours(coag, sed, filt, carbon, disinf)
	opex := 5e3 + 3*flow*ti + 2*flow*oi + 1.5*flow

	return schema.NewRecord(p.Archetype(), sample,
		[]float64{screening, coag, sed, filt, carbon, disinf},
		equipment,
		models.NewCostBreakdown(capex, opex, flow))
}
