package simulator

import (
	"aquasense-design/internal/indices"
	"aquasense-design/internal/models"
	"aquasense-design/internal/schema"
)

// 类型 4：工业废水（高 TDS / 重金属）
var (
	industrialScreening      = plain(1, 3, 0.5, 10)
	industrialNeutralization = stageRule{BaseLo: 30, BaseHi: 60, Offset: 1, Coef: 0.12, Min: 10, Max: 240}
	industrialPrecipitation  = stageRule{BaseLo: 30, BaseHi: 60, Offset: 1, Coef: 0.05, Min: 10, Max: 240}
	industrialMetalsAbsent   = plain(10, 30, 10, 240)
	industrialMetalsPresent  = stageRule{BaseLo: 40, BaseHi: 90, Offset: 0.8, Coef: 0.4, Min: 10, Max: 240}
	industrialFilterPress    = stageRule{BaseLo: 45, BaseHi: 120, Offset: 0.7, Coef: 0.6, Min: 20, Max: 240}
	industrialCarbonFilter   = stageRule{BaseLo: 10, BaseHi: 30, Offset: 0.8, Coef: 0.4, Min: 5, Max: 120}
	industrialRO             = stageRule{BaseLo: 30, BaseHi: 90, Offset: 0.7, Coef: 0.4, Min: 20, Max: 240}
)

const (
	industrialNeutralizationMetalsMin = 5.0  // 含重金属时中和追加分钟数
	industrialPrecipitationMetalsCoef = 0.05 // 含重金属时沉淀系数追加
)

type industrial struct{}

func (industrial) Archetype() models.ArchetypeID { return models.ArchetypeIndustrial }

func (industrial) Envelope() Envelope {
	return Envelope{
		PH:            indices.Band{Lo: 5, Hi: 9},
		TDS:           indices.Band{Lo: 800, Hi: 6000},
		Turbidity:     indices.Band{Lo: 20, Hi: 500},
		BOD:           indices.Band{Lo: 50, Hi: 800},
		COD:           indices.Band{Lo: 150, Hi: 2500},
		TotalNitrogen: indices.Band{Lo: 10, Hi: 100},
		Temperature:   indices.Band{Lo: 15, Hi: 40},
		Flow:          indices.Band{Lo: 100, Hi: 5000},
		HeavyMetalsP:  0.5,
	}
}

func (industrial) Bands() []indices.Band {
	return bandsOf(industrialScreening, industrialNeutralization, industrialPrecipitation,
		industrialMetalsPresent, industrialFilterPress, industrialCarbonFilter, industrialRO)
}

func (in industrial) SimulateOne(sample models.InfluentSample, s Sampler) (*models.DesignRecord, error) {
	idx, err := prepare(in.Archetype(), sample)
	if err != nil {
		return nil, err
	}
	oi, tdsi, sludge := idx.OrganicIndex, idx.TDSIndex, idx.SludgeIndex
	flow, tds := sample.FlowM3PerDay, sample.TDS
	hm := sample.HeavyMetalsFlag()

	precipitation := industrialPrecipitation
	precipitation.Offset += industrialPrecipitationMetalsCoef * hm

	screening := industrialScreening.draw(s, 0)
	neutral := industrialNeutralization.drawPlus(s, idx.PHDeviation, industrialNeutralizationMetalsMin*hm)
	precip := precipitation.draw(s, tdsi)
	var metals float64
	if sample.HeavyMetals {
		metals = industrialMetalsPresent.draw(s, tdsi)
	} else {
		metals = industrialMetalsAbsent.draw(s, 0)
	}
	press := industrialFilterPress.draw(s, oi)
	carbon := industrialCarbonFilter.draw(s, oi)
	ro := industrialRO.draw(s, tdsi)

	screen := "coarse_bar_screen"
	if flow >= 500 {
		screen = tier(sample.Turbidity, 200, "fine_bar_screen", "mechanical_screen")
	}
	metalsUnit := "none"
	if sample.HeavyMetals {
		metalsUnit = tier(tds, 2500, "chemical_precipitation_unit", "precipitation_plus_ion_exchange")
	}
	roUnit := "ro_with_energy_recovery"
	switch {
	case tds < 2000:
		roUnit = "single_pass_ro"
	case tds < 4000:
		roUnit = "double_pass_ro"
	}
	equipment := []string{
		screen,
		tier(flow, 500, "batch_neutralization_tank", "continuous_stirred_tank"),
		tier(flow, 2000, "circular_clarifier", "rectangular_clarifier"),
		metalsUnit,
		tier(sludge, 1.0, "plate_and_frame_press", "belt_filter_press"),
		tier(sample.COD, 800, "pressure_carbon_filter", "gravity_carbon_filter"),
		roUnit,
	}

	capex := 5e5 + 2000*flow + 50*tds + 2e5*hm + 1e4*oi*hours(neutral, precip, metals, press, carbon, ro)
	opex := 1e4 + 10*flow*oi + 15*flow*tdsi + 2000*sludge

	return schema.NewRecord(in.Archetype(), sample,
		[]float64{screening, neutral, precip, metals, press, carbon, ro},
		equipment,
		models.NewCostBreakdown(capex, opex, flow))
}
