package simulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aquasense-design/internal/models"
	"aquasense-design/internal/schema"
)

func potableScenario(flow float64) models.InfluentSample {
	return models.InfluentSample{
		PH:            7.0,
		TDS:           500,
		Turbidity:     5,
		BOD:           5,
		COD:           20,
		TotalNitrogen: 3,
		Temperature:   20,
		FlowM3PerDay:  flow,
	}
}

func TestSimulate_DurationsWithinBands(t *testing.T) {
	for _, id := range models.AllArchetypes {
		sim, err := For(id)
		require.NoError(t, err)

		records, err := Simulate(sim, uint64(id), 500)
		require.NoError(t, err)
		require.Len(t, records, 500)

		bands := sim.Bands()
		cols, _ := schema.StageColumns(id)
		require.Len(t, bands, len(cols))

		for _, rec := range records {
			require.Len(t, rec.Durations, len(bands))
			for i, d := range rec.Durations {
				assert.Equal(t, cols[i], d.Column)
				assert.GreaterOrEqual(t, d.Minutes, bands[i].Lo, "%s %s", id, d.Column)
				assert.LessOrEqual(t, d.Minutes, bands[i].Hi, "%s %s", id, d.Column)
			}
		}
	}
}

func TestSimulate_CostPerCubicMeterIsOpexOverFlow(t *testing.T) {
	for _, id := range models.AllArchetypes {
		sim, _ := For(id)
		records, err := Simulate(sim, 42, 200)
		require.NoError(t, err)

		for _, rec := range records {
			assert.Equal(t, rec.Cost.OpexPerDayINR/rec.Sample.FlowM3PerDay, rec.Cost.CostPerM3INR)
			assert.Greater(t, rec.Cost.CapexINR, 0.0)
		}
	}
}

func TestSimulate_SamplesStayInsideEnvelope(t *testing.T) {
	for _, id := range models.AllArchetypes {
		sim, _ := For(id)
		records, err := Simulate(sim, 7, 300)
		require.NoError(t, err)

		env := sim.Envelope()
		for _, rec := range records {
			assert.True(t, env.Contains(rec.Sample), "%s sample outside envelope: %+v", id, rec.Sample)
		}
	}
}

func TestSimulate_DomesticNeverHasHeavyMetals(t *testing.T) {
	sim, _ := For(models.ArchetypeDomestic)
	records, err := Simulate(sim, 2, 400)
	require.NoError(t, err)
	for _, rec := range records {
		assert.False(t, rec.Sample.HeavyMetals)
	}
}

func TestSimulate_Deterministic(t *testing.T) {
	sim, _ := For(models.ArchetypeIndustrial)

	a, err := Simulate(sim, 4, 50)
	require.NoError(t, err)
	b, err := Simulate(sim, 4, 50)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := Simulate(sim, 5, 50)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestSimulate_ZeroRows(t *testing.T) {
	sim, _ := For(models.ArchetypePotable)
	records, err := Simulate(sim, 1, 0)
	require.NoError(t, err)
	assert.Empty(t, records)

	_, err = Simulate(sim, 1, -1)
	assert.Error(t, err)
}

func TestPotableScenario_DisinfectionThreshold(t *testing.T) {
	sim, _ := For(models.ArchetypePotable)

	below, err := sim.SimulateOne(potableScenario(999.99), NewRandSampler(1))
	require.NoError(t, err)
	assert.Equal(t, "uv_disinfection", below.EquipmentMap()["equip_disinfection"])
	assert.Equal(t, "circular_clarifier", below.EquipmentMap()["equip_sedimentation"])

	// 阈值本身属于上一档
	at, err := sim.SimulateOne(potableScenario(1000), NewRandSampler(1))
	require.NoError(t, err)
	assert.Equal(t, "chlorination_system", at.EquipmentMap()["equip_disinfection"])
	assert.Equal(t, "hopper_bottom_clarifier", at.EquipmentMap()["equip_sedimentation"])

	bands := sim.Bands()
	for i, d := range at.Durations {
		assert.GreaterOrEqual(t, d.Minutes, bands[i].Lo)
		assert.LessOrEqual(t, d.Minutes, bands[i].Hi)
	}
	screening := at.DurationMap()["t_screening_min"]
	assert.GreaterOrEqual(t, screening, 0.5)
	assert.LessOrEqual(t, screening, 5.0)

	eq := at.EquipmentMap()
	assert.Equal(t, "coarse_bar_screen", eq["equip_screening"])
	assert.Equal(t, "rapid_mixer_light", eq["equip_coag_floc"])
	assert.Equal(t, "rapid_sand_filter", eq["equip_filtration"])
}

func TestSimulateOne_RejectsInvalidFlow(t *testing.T) {
	for _, id := range models.AllArchetypes {
		sim, _ := For(id)
		_, err := sim.SimulateOne(potableScenario(0), MidpointSampler{})
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	}
}

func TestSimulateOne_MidpointIsDeterministic(t *testing.T) {
	sim, _ := For(models.ArchetypePotable)
	rec, err := sim.SimulateOne(potableScenario(1000), MidpointSampler{})
	require.NoError(t, err)

	// turbidity_index = clip(5/30, 0.2, 3) = 0.2；screening 无修正
	d := rec.DurationMap()
	assert.InDelta(t, 1.25, d["t_screening_min"], 1e-9)
	assert.InDelta(t, 22.5*(0.7+0.5*0.2), d["t_coag_floc_min"], 1e-9)
}

func TestIndustrial_HeavyMetalSlot(t *testing.T) {
	sim, _ := For(models.ArchetypeIndustrial)
	s := models.InfluentSample{PH: 6, TDS: 3000, Turbidity: 250, BOD: 300, COD: 900, TotalNitrogen: 30, Temperature: 25, FlowM3PerDay: 1500}

	without, err := sim.SimulateOne(s, MidpointSampler{})
	require.NoError(t, err)
	eq := without.EquipmentMap()
	assert.Equal(t, "none", eq["equip_heavy_metal_removal"])
	assert.Equal(t, "mechanical_screen", eq["equip_screening"])
	assert.Equal(t, "double_pass_ro", eq["equip_ro"])
	assert.Equal(t, "gravity_carbon_filter", eq["equip_carbon_filter"])
	assert.InDelta(t, 20.0, without.DurationMap()["t_heavy_metal_removal_min"], 1e-9)

	s.HeavyMetals = true
	with, err := sim.SimulateOne(s, MidpointSampler{})
	require.NoError(t, err)
	assert.Equal(t, "precipitation_plus_ion_exchange", with.EquipmentMap()["equip_heavy_metal_removal"])
	// organic 1.25 + 0.5
	assert.Equal(t, "belt_filter_press", with.EquipmentMap()["equip_filter_press"])
	assert.Greater(t, with.Cost.CapexINR, without.Cost.CapexINR)
}

func TestHighOrganic_BiogasCredit(t *testing.T) {
	sim, _ := For(models.ArchetypeHighOrganic)
	s := models.InfluentSample{PH: 7, TDS: 1000, Turbidity: 100, BOD: 1000, COD: 2000, TotalNitrogen: 50, Temperature: 30, FlowM3PerDay: 2000}

	rec, err := sim.SimulateOne(s, MidpointSampler{})
	require.NoError(t, err)
	// oi = 1, sludge = 1
	want := 2e4 + 15*2000.0 + 4000 + 4*2000.0 - 5*2000.0
	assert.InDelta(t, want, rec.Cost.OpexPerDayINR, 1e-6)
	assert.Equal(t, "uasb_reactor", rec.EquipmentMap()["equip_anaerobic_reactor"])
	assert.Equal(t, "sludge_thickener_plus_press", rec.EquipmentMap()["equip_sludge_handling"])
}

func TestFor_UnknownArchetype(t *testing.T) {
	_, err := For(0)
	assert.ErrorIs(t, err, models.ErrUnknownArchetype)
}
