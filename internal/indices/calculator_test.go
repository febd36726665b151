package indices

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aquasense-design/internal/models"
)

func sample() models.InfluentSample {
	return models.InfluentSample{
		PH:            7.5,
		TDS:           1500,
		Turbidity:     60,
		BOD:           300,
		COD:           900,
		TotalNitrogen: 20,
		Temperature:   25,
		FlowM3PerDay:  1200,
	}
}

func TestCompute_Idempotent(t *testing.T) {
	s := sample()
	for _, id := range models.AllArchetypes {
		a, err := Compute(id, s)
		require.NoError(t, err)
		b, err := Compute(id, s)
		require.NoError(t, err)
		assert.Equal(t, a, b, "archetype %d", id)
	}
}

func TestCompute_Potable(t *testing.T) {
	s := models.InfluentSample{PH: 6.5, Turbidity: 15, BOD: 5, COD: 25, FlowM3PerDay: 500}
	idx, err := Compute(models.ArchetypePotable, s)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, idx.TurbidityIndex, 1e-12)
	assert.InDelta(t, 1.0, idx.OrganicIndex, 1e-12)
	assert.Zero(t, idx.TDSIndex)
	assert.Zero(t, idx.SludgeIndex)
	assert.InDelta(t, 0.5, idx.PHDeviation, 1e-12)
}

func TestCompute_ClampsToBand(t *testing.T) {
	low := models.InfluentSample{PH: 7, FlowM3PerDay: 100}
	idx, err := Compute(models.ArchetypeRecycleMBR, low)
	require.NoError(t, err)
	assert.Equal(t, 0.3, idx.TurbidityIndex)
	assert.Equal(t, 0.5, idx.OrganicIndex)
	assert.Equal(t, 0.3, idx.TDSIndex)

	high := models.InfluentSample{PH: 7, Turbidity: 1e4, BOD: 1e4, TDS: 1e5, FlowM3PerDay: 100}
	idx, err = Compute(models.ArchetypeRecycleMBR, high)
	require.NoError(t, err)
	assert.Equal(t, 3.0, idx.TurbidityIndex)
	assert.Equal(t, 2.5, idx.OrganicIndex)
	assert.Equal(t, 3.0, idx.TDSIndex)
}

func TestCompute_IndustrialSludgeComposite(t *testing.T) {
	s := models.InfluentSample{PH: 4, TDS: 4000, BOD: 300, COD: 600, FlowM3PerDay: 800, HeavyMetals: true}
	idx, err := Compute(models.ArchetypeIndustrial, s)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, idx.OrganicIndex, 1e-12)
	assert.InDelta(t, 2.0, idx.TDSIndex, 1e-12)
	assert.InDelta(t, 1.5, idx.SludgeIndex, 1e-12)
	assert.InDelta(t, 3.0, idx.PHDeviation, 1e-12)

	s.HeavyMetals = false
	idx, _ = Compute(models.ArchetypeIndustrial, s)
	assert.InDelta(t, 1.0, idx.SludgeIndex, 1e-12)
}

func TestCompute_HighOrganicSludge(t *testing.T) {
	s := models.InfluentSample{PH: 7, BOD: 1500, COD: 3000, FlowM3PerDay: 800}
	idx, err := Compute(models.ArchetypeHighOrganic, s)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, idx.OrganicIndex, 1e-12)
	assert.InDelta(t, 1.5, idx.SludgeIndex, 1e-12)
}

func TestCompute_UnknownArchetype(t *testing.T) {
	_, err := Compute(9, sample())
	assert.ErrorIs(t, err, models.ErrUnknownArchetype)
}
