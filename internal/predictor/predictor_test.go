package predictor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"aquasense-design/internal/models"
	"aquasense-design/internal/schema"
)

func domesticSample() models.InfluentSample {
	return models.InfluentSample{
		PH:            7.2,
		TDS:           800,
		Turbidity:     120,
		BOD:           250,
		COD:           500,
		TotalNitrogen: 35,
		Temperature:   28,
		FlowM3PerDay:  2500,
	}
}

func TestNewRegistry_RequiresAllTriples(t *testing.T) {
	sim, err := NewSimulatedRegistry()
	require.NoError(t, err)

	triples := map[models.ArchetypeID]Triple{}
	for _, id := range models.AllArchetypes[:4] {
		tr, _ := sim.Triple(id)
		triples[id] = tr
	}
	_, err = NewRegistry(sim.Classifier(), triples)
	assert.Error(t, err)

	_, err = NewRegistry(nil, triples)
	assert.Error(t, err)

	triples[models.ArchetypeHighOrganic] = Triple{}
	_, err = NewRegistry(sim.Classifier(), triples)
	assert.Error(t, err)
}

func TestRegistry_UnknownArchetype(t *testing.T) {
	reg, err := NewSimulatedRegistry()
	require.NoError(t, err)

	_, err = reg.Triple(6)
	assert.ErrorIs(t, err, models.ErrUnknownArchetype)
}

func TestSimulated_LengthsMatchRegistry(t *testing.T) {
	reg, err := NewSimulatedRegistry()
	require.NoError(t, err)

	f := domesticSample().Features()
	for _, id := range models.AllArchetypes {
		tr, err := reg.Triple(id)
		require.NoError(t, err)

		d, err := tr.Durations.PredictDurations(context.Background(), f)
		require.NoError(t, err)
		e, err := tr.Equipment.PredictEquipment(context.Background(), f)
		require.NoError(t, err)

		stageCols, _ := schema.StageColumns(id)
		equipCols, _ := schema.EquipmentColumns(id)
		assert.Len(t, d, len(stageCols), "%s", id)
		assert.Len(t, e, len(equipCols), "%s", id)

		_, err = schema.NewRecord(id, domesticSample(), d, e, models.CostBreakdown{})
		assert.NoError(t, err)
	}
}

func TestEnvelopeClassifier(t *testing.T) {
	c := NewEnvelopeClassifier()

	got, err := c.Classify(context.Background(), domesticSample().Features())
	require.NoError(t, err)
	assert.Equal(t, int(models.ArchetypeDomestic), got)

	potable := models.InfluentSample{PH: 7, TDS: 500, Turbidity: 5, BOD: 5, COD: 20, TotalNitrogen: 3, Temperature: 20, FlowM3PerDay: 1000}
	got, err = c.Classify(context.Background(), potable.Features())
	require.NoError(t, err)
	assert.Equal(t, int(models.ArchetypePotable), got)

	f := potable.Features()
	f[8] = 2
	_, err = c.Classify(context.Background(), f)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func newModelServer(t *testing.T, predictions map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var req predictRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req.Features, models.FeatureCount)

		model := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/models/"), "/predict")
		w.Header().Set("Content-Type", "application/json")
		p, ok := predictions[model]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "model not loaded"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"prediction": p})
	}))
}

func TestRemote_PredictsThroughModelServer(t *testing.T) {
	srv := newModelServer(t, map[string]any{
		"type_classifier": []float64{3},
		"type3_times":     []float64{1.5, 12, 150, 300, 40, 15, 20},
		"type3_equipment": []string{"fine_screen", "vortex_grit_chamber", "eq_tank_with_mixing", "anoxic_aerobic_bioreactor", "submerged_mbr", "pressure_carbon_filter", "uv_disinfection"},
		"type3_cost":      42.125,
		"type1_cost":      []float64{1, 2},
		"type2_times":     "oops",
	})
	defer srv.Close()

	client := NewRemoteClient(srv.URL, 2*time.Second, 0, zap.NewNop())
	reg, err := NewRemoteRegistry(client)
	require.NoError(t, err)

	f := domesticSample().Features()
	ctx := context.Background()

	id, err := reg.Classifier().Classify(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, 3, id)

	tr, _ := reg.Triple(models.ArchetypeRecycleMBR)
	d, err := tr.Durations.PredictDurations(ctx, f)
	require.NoError(t, err)
	assert.Len(t, d, 7)

	e, err := tr.Equipment.PredictEquipment(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, "uv_disinfection", e[6])

	c, err := tr.Cost.PredictCost(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, 42.125, c)

	t1, _ := reg.Triple(models.ArchetypePotable)
	_, err = t1.Cost.PredictCost(ctx, f)
	assert.Error(t, err)

	t2, _ := reg.Triple(models.ArchetypeDomestic)
	_, err = t2.Durations.PredictDurations(ctx, f)
	assert.Error(t, err)

	t4, _ := reg.Triple(models.ArchetypeIndustrial)
	_, err = t4.Cost.PredictCost(ctx, f)
	assert.ErrorContains(t, err, "model not loaded")
}

func TestRemote_NonIntegerClassIsClassificationError(t *testing.T) {
	srv := newModelServer(t, map[string]any{"type_classifier": 2.5})
	defer srv.Close()

	client := NewRemoteClient(srv.URL, time.Second, 0, zap.NewNop())
	_, err := client.Classifier().Classify(context.Background(), domesticSample().Features())
	assert.ErrorIs(t, err, models.ErrClassification)
}
