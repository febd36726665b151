package dispatcher

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"aquasense-design/internal/models"
	"aquasense-design/internal/predictor"
)

type fixedClassifier struct {
	id  int
	err error
}

func (c fixedClassifier) Classify(context.Context, models.Features) (int, error) {
	return c.id, c.err
}

type fakeTriple struct {
	durations []float64
	labels    []string
	cost      float64
	err       error
}

func (f fakeTriple) PredictDurations(context.Context, models.Features) ([]float64, error) {
	return f.durations, f.err
}

func (f fakeTriple) PredictEquipment(context.Context, models.Features) ([]string, error) {
	return f.labels, nil
}

func (f fakeTriple) PredictCost(context.Context, models.Features) (float64, error) {
	return f.cost, nil
}

var recycleLabels = []string{
	"fine_screen",
	"aerated_grit_chamber",
	"eq_tank_with_mixing",
	"anoxic_aerobic_bioreactor",
	"external_mbr",
	"pressure_carbon_filter",
	"uv_disinfection",
}

// newRegistry 以模拟器为底，替换指定工艺类型的三元组
func newRegistry(t *testing.T, c predictor.Classifier, override map[models.ArchetypeID]predictor.Triple) *predictor.Registry {
	t.Helper()
	base, err := predictor.NewSimulatedRegistry()
	require.NoError(t, err)

	triples := map[models.ArchetypeID]predictor.Triple{}
	for _, id := range models.AllArchetypes {
		tr, _ := base.Triple(id)
		triples[id] = tr
	}
	for id, tr := range override {
		triples[id] = tr
	}
	if c == nil {
		c = base.Classifier()
	}
	reg, err := predictor.NewRegistry(c, triples)
	require.NoError(t, err)
	return reg
}

func triple(f fakeTriple) predictor.Triple {
	return predictor.Triple{Durations: f, Equipment: f, Cost: f}
}

func sample() models.InfluentSample {
	return models.InfluentSample{
		PH:            7.1,
		TDS:           900,
		Turbidity:     80,
		BOD:           150,
		COD:           400,
		TotalNitrogen: 25,
		Temperature:   26,
		FlowM3PerDay:  3500,
	}
}

func TestDispatch_RecycleMBRKeySet(t *testing.T) {
	reg := newRegistry(t, fixedClassifier{id: 3}, map[models.ArchetypeID]predictor.Triple{
		models.ArchetypeRecycleMBR: triple(fakeTriple{
			durations: []float64{1.234, 12.345, 150, 300.555, 40, 15, 20.001},
			labels:    recycleLabels,
			cost:      37.456,
		}),
	})

	resp, err := New(reg, zap.NewNop()).Dispatch(context.Background(), sample())
	require.NoError(t, err)

	assert.Equal(t, 3, resp.PredictedType)
	keys := make([]string, 0, len(resp.StageTimesMin))
	for k := range resp.StageTimesMin {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{
		"t_screening_min",
		"t_grit_chamber_min",
		"t_equalization_min",
		"t_biological_reactor_min",
		"t_mbr_min",
		"t_activated_carbon_min",
		"t_disinfection_min",
	}, keys)
	assert.Len(t, resp.StageEquipment, 7)
	assert.Equal(t, "external_mbr", resp.StageEquipment["equip_mbr"])

	assert.Equal(t, 1.23, resp.StageTimesMin["t_screening_min"])
	assert.Equal(t, 12.35, resp.StageTimesMin["t_grit_chamber_min"])
	assert.Equal(t, 300.56, resp.StageTimesMin["t_biological_reactor_min"])
	assert.Equal(t, 37.46, resp.CostPerM3INR)
}

func TestDispatch_LengthMismatchIsSchemaError(t *testing.T) {
	reg := newRegistry(t, fixedClassifier{id: 3}, map[models.ArchetypeID]predictor.Triple{
		models.ArchetypeRecycleMBR: triple(fakeTriple{
			durations: []float64{1, 2, 3, 4, 5},
			labels:    recycleLabels,
			cost:      10,
		}),
	})

	resp, err := New(reg, zap.NewNop()).Dispatch(context.Background(), sample())
	assert.Nil(t, resp)
	require.ErrorIs(t, err, models.ErrSchemaMismatch)

	var mismatch *models.SchemaMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, models.ArchetypeRecycleMBR, mismatch.ArchetypeID)
	assert.Equal(t, 7, mismatch.Expected)
	assert.Equal(t, 5, mismatch.Actual)

	var dispatchErr *DispatchError
	require.True(t, errors.As(err, &dispatchErr))
	assert.Equal(t, StateClassified, dispatchErr.Stage)
}

func TestDispatch_EquipmentLengthMismatch(t *testing.T) {
	reg := newRegistry(t, fixedClassifier{id: 3}, map[models.ArchetypeID]predictor.Triple{
		models.ArchetypeRecycleMBR: triple(fakeTriple{
			durations: []float64{1, 12, 150, 300, 40, 15, 20},
			labels:    recycleLabels[:6],
			cost:      10,
		}),
	})

	resp, err := New(reg, zap.NewNop()).Dispatch(context.Background(), sample())
	assert.Nil(t, resp)
	require.ErrorIs(t, err, models.ErrSchemaMismatch)

	var mismatch *models.SchemaMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "equipment", mismatch.Kind)
	assert.Equal(t, 7, mismatch.Expected)
	assert.Equal(t, 6, mismatch.Actual)
}

func TestDispatch_UnknownEquipmentLabel(t *testing.T) {
	labels := append([]string{}, recycleLabels...)
	labels[4] = "ceramic_membrane"
	reg := newRegistry(t, fixedClassifier{id: 3}, map[models.ArchetypeID]predictor.Triple{
		models.ArchetypeRecycleMBR: triple(fakeTriple{
			durations: []float64{1, 12, 150, 300, 40, 15, 20},
			labels:    labels,
			cost:      10,
		}),
	})

	resp, err := New(reg, zap.NewNop()).Dispatch(context.Background(), sample())
	assert.Nil(t, resp)
	require.ErrorIs(t, err, models.ErrSchemaMismatch)

	var mismatch *models.SchemaMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "equipment_label", mismatch.Kind)
	assert.Equal(t, "ceramic_membrane", mismatch.Label)
}

func TestDispatch_NonFiniteDuration(t *testing.T) {
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		reg := newRegistry(t, fixedClassifier{id: 3}, map[models.ArchetypeID]predictor.Triple{
			models.ArchetypeRecycleMBR: triple(fakeTriple{
				durations: []float64{1, 2, 3, bad, 5, 6, 7},
				labels:    recycleLabels,
				cost:      10,
			}),
		})

		var (
			resp *models.DesignResponse
			err  error
		)
		require.NotPanics(t, func() {
			resp, err = New(reg, zap.NewNop()).Dispatch(context.Background(), sample())
		})
		assert.Nil(t, resp)
		require.ErrorIs(t, err, models.ErrInvalidPrediction)

		var nonFinite *models.NonFinitePredictionError
		require.True(t, errors.As(err, &nonFinite))
		assert.Equal(t, models.ArchetypeRecycleMBR, nonFinite.ArchetypeID)
		assert.Equal(t, "t_biological_reactor_min", nonFinite.Column)

		var dispatchErr *DispatchError
		require.True(t, errors.As(err, &dispatchErr))
		assert.Equal(t, StateClassified, dispatchErr.Stage)
	}
}

func TestDispatch_NonFiniteCost(t *testing.T) {
	reg := newRegistry(t, fixedClassifier{id: 3}, map[models.ArchetypeID]predictor.Triple{
		models.ArchetypeRecycleMBR: triple(fakeTriple{
			durations: []float64{1, 12, 150, 300, 40, 15, 20},
			labels:    recycleLabels,
			cost:      math.NaN(),
		}),
	})

	resp, err := New(reg, zap.NewNop()).Dispatch(context.Background(), sample())
	assert.Nil(t, resp)
	var nonFinite *models.NonFinitePredictionError
	require.True(t, errors.As(err, &nonFinite))
	assert.Equal(t, "cost_per_m3_inr", nonFinite.Column)
}

func TestDispatch_ClassifierOutOfRange(t *testing.T) {
	for _, id := range []int{0, 6, -2} {
		reg := newRegistry(t, fixedClassifier{id: id}, nil)
		resp, err := New(reg, zap.NewNop()).Dispatch(context.Background(), sample())
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, models.ErrClassification)

		var dispatchErr *DispatchError
		require.True(t, errors.As(err, &dispatchErr))
		assert.Equal(t, StateReceived, dispatchErr.Stage)
	}
}

func TestDispatch_ClassifierFailure(t *testing.T) {
	cause := errors.New("model server unavailable")
	reg := newRegistry(t, fixedClassifier{err: cause}, nil)

	_, err := New(reg, zap.NewNop()).Dispatch(context.Background(), sample())
	assert.ErrorIs(t, err, models.ErrClassification)
	assert.ErrorIs(t, err, cause)
}

func TestDispatch_PredictorFailure(t *testing.T) {
	cause := errors.New("timeout")
	reg := newRegistry(t, fixedClassifier{id: 3}, map[models.ArchetypeID]predictor.Triple{
		models.ArchetypeRecycleMBR: triple(fakeTriple{err: cause}),
	})

	resp, err := New(reg, zap.NewNop()).Dispatch(context.Background(), sample())
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, cause)
}

func TestDispatch_RejectsZeroFlow(t *testing.T) {
	reg := newRegistry(t, nil, nil)
	s := sample()
	s.FlowM3PerDay = 0

	resp, err := New(reg, zap.NewNop()).Dispatch(context.Background(), s)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestDispatch_SimulatedEndToEnd(t *testing.T) {
	reg := newRegistry(t, nil, nil)
	s := models.InfluentSample{PH: 7, TDS: 500, Turbidity: 5, BOD: 5, COD: 20, TotalNitrogen: 3, Temperature: 20, FlowM3PerDay: 999}

	resp, err := New(reg, zap.NewNop()).Dispatch(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.PredictedType)
	assert.Len(t, resp.StageTimesMin, 6)
	assert.Equal(t, "uv_disinfection", resp.StageEquipment["equip_disinfection"])
	assert.Greater(t, resp.CostPerM3INR, 0.0)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "ASSEMBLED", StateAssembled.String())
	assert.Equal(t, "ERROR", StateError.String())
}
