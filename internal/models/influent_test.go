package models

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSample() InfluentSample {
	return InfluentSample{
		PH:            7.0,
		TDS:           500,
		Turbidity:     5,
		BOD:           5,
		COD:           20,
		TotalNitrogen: 3,
		Temperature:   20,
		FlowM3PerDay:  1000,
	}
}

func TestValidate_Valid(t *testing.T) {
	require.NoError(t, validSample().Validate())
}

func TestValidate_RejectsNonPositiveFlow(t *testing.T) {
	for _, flow := range []float64{0, -1} {
		s := validSample()
		s.FlowM3PerDay = flow

		err := s.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidInput))

		var inputErr *InputError
		require.True(t, errors.As(err, &inputErr))
		assert.Equal(t, "flow_m3_day", inputErr.Field)
	}
}

func TestValidate_RejectsNaNAndNegative(t *testing.T) {
	s := validSample()
	s.COD = math.NaN()
	assert.ErrorIs(t, s.Validate(), ErrInvalidInput)

	s = validSample()
	s.BOD = -3
	assert.ErrorIs(t, s.Validate(), ErrInvalidInput)

	s = validSample()
	s.PH = 15
	assert.ErrorIs(t, s.Validate(), ErrInvalidInput)
}

func TestFeatures_Order(t *testing.T) {
	s := validSample()
	s.HeavyMetals = true

	f := s.Features()
	assert.Equal(t, Features{7.0, 500, 5, 5, 20, 3, 20, 1000, 1}, f)

	back, err := SampleFromFeatures(f)
	require.NoError(t, err)
	assert.Equal(t, s, back)
}

func TestSampleFromFeatures_RejectsNonBinaryHeavyMetals(t *testing.T) {
	f := validSample().Features()
	f[8] = 0.5

	_, err := SampleFromFeatures(f)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCostBreakdown_PerCubicMeter(t *testing.T) {
	c := NewCostBreakdown(1e6, 5000, 250)
	assert.Equal(t, 20.0, c.CostPerM3INR)
}

func TestErrors_Unwrap(t *testing.T) {
	cause := errors.New("model server down")
	err := &ClassificationError{Cause: cause}
	assert.ErrorIs(t, err, ErrClassification)
	assert.ErrorIs(t, err, cause)

	mismatch := &SchemaMismatchError{ArchetypeID: 3, Kind: "stage_durations", Expected: 7, Actual: 5}
	assert.ErrorIs(t, mismatch, ErrSchemaMismatch)
	assert.Contains(t, mismatch.Error(), "expected 7 values, got 5")

	assert.ErrorIs(t, &UnknownArchetypeError{ArchetypeID: 9}, ErrUnknownArchetype)
	assert.ErrorIs(t, &PersistError{Op: "insert", Err: cause}, ErrPersistence)
}
