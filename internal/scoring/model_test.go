package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskpilot/pkg/types"
)

func TestRegressorFitPredict(t *testing.T) {
	t.Run("recovers a linear relation", func(t *testing.T) {
		features := [][]float64{{1}, {2}, {3}, {4}, {5}}
		targets := []float64{3, 5, 7, 9, 11} // y = 2x + 1

		var r Regressor
		require.NoError(t, r.Fit(features, targets))

		got, err := r.Predict([]float64{6})
		require.NoError(t, err)
		assert.InDelta(t, 13, got, 0.1)
	})

	t.Run("handles a constant feature column", func(t *testing.T) {
		// A constant column is collinear with the bias; the ridge term
		// keeps the solve from going singular.
		features := [][]float64{{1, 1}, {1, 2}, {1, 3}}
		targets := []float64{2, 4, 6}

		var r Regressor
		require.NoError(t, r.Fit(features, targets))

		got, err := r.Predict([]float64{1, 4})
		require.NoError(t, err)
		assert.InDelta(t, 8, got, 0.5)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		var r Regressor
		assert.Error(t, r.Fit(nil, nil))
		assert.Error(t, r.Fit([][]float64{{1}}, []float64{1, 2}))
		assert.Error(t, r.Fit([][]float64{{1, 2}, {1}}, []float64{1, 2}))
	})

	t.Run("predict before fit errors", func(t *testing.T) {
		var r Regressor
		_, err := r.Predict([]float64{1})
		assert.Error(t, err)
	})

	t.Run("predict rejects wrong width", func(t *testing.T) {
		var r Regressor
		require.NoError(t, r.Fit([][]float64{{1}, {2}}, []float64{1, 2}))
		_, err := r.Predict([]float64{1, 2})
		assert.Error(t, err)
	})
}

func TestPriorityModelRoundTrip(t *testing.T) {
	tasks := []types.Task{
		{Urgency: types.RatingLow, Impact: types.RatingLow, EnergyRequired: types.RatingLow, EstimatedDuration: 30},
		{Urgency: types.RatingHigh, Impact: types.RatingHigh, EnergyRequired: types.RatingHigh, EstimatedDuration: 120},
		{Urgency: types.RatingMedium, Impact: types.RatingMedium, EnergyRequired: types.RatingMedium, EstimatedDuration: 60},
	}

	model := &PriorityModel{Version: modelVersion}
	model.Features.Fit(tasks)

	vectors := make([][]float64, 0, len(tasks))
	for i := range tasks {
		vec, err := model.Features.Vector(&tasks[i])
		require.NoError(t, err)
		vectors = append(vectors, vec)
	}
	require.NoError(t, model.Regressor.Fit(vectors, []float64{0.5, 2.0, 1.0}))

	blob, err := model.Marshal()
	require.NoError(t, err)

	restored, err := UnmarshalPriorityModel(blob)
	require.NoError(t, err)
	assert.Equal(t, modelVersion, restored.Version)

	// The restored model must predict identically, encoders included.
	for i := range tasks {
		vec, err := restored.Features.Vector(&tasks[i])
		require.NoError(t, err)

		want, err := model.Regressor.Predict(vectors[i])
		require.NoError(t, err)
		got, err := restored.Regressor.Predict(vec)
		require.NoError(t, err)
		assert.InDelta(t, want, got, 1e-12)
	}
}

func TestUnmarshalPriorityModelRejectsBadBlobs(t *testing.T) {
	_, err := UnmarshalPriorityModel(nil)
	assert.Error(t, err)

	_, err = UnmarshalPriorityModel([]byte("{not json"))
	assert.Error(t, err)

	_, err = UnmarshalPriorityModel([]byte(`{"version":"1.0"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no fitted weights")
}
