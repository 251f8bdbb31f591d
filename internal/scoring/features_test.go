package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskpilot/pkg/types"
)

func TestLabelEncoder(t *testing.T) {
	t.Run("codes follow sorted class order", func(t *testing.T) {
		var enc LabelEncoder
		enc.Fit([]string{"medium", "high", "low", "medium"})
		assert.Equal(t, []string{"high", "low", "medium"}, enc.Classes)

		code, err := enc.Transform("low")
		require.NoError(t, err)
		assert.Equal(t, 1.0, code)
	})

	t.Run("refit replaces classes", func(t *testing.T) {
		var enc LabelEncoder
		enc.Fit([]string{"low", "high"})
		enc.Fit([]string{"medium"})
		assert.Equal(t, []string{"medium"}, enc.Classes)
	})

	t.Run("unseen value errors", func(t *testing.T) {
		var enc LabelEncoder
		enc.Fit([]string{"low", "medium"})

		_, err := enc.Transform("high")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not seen during training")
	})
}

func TestFeatureExtractorVector(t *testing.T) {
	tasks := []types.Task{
		{Urgency: types.RatingLow, Impact: types.RatingLow, EnergyRequired: types.RatingLow},
		{Urgency: types.RatingHigh, Impact: types.RatingMedium, EnergyRequired: types.RatingHigh},
		{}, // defaults to medium everywhere
	}

	var fe FeatureExtractor
	fe.Fit(tasks)

	t.Run("vector has fixed width", func(t *testing.T) {
		vec, err := fe.Vector(&tasks[0])
		require.NoError(t, err)
		assert.Len(t, vec, FeatureCount)
	})

	t.Run("missing duration substitutes the default", func(t *testing.T) {
		vec, err := fe.Vector(&types.Task{Urgency: types.RatingLow, Impact: types.RatingLow, EnergyRequired: types.RatingLow})
		require.NoError(t, err)
		assert.Equal(t, float64(defaultDurationMinutes), vec[3])
	})

	t.Run("description length is counted", func(t *testing.T) {
		task := types.Task{Description: "plan the sprint"}
		vec, err := fe.Vector(&task)
		require.NoError(t, err)
		assert.Equal(t, 15.0, vec[4])
	})

	t.Run("unseen category fails the whole vector", func(t *testing.T) {
		narrow := FeatureExtractor{}
		narrow.Fit([]types.Task{{Urgency: types.RatingLow, Impact: types.RatingLow, EnergyRequired: types.RatingLow}})

		_, err := narrow.Vector(&types.Task{Urgency: types.RatingHigh, Impact: types.RatingLow, EnergyRequired: types.RatingLow})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "urgency")
	})
}

func TestKeywordFlags(t *testing.T) {
	tests := []struct {
		name       string
		task       types.Task
		wantUrgent float64
		wantBug    float64
	}{
		{
			name:       "urgent in description",
			task:       types.Task{Title: "Weekly report", Description: "urgent, boss asked twice"},
			wantUrgent: 1,
			wantBug:    0,
		},
		{
			name:       "urgent in title also counts",
			task:       types.Task{Title: "URGENT: renew certificate"},
			wantUrgent: 1,
			wantBug:    0,
		},
		{
			name:       "bug keyword only matches the title",
			task:       types.Task{Title: "Fix login redirect", Description: "users bounce back to the form"},
			wantUrgent: 0,
			wantBug:    1,
		},
		{
			name:       "bug in description is ignored",
			task:       types.Task{Title: "Refactor session layer", Description: "there is a bug lurking here"},
			wantUrgent: 0,
			wantBug:    0,
		},
		{
			name:       "no keywords",
			task:       types.Task{Title: "Water the plants", Description: "balcony first"},
			wantUrgent: 0,
			wantBug:    0,
		},
	}

	var fe FeatureExtractor
	fe.Fit([]types.Task{{}})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vec, err := fe.Vector(&tt.task)
			require.NoError(t, err)
			assert.Equal(t, tt.wantUrgent, vec[5], "urgent flag")
			assert.Equal(t, tt.wantBug, vec[6], "bug flag")
		})
	}
}
