package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"taskpilot/pkg/types"
)

func TestHeuristicRankerScore(t *testing.T) {
	ranker := NewHeuristicRanker()

	tests := []struct {
		name string
		task types.Task
		want float64
	}{
		{
			name: "medium baseline",
			task: types.Task{
				PriorityLevel: types.PriorityMedium,
				Urgency:       types.RatingMedium,
				Impact:        types.RatingMedium,
			},
			want: 2 * 1.2 * 1.1,
		},
		{
			name: "missing level treated as medium",
			task: types.Task{
				Urgency: types.RatingMedium,
				Impact:  types.RatingMedium,
			},
			want: 2 * 1.2 * 1.1,
		},
		{
			name: "title keyword outranks description keyword",
			task: types.Task{
				PriorityLevel: types.PriorityHigh,
				Title:         "Hotfix payment webhook",
				Description:   "urgent and important",
				Urgency:       types.RatingHigh,
				Impact:        types.RatingHigh,
			},
			want: 3 * 1.8 * 1.5 * 1.3,
		},
		{
			name: "description keyword applies alone",
			task: types.Task{
				PriorityLevel: types.PriorityLow,
				Title:         "Update onboarding doc",
				Description:   "important for the new hires",
				Urgency:       types.RatingLow,
				Impact:        types.RatingLow,
			},
			want: 1 * 1.4,
		},
		{
			name: "overdue deadline multiplies hardest",
			task: types.Task{
				PriorityLevel: types.PriorityMedium,
				Urgency:       types.RatingMedium,
				Impact:        types.RatingMedium,
				Deadline:      deadlineIn(-time.Hour),
			},
			want: 2 * 1.2 * 1.1 * 2.5,
		},
		{
			name: "due within a day",
			task: types.Task{
				PriorityLevel: types.PriorityMedium,
				Urgency:       types.RatingMedium,
				Impact:        types.RatingMedium,
				Deadline:      deadlineIn(6 * time.Hour),
			},
			want: 2 * 1.2 * 1.1 * 2.0,
		},
		{
			name: "due within three days",
			task: types.Task{
				PriorityLevel: types.PriorityMedium,
				Urgency:       types.RatingMedium,
				Impact:        types.RatingMedium,
				Deadline:      deadlineIn(48 * time.Hour),
			},
			want: 2 * 1.2 * 1.1 * 1.5,
		},
		{
			name: "distant deadline has no effect",
			task: types.Task{
				PriorityLevel: types.PriorityMedium,
				Urgency:       types.RatingMedium,
				Impact:        types.RatingMedium,
				Deadline:      deadlineIn(200 * time.Hour),
			},
			want: 2 * 1.2 * 1.1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ranker.Score(&tt.task, testClock())
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestHeuristicRankerAlwaysPositive(t *testing.T) {
	ranker := NewHeuristicRanker()
	levels := []types.PriorityLevel{types.PriorityLow, types.PriorityMedium, types.PriorityHigh, ""}
	ratings := []types.Rating{types.RatingLow, types.RatingMedium, types.RatingHigh, ""}

	for _, level := range levels {
		for _, u := range ratings {
			for _, im := range ratings {
				task := types.Task{PriorityLevel: level, Urgency: u, Impact: im}
				assert.Greater(t, ranker.Score(&task, testClock()), 0.0)
			}
		}
	}
}
