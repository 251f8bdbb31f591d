package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"taskpilot/pkg/types"
)

func testClock() time.Time {
	return time.Date(2025, 6, 2, 13, 0, 0, 0, time.UTC)
}

func deadlineIn(d time.Duration) *time.Time {
	t := testClock().Add(d)
	return &t
}

func TestRuleScorerScore(t *testing.T) {
	scorer := NewRuleScorer()

	tests := []struct {
		name      string
		task      types.Task
		wantLevel types.PriorityLevel
		wantScore int
	}{
		{
			name: "all medium no deadline",
			task: types.Task{
				Urgency:        types.RatingMedium,
				Impact:         types.RatingMedium,
				EnergyRequired: types.RatingMedium,
			},
			wantLevel: types.PriorityMedium,
			wantScore: 50,
		},
		{
			name:      "unset ratings default to medium",
			task:      types.Task{},
			wantLevel: types.PriorityMedium,
			wantScore: 50,
		},
		{
			name: "double high with imminent deadline clamps at 100",
			task: types.Task{
				Urgency:        types.RatingHigh,
				Impact:         types.RatingHigh,
				EnergyRequired: types.RatingHigh,
				Deadline:       deadlineIn(time.Hour),
			},
			wantLevel: types.PriorityHigh,
			wantScore: 100,
		},
		{
			name: "low urgency and impact with easy energy",
			task: types.Task{
				Urgency:           types.RatingLow,
				Impact:            types.RatingLow,
				EnergyRequired:    types.RatingLow,
				EstimatedDuration: 300,
			},
			wantLevel: types.PriorityLow,
			wantScore: 25,
		},
		{
			name: "long estimate drags a medium task down a level",
			task: types.Task{
				Urgency:           types.RatingMedium,
				Impact:            types.RatingMedium,
				EnergyRequired:    types.RatingMedium,
				EstimatedDuration: 300,
			},
			wantLevel: types.PriorityLow,
			wantScore: 30,
		},
		{
			name: "overdue deadline lifts the level and the score",
			task: types.Task{
				Urgency:        types.RatingMedium,
				Impact:         types.RatingMedium,
				EnergyRequired: types.RatingMedium,
				Deadline:       deadlineIn(-2 * time.Hour),
			},
			wantLevel: types.PriorityHigh,
			wantScore: 95,
		},
		{
			name: "deadline within a day adds the day bonus",
			task: types.Task{
				Urgency:        types.RatingMedium,
				Impact:         types.RatingMedium,
				EnergyRequired: types.RatingMedium,
				Deadline:       deadlineIn(20 * time.Hour),
			},
			wantLevel: types.PriorityMedium,
			wantScore: 60,
		},
		{
			name: "single high within a medium level gets the within-level bump",
			task: types.Task{
				Urgency:        types.RatingHigh,
				Impact:         types.RatingLow,
				EnergyRequired: types.RatingMedium,
			},
			wantLevel: types.PriorityMedium,
			wantScore: 60,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.Score(&tt.task, testClock())
			assert.Equal(t, tt.wantLevel, got.Level)
			assert.Equal(t, tt.wantScore, got.Score)
		})
	}
}

func TestRuleScorerDeterminism(t *testing.T) {
	scorer := NewRuleScorer()
	task := types.Task{
		Urgency:           types.RatingHigh,
		Impact:            types.RatingMedium,
		EnergyRequired:    types.RatingLow,
		EstimatedDuration: 90,
		Deadline:          deadlineIn(48 * time.Hour),
	}

	first := scorer.Score(&task, testClock())
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, scorer.Score(&task, testClock()))
	}
}

func TestRuleScorerScoreBounds(t *testing.T) {
	scorer := NewRuleScorer()
	ratings := []types.Rating{types.RatingLow, types.RatingMedium, types.RatingHigh}
	deadlines := []*time.Time{nil, deadlineIn(-time.Hour), deadlineIn(time.Hour), deadlineIn(12 * time.Hour), deadlineIn(time.Hour * 60)}
	durations := []int{0, 30, 300}

	for _, u := range ratings {
		for _, im := range ratings {
			for _, e := range ratings {
				for _, d := range deadlines {
					for _, dur := range durations {
						task := types.Task{Urgency: u, Impact: im, EnergyRequired: e, Deadline: d, EstimatedDuration: dur}
						got := scorer.Score(&task, testClock())
						assert.GreaterOrEqual(t, got.Score, 1)
						assert.LessOrEqual(t, got.Score, 100)
						assert.True(t, got.Level.Valid())
					}
				}
			}
		}
	}
}

func TestRuleScorerUrgencyMonotonic(t *testing.T) {
	scorer := NewRuleScorer()

	base := types.Task{
		Impact:         types.RatingMedium,
		EnergyRequired: types.RatingMedium,
	}

	low := base
	low.Urgency = types.RatingLow
	high := base
	high.Urgency = types.RatingHigh

	lowResult := scorer.Score(&low, testClock())
	highResult := scorer.Score(&high, testClock())
	assert.GreaterOrEqual(t, highResult.Score, lowResult.Score,
		"raising urgency must never lower the score")
}
