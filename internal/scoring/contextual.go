package scoring

import (
	"time"

	"taskpilot/pkg/types"
)

// scoreFloor keeps adjusted scores strictly positive so a zero or negative
// multiplier product cannot corrupt the descending sort.
const scoreFloor = 0.01

// feedbackWindow is the recency window for the negative-feedback boost.
const feedbackWindow = 24 * time.Hour

// PostProcessor adjusts raw scores from either the model or the heuristic
// path using the time of day and recent negative feedback, before final
// ranking.
type PostProcessor struct {
	config PostProcessConfig
}

// PostProcessConfig holds the contextual multipliers.
type PostProcessConfig struct {
	EveningStartHour int     `json:"evening_start_hour"`
	EveningHighCost  float64 `json:"evening_high_energy_factor"`
	EveningLowBoost  float64 `json:"evening_low_energy_factor"`

	MorningStartHour int     `json:"morning_start_hour"`
	MorningEndHour   int     `json:"morning_end_hour"`
	MorningHighBoost float64 `json:"morning_high_energy_factor"`

	LateHour           int     `json:"late_hour"`
	LongTaskMinutes    int     `json:"long_task_minutes"`
	LateLongTaskFactor float64 `json:"late_long_task_factor"`

	NegativeFeedbackBoost float64 `json:"negative_feedback_boost"`
}

// DefaultPostProcessConfig returns the production multipliers.
func DefaultPostProcessConfig() PostProcessConfig {
	return PostProcessConfig{
		EveningStartHour:      18,
		EveningHighCost:       0.7,
		EveningLowBoost:       1.2,
		MorningStartHour:      7,
		MorningEndHour:        10,
		MorningHighBoost:      1.15,
		LateHour:              17,
		LongTaskMinutes:       120,
		LateLongTaskFactor:    0.85,
		NegativeFeedbackBoost: 1.1,
	}
}

// NewPostProcessor creates a post-processor with the default multipliers.
func NewPostProcessor() *PostProcessor {
	return &PostProcessor{config: DefaultPostProcessConfig()}
}

// Adjust applies the contextual multipliers to a raw score. The
// hasRecentNegative flag reports whether the task received was_useful=false
// feedback inside the recency window; a rejected prediction is read as the
// model underweighting the task, so its score is boosted.
func (pp *PostProcessor) Adjust(task *types.Task, raw float64, now time.Time, hasRecentNegative bool) float64 {
	multiplier := 1.0
	hour := now.Hour()
	energy := task.EnergyRequired.OrDefault()

	if hour >= pp.config.EveningStartHour {
		switch energy {
		case types.RatingHigh:
			multiplier *= pp.config.EveningHighCost
		case types.RatingLow:
			multiplier *= pp.config.EveningLowBoost
		}
	}

	if hour >= pp.config.MorningStartHour && hour <= pp.config.MorningEndHour {
		if energy == types.RatingHigh {
			multiplier *= pp.config.MorningHighBoost
		}
	}

	// Stacks with the evening energy adjustment.
	if hour >= pp.config.LateHour && task.EstimatedDuration > pp.config.LongTaskMinutes {
		multiplier *= pp.config.LateLongTaskFactor
	}

	if hasRecentNegative {
		multiplier *= pp.config.NegativeFeedbackBoost
	}

	adjusted := raw * multiplier
	if adjusted < scoreFloor {
		return scoreFloor
	}
	return adjusted
}
