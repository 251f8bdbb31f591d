// Package scoring implements task prioritization: the deterministic rule
// scorer applied at task creation, and the learned ranker with its
// heuristic fallback used for the prioritized task list.
package scoring

import (
	"time"

	"taskpilot/pkg/types"
)

// RuleScorer computes a task's priority level and numeric score from its
// attributes. It is a pure function of the task and the supplied clock
// reading: same inputs, same outputs.
type RuleScorer struct {
	config RuleConfig
}

// RuleConfig holds the weight tables for rule-based scoring.
type RuleConfig struct {
	UrgencyWeights    map[types.Rating]int        `json:"urgency_weights"`
	ImpactWeights     map[types.Rating]int        `json:"impact_weights"`
	EnergyAdjustments map[types.Rating]int        `json:"energy_adjustments"`
	LevelBases        map[types.PriorityLevel]int `json:"level_bases"`
	LevelThresholds   LevelThresholds             `json:"level_thresholds"`
	DeadlineWeights   DeadlineWeights             `json:"deadline_weights"`
	LongTaskMinutes   int                         `json:"long_task_minutes"`
	LongTaskPenalty   int                         `json:"long_task_penalty"`
}

// LevelThresholds maps the stage-A score total to a priority level.
type LevelThresholds struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
}

// DeadlineWeights holds the stage-A additions for deadline proximity.
// The brackets are checked most-urgent-first and are mutually exclusive.
type DeadlineWeights struct {
	Overdue     int `json:"overdue"`
	WithinTwoH  int `json:"within_2h"`
	WithinDay   int `json:"within_24h"`
	WithinThree int `json:"within_3d"`
}

// DefaultRuleConfig returns the production scoring tables.
func DefaultRuleConfig() RuleConfig {
	return RuleConfig{
		UrgencyWeights: map[types.Rating]int{
			types.RatingLow:    1,
			types.RatingMedium: 2,
			types.RatingHigh:   3,
		},
		ImpactWeights: map[types.Rating]int{
			types.RatingLow:    1,
			types.RatingMedium: 2,
			types.RatingHigh:   3,
		},
		EnergyAdjustments: map[types.Rating]int{
			types.RatingLow:    1,
			types.RatingMedium: 0,
			types.RatingHigh:   -1,
		},
		LevelBases: map[types.PriorityLevel]int{
			types.PriorityLow:    25,
			types.PriorityMedium: 50,
			types.PriorityHigh:   75,
		},
		LevelThresholds: LevelThresholds{High: 7, Medium: 4},
		DeadlineWeights: DeadlineWeights{
			Overdue:     3,
			WithinTwoH:  2,
			WithinDay:   2,
			WithinThree: 1,
		},
		LongTaskMinutes: 240,
		LongTaskPenalty: 1,
	}
}

// NewRuleScorer creates a rule scorer with the default tables.
func NewRuleScorer() *RuleScorer {
	return &RuleScorer{config: DefaultRuleConfig()}
}

// NewRuleScorerWithConfig creates a rule scorer with custom tables.
func NewRuleScorerWithConfig(config RuleConfig) *RuleScorer {
	return &RuleScorer{config: config}
}

// PriorityResult is the output of the rule scorer.
type PriorityResult struct {
	Level types.PriorityLevel `json:"priority_level"`
	Score int                 `json:"priority_score"`
}

// Score computes the priority level and the 1-100 score for a task at the
// given clock reading. Missing urgency/impact/energy default to medium.
func (rs *RuleScorer) Score(task *types.Task, now time.Time) PriorityResult {
	level := rs.level(task, now)
	return PriorityResult{
		Level: level,
		Score: rs.numericScore(task, level, now),
	}
}

// level runs stage A: weight accumulation mapped onto low/medium/high.
func (rs *RuleScorer) level(task *types.Task, now time.Time) types.PriorityLevel {
	total := rs.config.UrgencyWeights[task.Urgency.OrDefault()]
	total += rs.config.ImpactWeights[task.Impact.OrDefault()]
	total += rs.deadlineWeight(task.Deadline, now)
	total += rs.config.EnergyAdjustments[task.EnergyRequired.OrDefault()]

	if task.EstimatedDuration > rs.config.LongTaskMinutes {
		total -= rs.config.LongTaskPenalty
	}

	switch {
	case total >= rs.config.LevelThresholds.High:
		return types.PriorityHigh
	case total >= rs.config.LevelThresholds.Medium:
		return types.PriorityMedium
	default:
		return types.PriorityLow
	}
}

func (rs *RuleScorer) deadlineWeight(deadline *time.Time, now time.Time) int {
	if deadline == nil {
		return 0
	}
	remaining := deadline.Sub(now)
	switch {
	case remaining < 0:
		return rs.config.DeadlineWeights.Overdue
	case remaining <= 2*time.Hour:
		return rs.config.DeadlineWeights.WithinTwoH
	case remaining <= 24*time.Hour:
		return rs.config.DeadlineWeights.WithinDay
	case remaining <= 72*time.Hour:
		return rs.config.DeadlineWeights.WithinThree
	default:
		return 0
	}
}

// numericScore runs stage B: base score for the level, within-level
// adjustment from how the urgency/impact extremes align with the assigned
// level, then a deadline-proximity bonus. Clamped to [1,100].
func (rs *RuleScorer) numericScore(task *types.Task, level types.PriorityLevel, now time.Time) int {
	score := rs.config.LevelBases[level]

	urgency := task.Urgency.OrDefault()
	impact := task.Impact.OrDefault()

	highs := 0
	if urgency == types.RatingHigh {
		highs++
	}
	if impact == types.RatingHigh {
		highs++
	}

	switch level {
	case types.PriorityHigh:
		if highs == 2 {
			score += 15
		} else if highs == 1 {
			score += 8
		}
	case types.PriorityMedium:
		if highs > 0 {
			score += 10
		} else if urgency == types.RatingLow && impact == types.RatingLow {
			score -= 10
		}
	case types.PriorityLow:
		if highs > 0 {
			score += 15
		} else if urgency == types.RatingMedium || impact == types.RatingMedium {
			score += 5
		}
	}

	if task.Deadline != nil {
		remaining := task.Deadline.Sub(now)
		switch {
		case remaining <= 2*time.Hour:
			score += 20
		case remaining <= 24*time.Hour:
			score += 10
		}
	}

	return clampScore(score)
}

func clampScore(score int) int {
	if score > 100 {
		return 100
	}
	if score < 1 {
		return 1
	}
	return score
}
