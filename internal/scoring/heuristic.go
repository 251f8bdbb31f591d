package scoring

import (
	"strings"
	"time"

	"taskpilot/pkg/types"
)

// HeuristicRanker scores pending tasks from keywords and metadata alone.
// It is the path taken whenever no trained model is usable: it needs no
// state, accepts any task, and always produces a positive score.
type HeuristicRanker struct {
	config HeuristicConfig
}

// HeuristicConfig holds the multiplier tables for heuristic ranking.
type HeuristicConfig struct {
	LevelBases     map[types.PriorityLevel]float64 `json:"level_bases"`
	UrgencyFactors map[types.Rating]float64        `json:"urgency_factors"`
	ImpactFactors  map[types.Rating]float64        `json:"impact_factors"`

	TitleKeywords       []string `json:"title_keywords"`
	DescriptionKeywords []string `json:"description_keywords"`
	TitleBoost          float64  `json:"title_boost"`
	DescriptionBoost    float64  `json:"description_boost"`

	OverdueFactor  float64 `json:"overdue_factor"`
	DueInDayFactor float64 `json:"due_in_day_factor"`
	DueInThreeDays float64 `json:"due_in_three_days_factor"`
}

// DefaultHeuristicConfig returns the production multiplier tables.
func DefaultHeuristicConfig() HeuristicConfig {
	return HeuristicConfig{
		LevelBases: map[types.PriorityLevel]float64{
			types.PriorityHigh:   3,
			types.PriorityMedium: 2,
			types.PriorityLow:    1,
		},
		UrgencyFactors: map[types.Rating]float64{
			types.RatingHigh:   1.5,
			types.RatingMedium: 1.2,
			types.RatingLow:    1.0,
		},
		ImpactFactors: map[types.Rating]float64{
			types.RatingHigh:   1.3,
			types.RatingMedium: 1.1,
			types.RatingLow:    1.0,
		},
		TitleKeywords:       []string{"bug", "fix", "crític", "urgent", "hotfix"},
		DescriptionKeywords: []string{"urgent", "important", "critical"},
		TitleBoost:          1.8,
		DescriptionBoost:    1.4,
		OverdueFactor:       2.5,
		DueInDayFactor:      2.0,
		DueInThreeDays:      1.5,
	}
}

// NewHeuristicRanker creates a heuristic ranker with the default tables.
func NewHeuristicRanker() *HeuristicRanker {
	return &HeuristicRanker{config: DefaultHeuristicConfig()}
}

// Score computes the heuristic score for a single task. The result is a
// positive float with no upper bound.
func (hr *HeuristicRanker) Score(task *types.Task, now time.Time) float64 {
	level := task.PriorityLevel
	if !level.Valid() {
		level = types.PriorityMedium
	}
	score := hr.config.LevelBases[level]

	// Title keywords take precedence over description keywords; only one
	// of the two boosts applies.
	if containsAny(strings.ToLower(task.Title), hr.config.TitleKeywords) {
		score *= hr.config.TitleBoost
	} else if containsAny(strings.ToLower(task.Description), hr.config.DescriptionKeywords) {
		score *= hr.config.DescriptionBoost
	}

	score *= hr.config.UrgencyFactors[task.Urgency.OrDefault()]
	score *= hr.config.ImpactFactors[task.Impact.OrDefault()]

	if task.Deadline != nil {
		remaining := task.Deadline.Sub(now)
		switch {
		case remaining < 0:
			score *= hr.config.OverdueFactor
		case remaining <= 24*time.Hour:
			score *= hr.config.DueInDayFactor
		case remaining <= 72*time.Hour:
			score *= hr.config.DueInThreeDays
		}
	}

	return score
}
