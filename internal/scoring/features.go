package scoring

import (
	"fmt"
	"sort"
	"strings"

	"taskpilot/pkg/types"
)

// FeatureCount is the fixed width of the task feature vector:
// urgency code, impact code, energy code, estimated duration, description
// length, urgent-keyword flag, bug-keyword flag.
const FeatureCount = 7

// defaultDurationMinutes substitutes for tasks with no duration estimate.
const defaultDurationMinutes = 60

// Keyword sets for the description/title derived flags. Matching is
// case-insensitive substring containment.
var (
	urgentKeywords = []string{"urgent", "crític"}
	bugKeywords    = []string{"bug", "fix"}
)

// LabelEncoder assigns a stable numeric code to each categorical value it
// was fitted on. Codes are assigned in sorted value order so that two fits
// over the same value set produce the same encoding.
type LabelEncoder struct {
	Classes []string `json:"classes"`
}

// Fit learns the encoder's classes from the observed values. Refitting
// replaces the previous classes entirely.
func (e *LabelEncoder) Fit(values []string) {
	seen := make(map[string]bool, len(values))
	classes := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			classes = append(classes, v)
		}
	}
	sort.Strings(classes)
	e.Classes = classes
}

// Transform returns the code for a value. A value that was not present at
// fit time is an error; callers degrade to the heuristic ranker on it.
func (e *LabelEncoder) Transform(value string) (float64, error) {
	for i, c := range e.Classes {
		if c == value {
			return float64(i), nil
		}
	}
	return 0, fmt.Errorf("category %q not seen during training", value)
}

// FeatureExtractor derives the fixed-width numeric feature vector for a
// task. The three categorical encoders are fitted once per training run and
// reused, never refit, at inference time.
type FeatureExtractor struct {
	Urgency LabelEncoder `json:"urgency"`
	Impact  LabelEncoder `json:"impact"`
	Energy  LabelEncoder `json:"energy"`
}

// Fit fits the categorical encoders on the category values observed in the
// training tasks, with missing values already defaulted to medium.
func (fe *FeatureExtractor) Fit(tasks []types.Task) {
	urgency := make([]string, 0, len(tasks))
	impact := make([]string, 0, len(tasks))
	energy := make([]string, 0, len(tasks))
	for i := range tasks {
		urgency = append(urgency, string(tasks[i].Urgency.OrDefault()))
		impact = append(impact, string(tasks[i].Impact.OrDefault()))
		energy = append(energy, string(tasks[i].EnergyRequired.OrDefault()))
	}
	fe.Urgency.Fit(urgency)
	fe.Impact.Fit(impact)
	fe.Energy.Fit(energy)
}

// Vector builds the feature vector for one task using the fitted encoders.
func (fe *FeatureExtractor) Vector(task *types.Task) ([]float64, error) {
	urgencyCode, err := fe.Urgency.Transform(string(task.Urgency.OrDefault()))
	if err != nil {
		return nil, fmt.Errorf("urgency: %w", err)
	}
	impactCode, err := fe.Impact.Transform(string(task.Impact.OrDefault()))
	if err != nil {
		return nil, fmt.Errorf("impact: %w", err)
	}
	energyCode, err := fe.Energy.Transform(string(task.EnergyRequired.OrDefault()))
	if err != nil {
		return nil, fmt.Errorf("energy: %w", err)
	}

	duration := task.EstimatedDuration
	if duration == 0 {
		duration = defaultDurationMinutes
	}

	return []float64{
		urgencyCode,
		impactCode,
		energyCode,
		float64(duration),
		float64(len(task.Description)),
		boolFeature(hasUrgentKeyword(task)),
		boolFeature(hasBugKeyword(task)),
	}, nil
}

// hasUrgentKeyword checks description and title for urgency markers.
func hasUrgentKeyword(task *types.Task) bool {
	content := strings.ToLower(task.Description + " " + task.Title)
	return containsAny(content, urgentKeywords)
}

// hasBugKeyword checks the title only.
func hasBugKeyword(task *types.Task) bool {
	return containsAny(strings.ToLower(task.Title), bugKeywords)
}

func containsAny(content string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(content, kw) {
			return true
		}
	}
	return false
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
