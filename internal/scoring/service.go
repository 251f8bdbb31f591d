package scoring

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	apperrors "taskpilot/internal/errors"
	"taskpilot/internal/logging"
	"taskpilot/internal/storage"
	"taskpilot/pkg/types"
)

// minTrainingTasks is the minimum completed-task count before a personal
// model is trained. Below it the heuristic ranker serves instead.
const minTrainingTasks = 2

// efficiencyCap bounds the estimated/actual training label so one wildly
// optimistic estimate cannot dominate the fit.
const efficiencyCap = 3.0

// ScoreSource identifies which path produced a ranked score.
type ScoreSource string

const (
	ScoreSourceModel ScoreSource = "model"
	ScoreSourceRules ScoreSource = "rules"
)

// FallbackReason explains why the heuristic path served a ranking request.
type FallbackReason string

const (
	FallbackNone           FallbackReason = ""
	FallbackNoModel        FallbackReason = "no_model"
	FallbackLoadFailed     FallbackReason = "load_failed"
	FallbackUnseenCategory FallbackReason = "unseen_category"
	FallbackPredictFailed  FallbackReason = "predict_failed"
)

// Training outcome reasons.
const (
	TrainReasonTrained          = "trained"
	TrainReasonInsufficientData = "insufficient_data"
	TrainReasonInternalError    = "internal_error"
)

// TrainingOutcome reports what a training run did. A skipped run is not an
// error; callers branch on Trained and surface Reason to the user.
type TrainingOutcome struct {
	Trained     bool   `json:"trained"`
	Reason      string `json:"reason"`
	SamplesUsed int    `json:"samples_used"`
}

// RankedTask pairs a task with its final adjusted score and provenance.
type RankedTask struct {
	Task     types.Task     `json:"task"`
	Score    float64        `json:"score"`
	Source   ScoreSource    `json:"source"`
	Fallback FallbackReason `json:"fallback_reason,omitempty"`
}

// RecomputeResult reports a priority recomputation against the stored task.
type RecomputeResult struct {
	TaskID   string         `json:"task_id"`
	Result   PriorityResult `json:"result"`
	Previous PriorityResult `json:"previous"`
	Changed  bool           `json:"changed"`
}

// Service orchestrates task prioritization: rule scoring on write paths,
// per-user model training from completed tasks, model-or-heuristic ranking
// of pending tasks, and feedback-driven retraining.
type Service struct {
	tasks     storage.TaskStore
	models    storage.ModelStore
	feedback  storage.FeedbackStore
	rules     *RuleScorer
	heuristic *HeuristicRanker
	post      *PostProcessor
	logger    logging.Logger

	// nowFunc is the clock; tests replace it to pin time-of-day behavior.
	nowFunc func() time.Time
}

// NewService creates a scoring service over the given store.
func NewService(store storage.Store, logger logging.Logger) *Service {
	return &Service{
		tasks:     store.TaskStore(),
		models:    store.ModelStore(),
		feedback:  store.FeedbackStore(),
		rules:     NewRuleScorer(),
		heuristic: NewHeuristicRanker(),
		post:      NewPostProcessor(),
		logger:    logger.WithComponent("scoring"),
		nowFunc:   time.Now,
	}
}

// ComputePriority applies the rule formula to a task's attributes. It does
// not touch storage; write paths call it before persisting.
func (s *Service) ComputePriority(task *types.Task) PriorityResult {
	return s.rules.Score(task, s.nowFunc())
}

// RecomputePriority re-runs the rule formula against the stored task and
// persists the result when it differs. Returns storage.ErrNotFound when the
// task does not exist.
func (s *Service) RecomputePriority(ctx context.Context, taskID string) (RecomputeResult, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return RecomputeResult{}, err
	}

	previous := PriorityResult{Level: task.PriorityLevel, Score: task.PriorityScore}
	result := s.rules.Score(task, s.nowFunc())

	out := RecomputeResult{
		TaskID:   taskID,
		Result:   result,
		Previous: previous,
		Changed:  result != previous,
	}
	if !out.Changed {
		return out, nil
	}

	task.PriorityLevel = result.Level
	task.PriorityScore = result.Score
	if err := s.tasks.Update(ctx, task); err != nil {
		return RecomputeResult{}, fmt.Errorf("persist recomputed priority: %w", err)
	}

	s.logger.Info("priority recomputed",
		"task_id", taskID,
		"level", result.Level,
		"score", result.Score)
	return out, nil
}

// Train fits a fresh priority model from the user's completed tasks and
// saves it as the active version. With fewer than minTrainingTasks completed
// tasks the run is skipped and the previous model, if any, stays active.
// Train never fails the caller: internal errors are logged and reported as
// an untrained outcome.
func (s *Service) Train(ctx context.Context, userID string) TrainingOutcome {
	completed, err := s.tasks.ListCompleted(ctx, userID)
	if err != nil {
		return s.trainFailed(userID, fmt.Errorf("load training tasks: %w", err))
	}
	if len(completed) < minTrainingTasks {
		s.logger.Info("training skipped",
			"user_id", userID,
			"completed_tasks", len(completed))
		return TrainingOutcome{Reason: TrainReasonInsufficientData, SamplesUsed: len(completed)}
	}

	actualMinutes, err := s.reportedCompletionTimes(ctx, userID)
	if err != nil {
		return s.trainFailed(userID, fmt.Errorf("load feedback: %w", err))
	}

	model := &PriorityModel{Version: modelVersion}
	model.Features.Fit(completed)

	vectors := make([][]float64, 0, len(completed))
	labels := make([]float64, 0, len(completed))
	for i := range completed {
		task := &completed[i]
		vec, err := model.Features.Vector(task)
		if err != nil {
			// Cannot happen for tasks the encoders were just fitted on.
			return s.trainFailed(userID, fmt.Errorf("encode training task %s: %w", task.ID, err))
		}
		vectors = append(vectors, vec)
		labels = append(labels, trainingLabel(task, actualMinutes[task.ID]))
	}

	if err := model.Regressor.Fit(vectors, labels); err != nil {
		return s.trainFailed(userID, fmt.Errorf("fit priority model: %w", err))
	}

	blob, err := model.Marshal()
	if err != nil {
		return s.trainFailed(userID, fmt.Errorf("serialize priority model: %w", err))
	}

	record := &types.ModelRecord{
		ID:           uuid.New().String(),
		UserID:       userID,
		ModelType:    types.ModelTypePriorityPredictor,
		ModelVersion: modelVersion,
		ModelData:    blob,
		IsActive:     true,
		TrainedAt:    s.nowFunc().UTC(),
	}
	if err := s.models.SaveModelVersion(ctx, record); err != nil {
		return s.trainFailed(userID, fmt.Errorf("save priority model: %w", err))
	}

	s.logger.Info("priority model trained",
		"user_id", userID,
		"samples", len(completed),
		"model_id", record.ID)
	return TrainingOutcome{Trained: true, Reason: TrainReasonTrained, SamplesUsed: len(completed)}
}

func (s *Service) trainFailed(userID string, err error) TrainingOutcome {
	s.logger.Error("training failed", "user_id", userID, "error", err.Error())
	return TrainingOutcome{Reason: TrainReasonInternalError}
}

// reportedCompletionTimes collects the latest feedback-reported completion
// minutes per task for the user.
func (s *Service) reportedCompletionTimes(ctx context.Context, userID string) (map[string]int, error) {
	records, err := s.feedback.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	times := make(map[string]int)
	for _, fb := range records {
		if fb.ActualCompletionTime > 0 {
			times[fb.TaskID] = fb.ActualCompletionTime
		}
	}
	return times, nil
}

// trainingLabel derives the regression target for one completed task: an
// efficiency ratio of estimated over actual minutes when the actual time is
// known, otherwise a proxy from the task's assigned priority level.
func trainingLabel(task *types.Task, reportedMinutes int) float64 {
	actual := task.ActualDuration
	if actual <= 0 {
		actual = reportedMinutes
	}
	estimated := task.EstimatedDuration
	if estimated <= 0 {
		estimated = defaultDurationMinutes
	}

	if actual > 0 {
		ratio := float64(estimated) / float64(actual)
		if ratio > efficiencyCap {
			return efficiencyCap
		}
		return ratio
	}

	switch task.PriorityLevel {
	case types.PriorityHigh:
		return 2.0
	case types.PriorityLow:
		return 0.5
	default:
		return 1.0
	}
}

// RankPending scores the given tasks with the user's active model and
// returns them sorted by adjusted score, highest first. The fallback is
// all-or-nothing: if any task cannot be scored by the model, the entire
// list is rescored heuristically so every score comes from one scale.
// RankPending is total over valid tasks; it never fails the caller.
func (s *Service) RankPending(ctx context.Context, userID string, tasks []types.Task) []RankedTask {
	now := s.nowFunc()

	ranked, reason := s.modelScores(ctx, userID, tasks, now)
	if reason != FallbackNone {
		s.logger.Info("falling back to heuristic ranking",
			"user_id", userID,
			"reason", string(reason))
		ranked = make([]RankedTask, 0, len(tasks))
		for i := range tasks {
			ranked = append(ranked, RankedTask{
				Task:     tasks[i],
				Score:    s.heuristic.Score(&tasks[i], now),
				Source:   ScoreSourceRules,
				Fallback: reason,
			})
		}
	}

	for i := range ranked {
		hasNegative, err := s.feedback.HasNegativeSince(ctx, ranked[i].Task.ID, now.Add(-feedbackWindow))
		if err != nil {
			// Degrade to "no recent feedback" rather than failing the rank.
			s.logger.Warn("feedback lookup failed",
				"task_id", ranked[i].Task.ID,
				"error", err.Error())
			hasNegative = false
		}
		ranked[i].Score = s.post.Adjust(&ranked[i].Task, ranked[i].Score, now, hasNegative)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// modelScores attempts the model path for every task. A non-empty reason
// means the caller must discard the partial result and rank heuristically.
func (s *Service) modelScores(ctx context.Context, userID string, tasks []types.Task, now time.Time) ([]RankedTask, FallbackReason) {
	record, err := s.models.GetActiveModel(ctx, userID, types.ModelTypePriorityPredictor)
	if err != nil {
		s.logger.Warn("active model lookup failed", "user_id", userID, "error", err.Error())
		return nil, FallbackLoadFailed
	}
	if record == nil {
		return nil, FallbackNoModel
	}

	model, err := UnmarshalPriorityModel(record.ModelData)
	if err != nil {
		s.logger.Warn("stored model is unreadable",
			"user_id", userID,
			"model_id", record.ID,
			"error", err.Error())
		return nil, FallbackLoadFailed
	}

	ranked := make([]RankedTask, 0, len(tasks))
	for i := range tasks {
		vec, err := model.Features.Vector(&tasks[i])
		if err != nil {
			s.logger.Debug("task not encodable by model",
				"task_id", tasks[i].ID,
				"error", err.Error())
			return nil, FallbackUnseenCategory
		}
		score, err := model.Regressor.Predict(vec)
		if err != nil {
			s.logger.Warn("model prediction failed",
				"task_id", tasks[i].ID,
				"error", err.Error())
			return nil, FallbackPredictFailed
		}
		ranked = append(ranked, RankedTask{Task: tasks[i], Score: score, Source: ScoreSourceModel})
	}
	return ranked, FallbackNone
}

// defaultRecommendedTime is suggested when the user has no completion
// history to learn a preferred hour from.
const defaultRecommendedTime = "09:00"

// RecommendTime suggests a start time for the user's tasks: the hour of day
// the user most often completes tasks at, formatted "HH:00". Ties resolve to
// the earlier hour. With no usable history, or when history cannot be
// loaded, the default morning slot is suggested instead; like ranking, this
// never fails the caller.
func (s *Service) RecommendTime(ctx context.Context, userID string) string {
	completed, err := s.tasks.ListCompleted(ctx, userID)
	if err != nil {
		s.logger.Warn("completion history lookup failed",
			"user_id", userID,
			"error", err.Error())
		return defaultRecommendedTime
	}

	counts := make(map[int]int)
	for i := range completed {
		if completed[i].CompletedAt != nil {
			counts[completed[i].CompletedAt.Hour()]++
		}
	}
	if len(counts) == 0 {
		return defaultRecommendedTime
	}

	best := -1
	for hour, n := range counts {
		if best < 0 || n > counts[best] || (n == counts[best] && hour < best) {
			best = hour
		}
	}
	return fmt.Sprintf("%02d:00", best)
}

// RecordFeedback stores a prediction judgement. Negative feedback triggers
// a synchronous retraining run; a retraining failure is logged, not
// returned, since the feedback itself was recorded.
func (s *Service) RecordFeedback(ctx context.Context, fb *types.Feedback) error {
	if fb.TaskID == "" || fb.UserID == "" {
		return apperrors.Validation("feedback requires task_id and user_id")
	}
	if fb.ID == "" {
		fb.ID = uuid.New().String()
	}
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = s.nowFunc().UTC()
	}
	if fb.FeedbackType == "" {
		fb.FeedbackType = types.FeedbackTypePriority
	}

	if err := s.feedback.Append(ctx, fb); err != nil {
		return fmt.Errorf("store feedback: %w", err)
	}

	if !fb.WasUseful {
		// Blocks the request on a full retrain. Acceptable at per-user
		// data volumes; see DESIGN.md.
		if outcome := s.Train(ctx, fb.UserID); outcome.Trained {
			s.logger.Info("model retrained after negative feedback",
				"user_id", fb.UserID,
				"samples", outcome.SamplesUsed)
		}
	}
	return nil
}
