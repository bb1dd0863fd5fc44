package services

import (
	"context"
	"fmt"
	"time"

	"planora-project/backend/models"
	"planora-project/backend/utils"
)

// CategoryStore is the remote category store. Deleting a category never
// cascades to tasks; they keep their last-known category snapshot.
type CategoryStore interface {
	GetCategory(ctx context.Context, userID, categoryID string) (models.Category, error)
	ListCategories(ctx context.Context, userID string) ([]models.Category, error)
	UpdateCategory(ctx context.Context, userID, categoryID, name string) (models.Category, error)
	DeleteCategory(ctx context.Context, userID, categoryID string) error
	TasksByCategory(ctx context.Context, categoryID string, from, to time.Time) ([]models.Task, error)
}

// CategoryService computes the dashboard aggregates for a category.
type CategoryService struct {
	store CategoryStore
	Now   func() time.Time
}

func NewCategoryService(store CategoryStore) *CategoryService {
	return &CategoryService{store: store, Now: time.Now}
}

func (s *CategoryService) ListCategories(ctx context.Context, userID string) ([]models.Category, error) {
	return s.store.ListCategories(ctx, userID)
}

func (s *CategoryService) UpdateCategory(ctx context.Context, userID, categoryID, name string) (models.Category, error) {
	if name == "" {
		return models.Category{}, fmt.Errorf("%w: name is required", ErrTaskInvalidArgs)
	}
	return s.store.UpdateCategory(ctx, userID, categoryID, name)
}

func (s *CategoryService) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	return s.store.DeleteCategory(ctx, userID, categoryID)
}

// Details aggregates the metrics page for one category over the trend
// granularity (week, month, or year). Tasks are bucketed by creation time.
func (s *CategoryService) Details(
	ctx context.Context,
	userID, categoryID, granularity string,
) (models.CategoryDetails, error) {
	category, err := s.store.GetCategory(ctx, userID, categoryID)
	if err != nil {
		return models.CategoryDetails{}, err
	}

	now := s.Now()
	ranges := utils.TrendRanges(granularity, now)
	if len(ranges) == 0 {
		ranges = utils.TrendRanges(utils.TrendWeek, now)
	}

	tasks, err := s.store.TasksByCategory(ctx, categoryID, ranges[0].Start, ranges[len(ranges)-1].End)
	if err != nil {
		return models.CategoryDetails{}, fmt.Errorf("could not load category tasks: %w", err)
	}

	details := models.CategoryDetails{
		ID:   category.ID,
		Name: category.Name,
	}

	counts := aggregate(tasks, now)
	details.Tasks = models.TaskCounts{
		TotalTasks:     counts.TotalTasks,
		CompletedTasks: counts.CompletedTasks,
		OverdueTasks:   counts.OverdueTasks,
	}
	if counts.TotalTasks > 0 {
		details.Tasks.CompletionPercentage =
			int(float64(counts.CompletedTasks)/float64(counts.TotalTasks)*100 + 0.5)
	}
	details.TimeEstimated = models.TimeEstimated{
		TotalTimeEstimated: counts.TotalTimeEstimated,
		TimeSpent:          counts.TimeSpent,
	}
	details.Subtasks = models.SubtaskCounts{
		TotalSubtasks:     counts.TotalSubtasks,
		CompletedSubtasks: counts.CompletedSubtasks,
	}

	for _, task := range tasks {
		switch task.Priority {
		case models.PriorityHigh:
			details.Priority.High++
		case models.PriorityModerate:
			details.Priority.Moderate++
		case models.PriorityLow:
			details.Priority.Low++
		}

		switch task.Status {
		case models.StatusTodo:
			details.Status.Todo++
		case models.StatusInProgress:
			details.Status.InProgress++
		case models.StatusInReview:
			details.Status.InReview++
		case models.StatusDone:
			details.Status.Done++
		case models.StatusWaiting:
			details.Status.Waiting++
		case models.StatusOnHold:
			details.Status.OnHold++
		case models.StatusStuck:
			details.Status.Stuck++
		}
	}

	for _, r := range ranges {
		var bucket []models.Task
		for _, task := range tasks {
			if !task.CreatedAt.Before(r.Start) && !task.CreatedAt.After(r.End) {
				bucket = append(bucket, task)
			}
		}
		details.Trend = append(details.Trend, models.TrendPoint{
			Label: r.Label,
			Count: aggregate(bucket, now),
		})
	}

	return details, nil
}

func aggregate(tasks []models.Task, now time.Time) models.TrendCounts {
	var counts models.TrendCounts
	for _, task := range tasks {
		counts.TotalTasks++
		if task.Completed {
			counts.CompletedTasks++
			counts.TimeSpent += utils.ParseTimeEstimateToHours(task.Time.TimeEstimate)
		} else if !task.Time.End.IsZero() && task.Time.End.Before(now) {
			counts.OverdueTasks++
		}
		counts.TotalTimeEstimated += utils.ParseTimeEstimateToHours(task.Time.TimeEstimate)

		for _, subtask := range task.Subtasks {
			counts.TotalSubtasks++
			if subtask.Completed {
				counts.CompletedSubtasks++
			}
		}
	}
	return counts
}
