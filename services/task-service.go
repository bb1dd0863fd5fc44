package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"planora-project/backend/models"
	"planora-project/backend/utils"
)

// FilterTasksByTimeRange returns the tasks whose [start, end] span overlaps
// the named range window, boundaries inclusive. Unknown range names return
// the input as-is. The input slice is never mutated and relative order is
// preserved.
func FilterTasksByTimeRange(tasks []models.Task, bucket string, now time.Time) []models.Task {
	rangeStart, rangeEnd, ok := utils.RangeWindow(bucket, now)
	if !ok {
		return tasks
	}

	within := func(t, start, end time.Time) bool {
		return !t.Before(start) && !t.After(end)
	}

	out := make([]models.Task, 0, len(tasks))
	for _, task := range tasks {
		taskStart := task.Time.Start
		taskEnd := task.Time.End

		if within(rangeStart, taskStart, taskEnd) ||
			within(rangeEnd, taskStart, taskEnd) ||
			within(taskStart, rangeStart, rangeEnd) ||
			within(taskEnd, rangeStart, rangeEnd) {
			out = append(out, task)
		}
	}
	return out
}

// ApplyFilters layers the status, priority, date-range, and search
// predicates over a task collection. Predicates are ANDed; an unset selector
// always passes. Search is a case-insensitive substring match on the title.
func ApplyFilters(tasks []models.Task, filter models.TaskFilter) []models.Task {
	query := strings.ToLower(strings.TrimSpace(filter.SearchQuery))

	matchesStatus := func(task models.Task) bool {
		if len(filter.Statuses) == 0 {
			return true
		}
		for _, status := range filter.Statuses {
			if task.Status == status {
				return true
			}
		}
		return false
	}

	matchesPriority := func(task models.Task) bool {
		if len(filter.Priorities) == 0 {
			return true
		}
		for _, priority := range filter.Priorities {
			if task.Priority == priority {
				return true
			}
		}
		return false
	}

	matchesDateRange := func(task models.Task) bool {
		if filter.DateFrom != nil && task.Time.End.Before(*filter.DateFrom) {
			return false
		}
		if filter.DateTo != nil && task.Time.Start.After(*filter.DateTo) {
			return false
		}
		return true
	}

	matchesSearch := func(task models.Task) bool {
		if query == "" {
			return true
		}
		return strings.Contains(strings.ToLower(task.Title), query)
	}

	out := make([]models.Task, 0, len(tasks))
	for _, task := range tasks {
		if matchesStatus(task) && matchesPriority(task) && matchesDateRange(task) && matchesSearch(task) {
			out = append(out, task)
		}
	}
	return out
}

// TaskView is a task row decorated for a range tab.
type TaskView struct {
	models.Task
	SpanLabel string `json:"spanLabel,omitempty"`
	TimeLeft  string `json:"timeLeft,omitempty"`
}

// TaskService reads task collections through the coordinator's cache and
// serves the filtered, labelled views the pages render.
type TaskService struct {
	coordinator *TaskCoordinator
	Now         func() time.Time
}

func NewTaskService(coordinator *TaskCoordinator) *TaskService {
	return &TaskService{
		coordinator: coordinator,
		Now:         time.Now,
	}
}

// ListTasks returns a user's tasks narrowed by the named range and the
// composite filter, each decorated with its span label for that range. A
// failed initial fetch is surfaced as an error; no partial data is invented.
func (s *TaskService) ListTasks(
	ctx context.Context,
	userID string,
	bucket string,
	filter models.TaskFilter,
) ([]TaskView, error) {
	tasks, err := s.coordinator.Tasks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("could not load tasks: %w", err)
	}

	now := s.Now()
	tasks = FilterTasksByTimeRange(tasks, bucket, now)
	tasks = ApplyFilters(tasks, filter)

	views := make([]TaskView, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, TaskView{
			Task:      task,
			SpanLabel: utils.SpanLabel(task.Time, bucket),
			TimeLeft:  utils.TimeLeft(now, task.Time.End),
		})
	}
	return views, nil
}
