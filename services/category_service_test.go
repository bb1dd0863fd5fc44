package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"planora-project/backend/models"
	"planora-project/backend/utils"
)

type fakeCategoryStore struct {
	category models.Category
	tasks    []models.Task

	getErr   error
	tasksErr error

	queriedFrom time.Time
	queriedTo   time.Time
}

func (s *fakeCategoryStore) GetCategory(ctx context.Context, userID, categoryID string) (models.Category, error) {
	if s.getErr != nil {
		return models.Category{}, s.getErr
	}
	return s.category, nil
}

func (s *fakeCategoryStore) ListCategories(ctx context.Context, userID string) ([]models.Category, error) {
	return []models.Category{s.category}, nil
}

func (s *fakeCategoryStore) UpdateCategory(ctx context.Context, userID, categoryID, name string) (models.Category, error) {
	s.category.Name = name
	return s.category, nil
}

func (s *fakeCategoryStore) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	return nil
}

func (s *fakeCategoryStore) TasksByCategory(ctx context.Context, categoryID string, from, to time.Time) ([]models.Task, error) {
	s.queriedFrom, s.queriedTo = from, to
	if s.tasksErr != nil {
		return nil, s.tasksErr
	}
	return s.tasks, nil
}

func newTestCategoryService(store *fakeCategoryStore) *CategoryService {
	service := NewCategoryService(store)
	service.Now = func() time.Time { return testNow }
	return service
}

func categoryTask(id string, created time.Time, completed bool, estimate string, subtasks ...models.Subtask) models.Task {
	status := models.StatusTodo
	if completed {
		status = models.StatusDone
	}
	return models.Task{
		ID:        id,
		UserID:    testUser,
		Title:     id,
		Status:    status,
		Priority:  models.PriorityModerate,
		Completed: completed,
		Subtasks:  subtasks,
		Time: models.TaskTime{
			Start:        created,
			End:          created.Add(time.Hour),
			TimeEstimate: estimate,
		},
		CreatedAt: created,
	}
}

func TestCategoryDetailsAggregates(t *testing.T) {
	t.Parallel()

	store := &fakeCategoryStore{
		category: models.Category{ID: "c1", UserID: testUser, Name: "Work"},
		tasks: []models.Task{
			categoryTask("done-1", june(9, 10, 0), true, "2 hrs",
				models.Subtask{ID: "s1", Completed: true},
				models.Subtask{ID: "s2", Completed: false},
			),
			categoryTask("open-1", june(10, 10, 0), false, "3 hrs"),
			// Ended before now and not completed: overdue.
			categoryTask("late-1", june(11, 10, 0), false, "1 hrs"),
		},
	}
	service := newTestCategoryService(store)

	details, err := service.Details(context.Background(), testUser, "c1", utils.TrendWeek)
	if err != nil {
		t.Fatalf("Details: %v", err)
	}

	if details.Name != "Work" {
		t.Errorf("name = %q, want Work", details.Name)
	}
	if details.Tasks.TotalTasks != 3 || details.Tasks.CompletedTasks != 1 {
		t.Errorf("task counts = %+v", details.Tasks)
	}
	if details.Tasks.CompletionPercentage != 33 {
		t.Errorf("completion = %d%%, want 33%%", details.Tasks.CompletionPercentage)
	}
	if details.Tasks.OverdueTasks != 2 {
		t.Errorf("overdue = %d, want 2", details.Tasks.OverdueTasks)
	}
	if details.TimeEstimated.TotalTimeEstimated != 6 || details.TimeEstimated.TimeSpent != 2 {
		t.Errorf("time estimated = %+v", details.TimeEstimated)
	}
	if details.Subtasks.TotalSubtasks != 2 || details.Subtasks.CompletedSubtasks != 1 {
		t.Errorf("subtask counts = %+v", details.Subtasks)
	}
	if details.Status.Done != 1 || details.Status.Todo != 2 {
		t.Errorf("status counts = %+v", details.Status)
	}
	if details.Priority.Moderate != 3 {
		t.Errorf("priority counts = %+v", details.Priority)
	}
}

func TestCategoryDetailsWeekTrendBuckets(t *testing.T) {
	t.Parallel()

	store := &fakeCategoryStore{
		category: models.Category{ID: "c1", UserID: testUser, Name: "Work"},
		tasks: []models.Task{
			categoryTask("mon-1", june(9, 10, 0), true, "1 hrs"),
			categoryTask("mon-2", june(9, 16, 0), false, "1 hrs"),
			categoryTask("wed-1", june(11, 8, 0), false, "1 hrs"),
		},
	}
	service := newTestCategoryService(store)

	details, err := service.Details(context.Background(), testUser, "c1", utils.TrendWeek)
	if err != nil {
		t.Fatalf("Details: %v", err)
	}

	if len(details.Trend) != 7 {
		t.Fatalf("got %d trend points, want 7", len(details.Trend))
	}
	if details.Trend[0].Label != "Jun 9" || details.Trend[6].Label != "Jun 15" {
		t.Errorf("trend labels = %q .. %q", details.Trend[0].Label, details.Trend[6].Label)
	}
	if got := details.Trend[0].Count.TotalTasks; got != 2 {
		t.Errorf("Monday bucket = %d tasks, want 2", got)
	}
	if got := details.Trend[2].Count.TotalTasks; got != 1 {
		t.Errorf("Wednesday bucket = %d tasks, want 1", got)
	}
	if got := details.Trend[3].Count.TotalTasks; got != 0 {
		t.Errorf("Thursday bucket = %d tasks, want 0", got)
	}

	// The store should only be asked for the trend window.
	if !store.queriedFrom.Equal(utils.StartOfDay(june(9, 0, 0))) {
		t.Errorf("query start = %v, want Monday", store.queriedFrom)
	}
	if !store.queriedTo.Equal(utils.EndOfDay(june(15, 0, 0))) {
		t.Errorf("query end = %v, want Sunday", store.queriedTo)
	}
}

func TestCategoryDetailsUnknownGranularityDefaultsToWeek(t *testing.T) {
	t.Parallel()

	store := &fakeCategoryStore{
		category: models.Category{ID: "c1", UserID: testUser, Name: "Work"},
	}
	service := newTestCategoryService(store)

	details, err := service.Details(context.Background(), testUser, "c1", "decade")
	if err != nil {
		t.Fatalf("Details: %v", err)
	}
	if len(details.Trend) != 7 {
		t.Errorf("got %d trend points, want the weekly default of 7", len(details.Trend))
	}
}

func TestCategoryDetailsStoreErrors(t *testing.T) {
	t.Parallel()

	store := &fakeCategoryStore{getErr: ErrCategoryNotFound}
	service := newTestCategoryService(store)

	if _, err := service.Details(context.Background(), testUser, "missing", utils.TrendWeek); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}

	store = &fakeCategoryStore{
		category: models.Category{ID: "c1", UserID: testUser, Name: "Work"},
		tasksErr: errors.New("connection refused"),
	}
	service = newTestCategoryService(store)
	if _, err := service.Details(context.Background(), testUser, "c1", utils.TrendWeek); err == nil {
		t.Fatal("expected the task query failure to be surfaced")
	}
}

func TestUpdateCategoryRequiresName(t *testing.T) {
	t.Parallel()

	store := &fakeCategoryStore{category: models.Category{ID: "c1", Name: "Work"}}
	service := newTestCategoryService(store)

	if _, err := service.UpdateCategory(context.Background(), testUser, "c1", ""); err == nil {
		t.Fatal("expected empty name to be rejected")
	}
}
