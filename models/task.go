package models

import "time"

type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "inprogress"
	StatusInReview   TaskStatus = "inreview"
	StatusDone       TaskStatus = "done"
	StatusWaiting    TaskStatus = "waiting"
	StatusOnHold     TaskStatus = "onhold"
	StatusStuck      TaskStatus = "stuck"
)

var AllStatuses = []TaskStatus{
	StatusTodo,
	StatusInProgress,
	StatusInReview,
	StatusDone,
	StatusWaiting,
	StatusOnHold,
	StatusStuck,
}

func (s TaskStatus) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type TaskPriority string

const (
	PriorityHigh     TaskPriority = "high"
	PriorityModerate TaskPriority = "moderate"
	PriorityLow      TaskPriority = "low"
)

var AllPriorities = []TaskPriority{PriorityHigh, PriorityModerate, PriorityLow}

func (p TaskPriority) Valid() bool {
	return p == PriorityHigh || p == PriorityModerate || p == PriorityLow
}

type TaskColor string

const (
	ColorSky     TaskColor = "sky"
	ColorAmber   TaskColor = "amber"
	ColorViolet  TaskColor = "violet"
	ColorRose    TaskColor = "rose"
	ColorEmerald TaskColor = "emerald"
	ColorOrange  TaskColor = "orange"
)

// TaskTime is the temporal span of a task. End is auto-corrected to never
// precede Start (see utils.AdjustTimes). TimeEstimate is a free-form
// magnitude+unit string ("2 hrs") used for reporting only; it is independent
// of the span itself.
type TaskTime struct {
	Start        time.Time `json:"start" bson:"start"`
	End          time.Time `json:"end" bson:"end"`
	TimeEstimate string    `json:"timeEstimate" bson:"timeEstimate"`
	AllDay       bool      `json:"allDay" bson:"allDay"`
}

type Subtask struct {
	ID        string `json:"id" bson:"id"`
	Title     string `json:"title" bson:"title"`
	Completed bool   `json:"completed" bson:"completed"`
}

// CategoryRef is the id+name snapshot a task holds. It is a weak reference:
// deleting the category leaves the snapshot on the task untouched.
type CategoryRef struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
}

// Task is a unit of work. Completed and Status are kept consistent by the
// coordinator: Completed is true exactly when Status is "done".
type Task struct {
	ID          string       `json:"id" bson:"_id"`
	UserID      string       `json:"userId" bson:"userId"`
	Title       string       `json:"title" bson:"title"`
	Description string       `json:"description" bson:"description"`
	Status      TaskStatus   `json:"status" bson:"status"`
	Priority    TaskPriority `json:"priority" bson:"priority"`
	Time        TaskTime     `json:"time" bson:"time"`
	Category    CategoryRef  `json:"category" bson:"category"`
	Tags        []string     `json:"tags" bson:"tags"`
	Subtasks    []Subtask    `json:"subtasks" bson:"subtasks"`
	Completed   bool         `json:"completed" bson:"completed"`
	Color       TaskColor    `json:"color" bson:"color"`
	CreatedAt   time.Time    `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt" bson:"updatedAt"`
}

// Clone returns a deep copy so optimistic cache mutations never alias the
// snapshot they may have to roll back to.
func (t Task) Clone() Task {
	out := t
	if t.Tags != nil {
		out.Tags = make([]string, len(t.Tags))
		copy(out.Tags, t.Tags)
	}
	if t.Subtasks != nil {
		out.Subtasks = make([]Subtask, len(t.Subtasks))
		copy(out.Subtasks, t.Subtasks)
	}
	return out
}

// TaskFilter carries the composite predicate selectors. Empty selectors are
// treated as always-true.
type TaskFilter struct {
	Statuses    []TaskStatus
	Priorities  []TaskPriority
	DateFrom    *time.Time
	DateTo      *time.Time
	SearchQuery string
}
