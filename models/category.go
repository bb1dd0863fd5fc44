package models

import "time"

type Category struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"userId" bson:"userId"`
	Name      string    `json:"name" bson:"name"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

type TaskCounts struct {
	TotalTasks           int `json:"totalTasks"`
	CompletedTasks       int `json:"completedTasks"`
	CompletionPercentage int `json:"completionPercentage"`
	OverdueTasks         int `json:"overdueTasks"`
}

type TimeEstimated struct {
	TotalTimeEstimated float64 `json:"totalTimeEstimated"`
	TimeSpent          float64 `json:"timeSpent"`
}

type PriorityCounts struct {
	High     int `json:"high"`
	Moderate int `json:"moderate"`
	Low      int `json:"low"`
}

type StatusCounts struct {
	Todo       int `json:"todo"`
	InProgress int `json:"inprogress"`
	InReview   int `json:"inreview"`
	Done       int `json:"done"`
	Waiting    int `json:"waiting"`
	OnHold     int `json:"onhold"`
	Stuck      int `json:"stuck"`
}

type SubtaskCounts struct {
	TotalSubtasks     int `json:"totalSubtasks"`
	CompletedSubtasks int `json:"completedSubtasks"`
}

type TrendCounts struct {
	TotalTasks         int     `json:"totalTasks"`
	CompletedTasks     int     `json:"completedTasks"`
	OverdueTasks       int     `json:"overdueTasks"`
	TotalTimeEstimated float64 `json:"totalTimeEstimated"`
	TimeSpent          float64 `json:"timeSpent"`
	TotalSubtasks      int     `json:"totalSubtasks"`
	CompletedSubtasks  int     `json:"completedSubtasks"`
}

type TrendPoint struct {
	Label string      `json:"label"`
	Count TrendCounts `json:"count"`
}

// CategoryDetails is the dashboard aggregate for a single category.
type CategoryDetails struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Tasks         TaskCounts     `json:"tasks"`
	TimeEstimated TimeEstimated  `json:"timeEstimated"`
	Priority      PriorityCounts `json:"priority"`
	Status        StatusCounts   `json:"status"`
	Subtasks      SubtaskCounts  `json:"subtasks"`
	Trend         []TrendPoint   `json:"trend,omitempty"`
}
