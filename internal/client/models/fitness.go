package models

import "time"

type Workout struct {
	ID       ID         `json:"_id,omitempty"`
	Title    string     `json:"title"`
	Type     string     `json:"type"`
	Duration int        `json:"duration"`
	Calories int        `json:"calories"`
	Distance float64    `json:"distance"`
	Notes    string     `json:"notes,omitempty"`
	Date     *time.Time `json:"date,omitempty"`
}

type Goal struct {
	ID       ID         `json:"_id,omitempty"`
	Type     string     `json:"type"`
	Target   float64    `json:"target"`
	Current  float64    `json:"current"`
	Deadline *time.Time `json:"deadline,omitempty"`
}

// GoalUpdate carries a partial goal change, e.g. recording progress.
type GoalUpdate struct {
	Target   *float64   `json:"target,omitempty"`
	Current  *float64   `json:"current,omitempty"`
	Deadline *time.Time `json:"deadline,omitempty"`
}

// Stats is the server-side workout summary.
type Stats struct {
	TotalWorkouts  int `json:"totalWorkouts"`
	TotalCalories  int `json:"totalCalories"`
	TotalDuration  int `json:"totalDuration"`
	WeeklyWorkouts int `json:"weeklyWorkouts"`
}
