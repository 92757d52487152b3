// Database models for goals and daily completion logs
package db

import "time"

// Goal is a tracked goal or habit.
type Goal struct {
	ID              string    `json:"id" gorm:"primaryKey;size:36"`
	UserID          string    `json:"user_id" gorm:"index;size:36;not null"`
	Title           string    `json:"title" gorm:"size:200;not null"`
	Category        string    `json:"category,omitempty" gorm:"size:50"`
	TargetFrequency string    `json:"target_frequency,omitempty" gorm:"size:50"` // e.g. "daily", "3x/week"
	Status          string    `json:"status" gorm:"size:20;default:'active'"`    // active, archived
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Goal) TableName() string {
	return "goals"
}

// Goal status
const (
	GoalStatusActive   = "active"
	GoalStatusArchived = "archived"
)

// GoalLog is one day's completion record for a goal.
type GoalLog struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	GoalID    string    `json:"goal_id" gorm:"index:idx_goal_log_day,unique;size:36;not null"`
	UserID    string    `json:"user_id" gorm:"index;size:36;not null"`
	Completed bool      `json:"completed"`
	LogDate   string    `json:"log_date" gorm:"index:idx_goal_log_day,unique;size:10;not null"` // YYYY-MM-DD
	CreatedAt time.Time `json:"created_at"`
}

func (GoalLog) TableName() string {
	return "goal_logs"
}
