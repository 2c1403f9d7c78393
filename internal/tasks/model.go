package tasks

import "time"

const (
	StatusPending = "pending"
	StatusDone    = "done"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Task is owned by its creator for its whole lifetime; CreatedByID is set
// once at creation and never updated. AssigneeID is an optional delegation
// to another user, who may then move the task between statuses.
type Task struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `gorm:"size:20;not null;default:pending" json:"status"`
	Priority    string    `gorm:"size:20;not null;default:medium" json:"priority"`
	DueDate     time.Time `gorm:"not null" json:"dueDate"`
	AssigneeID  *uint     `gorm:"index" json:"assignee,omitempty"`
	CreatedByID uint      `gorm:"index;not null" json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
