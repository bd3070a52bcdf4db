package models

import "time"

type TaskStatus string

const (
	StatusTodo       TaskStatus = "TODO"
	StatusBacklog    TaskStatus = "BACKLOG"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusDone       TaskStatus = "DONE"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "L"
	PriorityMedium TaskPriority = "M"
	PriorityHigh   TaskPriority = "H"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusBacklog, StatusInProgress, StatusDone:
		return true
	}
	return false
}

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is a work item. A nil ProjectID makes it a personal task visible only
// to its author.
type Task struct {
	BaseModel

	Title       string        `gorm:"size:255;not null"`
	Description *string
	Status      TaskStatus    `gorm:"size:20;not null;default:'TODO'"`
	Priority    *TaskPriority `gorm:"size:1"`
	AssigneeID  *uint         `gorm:"index"`
	Order       int           `gorm:"column:sort_order;not null;default:0;index"`
	AuthorID    uint          `gorm:"not null;index"`
	ProjectID   *uint         `gorm:"index"`
	Deadline    *time.Time

	// Relationships
	Author   User     `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Assignee *User    `gorm:"foreignKey:AssigneeID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	Project  *Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
