package models

import (
	"time"
)

// Task status and priority values are domain data, not a closed enum;
// these are only the defaults and the value the dashboard counts on.
const (
	TaskStatusTodo      = "To Do"
	TaskStatusCompleted = "Completed"
)

type Task struct {
	ID                 uint64     `gorm:"primarykey" json:"id"`
	ProjectID          uint64     `gorm:"not null;index" json:"project_id"`
	Title              string     `gorm:"type:varchar(255);not null" json:"title"`
	Description        string     `gorm:"type:text" json:"description"`
	Status             string     `gorm:"type:varchar(50);not null;default:'To Do'" json:"status"`
	Priority           string     `gorm:"type:varchar(20);not null;default:'Medium'" json:"priority"`
	ProgressPercentage int        `gorm:"not null;default:0" json:"progress_percentage"`
	AssignedTo         *uint64    `gorm:"index" json:"assigned_to"`
	CreatedBy          *uint64    `json:"created_by"`
	DueDate            *time.Time `json:"due_date"`

	PhotoVideoCapture            bool `gorm:"not null;default:false" json:"photo_video_capture"`
	TemporaryConnectionAvailable bool `gorm:"not null;default:false" json:"temporary_connection_available"`

	// Construction-checklist state, keyed by the closed field-name set.
	Checklist Checklist `gorm:"serializer:json" json:"checklist"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Project  Project   `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Assignee *User     `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
	Creator  *User     `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Comments []Comment `gorm:"foreignKey:TaskID" json:"comments,omitempty"`
}
