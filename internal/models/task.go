package models

import "time"

type TaskStatus string

const (
	TaskStatusPending         TaskStatus = "pending"
	TaskStatusApplied         TaskStatus = "applied"
	TaskStatusInProgress      TaskStatus = "in_progress"
	TaskStatusPendingApproval TaskStatus = "pending_approval"
	TaskStatusCompleted       TaskStatus = "completed"
)

// Urgency, priority and difficulty share the same 1-3 scale.
const (
	ScaleMin = 1
	ScaleMax = 3
)

type Task struct {
	ID             uint64     `gorm:"primarykey" json:"id"`
	Name           string     `gorm:"type:varchar(255);not null" json:"name"`
	Instructions   string     `gorm:"type:text" json:"instructions"`
	Urgency        int        `gorm:"not null" json:"urgency"`
	Priority       int        `gorm:"not null" json:"priority"`
	Difficulty     int        `gorm:"not null" json:"difficulty"`
	Points         int        `gorm:"not null" json:"points"`
	ProjectID      *uint64    `gorm:"index" json:"project_id"`
	CategoryID     *uint64    `gorm:"index" json:"category_id"`
	Status         TaskStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ApplicantID    *string    `gorm:"type:uuid" json:"applicant_id"`
	AssignedUserID *string    `gorm:"type:uuid" json:"assigned_user_id"`
	CreatedBy      string     `gorm:"type:uuid;not null" json:"created_by"`
	ApprovedBy     *string    `gorm:"type:uuid" json:"approved_by"`
	CreatedAt      time.Time  `json:"created_at"`
	Deadline       *time.Time `json:"deadline"`
	CompletedAt    *time.Time `json:"completed_at"`
	ApprovedAt     *time.Time `json:"approved_at"`

	// Relations
	Project  *Project  `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// PointsFor derives the point value of a task from its three scales.
// Points are computed once at creation time and frozen thereafter.
func PointsFor(urgency, priority, difficulty int) int {
	return (urgency + priority + difficulty) * 10
}

// Valid reports whether s is one of the known lifecycle states.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusApplied, TaskStatusInProgress,
		TaskStatusPendingApproval, TaskStatusCompleted:
		return true
	}
	return false
}

// ValidScale reports whether v is within the shared 1-3 scale.
func ValidScale(v int) bool {
	return v >= ScaleMin && v <= ScaleMax
}
