package models

import "time"

// TaskStatus is the workflow column a task lives in.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "TODO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusCompleted  TaskStatus = "COMPLETED"
)

// TaskColumns is the fixed board column order.
var TaskColumns = []TaskStatus{StatusTodo, StatusInProgress, StatusCompleted}

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// TaskPriority ranks a task; it is optional.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "ACTIVE"
	ProjectCompleted ProjectStatus = "COMPLETED"
	ProjectOnHold    ProjectStatus = "ON_HOLD"
	ProjectCancelled ProjectStatus = "CANCELLED"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectCompleted, ProjectOnHold, ProjectCancelled:
		return true
	}
	return false
}

// User mirrors the profile supplied by the identity provider. Rows are
// upserted on login callback and never deleted by the application.
type User struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	Sub           string    `gorm:"not null" json:"sub"`
	Name          string    `gorm:"not null" json:"name"`
	Email         string    `gorm:"not null" json:"email"`
	Picture       *string   `json:"picture"`
	GivenName     *string   `gorm:"column:given_name" json:"givenName"`
	FamilyName    *string   `gorm:"column:family_name" json:"familyName"`
	EmailVerified bool      `gorm:"not null;default:false" json:"emailVerified"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Project groups tasks and notes under a single owner.
type Project struct {
	ID          int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string        `gorm:"not null" json:"name"`
	Description *string       `json:"description"`
	OwnerID     string        `gorm:"not null;index" json:"ownerId"`
	Status      ProjectStatus `gorm:"not null;default:ACTIVE" json:"status"`
	DueDate     *time.Time    `json:"dueDate"`
	CreatedAt   time.Time     `json:"createdAt"`

	Owner *User `gorm:"foreignKey:OwnerID" json:"-"`
}

// Task is a single card on the board. Status is the only field with
// transition semantics: any status may move to any other.
type Task struct {
	ID          int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string        `gorm:"not null" json:"title"`
	Description *string       `json:"description"`
	ProjectID   int64         `gorm:"not null;index" json:"projectId"`
	AssignedTo  *string       `gorm:"column:assigned_to" json:"assignedTo"`
	Status      TaskStatus    `gorm:"not null;default:TODO;index" json:"status"`
	Priority    *TaskPriority `json:"priority"`
	DueDate     *time.Time    `json:"dueDate"`
	CreatedAt   time.Time     `json:"createdAt"`

	Project  *Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	Assignee *User    `gorm:"foreignKey:AssignedTo" json:"-"`
}

// Note is free-form text attached to a project by a user.
type Note struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"not null" json:"content"`
	ProjectID int64     `gorm:"not null;index" json:"projectId"`
	UserID    string    `gorm:"not null" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Project *Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	Author  *User    `gorm:"foreignKey:UserID" json:"-"`
}

// ProjectMember grants a user access to a project owned by someone else.
type ProjectMember struct {
	ProjectID int64   `gorm:"primaryKey" json:"projectId"`
	UserID    string  `gorm:"primaryKey" json:"userId"`
	Role      *string `json:"role"`
}
