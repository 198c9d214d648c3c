package models

import (
	"strings"
	"time"
)

type TaskStatus string

const (
	StatusNotStarted TaskStatus = "not_started"
	StatusInProgress TaskStatus = "in_progress"
	StatusReview     TaskStatus = "review"
	StatusCompleted  TaskStatus = "completed"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusReview, StatusCompleted:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Department string

const (
	DepartmentLearningAndDevelopment Department = "learning-and-development"
	DepartmentResearchAndDevelopment Department = "research-and-development"
	DepartmentFinance                Department = "finance"
	DepartmentAdministration         Department = "administration"
	DepartmentTech                   Department = "tech"
	DepartmentMarketing              Department = "marketing"
	DepartmentOthers                 Department = "others"
)

func (d Department) Valid() bool {
	switch d {
	case DepartmentLearningAndDevelopment, DepartmentResearchAndDevelopment,
		DepartmentFinance, DepartmentAdministration, DepartmentTech,
		DepartmentMarketing, DepartmentOthers:
		return true
	}
	return false
}

const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 1000
	MaxNotesLength       = 2000
)

type Task struct {
	ID              string             `json:"id" bson:"_id"`
	Title           string             `json:"title" bson:"title"`
	Description     string             `json:"description,omitempty" bson:"description,omitempty"`
	Notes           string             `json:"notes,omitempty" bson:"notes,omitempty"`
	RelatedTo       Department         `json:"relatedTo" bson:"relatedTo"`
	CreatedBy       string             `json:"createdBy" bson:"createdBy"`
	AssignedTo      []string           `json:"assignedTo" bson:"assignedTo"`
	Priority        TaskPriority       `json:"priority" bson:"priority"`
	Status          TaskStatus         `json:"status" bson:"status"`
	CurrentProgress int                `json:"currentProgress" bson:"currentProgress"`
	DueDate         time.Time          `json:"dueDate" bson:"dueDate"`
	CompletionDate  *time.Time         `json:"completionDate,omitempty" bson:"completionDate,omitempty"`
	Comments        []Comment          `json:"comments" bson:"comments"`
	ActivityLogs    []ActivityLogEntry `json:"activityLogs" bson:"activityLogs"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
	Version         int64              `json:"-" bson:"version"`
}

// IsAssigned reports whether the given actor appears in the assignee set.
func (t *Task) IsAssigned(actorID string) bool {
	for _, id := range t.AssignedTo {
		if id == actorID {
			return true
		}
	}
	return false
}

// Validate checks the field constraints enforced at creation time.
func (t *Task) Validate(now time.Time) error {
	if strings.TrimSpace(t.Title) == "" {
		return &ValidationError{Field: "title", Reason: "title is required"}
	}
	if len(t.Title) > MaxTitleLength {
		return &ValidationError{Field: "title", Reason: "title exceeds 100 characters"}
	}
	if len(t.Description) > MaxDescriptionLength {
		return &ValidationError{Field: "description", Reason: "description exceeds 1000 characters"}
	}
	if len(t.Notes) > MaxNotesLength {
		return &ValidationError{Field: "notes", Reason: "notes exceed 2000 characters"}
	}
	if !t.RelatedTo.Valid() {
		return &ValidationError{Field: "relatedTo", Reason: "unknown department"}
	}
	if !t.Priority.Valid() {
		return &ValidationError{Field: "priority", Reason: "unknown priority"}
	}
	if t.DueDate.Before(now) {
		return &ValidationError{Field: "dueDate", Reason: "due date must not be in the past"}
	}
	return nil
}

type Comment struct {
	ID        string    `json:"id" bson:"id"`
	TaskID    string    `json:"taskId" bson:"taskId"`
	AuthorID  string    `json:"authorId" bson:"authorId"`
	Text      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

type ActivityAction string

const (
	ActionStatusChanged    ActivityAction = "status_changed"
	ActionProgressUpdated  ActivityAction = "progress_updated"
	ActionCommentAdded     ActivityAction = "comment_added"
	ActionApproved         ActivityAction = "approved"
	ActionChangesRequested ActivityAction = "changes_requested"
	ActionTaskCreated      ActivityAction = "task_created"
)

type ActivityLogEntry struct {
	ID        string         `json:"id" bson:"id"`
	TaskID    string         `json:"taskId" bson:"taskId"`
	ActorID   string         `json:"actorId" bson:"actorId"`
	Action    ActivityAction `json:"action" bson:"action"`
	Message   string         `json:"message" bson:"message"`
	Timestamp time.Time      `json:"timestamp" bson:"timestamp"`
}
