package models

import (
	"fmt"
	"strings"
	"time"
)

// Priority is the urgency attached to action items and tasks.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Priorities lists every valid priority from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// ParsePriority parses a case-insensitive priority name.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("unknown priority %q (want low, medium, high or critical)", s)
	}
	return p, nil
}

// DefaultDepartment is assigned to tasks whose action item names no department.
const DefaultDepartment = "General"

// TaskStatusOpen is the status of a freshly created task.
const TaskStatusOpen = "open"

// ActionItem is a task candidate extracted from a document by the summarizer.
// Empty Priority or Department means the model did not supply one.
type ActionItem struct {
	Description string   `json:"description"`
	Priority    Priority `json:"priority,omitempty"`
	Department  string   `json:"department,omitempty"`
	DueDate     string   `json:"dueDate,omitempty"`
}

// Task is a persisted unit of work created from an action item.
type Task struct {
	ID          string    `json:"id" firestore:"id"`
	Title       string    `json:"title" firestore:"title"`
	Description string    `json:"description" firestore:"description"`
	Priority    Priority  `json:"priority" firestore:"priority"`
	Department  string    `json:"department" firestore:"department"`
	Status      string    `json:"status" firestore:"status"`
	DocumentID  string    `json:"documentId" firestore:"documentId"`
	CreatedBy   string    `json:"createdBy" firestore:"createdBy"`
	DueDate     string    `json:"dueDate,omitempty" firestore:"dueDate,omitempty"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt"`
}
