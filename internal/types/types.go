// Package types defines core data structures for the taskflow assistant.
package types

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a Taskwarrior task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusDeleted    Status = "deleted"
)

// Terminal reports whether a task in this status should have its
// mirrored issue closed.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusDeleted
}

// ValidStatus checks that a status string is one taskflow understands.
func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusPending, StatusInProgress, StatusCompleted, StatusDeleted:
		return true
	}
	return false
}

// Priority is a Taskwarrior priority letter. Empty means unset.
type Priority string

const (
	PriorityHigh   Priority = "H"
	PriorityMedium Priority = "M"
	PriorityLow    Priority = "L"
	PriorityNone   Priority = ""
)

// ParsePriority accepts both Taskwarrior letters and the spoken forms
// the interpreter produces ("low", "normal", "high").
func ParsePriority(s string) Priority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "h", "high":
		return PriorityHigh
	case "m", "normal", "medium":
		return PriorityMedium
	case "l", "low":
		return PriorityLow
	}
	return PriorityNone
}

// Task represents one Taskwarrior task as seen by taskflow.
//
// UUID is the stable identity; ID is Taskwarrior's display number and may
// be reused after a task completes, so it is never used as a sync key.
type Task struct {
	UUID        string     `json:"uuid"`
	ID          int        `json:"id,omitempty"`
	Description string     `json:"description"`
	Project     string     `json:"project,omitempty"`
	Priority    Priority   `json:"priority,omitempty"`
	Due         *time.Time `json:"due,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Status      Status     `json:"status"`
	Entry       *time.Time `json:"entry,omitempty"`
	Modified    *time.Time `json:"modified,omitempty"`
}

// HasTag reports whether the task carries the given tag.
func (t *Task) HasTag(tag string) bool {
	for _, have := range t.Tags {
		if have == tag {
			return true
		}
	}
	return false
}

// ContextSnapshot is the task-list context serialized into interpreter
// prompts: enough for the model to resolve references like "the web
// project" without shipping the full task export.
type ContextSnapshot struct {
	TaskCount int      `json:"task_count"`
	Projects  []string `json:"projects,omitempty"`
	Pending   []string `json:"pending,omitempty"` // descriptions of a few recent pending tasks
}
