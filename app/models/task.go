package models

import (
	"errors"
)

// Task is a single to-do entry. Children holds the ids of other tasks in
// display order; they are references only and need not exist.
type Task struct {
	ID        string   `json:"id"`
	Text      string   `json:"text"`
	Checked   bool     `json:"checked"`
	Children  []string `json:"children"`
	Pinned    bool     `json:"pinned,omitempty"`
	Collapsed bool     `json:"collapsed,omitempty"`
}

var ErrMissingID = errors.New("task id is required")

// Validate reports whether the task can be stored.
func (t *Task) Validate() error {
	if t.ID == "" {
		return ErrMissingID
	}
	return nil
}

// Normalize makes the zero value of Children serialize as an empty list.
func (t *Task) Normalize() {
	if t.Children == nil {
		t.Children = []string{}
	}
}
