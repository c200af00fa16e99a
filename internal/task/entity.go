package task

import "time"

type Task struct {
	ID           string    `yaml:"id" json:"id"`
	Title        string    `yaml:"title" json:"title"`
	Description  string    `yaml:"description,omitempty" json:"description,omitempty"`
	Status       Status    `yaml:"status" json:"status"`
	TotalMinutes int       `yaml:"total_minutes" json:"total_minutes"`
	OwnerID      string    `yaml:"owner_id" json:"owner_id"`
	AssigneeID   string    `yaml:"assignee_id" json:"assignee_id"`
	CreatedAt    time.Time `yaml:"created_at" json:"created_at"`
	UpdatedAt    time.Time `yaml:"updated_at" json:"updated_at"`
}
