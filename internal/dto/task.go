package dto

import "time"

type TaskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	DueAt       *time.Time `json:"due_at,omitempty"`
}

type ListTasksResponse struct {
	Items []TaskResponse `json:"items"`
}

// ProgressResponse mirrors what the progress bar receives.
type ProgressResponse struct {
	Done    int `json:"done"`
	Total   int `json:"total"`
	Percent int `json:"percent"`
}

// TabResponse is one status group of the tabbed container.
type TabResponse struct {
	Status string         `json:"status"`
	Label  string         `json:"label"`
	Items  []TaskResponse `json:"items"`
}

type OverviewResponse struct {
	Heading  string           `json:"heading"`
	Loaded   bool             `json:"loaded"`
	Progress ProgressResponse `json:"progress"`
	Tabs     []TabResponse    `json:"tabs"`
}
