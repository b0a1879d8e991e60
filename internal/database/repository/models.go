package repository

import "time"

// FlowEvent represents a flow_events row.
type FlowEvent struct {
	ID         string
	Name       string
	ActivityID string
	Properties map[string]string
	CreatedAt  time.Time
}
