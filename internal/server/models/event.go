package models

import "time"

type EventStatus string

const (
	EventStatusScheduled EventStatus = "scheduled"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

type EventPriority string

const (
	EventPriorityLow    EventPriority = "low"
	EventPriorityMedium EventPriority = "medium"
	EventPriorityHigh   EventPriority = "high"
)

// CalendarEvent is a scheduled maintenance activity. Date carries the day
// of the event; Time keeps the wall-clock slot as entered ("09:00").
type CalendarEvent struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Date        time.Time     `json:"date"`
	Time        string        `json:"time"`
	Facility    string        `json:"facility"`
	Type        string        `json:"type"`
	Status      EventStatus   `json:"status"`
	AssignedTo  string        `json:"assigned_to"`
	Priority    EventPriority `json:"priority"`
	CreatedBy   string        `json:"created_by"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	CompletedAt time.Time     `json:"completed_at,omitempty"`
}
