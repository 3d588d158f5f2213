package models

import "fmt"

// ScheduleStatus captures where a batch is in its lifecycle.
type ScheduleStatus string

const (
	ScheduleStatusUpcoming  ScheduleStatus = "upcoming"
	ScheduleStatusOngoing   ScheduleStatus = "ongoing"
	ScheduleStatusCompleted ScheduleStatus = "completed"
)

// ScheduleStatusAll is the filter selector matching every status.
const ScheduleStatusAll = "all"

// Valid reports whether s is one of the known statuses.
func (s ScheduleStatus) Valid() bool {
	switch s {
	case ScheduleStatusUpcoming, ScheduleStatusOngoing, ScheduleStatusCompleted:
		return true
	}
	return false
}

// ScheduleEntry is a batch of a course with fixed dates, instructor and seats.
type ScheduleEntry struct {
	ID             string         `db:"id" json:"id"`
	Course         string         `db:"course" json:"course"`
	CourseID       string         `db:"course_id" json:"course_id"`
	Batch          string         `db:"batch" json:"batch"`
	StartDate      string         `db:"start_date" json:"start_date"`
	EndDate        string         `db:"end_date" json:"end_date"`
	Time           string         `db:"time_label" json:"time"`
	Duration       string         `db:"duration" json:"duration"`
	Instructor     string         `db:"instructor" json:"instructor"`
	Location       string         `db:"location" json:"location"`
	AvailableSeats int            `db:"available_seats" json:"available_seats"`
	TotalSeats     int            `db:"total_seats" json:"total_seats"`
	Fee            int64          `db:"fee" json:"fee"`
	Status         ScheduleStatus `db:"status" json:"status"`
}

// Check enforces the seat invariant of an entry.
func (e ScheduleEntry) Check() error {
	if e.TotalSeats <= 0 {
		return fmt.Errorf("schedule %s: total seats must be positive", e.ID)
	}
	if e.AvailableSeats < 0 || e.AvailableSeats > e.TotalSeats {
		return fmt.Errorf("schedule %s: available seats %d outside 0..%d", e.ID, e.AvailableSeats, e.TotalSeats)
	}
	if !e.Status.Valid() {
		return fmt.Errorf("schedule %s: unknown status %q", e.ID, e.Status)
	}
	return nil
}

// ScheduleFilter selects entries by status and free text.
type ScheduleFilter struct {
	Status string
	Search string
}

// SeatLabel is the derived scarcity category of a batch.
type SeatLabel string

const (
	SeatLabelFull      SeatLabel = "full"
	SeatLabelFewLeft   SeatLabel = "few seats left"
	SeatLabelAvailable SeatLabel = "available"
)

// ScheduleActionKind identifies what a visitor can do with a batch.
type ScheduleActionKind string

const (
	ScheduleActionEnroll    ScheduleActionKind = "enroll"
	ScheduleActionPay       ScheduleActionKind = "pay"
	ScheduleActionJoin      ScheduleActionKind = "join"
	ScheduleActionFull      ScheduleActionKind = "batch_full"
	ScheduleActionCompleted ScheduleActionKind = "completed"
)

// ScheduleAction is a button offered for a batch. Disabled actions are informational.
type ScheduleAction struct {
	Kind    ScheduleActionKind `json:"kind"`
	Label   string             `json:"label"`
	Enabled bool               `json:"enabled"`
	Href    string             `json:"href,omitempty"`
}

// ScheduleView is an entry with its derived presentation fields.
type ScheduleView struct {
	ScheduleEntry
	SeatLabel    SeatLabel        `json:"seat_label"`
	FillFraction float64          `json:"fill_fraction"`
	Actions      []ScheduleAction `json:"actions"`
}
