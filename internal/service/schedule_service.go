package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/dsa-enrollment-api/internal/models"
	appErrors "github.com/noah-isme/dsa-enrollment-api/pkg/errors"
	"github.com/noah-isme/dsa-enrollment-api/pkg/export"
)

const fewSeatsThreshold = 5

type scheduleReader interface {
	ListSchedule(ctx context.Context) ([]models.ScheduleEntry, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ScheduleService filters the batch schedule and derives seat labels and actions.
type ScheduleService struct {
	repo     scheduleReader
	exporter csvRenderer
	logger   *zap.Logger
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(repo scheduleReader, exporter csvRenderer, logger *zap.Logger) *ScheduleService {
	if exporter == nil {
		exporter = export.NewCSVExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{repo: repo, exporter: exporter, logger: logger}
}

// List returns the entries matching filter with their derived fields.
func (s *ScheduleService) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleView, error) {
	filter, err := normalizeScheduleFilter(filter)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.ListSchedule(ctx)
	if err != nil {
		s.logger.Error("list schedule", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	matched := FilterSchedule(entries, filter)
	views := make([]models.ScheduleView, 0, len(matched))
	for _, entry := range matched {
		views = append(views, DescribeEntry(entry))
	}
	return views, nil
}

var scheduleColumns = []export.Column{
	{Key: "batch", Label: "Batch"},
	{Key: "course", Label: "Course"},
	{Key: "status", Label: "Status"},
	{Key: "start_date", Label: "Start Date"},
	{Key: "end_date", Label: "End Date"},
	{Key: "time", Label: "Time"},
	{Key: "duration", Label: "Duration"},
	{Key: "instructor", Label: "Instructor"},
	{Key: "location", Label: "Location"},
	{Key: "available_seats", Label: "Available Seats"},
	{Key: "total_seats", Label: "Total Seats"},
	{Key: "seat_label", Label: "Availability"},
	{Key: "fee", Label: "Fee (INR)"},
}

// ExportCSV renders the filtered schedule as CSV.
func (s *ScheduleService) ExportCSV(ctx context.Context, filter models.ScheduleFilter) ([]byte, error) {
	views, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	dataset := export.Dataset{
		Columns: scheduleColumns,
	}
	for _, v := range views {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"batch":           v.Batch,
			"course":          v.Course,
			"status":          string(v.Status),
			"start_date":      v.StartDate,
			"end_date":        v.EndDate,
			"time":            v.Time,
			"duration":        v.Duration,
			"instructor":      v.Instructor,
			"location":        v.Location,
			"available_seats": strconv.Itoa(v.AvailableSeats),
			"total_seats":     strconv.Itoa(v.TotalSeats),
			"seat_label":      string(v.SeatLabel),
			"fee":             strconv.FormatInt(v.Fee, 10),
		})
	}
	out, err := s.exporter.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to export schedule")
	}
	return out, nil
}

func normalizeScheduleFilter(filter models.ScheduleFilter) (models.ScheduleFilter, error) {
	status := strings.ToLower(strings.TrimSpace(filter.Status))
	if status == "" {
		status = models.ScheduleStatusAll
	}
	if status != models.ScheduleStatusAll && !models.ScheduleStatus(status).Valid() {
		return filter, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status filter %q", filter.Status))
	}
	filter.Status = status
	return filter, nil
}

// FilterSchedule keeps entries whose status matches and whose course, batch or instructor contains
// the search text, ignoring case.
func FilterSchedule(entries []models.ScheduleEntry, filter models.ScheduleFilter) []models.ScheduleEntry {
	search := strings.ToLower(filter.Search)
	out := make([]models.ScheduleEntry, 0, len(entries))
	for _, e := range entries {
		statusMatches := filter.Status == "" || filter.Status == models.ScheduleStatusAll || string(e.Status) == filter.Status
		textMatches := search == "" ||
			strings.Contains(strings.ToLower(e.Course), search) ||
			strings.Contains(strings.ToLower(e.Batch), search) ||
			strings.Contains(strings.ToLower(e.Instructor), search)
		if statusMatches && textMatches {
			out = append(out, e)
		}
	}
	return out
}

// SeatLabelFor classifies seat availability.
func SeatLabelFor(available int) models.SeatLabel {
	switch {
	case available <= 0:
		return models.SeatLabelFull
	case available <= fewSeatsThreshold:
		return models.SeatLabelFewLeft
	default:
		return models.SeatLabelAvailable
	}
}

// FillFraction is the share of seats already taken.
func FillFraction(e models.ScheduleEntry) float64 {
	if e.TotalSeats <= 0 {
		return 0
	}
	return float64(e.TotalSeats-e.AvailableSeats) / float64(e.TotalSeats)
}

// ActionsFor lists the buttons shown for a batch. A completed batch with no seats shows both
// disabled markers.
func ActionsFor(e models.ScheduleEntry) []models.ScheduleAction {
	actions := []models.ScheduleAction{}
	if e.AvailableSeats > 0 {
		switch e.Status {
		case models.ScheduleStatusUpcoming:
			actions = append(actions,
				models.ScheduleAction{Kind: models.ScheduleActionEnroll, Label: "Enroll Now", Enabled: true, Href: "/apply"},
				models.ScheduleAction{Kind: models.ScheduleActionPay, Label: "Pay Now", Enabled: true, Href: "/payment?course=" + e.CourseID},
			)
		case models.ScheduleStatusOngoing:
			actions = append(actions, models.ScheduleAction{Kind: models.ScheduleActionJoin, Label: "Join Mid-Batch", Enabled: true, Href: "/apply"})
		}
	}
	if e.AvailableSeats == 0 {
		actions = append(actions, models.ScheduleAction{Kind: models.ScheduleActionFull, Label: "Batch Full"})
	}
	if e.Status == models.ScheduleStatusCompleted {
		actions = append(actions, models.ScheduleAction{Kind: models.ScheduleActionCompleted, Label: "Completed"})
	}
	return actions
}

// DescribeEntry attaches the derived presentation fields to an entry.
func DescribeEntry(e models.ScheduleEntry) models.ScheduleView {
	return models.ScheduleView{
		ScheduleEntry: e,
		SeatLabel:     SeatLabelFor(e.AvailableSeats),
		FillFraction:  FillFraction(e),
		Actions:       ActionsFor(e),
	}
}
