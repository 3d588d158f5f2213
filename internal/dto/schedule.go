package dto

// ScheduleQuery filters the training schedule.
type ScheduleQuery struct {
	Status string `form:"status" validate:"max=20"`
	Search string `form:"search" validate:"max=100"`
}
