package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateScheduleRequest struct {
	TherapistID uuid.UUID `json:"therapist_id" validate:"required"`
	DayOfWeek   string    `json:"day_of_week" validate:"required"`
	StartTime   string    `json:"start_time" validate:"required"`
	EndTime     string    `json:"end_time" validate:"required"`
	ServiceID   int       `json:"service_id" validate:"required,gt=0"`
}

type UpdateScheduleRequest struct {
	DayOfWeek string `json:"day_of_week,omitempty"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
	ServiceID *int   `json:"service_id,omitempty" validate:"omitempty,gt=0"`
	IsActive  *bool  `json:"is_active,omitempty"`
}

type ScheduleResponse struct {
	ID          int              `json:"id"`
	TherapistID uuid.UUID        `json:"therapist_id"`
	DayOfWeek   string           `json:"day_of_week"`
	StartTime   string           `json:"start_time"`
	EndTime     string           `json:"end_time"`
	ServiceID   int              `json:"service_id"`
	Service     *ServiceResponse `json:"service,omitempty"`
	IsActive    *bool            `json:"is_active"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

type ScheduleListResponse struct {
	Schedules []ScheduleResponse `json:"schedules"`
	Total     int                `json:"total"`
}
