package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateAppointmentRequest struct {
	PatientName  string     `json:"patient_name" validate:"required,max=255"`
	PatientEmail string     `json:"patient_email" validate:"required,email"`
	PatientPhone string     `json:"patient_phone" validate:"omitempty,max=20"`
	TherapistID  *uuid.UUID `json:"therapist_id,omitempty"`
	Date         time.Time  `json:"date" validate:"required"`
	ServiceIDs   []int      `json:"service_ids" validate:"required,min=1,dive,gt=0"`
	Notes        string     `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type UpdateAppointmentStatusRequest struct {
	Status      string     `json:"status" validate:"required"`
	TherapistID *uuid.UUID `json:"therapist_id,omitempty"`
}

type AppointmentResponse struct {
	ID          uuid.UUID         `json:"id"`
	PatientID   uuid.UUID         `json:"patient_id"`
	TherapistID *uuid.UUID        `json:"therapist_id,omitempty"`
	Date        time.Time         `json:"date"`
	Status      string            `json:"status"`
	Notes       string            `json:"notes,omitempty"`
	Patient     *UserResponse     `json:"patient,omitempty"`
	Therapist   *UserResponse     `json:"therapist,omitempty"`
	Services    []ServiceResponse `json:"services,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
