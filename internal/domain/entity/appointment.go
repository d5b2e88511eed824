package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentStatus represents the workflow status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled   AppointmentStatus = "SCHEDULED"
	AppointmentStatusConfirmed   AppointmentStatus = "CONFIRMED"
	AppointmentStatusRescheduled AppointmentStatus = "RESCHEDULED"
	AppointmentStatusCancelled   AppointmentStatus = "CANCELLED"
	AppointmentStatusCompleted   AppointmentStatus = "COMPLETED"
)

// IsValid reports whether the status is one of the five recognized values.
// No predecessor graph is enforced beyond that; administrators may move an
// appointment between any of the recognized states.
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusScheduled,
		AppointmentStatusConfirmed,
		AppointmentStatusRescheduled,
		AppointmentStatusCancelled,
		AppointmentStatusCompleted:
		return true
	}
	return false
}

// Appointment represents a booked visit. TherapistID is nil only while the
// booking flow is still resolving an assignee; persisted rows always carry one.
// Appointments are never deleted, only transitioned to CANCELLED.
type Appointment struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	PatientID   uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	TherapistID *uuid.UUID        `gorm:"type:uuid;index" json:"therapist_id,omitempty"`
	Date        time.Time         `gorm:"not null;index" json:"date"`
	Status      AppointmentStatus `gorm:"type:varchar(20);not null;default:'SCHEDULED';index" json:"status"`
	Notes       string            `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient   User      `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Therapist *User     `gorm:"foreignKey:TherapistID" json:"therapist,omitempty"`
	Services  []Service `gorm:"many2many:appointment_services" json:"services,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// IsCancelled checks if the appointment is cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

// IsCompleted checks if the appointment is completed
func (a *Appointment) IsCompleted() bool {
	return a.Status == AppointmentStatusCompleted
}
