package repository

import (
	"time"

	"physio-clinic-service/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	// CreateWithServices inserts the appointment together with its service
	// join rows. Caller is expected to run it inside a transaction.
	CreateWithServices(db *gorm.DB, appointment *entity.Appointment, services []entity.Service) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error)
	FindByTherapistAndRange(db *gorm.DB, therapistID uuid.UUID, from, to time.Time) ([]entity.Appointment, error)
	// FindNonCancelledNear returns non-cancelled appointments for the
	// therapist with date in the half-open buffered window around instant.
	FindNonCancelledNear(db *gorm.DB, therapistID uuid.UUID, instant time.Time, bufferMinutes int) ([]entity.Appointment, error)
	// FindNonCancelledNearLocked is the same query under SELECT ... FOR
	// UPDATE, used for the transactional re-check before insert.
	FindNonCancelledNearLocked(db *gorm.DB, therapistID uuid.UUID, instant time.Time, bufferMinutes int) ([]entity.Appointment, error)
	CountNonCancelledInWindow(db *gorm.DB, therapistID uuid.UUID, from, to time.Time) (int64, error)
	// UpdateStatus sets the status (and optionally the therapist) and returns
	// affected rows; 0 means the appointment already carried that status.
	UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.AppointmentStatus, therapistID *uuid.UUID) (int64, error)
}
