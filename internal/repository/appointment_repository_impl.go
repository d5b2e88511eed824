package repository

import (
	"errors"
	"time"

	"physio-clinic-service/internal/domain/entity"
	domainRepo "physio-clinic-service/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

// CreateWithServices inserts the appointment and one appointment_services row
// per service. Omit("Services.*") keeps gorm from upserting the service rows
// themselves while still writing the join records.
func (r *appointmentRepository) CreateWithServices(db *gorm.DB, appointment *entity.Appointment, services []entity.Service) error {
	appointment.Services = services
	return db.Omit("Services.*").Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Preload("Patient").Preload("Therapist").Preload("Services").
		Where("id = ?", id).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Preload("Therapist").Preload("Services").
		Where("patient_id = ?", patientID).
		Order("date DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByTherapistAndRange(db *gorm.DB, therapistID uuid.UUID, from, to time.Time) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Preload("Patient").Preload("Services").
		Where("therapist_id = ? AND date >= ? AND date < ?", therapistID, from, to).
		Order("date ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindNonCancelledNear(db *gorm.DB, therapistID uuid.UUID, instant time.Time, bufferMinutes int) ([]entity.Appointment, error) {
	return r.findNear(db, therapistID, instant, bufferMinutes)
}

func (r *appointmentRepository) FindNonCancelledNearLocked(db *gorm.DB, therapistID uuid.UUID, instant time.Time, bufferMinutes int) ([]entity.Appointment, error) {
	return r.findNear(db.Clauses(clause.Locking{Strength: "UPDATE"}), therapistID, instant, bufferMinutes)
}

func (r *appointmentRepository) findNear(db *gorm.DB, therapistID uuid.UUID, instant time.Time, bufferMinutes int) ([]entity.Appointment, error) {
	buffer := time.Duration(bufferMinutes) * time.Minute
	var appointments []entity.Appointment
	err := db.Where(
		"therapist_id = ? AND status <> ? AND date >= ? AND date < ?",
		therapistID, entity.AppointmentStatusCancelled, instant.Add(-buffer), instant.Add(buffer),
	).Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) CountNonCancelledInWindow(db *gorm.DB, therapistID uuid.UUID, from, to time.Time) (int64, error) {
	var count int64
	err := db.Model(&entity.Appointment{}).
		Where("therapist_id = ? AND status <> ? AND date >= ? AND date < ?",
			therapistID, entity.AppointmentStatusCancelled, from, to).
		Count(&count).Error
	return count, err
}

func (r *appointmentRepository) UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.AppointmentStatus, therapistID *uuid.UUID) (int64, error) {
	updates := map[string]interface{}{"status": status}
	query := db.Model(&entity.Appointment{}).Where("id = ?", id)
	if therapistID != nil {
		updates["therapist_id"] = *therapistID
	} else {
		// Rows-affected guard: a no-op status write means the appointment
		// already carried this status.
		query = query.Where("status <> ?", status)
	}
	result := query.Updates(updates)
	return result.RowsAffected, result.Error
}
