package repository

import (
	"errors"

	"physio-clinic-service/internal/domain/entity"
	domainRepo "physio-clinic-service/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type scheduleRepository struct{}

func NewScheduleRepository() domainRepo.ScheduleRepository {
	return &scheduleRepository{}
}

func (r *scheduleRepository) Create(db *gorm.DB, schedule *entity.Schedule) error {
	return db.Create(schedule).Error
}

func (r *scheduleRepository) FindByID(db *gorm.DB, id int) (*entity.Schedule, error) {
	var schedule entity.Schedule
	err := db.Preload("Service").Where("id = ?", id).First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &schedule, nil
}

func (r *scheduleRepository) FindByTherapistID(db *gorm.DB, therapistID uuid.UUID) ([]entity.Schedule, error) {
	var schedules []entity.Schedule
	err := db.Preload("Service").
		Where("therapist_id = ?", therapistID).
		Order("day_of_week ASC, start_time ASC").
		Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *scheduleRepository) FindActiveForTherapistDay(db *gorm.DB, therapistID uuid.UUID, day entity.DayOfWeek, excludeID int) ([]entity.Schedule, error) {
	query := db.Where("therapist_id = ? AND day_of_week = ? AND is_active = ?", therapistID, day, true)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var schedules []entity.Schedule
	err := query.Order("start_time ASC").Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *scheduleRepository) Update(db *gorm.DB, schedule *entity.Schedule) error {
	return db.Omit("Therapist", "Service").Save(schedule).Error
}
