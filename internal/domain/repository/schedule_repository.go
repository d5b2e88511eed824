package repository

import (
	"physio-clinic-service/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ScheduleRepository interface {
	Create(db *gorm.DB, schedule *entity.Schedule) error
	FindByID(db *gorm.DB, id int) (*entity.Schedule, error)
	FindByTherapistID(db *gorm.DB, therapistID uuid.UUID) ([]entity.Schedule, error)
	// FindActiveForTherapistDay returns the active windows for one therapist
	// and weekday, excluding the row under update when excludeID > 0.
	FindActiveForTherapistDay(db *gorm.DB, therapistID uuid.UUID, day entity.DayOfWeek, excludeID int) ([]entity.Schedule, error)
	Update(db *gorm.DB, schedule *entity.Schedule) error
}
