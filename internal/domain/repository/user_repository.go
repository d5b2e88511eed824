package repository

import (
	"physio-clinic-service/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(db *gorm.DB, user *entity.User) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error)
	FindByEmail(db *gorm.DB, email string) (*entity.User, error)
	FindActiveTherapistByID(db *gorm.DB, id uuid.UUID) (*entity.User, error)
	FindTherapistsOfferingServices(db *gorm.DB, serviceIDs []int) ([]uuid.UUID, error)
	CountTherapistServices(db *gorm.DB, therapistID uuid.UUID, serviceIDs []int) (int64, error)
	ReplaceTherapistServices(db *gorm.DB, therapist *entity.User, services []entity.Service) error
}
