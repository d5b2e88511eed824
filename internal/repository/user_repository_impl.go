package repository

import (
	"errors"

	"physio-clinic-service/internal/domain/entity"
	domainRepo "physio-clinic-service/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct{}

func NewUserRepository() domainRepo.UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(db *gorm.DB, user *entity.User) error {
	return db.Create(user).Error
}

func (r *userRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	err := db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	var user entity.User
	err := db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindActiveTherapistByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	err := db.Preload("Services").
		Where("id = ? AND role_id = ? AND is_active = ?", id, entity.RoleIDTherapist, true).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// FindTherapistsOfferingServices returns active therapists offering every one
// of the requested services: the therapist_services rows restricted to the
// requested ids must count to the full request size.
func (r *userRepository) FindTherapistsOfferingServices(db *gorm.DB, serviceIDs []int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := db.Model(&entity.User{}).
		Joins("JOIN therapist_services ON therapist_services.therapist_id = users.id").
		Where("users.role_id = ? AND users.is_active = ?", entity.RoleIDTherapist, true).
		Where("therapist_services.service_id IN ?", serviceIDs).
		Group("users.id").
		Having("COUNT(DISTINCT therapist_services.service_id) = ?", len(serviceIDs)).
		Order("users.id ASC").
		Pluck("users.id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *userRepository) CountTherapistServices(db *gorm.DB, therapistID uuid.UUID, serviceIDs []int) (int64, error) {
	var count int64
	err := db.Table("therapist_services").
		Where("therapist_id = ? AND service_id IN ?", therapistID, serviceIDs).
		Distinct("service_id").
		Count(&count).Error
	return count, err
}

func (r *userRepository) ReplaceTherapistServices(db *gorm.DB, therapist *entity.User, services []entity.Service) error {
	return db.Model(therapist).Association("Services").Replace(services)
}
