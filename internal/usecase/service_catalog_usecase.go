package usecase

import (
	"context"
	"errors"

	"physio-clinic-service/internal/converter"
	"physio-clinic-service/internal/delivery/dto"
	"physio-clinic-service/internal/delivery/http/middleware"
	"physio-clinic-service/internal/domain/entity"
	"physio-clinic-service/internal/domain/repository"
	"physio-clinic-service/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrInvalidPrice = errors.New("invalid price")

type ServiceCatalogUsecase interface {
	CreateService(ctx context.Context, req *dto.CreateServiceRequest) (*dto.ServiceResponse, error)
	GetService(ctx context.Context, serviceID int) (*dto.ServiceResponse, error)
	GetAllServices(ctx context.Context) (*dto.ServiceListResponse, error)
	UpdateService(ctx context.Context, serviceID int, req *dto.UpdateServiceRequest) (*dto.ServiceResponse, error)
	SetTherapistServices(ctx context.Context, therapistID uuid.UUID, req *dto.SetTherapistServicesRequest) (*dto.TherapistServicesResponse, error)
}

type serviceCatalogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	userRepo     repository.UserRepository
	serviceRepo  repository.ServiceRepository
	auditService service.AuditService
}

func NewServiceCatalogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	serviceRepo repository.ServiceRepository,
	auditService service.AuditService,
) ServiceCatalogUsecase {
	return &serviceCatalogUsecase{
		db:           db,
		log:          log,
		userRepo:     userRepo,
		serviceRepo:  serviceRepo,
		auditService: auditService,
	}
}

func (u *serviceCatalogUsecase) CreateService(ctx context.Context, req *dto.CreateServiceRequest) (*dto.ServiceResponse, error) {
	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		return nil, ErrInvalidPrice
	}

	svc := &entity.Service{
		Name:            req.Name,
		DurationMinutes: req.DurationMinutes,
		PriceMinorUnits: converter.PriceToMinorUnits(price),
	}

	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := u.serviceRepo.Create(tx, svc); err != nil {
			return err
		}
		var actor *uuid.UUID
		if actorID, ok := middleware.GetUserIDFromContext(ctx); ok {
			actor = &actorID
		}
		return u.auditService.LogCreate(tx, actor, entity.AuditActionServiceCreate,
			"service", svc.Name, map[string]interface{}{
				"duration_minutes":  svc.DurationMinutes,
				"price_minor_units": svc.PriceMinorUnits,
			})
	})
	if err != nil {
		u.log.Warnf("Failed to create service %s: %+v", req.Name, err)
		return nil, err
	}

	return converter.ServiceToResponse(svc), nil
}

func (u *serviceCatalogUsecase) GetService(ctx context.Context, serviceID int) (*dto.ServiceResponse, error) {
	svc, err := u.serviceRepo.FindByID(u.db.WithContext(ctx), serviceID)
	if err != nil {
		u.log.Warnf("Failed to find service %d: %+v", serviceID, err)
		return nil, err
	}
	if svc == nil {
		return nil, ErrServiceNotFound
	}
	return converter.ServiceToResponse(svc), nil
}

func (u *serviceCatalogUsecase) GetAllServices(ctx context.Context) (*dto.ServiceListResponse, error) {
	services, err := u.serviceRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find services: %+v", err)
		return nil, err
	}
	return &dto.ServiceListResponse{
		Services: converter.ServicesToResponses(services),
		Total:    len(services),
	}, nil
}

// UpdateService edits catalog fields. Services referenced by appointments are
// never deleted; retiring one means setting is_active to false here.
func (u *serviceCatalogUsecase) UpdateService(ctx context.Context, serviceID int, req *dto.UpdateServiceRequest) (*dto.ServiceResponse, error) {
	svc, err := u.serviceRepo.FindByID(u.db.WithContext(ctx), serviceID)
	if err != nil {
		u.log.Warnf("Failed to find service %d: %+v", serviceID, err)
		return nil, err
	}
	if svc == nil {
		return nil, ErrServiceNotFound
	}

	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.DurationMinutes != nil {
		svc.DurationMinutes = *req.DurationMinutes
	}
	if req.Price != nil {
		price, err := decimal.NewFromString(*req.Price)
		if err != nil || price.IsNegative() {
			return nil, ErrInvalidPrice
		}
		svc.PriceMinorUnits = converter.PriceToMinorUnits(price)
	}
	if req.IsActive != nil {
		svc.IsActive = req.IsActive
	}

	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := u.serviceRepo.Update(tx, svc); err != nil {
			return err
		}
		var actor *uuid.UUID
		if actorID, ok := middleware.GetUserIDFromContext(ctx); ok {
			actor = &actorID
		}
		return u.auditService.LogUpdate(tx, actor, entity.AuditActionServiceUpdate,
			"service", svc.Name, nil, map[string]interface{}{
				"duration_minutes":  svc.DurationMinutes,
				"price_minor_units": svc.PriceMinorUnits,
				"is_active":         svc.IsActive,
			})
	})
	if err != nil {
		u.log.Warnf("Failed to update service %d: %+v", serviceID, err)
		return nil, err
	}

	return converter.ServiceToResponse(svc), nil
}

// SetTherapistServices replaces the therapist's offered-service set
func (u *serviceCatalogUsecase) SetTherapistServices(ctx context.Context, therapistID uuid.UUID, req *dto.SetTherapistServicesRequest) (*dto.TherapistServicesResponse, error) {
	therapist, err := u.userRepo.FindActiveTherapistByID(u.db.WithContext(ctx), therapistID)
	if err != nil {
		u.log.Warnf("Failed to find therapist %s: %+v", therapistID, err)
		return nil, err
	}
	if therapist == nil {
		return nil, ErrTherapistNotFound
	}

	serviceIDs := uniqueServiceIDs(req.ServiceIDs)
	services, err := u.serviceRepo.FindActiveByIDs(u.db.WithContext(ctx), serviceIDs)
	if err != nil {
		return nil, err
	}
	if len(services) != len(serviceIDs) {
		return nil, ErrServiceNotFound
	}

	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := u.userRepo.ReplaceTherapistServices(tx, therapist, services); err != nil {
			return err
		}
		var actor *uuid.UUID
		if actorID, ok := middleware.GetUserIDFromContext(ctx); ok {
			actor = &actorID
		}
		return u.auditService.LogUpdate(tx, actor, entity.AuditActionTherapistServicesSet,
			"therapist", therapistID.String(), nil, map[string]interface{}{
				"service_ids": serviceIDs,
			})
	})
	if err != nil {
		u.log.Warnf("Failed to set services for therapist %s: %+v", therapistID, err)
		return nil, err
	}

	return &dto.TherapistServicesResponse{
		TherapistID: therapistID,
		Services:    converter.ServicesToResponses(services),
	}, nil
}
