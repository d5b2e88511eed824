package usecase

import (
	"context"
	"errors"
	"time"

	"physio-clinic-service/internal/converter"
	"physio-clinic-service/internal/delivery/dto"
	"physio-clinic-service/internal/delivery/http/middleware"
	"physio-clinic-service/internal/domain/entity"
	"physio-clinic-service/internal/domain/repository"
	"physio-clinic-service/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrScheduleNotFound  = errors.New("schedule not found")
	ErrScheduleOverlap   = errors.New("overlaps an existing schedule")
	ErrInvalidTimeRange  = errors.New("end time must be after start time")
	ErrInvalidTimeFormat = errors.New("invalid time format, use HH:MM")
	ErrInvalidDayOfWeek  = errors.New("invalid day of week")
)

type ScheduleUsecase interface {
	CreateSchedule(ctx context.Context, req *dto.CreateScheduleRequest) (*dto.ScheduleResponse, error)
	UpdateSchedule(ctx context.Context, scheduleID int, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error)
	GetSchedule(ctx context.Context, scheduleID int) (*dto.ScheduleResponse, error)
	GetSchedulesByTherapist(ctx context.Context, therapistID uuid.UUID) (*dto.ScheduleListResponse, error)
}

type scheduleUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	userRepo     repository.UserRepository
	serviceRepo  repository.ServiceRepository
	scheduleRepo repository.ScheduleRepository
	auditService service.AuditService
}

func NewScheduleUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	serviceRepo repository.ServiceRepository,
	scheduleRepo repository.ScheduleRepository,
	auditService service.AuditService,
) ScheduleUsecase {
	return &scheduleUsecase{
		db:           db,
		log:          log,
		userRepo:     userRepo,
		serviceRepo:  serviceRepo,
		scheduleRepo: scheduleRepo,
		auditService: auditService,
	}
}

func (u *scheduleUsecase) CreateSchedule(ctx context.Context, req *dto.CreateScheduleRequest) (*dto.ScheduleResponse, error) {
	day := entity.DayOfWeek(req.DayOfWeek)
	if !day.IsValid() {
		return nil, ErrInvalidDayOfWeek
	}
	if err := validateWindow(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	therapist, err := u.userRepo.FindActiveTherapistByID(u.db.WithContext(ctx), req.TherapistID)
	if err != nil {
		u.log.Warnf("Failed to find therapist %s: %+v", req.TherapistID, err)
		return nil, err
	}
	if therapist == nil {
		return nil, ErrTherapistNotFound
	}

	svc, err := u.serviceRepo.FindByID(u.db.WithContext(ctx), req.ServiceID)
	if err != nil {
		return nil, err
	}
	if svc == nil || svc.IsActive == nil || !*svc.IsActive {
		return nil, ErrServiceNotFound
	}

	schedule := &entity.Schedule{
		TherapistID: req.TherapistID,
		DayOfWeek:   day,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		ServiceID:   req.ServiceID,
	}

	// Overlap check and insert share one transaction so two concurrent
	// windows for the same therapist/day cannot both pass the check.
	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := u.rejectOverlap(tx, schedule, 0); err != nil {
			return err
		}
		if err := u.scheduleRepo.Create(tx, schedule); err != nil {
			return err
		}

		var actor *uuid.UUID
		if actorID, ok := middleware.GetUserIDFromContext(ctx); ok {
			actor = &actorID
		}
		return u.auditService.LogCreate(tx, actor, entity.AuditActionScheduleCreate,
			"schedule", req.TherapistID.String(), map[string]interface{}{
				"day_of_week": string(day),
				"start_time":  req.StartTime,
				"end_time":    req.EndTime,
				"service_id":  req.ServiceID,
			})
	})
	if err != nil {
		if !errors.Is(err, ErrScheduleOverlap) {
			u.log.Warnf("Failed to create schedule: %+v", err)
		}
		return nil, err
	}

	return converter.ScheduleToResponse(schedule), nil
}

func (u *scheduleUsecase) UpdateSchedule(ctx context.Context, scheduleID int, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error) {
	schedule, err := u.scheduleRepo.FindByID(u.db.WithContext(ctx), scheduleID)
	if err != nil {
		u.log.Warnf("Failed to find schedule %d: %+v", scheduleID, err)
		return nil, err
	}
	if schedule == nil {
		return nil, ErrScheduleNotFound
	}

	if req.DayOfWeek != "" {
		day := entity.DayOfWeek(req.DayOfWeek)
		if !day.IsValid() {
			return nil, ErrInvalidDayOfWeek
		}
		schedule.DayOfWeek = day
	}
	if req.StartTime != "" {
		schedule.StartTime = req.StartTime
	}
	if req.EndTime != "" {
		schedule.EndTime = req.EndTime
	}
	if err := validateWindow(schedule.StartTime, schedule.EndTime); err != nil {
		return nil, err
	}
	if req.ServiceID != nil {
		svc, err := u.serviceRepo.FindByID(u.db.WithContext(ctx), *req.ServiceID)
		if err != nil {
			return nil, err
		}
		if svc == nil || svc.IsActive == nil || !*svc.IsActive {
			return nil, ErrServiceNotFound
		}
		schedule.ServiceID = *req.ServiceID
	}
	if req.IsActive != nil {
		schedule.IsActive = req.IsActive
	}

	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Inactive windows are exempt from the overlap rule; the record
		// under update is excluded from its own comparison set.
		if schedule.IsActive == nil || *schedule.IsActive {
			if err := u.rejectOverlap(tx, schedule, schedule.ID); err != nil {
				return err
			}
		}
		if err := u.scheduleRepo.Update(tx, schedule); err != nil {
			return err
		}

		var actor *uuid.UUID
		if actorID, ok := middleware.GetUserIDFromContext(ctx); ok {
			actor = &actorID
		}
		return u.auditService.LogUpdate(tx, actor, entity.AuditActionScheduleUpdate,
			"schedule", schedule.TherapistID.String(), nil, map[string]interface{}{
				"schedule_id": schedule.ID,
				"day_of_week": string(schedule.DayOfWeek),
				"start_time":  schedule.StartTime,
				"end_time":    schedule.EndTime,
				"is_active":   schedule.IsActive,
			})
	})
	if err != nil {
		if !errors.Is(err, ErrScheduleOverlap) {
			u.log.Warnf("Failed to update schedule %d: %+v", scheduleID, err)
		}
		return nil, err
	}

	return converter.ScheduleToResponse(schedule), nil
}

func (u *scheduleUsecase) GetSchedule(ctx context.Context, scheduleID int) (*dto.ScheduleResponse, error) {
	schedule, err := u.scheduleRepo.FindByID(u.db.WithContext(ctx), scheduleID)
	if err != nil {
		u.log.Warnf("Failed to find schedule %d: %+v", scheduleID, err)
		return nil, err
	}
	if schedule == nil {
		return nil, ErrScheduleNotFound
	}
	return converter.ScheduleToResponse(schedule), nil
}

func (u *scheduleUsecase) GetSchedulesByTherapist(ctx context.Context, therapistID uuid.UUID) (*dto.ScheduleListResponse, error) {
	schedules, err := u.scheduleRepo.FindByTherapistID(u.db.WithContext(ctx), therapistID)
	if err != nil {
		u.log.Warnf("Failed to find schedules for therapist %s: %+v", therapistID, err)
		return nil, err
	}
	return &dto.ScheduleListResponse{
		Schedules: converter.SchedulesToResponses(schedules),
		Total:     len(schedules),
	}, nil
}

// rejectOverlap fails with ErrScheduleOverlap when any existing active window
// for the same therapist/day conflicts with the proposed one.
func (u *scheduleUsecase) rejectOverlap(tx *gorm.DB, schedule *entity.Schedule, excludeID int) error {
	existing, err := u.scheduleRepo.FindActiveForTherapistDay(tx, schedule.TherapistID, schedule.DayOfWeek, excludeID)
	if err != nil {
		return err
	}
	for i := range existing {
		if existing[i].Overlaps(schedule.StartTime, schedule.EndTime) {
			return ErrScheduleOverlap
		}
	}
	return nil
}

// validateWindow checks HH:MM format and that the window is non-empty
func validateWindow(start, end string) error {
	if _, err := time.Parse("15:04", start); err != nil {
		return ErrInvalidTimeFormat
	}
	if _, err := time.Parse("15:04", end); err != nil {
		return ErrInvalidTimeFormat
	}
	if end <= start {
		return ErrInvalidTimeRange
	}
	return nil
}
