package usecase

import (
	"context"
	"errors"
	"strings"
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

var ErrInvalidStatus = errors.New("status is not a recognized value")

const surveyDispatchTimeout = 15 * time.Second

type AppointmentStatusUsecase interface {
	UpdateStatus(ctx context.Context, appointmentID uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error)
}

type appointmentStatusUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	userRepo     repository.UserRepository
	apptRepo     repository.AppointmentRepository
	scheduler    *service.SchedulingService
	surveys      service.SurveyDispatcher
	auditService service.AuditService
}

func NewAppointmentStatusUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	apptRepo repository.AppointmentRepository,
	scheduler *service.SchedulingService,
	surveys service.SurveyDispatcher,
	auditService service.AuditService,
) AppointmentStatusUsecase {
	return &appointmentStatusUsecase{
		db:           db,
		log:          log,
		userRepo:     userRepo,
		apptRepo:     apptRepo,
		scheduler:    scheduler,
		surveys:      surveys,
		auditService: auditService,
	}
}

// UpdateStatus applies an administrator/therapist PATCH: a new status and
// optionally a reassigned therapist. Any of the five recognized states may
// move to any other. The only transition with a side effect is into
// COMPLETED, which dispatches one satisfaction-survey attempt; dispatch runs
// detached and its failure never surfaces to the caller.
func (u *appointmentStatusUsecase) UpdateStatus(ctx context.Context, appointmentID uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	status := entity.AppointmentStatus(strings.ToUpper(req.Status))
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	appointment, err := u.apptRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	if req.TherapistID != nil {
		if err := u.validateReassignment(ctx, appointment, *req.TherapistID); err != nil {
			return nil, err
		}
	}

	wasCompleted := appointment.IsCompleted()

	affected, err := u.apptRepo.UpdateStatus(u.db.WithContext(ctx), appointmentID, status, req.TherapistID)
	if err != nil {
		u.log.Warnf("Failed to update appointment %s status: %+v", appointmentID, err)
		return nil, err
	}

	var actor *uuid.UUID
	if actorID, ok := middleware.GetUserIDFromContext(ctx); ok {
		actor = &actorID
	}
	if err := u.auditService.LogUpdate(u.db.WithContext(ctx), actor,
		entity.AuditActionAppointmentStatusChange, "appointment", appointmentID.String(),
		map[string]interface{}{"status": string(appointment.Status)},
		map[string]interface{}{"status": string(status)}); err != nil {
		u.log.Warnf("Failed to audit status change for %s: %+v", appointmentID, err)
	}

	if status == entity.AppointmentStatusCompleted && !wasCompleted && affected > 0 {
		u.dispatchSurvey(appointment)
	}

	full, err := u.apptRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil || full == nil {
		u.log.Warnf("Failed to reload appointment %s: %+v", appointmentID, err)
		appointment.Status = status
		return converter.AppointmentToResponse(appointment), nil
	}

	u.log.Infof("Appointment %s status: %s -> %s", appointmentID, appointment.Status, status)
	return converter.AppointmentToResponse(full), nil
}

// validateReassignment re-runs the booking-time checks for the new therapist:
// active, offers every service on the appointment, and free around its date.
func (u *appointmentStatusUsecase) validateReassignment(ctx context.Context, appointment *entity.Appointment, therapistID uuid.UUID) error {
	if appointment.TherapistID != nil && *appointment.TherapistID == therapistID {
		return nil
	}

	therapist, err := u.userRepo.FindActiveTherapistByID(u.db.WithContext(ctx), therapistID)
	if err != nil {
		return err
	}
	if therapist == nil {
		return ErrTherapistNotFound
	}

	serviceIDs := make([]int, len(appointment.Services))
	for i := range appointment.Services {
		serviceIDs[i] = appointment.Services[i].ID
	}
	if len(serviceIDs) > 0 {
		offered, err := u.userRepo.CountTherapistServices(u.db.WithContext(ctx), therapistID, serviceIDs)
		if err != nil {
			return err
		}
		if offered != int64(len(serviceIDs)) {
			return ErrTherapistNotQualified
		}
	}

	free, err := u.scheduler.IsTherapistFree(ctx, therapistID, appointment.Date)
	if err != nil {
		return err
	}
	if !free {
		return service.ErrNoAvailableSlot
	}

	return nil
}

// dispatchSurvey fires the satisfaction survey without holding the request.
// At-most-once-attempt: no retry, failures are logged inside the dispatcher.
func (u *appointmentStatusUsecase) dispatchSurvey(appointment *entity.Appointment) {
	serviceNames := make([]string, len(appointment.Services))
	for i := range appointment.Services {
		serviceNames[i] = appointment.Services[i].Name
	}

	therapistName := ""
	if appointment.Therapist != nil {
		therapistName = appointment.Therapist.FullName
	}

	req := &service.SurveyRequest{
		AppointmentID: appointment.ID,
		PatientName:   appointment.Patient.FullName,
		PatientEmail:  appointment.Patient.Email,
		Date:          appointment.Date,
		TherapistName: therapistName,
		Services:      serviceNames,
	}

	go func() {
		dispatchCtx, cancel := context.WithTimeout(context.Background(), surveyDispatchTimeout)
		defer cancel()
		// Error already logged by the dispatcher; nothing to do here.
		_ = u.surveys.DispatchSatisfactionSurvey(dispatchCtx, req)
	}()
}
