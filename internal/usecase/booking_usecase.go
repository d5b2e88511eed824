package usecase

import (
	"context"
	"errors"
	"time"

	"physio-clinic-service/config"
	"physio-clinic-service/internal/converter"
	"physio-clinic-service/internal/delivery/dto"
	"physio-clinic-service/internal/domain/entity"
	"physio-clinic-service/internal/domain/repository"
	"physio-clinic-service/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound   = errors.New("appointment not found")
	ErrServiceNotFound       = errors.New("service not found or inactive")
	ErrTherapistNotFound     = errors.New("therapist not found or inactive")
	ErrTherapistNotQualified = errors.New("therapist does not offer every requested service")
	ErrAppointmentPast       = errors.New("cannot book a past date")
)

type BookingUsecase interface {
	CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	GetAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	GetAppointmentsByPatient(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error)
	GetTherapistAgenda(ctx context.Context, therapistID uuid.UUID, day time.Time) (*dto.AppointmentListResponse, error)
}

type bookingUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	cfg          config.BookingConfig
	userRepo     repository.UserRepository
	serviceRepo  repository.ServiceRepository
	apptRepo     repository.AppointmentRepository
	scheduler    *service.SchedulingService
	slots        *service.SlotReservationService
	auditService service.AuditService
}

func NewBookingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	cfg config.BookingConfig,
	userRepo repository.UserRepository,
	serviceRepo repository.ServiceRepository,
	apptRepo repository.AppointmentRepository,
	scheduler *service.SchedulingService,
	slots *service.SlotReservationService,
	auditService service.AuditService,
) BookingUsecase {
	return &bookingUsecase{
		db:           db,
		log:          log,
		cfg:          cfg,
		userRepo:     userRepo,
		serviceRepo:  serviceRepo,
		apptRepo:     apptRepo,
		scheduler:    scheduler,
		slots:        slots,
		auditService: auditService,
	}
}

// CreateAppointment handles a public booking request.
//
// Flow:
// 1. Resolve requested services (must all exist and be active)
// 2. Upsert the patient by email
// 3. Resolve the therapist: validate the explicit choice, or auto-assign
// 4. Redis slot hold on the exact therapist/instant pair
// 5. Transactional buffered re-check under row locks + atomic write of the
//    appointment with its service rows
// 6. Compensate: release the slot hold if the write fails
func (u *bookingUsecase) CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if req.Date.Before(time.Now()) {
		return nil, ErrAppointmentPast
	}

	// Step 1: Resolve requested services
	serviceIDs := uniqueServiceIDs(req.ServiceIDs)
	services, err := u.serviceRepo.FindActiveByIDs(u.db.WithContext(ctx), serviceIDs)
	if err != nil {
		u.log.Warnf("Failed to find services %v: %+v", serviceIDs, err)
		return nil, err
	}
	if len(services) != len(serviceIDs) {
		return nil, ErrServiceNotFound
	}

	// Step 2: Upsert patient by email
	patient, err := u.upsertPatient(ctx, req)
	if err != nil {
		return nil, err
	}

	// Step 3: Resolve therapist
	therapistID, err := u.resolveTherapist(ctx, req, serviceIDs)
	if err != nil {
		return nil, err
	}

	// Step 4: Slot hold. Concurrent requests for the same therapist and
	// instant lose here instead of racing the database write.
	if err := u.slots.Reserve(ctx, therapistID, req.Date); err != nil {
		if errors.Is(err, service.ErrSlotHeld) {
			return nil, service.ErrNoAvailableSlot
		}
		return nil, err
	}

	// Step 5: Transactional re-check and atomic write
	appointment := &entity.Appointment{
		PatientID:   patient.ID,
		TherapistID: &therapistID,
		Date:        req.Date,
		Status:      entity.AppointmentStatusScheduled,
		Notes:       req.Notes,
	}

	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		nearby, err := u.apptRepo.FindNonCancelledNearLocked(tx, therapistID, req.Date, u.cfg.BufferMinutes)
		if err != nil {
			return err
		}
		if len(nearby) > 0 {
			return service.ErrNoAvailableSlot
		}

		if err := u.apptRepo.CreateWithServices(tx, appointment, services); err != nil {
			return err
		}

		return u.auditService.LogCreate(tx, nil, entity.AuditActionAppointmentCreate,
			"appointment", appointment.ID.String(), map[string]interface{}{
				"patient_id":   patient.ID.String(),
				"therapist_id": therapistID.String(),
				"date":         req.Date,
				"service_ids":  serviceIDs,
			})
	})
	if err != nil {
		// Step 6: COMPENSATE - the hold must not linger after a failed write
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if releaseErr := u.slots.Release(releaseCtx, therapistID, req.Date); releaseErr != nil {
			u.log.Errorf("Failed to release slot hold after booking failure: %+v", releaseErr)
		}

		if isUniqueViolation(err) {
			// The partial unique index caught a racing insert at the exact
			// same instant.
			return nil, service.ErrNoAvailableSlot
		}
		if errors.Is(err, service.ErrNoAvailableSlot) {
			return nil, service.ErrNoAvailableSlot
		}
		u.log.Errorf("Failed to create appointment: %+v", err)
		return nil, err
	}

	full, err := u.apptRepo.FindByID(u.db.WithContext(ctx), appointment.ID)
	if err != nil || full == nil {
		u.log.Warnf("Failed to reload appointment %s: %+v", appointment.ID, err)
		return converter.AppointmentToResponse(appointment), nil
	}

	u.log.Infof("Appointment created: id=%s, therapist=%s, date=%s",
		appointment.ID, therapistID, req.Date.Format(time.RFC3339))
	return converter.AppointmentToResponse(full), nil
}

func (u *bookingUsecase) GetAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.apptRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return converter.AppointmentToResponse(appointment), nil
}

func (u *bookingUsecase) GetAppointmentsByPatient(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error) {
	appointments, err := u.apptRepo.FindByPatientID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for patient %s: %+v", patientID, err)
		return nil, err
	}
	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *bookingUsecase) GetTherapistAgenda(ctx context.Context, therapistID uuid.UUID, day time.Time) (*dto.AppointmentListResponse, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	to := from.AddDate(0, 0, 1)

	appointments, err := u.apptRepo.FindByTherapistAndRange(u.db.WithContext(ctx), therapistID, from, to)
	if err != nil {
		u.log.Warnf("Failed to find agenda for therapist %s: %+v", therapistID, err)
		return nil, err
	}
	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// upsertPatient finds the patient by email or lazily creates one. Patients
// created here never log in through this service, so they get an unguessable
// placeholder password.
func (u *bookingUsecase) upsertPatient(ctx context.Context, req *dto.CreateAppointmentRequest) (*entity.User, error) {
	existing, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), req.PatientEmail)
	if err != nil {
		u.log.Warnf("Failed to look up patient %s: %+v", req.PatientEmail, err)
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	patient := &entity.User{
		RoleID:   entity.RoleIDPatient,
		Email:    req.PatientEmail,
		Password: string(hashed),
		FullName: req.PatientName,
		Phone:    req.PatientPhone,
	}
	if err := u.userRepo.Create(u.db.WithContext(ctx), patient); err != nil {
		u.log.Warnf("Failed to create patient %s: %+v", req.PatientEmail, err)
		return nil, err
	}

	u.log.Infof("Patient created lazily by booking flow: %s", patient.ID)
	return patient, nil
}

func (u *bookingUsecase) resolveTherapist(ctx context.Context, req *dto.CreateAppointmentRequest, serviceIDs []int) (uuid.UUID, error) {
	if req.TherapistID == nil {
		return u.scheduler.AssignTherapist(ctx, serviceIDs, req.Date)
	}

	therapist, err := u.userRepo.FindActiveTherapistByID(u.db.WithContext(ctx), *req.TherapistID)
	if err != nil {
		u.log.Warnf("Failed to find therapist %s: %+v", *req.TherapistID, err)
		return uuid.Nil, err
	}
	if therapist == nil {
		return uuid.Nil, ErrTherapistNotFound
	}

	offered, err := u.userRepo.CountTherapistServices(u.db.WithContext(ctx), therapist.ID, serviceIDs)
	if err != nil {
		return uuid.Nil, err
	}
	if offered != int64(len(serviceIDs)) {
		return uuid.Nil, ErrTherapistNotQualified
	}

	free, err := u.scheduler.IsTherapistFree(ctx, therapist.ID, req.Date)
	if err != nil {
		return uuid.Nil, err
	}
	if !free {
		return uuid.Nil, service.ErrNoAvailableSlot
	}

	return therapist.ID, nil
}

func uniqueServiceIDs(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	unique := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}

// isUniqueViolation checks for a PostgreSQL unique constraint error (23505)
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
