package usecase

import (
	"context"
	"testing"
	"time"

	"physio-clinic-service/internal/domain/entity"
	"physio-clinic-service/internal/domain/repository"
	"physio-clinic-service/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Discard,
	})
	require.NoError(t, err)
	return db
}

type mockUserRepo struct {
	findActiveTherapistByIDFn func(id uuid.UUID) (*entity.User, error)
	countTherapistServicesFn  func(therapistID uuid.UUID, serviceIDs []int) (int64, error)
}

var _ repository.UserRepository = (*mockUserRepo)(nil)

func (m *mockUserRepo) Create(db *gorm.DB, user *entity.User) error { return nil }

func (m *mockUserRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) { return nil, nil }

func (m *mockUserRepo) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	return nil, nil
}

func (m *mockUserRepo) FindActiveTherapistByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	if m.findActiveTherapistByIDFn != nil {
		return m.findActiveTherapistByIDFn(id)
	}
	return nil, nil
}

func (m *mockUserRepo) FindTherapistsOfferingServices(db *gorm.DB, serviceIDs []int) ([]uuid.UUID, error) {
	return nil, nil
}

func (m *mockUserRepo) CountTherapistServices(db *gorm.DB, therapistID uuid.UUID, serviceIDs []int) (int64, error) {
	if m.countTherapistServicesFn != nil {
		return m.countTherapistServicesFn(therapistID, serviceIDs)
	}
	return 0, nil
}

func (m *mockUserRepo) ReplaceTherapistServices(db *gorm.DB, therapist *entity.User, services []entity.Service) error {
	return nil
}

type mockServiceRepo struct {
	findByIDFn func(id int) (*entity.Service, error)
}

var _ repository.ServiceRepository = (*mockServiceRepo)(nil)

func (m *mockServiceRepo) Create(db *gorm.DB, service *entity.Service) error { return nil }

func (m *mockServiceRepo) FindByID(db *gorm.DB, id int) (*entity.Service, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(id)
	}
	return nil, nil
}

func (m *mockServiceRepo) FindActiveByIDs(db *gorm.DB, ids []int) ([]entity.Service, error) {
	return nil, nil
}

func (m *mockServiceRepo) FindAll(db *gorm.DB) ([]entity.Service, error) { return nil, nil }

func (m *mockServiceRepo) Update(db *gorm.DB, service *entity.Service) error { return nil }

type mockAppointmentRepo struct {
	findByIDFn             func(id uuid.UUID) (*entity.Appointment, error)
	findNonCancelledNearFn func(therapistID uuid.UUID, instant time.Time, bufferMinutes int) ([]entity.Appointment, error)
	updateStatusFn         func(id uuid.UUID, status entity.AppointmentStatus, therapistID *uuid.UUID) (int64, error)
}

var _ repository.AppointmentRepository = (*mockAppointmentRepo)(nil)

func (m *mockAppointmentRepo) CreateWithServices(db *gorm.DB, appointment *entity.Appointment, services []entity.Service) error {
	return nil
}

func (m *mockAppointmentRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(id)
	}
	return nil, nil
}

func (m *mockAppointmentRepo) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	return nil, nil
}

func (m *mockAppointmentRepo) FindByTherapistAndRange(db *gorm.DB, therapistID uuid.UUID, from, to time.Time) ([]entity.Appointment, error) {
	return nil, nil
}

func (m *mockAppointmentRepo) FindNonCancelledNear(db *gorm.DB, therapistID uuid.UUID, instant time.Time, bufferMinutes int) ([]entity.Appointment, error) {
	if m.findNonCancelledNearFn != nil {
		return m.findNonCancelledNearFn(therapistID, instant, bufferMinutes)
	}
	return nil, nil
}

func (m *mockAppointmentRepo) FindNonCancelledNearLocked(db *gorm.DB, therapistID uuid.UUID, instant time.Time, bufferMinutes int) ([]entity.Appointment, error) {
	return m.FindNonCancelledNear(db, therapistID, instant, bufferMinutes)
}

func (m *mockAppointmentRepo) CountNonCancelledInWindow(db *gorm.DB, therapistID uuid.UUID, from, to time.Time) (int64, error) {
	return 0, nil
}

func (m *mockAppointmentRepo) UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.AppointmentStatus, therapistID *uuid.UUID) (int64, error) {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(id, status, therapistID)
	}
	return 1, nil
}

type mockScheduleRepo struct {
	createFn                    func(schedule *entity.Schedule) error
	findByIDFn                  func(id int) (*entity.Schedule, error)
	findActiveForTherapistDayFn func(therapistID uuid.UUID, day entity.DayOfWeek, excludeID int) ([]entity.Schedule, error)
	updateFn                    func(schedule *entity.Schedule) error
}

var _ repository.ScheduleRepository = (*mockScheduleRepo)(nil)

func (m *mockScheduleRepo) Create(db *gorm.DB, schedule *entity.Schedule) error {
	if m.createFn != nil {
		return m.createFn(schedule)
	}
	return nil
}

func (m *mockScheduleRepo) FindByID(db *gorm.DB, id int) (*entity.Schedule, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(id)
	}
	return nil, nil
}

func (m *mockScheduleRepo) FindByTherapistID(db *gorm.DB, therapistID uuid.UUID) ([]entity.Schedule, error) {
	return nil, nil
}

func (m *mockScheduleRepo) FindActiveForTherapistDay(db *gorm.DB, therapistID uuid.UUID, day entity.DayOfWeek, excludeID int) ([]entity.Schedule, error) {
	if m.findActiveForTherapistDayFn != nil {
		return m.findActiveForTherapistDayFn(therapistID, day, excludeID)
	}
	return nil, nil
}

func (m *mockScheduleRepo) Update(db *gorm.DB, schedule *entity.Schedule) error {
	if m.updateFn != nil {
		return m.updateFn(schedule)
	}
	return nil
}

type mockAuditService struct{}

var _ service.AuditService = (*mockAuditService)(nil)

func (m *mockAuditService) LogCreate(tx *gorm.DB, userID *uuid.UUID, action, entityName, entityID string, newValue interface{}) error {
	return nil
}

func (m *mockAuditService) LogUpdate(tx *gorm.DB, userID *uuid.UUID, action, entityName, entityID string, oldValue, newValue interface{}) error {
	return nil
}

type mockSurveyDispatcher struct {
	dispatched chan *service.SurveyRequest
	err        error
}

var _ service.SurveyDispatcher = (*mockSurveyDispatcher)(nil)

func newMockSurveyDispatcher() *mockSurveyDispatcher {
	return &mockSurveyDispatcher{dispatched: make(chan *service.SurveyRequest, 8)}
}

func (m *mockSurveyDispatcher) DispatchSatisfactionSurvey(ctx context.Context, req *service.SurveyRequest) error {
	m.dispatched <- req
	return m.err
}
