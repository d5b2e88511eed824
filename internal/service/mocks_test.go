package service

import (
	"testing"
	"time"

	"physio-clinic-service/internal/domain/entity"
	"physio-clinic-service/internal/domain/repository"

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
	findTherapistsOfferingServicesFn func(serviceIDs []int) ([]uuid.UUID, error)
	findActiveTherapistByIDFn        func(id uuid.UUID) (*entity.User, error)
	countTherapistServicesFn         func(therapistID uuid.UUID, serviceIDs []int) (int64, error)
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
	if m.findTherapistsOfferingServicesFn != nil {
		return m.findTherapistsOfferingServicesFn(serviceIDs)
	}
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

type mockAppointmentRepo struct {
	findNonCancelledNearFn      func(therapistID uuid.UUID, instant time.Time, bufferMinutes int) ([]entity.Appointment, error)
	countNonCancelledInWindowFn func(therapistID uuid.UUID, from, to time.Time) (int64, error)
}

var _ repository.AppointmentRepository = (*mockAppointmentRepo)(nil)

func (m *mockAppointmentRepo) CreateWithServices(db *gorm.DB, appointment *entity.Appointment, services []entity.Service) error {
	return nil
}

func (m *mockAppointmentRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
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
	if m.countNonCancelledInWindowFn != nil {
		return m.countNonCancelledInWindowFn(therapistID, from, to)
	}
	return 0, nil
}

func (m *mockAppointmentRepo) UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.AppointmentStatus, therapistID *uuid.UUID) (int64, error) {
	return 0, nil
}

type mockScheduleRepo struct {
	findActiveForTherapistDayFn func(therapistID uuid.UUID, day entity.DayOfWeek, excludeID int) ([]entity.Schedule, error)
}

var _ repository.ScheduleRepository = (*mockScheduleRepo)(nil)

func (m *mockScheduleRepo) Create(db *gorm.DB, schedule *entity.Schedule) error { return nil }

func (m *mockScheduleRepo) FindByID(db *gorm.DB, id int) (*entity.Schedule, error) {
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

func (m *mockScheduleRepo) Update(db *gorm.DB, schedule *entity.Schedule) error { return nil }
