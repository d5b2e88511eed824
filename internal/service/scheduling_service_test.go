package service

import (
	"context"
	"testing"
	"time"

	"physio-clinic-service/config"
	"physio-clinic-service/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	therapistA = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	therapistB = uuid.MustParse("22222222-2222-2222-2222-222222222222")
)

// A Monday morning, so weekday-based coverage checks are deterministic.
var mondayTen = time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)

func newSchedulingService(t *testing.T, userRepo *mockUserRepo, apptRepo *mockAppointmentRepo, scheduleRepo *mockScheduleRepo) *SchedulingService {
	t.Helper()
	return NewSchedulingService(
		newTestDB(t),
		logrus.New(),
		config.BookingConfig{BufferMinutes: 30, LoadWindowDays: 7},
		userRepo,
		apptRepo,
		scheduleRepo,
	)
}

func fullDayWindow() []entity.Schedule {
	return []entity.Schedule{{DayOfWeek: entity.Monday, StartTime: "08:00", EndTime: "18:00"}}
}

func TestIsTherapistFree(t *testing.T) {
	apptRepo := &mockAppointmentRepo{}
	s := newSchedulingService(t, &mockUserRepo{}, apptRepo, &mockScheduleRepo{})

	apptRepo.findNonCancelledNearFn = func(id uuid.UUID, instant time.Time, bufferMinutes int) ([]entity.Appointment, error) {
		assert.Equal(t, therapistA, id)
		assert.Equal(t, 30, bufferMinutes)
		return nil, nil
	}
	free, err := s.IsTherapistFree(context.Background(), therapistA, mondayTen)
	require.NoError(t, err)
	assert.True(t, free)

	apptRepo.findNonCancelledNearFn = func(id uuid.UUID, instant time.Time, bufferMinutes int) ([]entity.Appointment, error) {
		return []entity.Appointment{{ID: uuid.New()}}, nil
	}
	free, err = s.IsTherapistFree(context.Background(), therapistA, mondayTen)
	require.NoError(t, err)
	assert.False(t, free)
}

func TestHasScheduleCoverage(t *testing.T) {
	scheduleRepo := &mockScheduleRepo{
		findActiveForTherapistDayFn: func(id uuid.UUID, day entity.DayOfWeek, excludeID int) ([]entity.Schedule, error) {
			assert.Equal(t, entity.Monday, day)
			return []entity.Schedule{{DayOfWeek: entity.Monday, StartTime: "09:00", EndTime: "12:00"}}, nil
		},
	}
	s := newSchedulingService(t, &mockUserRepo{}, &mockAppointmentRepo{}, scheduleRepo)

	covered, err := s.HasScheduleCoverage(context.Background(), therapistA, mondayTen)
	require.NoError(t, err)
	assert.True(t, covered)

	// Window end is exclusive.
	atNoon := time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC)
	covered, err = s.HasScheduleCoverage(context.Background(), therapistA, atNoon)
	require.NoError(t, err)
	assert.False(t, covered)

	atStart := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	covered, err = s.HasScheduleCoverage(context.Background(), therapistA, atStart)
	require.NoError(t, err)
	assert.True(t, covered)
}

func TestAssignTherapist_PicksLeastLoaded(t *testing.T) {
	userRepo := &mockUserRepo{
		findTherapistsOfferingServicesFn: func(serviceIDs []int) ([]uuid.UUID, error) {
			return []uuid.UUID{therapistA, therapistB}, nil
		},
	}
	apptRepo := &mockAppointmentRepo{
		countNonCancelledInWindowFn: func(id uuid.UUID, from, to time.Time) (int64, error) {
			if id == therapistA {
				return 2, nil
			}
			return 0, nil
		},
	}
	scheduleRepo := &mockScheduleRepo{
		findActiveForTherapistDayFn: func(id uuid.UUID, day entity.DayOfWeek, excludeID int) ([]entity.Schedule, error) {
			return fullDayWindow(), nil
		},
	}
	s := newSchedulingService(t, userRepo, apptRepo, scheduleRepo)

	assigned, err := s.AssignTherapist(context.Background(), []int{1, 2}, mondayTen)
	require.NoError(t, err)
	assert.Equal(t, therapistB, assigned)
}

func TestAssignTherapist_TieBreaksOnLowestID(t *testing.T) {
	userRepo := &mockUserRepo{
		findTherapistsOfferingServicesFn: func(serviceIDs []int) ([]uuid.UUID, error) {
			// Deliberately reversed: the tie-break must not depend on
			// candidate order.
			return []uuid.UUID{therapistB, therapistA}, nil
		},
	}
	apptRepo := &mockAppointmentRepo{
		countNonCancelledInWindowFn: func(id uuid.UUID, from, to time.Time) (int64, error) {
			return 3, nil
		},
	}
	scheduleRepo := &mockScheduleRepo{
		findActiveForTherapistDayFn: func(id uuid.UUID, day entity.DayOfWeek, excludeID int) ([]entity.Schedule, error) {
			return fullDayWindow(), nil
		},
	}
	s := newSchedulingService(t, userRepo, apptRepo, scheduleRepo)

	assigned, err := s.AssignTherapist(context.Background(), []int{1}, mondayTen)
	require.NoError(t, err)
	assert.Equal(t, therapistA, assigned)
}

func TestAssignTherapist_BusyCandidatesAreDropped(t *testing.T) {
	userRepo := &mockUserRepo{
		findTherapistsOfferingServicesFn: func(serviceIDs []int) ([]uuid.UUID, error) {
			return []uuid.UUID{therapistA, therapistB}, nil
		},
	}
	apptRepo := &mockAppointmentRepo{
		findNonCancelledNearFn: func(id uuid.UUID, instant time.Time, bufferMinutes int) ([]entity.Appointment, error) {
			if id == therapistA {
				return []entity.Appointment{{ID: uuid.New()}}, nil
			}
			return nil, nil
		},
		countNonCancelledInWindowFn: func(id uuid.UUID, from, to time.Time) (int64, error) {
			// A would win on load if it were still in the running.
			if id == therapistA {
				return 0, nil
			}
			return 5, nil
		},
	}
	scheduleRepo := &mockScheduleRepo{
		findActiveForTherapistDayFn: func(id uuid.UUID, day entity.DayOfWeek, excludeID int) ([]entity.Schedule, error) {
			return fullDayWindow(), nil
		},
	}
	s := newSchedulingService(t, userRepo, apptRepo, scheduleRepo)

	assigned, err := s.AssignTherapist(context.Background(), []int{1}, mondayTen)
	require.NoError(t, err)
	assert.Equal(t, therapistB, assigned)
}

func TestAssignTherapist_FallsBackToRunnerUpWithoutCoverageCheck(t *testing.T) {
	userRepo := &mockUserRepo{
		findTherapistsOfferingServicesFn: func(serviceIDs []int) ([]uuid.UUID, error) {
			return []uuid.UUID{therapistA, therapistB}, nil
		},
	}
	apptRepo := &mockAppointmentRepo{
		countNonCancelledInWindowFn: func(id uuid.UUID, from, to time.Time) (int64, error) {
			if id == therapistA {
				return 0, nil
			}
			return 1, nil
		},
	}
	coverageChecks := 0
	scheduleRepo := &mockScheduleRepo{
		findActiveForTherapistDayFn: func(id uuid.UUID, day entity.DayOfWeek, excludeID int) ([]entity.Schedule, error) {
			coverageChecks++
			return nil, nil
		},
	}
	s := newSchedulingService(t, userRepo, apptRepo, scheduleRepo)

	assigned, err := s.AssignTherapist(context.Background(), []int{1}, mondayTen)
	require.NoError(t, err)
	assert.Equal(t, therapistB, assigned)
	// Only the front-runner is coverage checked; the runner-up is accepted
	// as-is.
	assert.Equal(t, 1, coverageChecks)
}

func TestAssignTherapist_SoleCandidateWithoutCoverage(t *testing.T) {
	userRepo := &mockUserRepo{
		findTherapistsOfferingServicesFn: func(serviceIDs []int) ([]uuid.UUID, error) {
			return []uuid.UUID{therapistA}, nil
		},
	}
	scheduleRepo := &mockScheduleRepo{
		findActiveForTherapistDayFn: func(id uuid.UUID, day entity.DayOfWeek, excludeID int) ([]entity.Schedule, error) {
			return nil, nil
		},
	}
	s := newSchedulingService(t, userRepo, &mockAppointmentRepo{}, scheduleRepo)

	_, err := s.AssignTherapist(context.Background(), []int{1}, mondayTen)
	assert.ErrorIs(t, err, ErrNoAvailableSlot)
}

func TestAssignTherapist_NoEligibleTherapist(t *testing.T) {
	s := newSchedulingService(t, &mockUserRepo{}, &mockAppointmentRepo{}, &mockScheduleRepo{})

	_, err := s.AssignTherapist(context.Background(), []int{1, 2, 3}, mondayTen)
	assert.ErrorIs(t, err, ErrNoEligibleTherapist)
}

func TestAssignTherapist_AllCandidatesBusy(t *testing.T) {
	userRepo := &mockUserRepo{
		findTherapistsOfferingServicesFn: func(serviceIDs []int) ([]uuid.UUID, error) {
			return []uuid.UUID{therapistA, therapistB}, nil
		},
	}
	apptRepo := &mockAppointmentRepo{
		findNonCancelledNearFn: func(id uuid.UUID, instant time.Time, bufferMinutes int) ([]entity.Appointment, error) {
			return []entity.Appointment{{ID: uuid.New()}}, nil
		},
	}
	s := newSchedulingService(t, userRepo, apptRepo, &mockScheduleRepo{})

	_, err := s.AssignTherapist(context.Background(), []int{1}, mondayTen)
	assert.ErrorIs(t, err, ErrNoAvailableSlot)
}
