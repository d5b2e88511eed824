package usecase

import (
	"context"
	"testing"

	"physio-clinic-service/internal/delivery/dto"
	"physio-clinic-service/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scheduleTherapist = uuid.MustParse("11111111-1111-1111-1111-111111111111")

type scheduleFixture struct {
	usecase      ScheduleUsecase
	scheduleRepo *mockScheduleRepo
}

func newScheduleFixture(t *testing.T, existing []entity.Schedule) *scheduleFixture {
	t.Helper()

	active := true
	userRepo := &mockUserRepo{
		findActiveTherapistByIDFn: func(id uuid.UUID) (*entity.User, error) {
			return &entity.User{ID: id, RoleID: entity.RoleIDTherapist, IsActive: &active}, nil
		},
	}
	serviceRepo := &mockServiceRepo{
		findByIDFn: func(id int) (*entity.Service, error) {
			return &entity.Service{ID: id, Name: "Manual therapy", IsActive: &active}, nil
		},
	}
	scheduleRepo := &mockScheduleRepo{
		findActiveForTherapistDayFn: func(id uuid.UUID, day entity.DayOfWeek, excludeID int) ([]entity.Schedule, error) {
			var windows []entity.Schedule
			for _, w := range existing {
				if w.DayOfWeek == day && w.ID != excludeID {
					windows = append(windows, w)
				}
			}
			return windows, nil
		},
	}

	u := NewScheduleUsecase(newTestDB(t), logrus.New(), userRepo, serviceRepo,
		scheduleRepo, &mockAuditService{})

	return &scheduleFixture{usecase: u, scheduleRepo: scheduleRepo}
}

func createReq(day, start, end string) *dto.CreateScheduleRequest {
	return &dto.CreateScheduleRequest{
		TherapistID: scheduleTherapist,
		DayOfWeek:   day,
		StartTime:   start,
		EndTime:     end,
		ServiceID:   1,
	}
}

func TestCreateSchedule(t *testing.T) {
	existing := []entity.Schedule{{
		ID:          1,
		TherapistID: scheduleTherapist,
		DayOfWeek:   entity.Monday,
		StartTime:   "10:00",
		EndTime:     "11:00",
	}}

	tests := []struct {
		name    string
		req     *dto.CreateScheduleRequest
		wantErr error
	}{
		{"starts inside existing window", createReq("MONDAY", "10:30", "11:30"), ErrScheduleOverlap},
		{"ends inside existing window", createReq("MONDAY", "09:30", "10:30"), ErrScheduleOverlap},
		{"contains existing window", createReq("MONDAY", "09:00", "12:00"), ErrScheduleOverlap},
		{"identical window", createReq("MONDAY", "10:00", "11:00"), ErrScheduleOverlap},
		{"adjacent after", createReq("MONDAY", "11:00", "12:00"), nil},
		{"adjacent before", createReq("MONDAY", "09:00", "10:00"), nil},
		{"same window other day", createReq("TUESDAY", "10:00", "11:00"), nil},
		{"empty window", createReq("MONDAY", "14:00", "14:00"), ErrInvalidTimeRange},
		{"inverted window", createReq("MONDAY", "15:00", "14:00"), ErrInvalidTimeRange},
		{"bad time format", createReq("MONDAY", "2pm", "15:00"), ErrInvalidTimeFormat},
		{"bad day", createReq("SOMEDAY", "14:00", "15:00"), ErrInvalidDayOfWeek},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newScheduleFixture(t, existing)
			resp, err := f.usecase.CreateSchedule(context.Background(), tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, tt.req.StartTime, resp.StartTime)
			assert.Equal(t, tt.req.EndTime, resp.EndTime)
		})
	}
}

func TestUpdateSchedule_ExcludesItselfFromOverlapCheck(t *testing.T) {
	window := entity.Schedule{
		ID:          7,
		TherapistID: scheduleTherapist,
		DayOfWeek:   entity.Monday,
		StartTime:   "10:00",
		EndTime:     "11:00",
		ServiceID:   1,
	}
	f := newScheduleFixture(t, []entity.Schedule{window})
	f.scheduleRepo.findByIDFn = func(id int) (*entity.Schedule, error) {
		copied := window
		return &copied, nil
	}

	// Widening its own window must not collide with itself.
	resp, err := f.usecase.UpdateSchedule(context.Background(), 7,
		&dto.UpdateScheduleRequest{EndTime: "11:30"})
	require.NoError(t, err)
	assert.Equal(t, "11:30", resp.EndTime)
}

func TestUpdateSchedule_OverlapWithOtherWindow(t *testing.T) {
	windows := []entity.Schedule{
		{ID: 7, TherapistID: scheduleTherapist, DayOfWeek: entity.Monday, StartTime: "10:00", EndTime: "11:00", ServiceID: 1},
		{ID: 8, TherapistID: scheduleTherapist, DayOfWeek: entity.Monday, StartTime: "11:00", EndTime: "12:00", ServiceID: 1},
	}
	f := newScheduleFixture(t, windows)
	f.scheduleRepo.findByIDFn = func(id int) (*entity.Schedule, error) {
		copied := windows[0]
		return &copied, nil
	}

	_, err := f.usecase.UpdateSchedule(context.Background(), 7,
		&dto.UpdateScheduleRequest{EndTime: "11:30"})
	assert.ErrorIs(t, err, ErrScheduleOverlap)
}

func TestUpdateSchedule_DeactivatedWindowSkipsOverlapCheck(t *testing.T) {
	windows := []entity.Schedule{
		{ID: 7, TherapistID: scheduleTherapist, DayOfWeek: entity.Monday, StartTime: "10:00", EndTime: "11:00", ServiceID: 1},
		{ID: 8, TherapistID: scheduleTherapist, DayOfWeek: entity.Monday, StartTime: "10:30", EndTime: "11:30", ServiceID: 1},
	}
	f := newScheduleFixture(t, windows)
	f.scheduleRepo.findByIDFn = func(id int) (*entity.Schedule, error) {
		copied := windows[0]
		return &copied, nil
	}

	inactive := false
	resp, err := f.usecase.UpdateSchedule(context.Background(), 7,
		&dto.UpdateScheduleRequest{IsActive: &inactive})
	require.NoError(t, err)
	require.NotNil(t, resp.IsActive)
	assert.False(t, *resp.IsActive)
}

func TestUpdateSchedule_NotFound(t *testing.T) {
	f := newScheduleFixture(t, nil)

	_, err := f.usecase.UpdateSchedule(context.Background(), 404,
		&dto.UpdateScheduleRequest{EndTime: "11:30"})
	assert.ErrorIs(t, err, ErrScheduleNotFound)
}
