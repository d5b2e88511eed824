package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"physio-clinic-service/config"
	"physio-clinic-service/internal/domain/entity"
	"physio-clinic-service/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	// ErrNoEligibleTherapist is returned when no active therapist offers the
	// full requested service set.
	ErrNoEligibleTherapist = errors.New("no therapist available for requested services")
	// ErrNoAvailableSlot is returned when every eligible therapist is busy
	// around the requested instant, or the coverage fallback is exhausted.
	ErrNoAvailableSlot = errors.New("no available therapist for date/time")
)

// SchedulingService implements therapist eligibility, buffered availability
// checks and workload-balanced auto-assignment.
type SchedulingService struct {
	db           *gorm.DB
	log          *logrus.Logger
	cfg          config.BookingConfig
	userRepo     repository.UserRepository
	apptRepo     repository.AppointmentRepository
	scheduleRepo repository.ScheduleRepository
}

func NewSchedulingService(
	db *gorm.DB,
	log *logrus.Logger,
	cfg config.BookingConfig,
	userRepo repository.UserRepository,
	apptRepo repository.AppointmentRepository,
	scheduleRepo repository.ScheduleRepository,
) *SchedulingService {
	return &SchedulingService{
		db:           db,
		log:          log,
		cfg:          cfg,
		userRepo:     userRepo,
		apptRepo:     apptRepo,
		scheduleRepo: scheduleRepo,
	}
}

// FindEligibleTherapists returns active therapists offering every requested
// service. An empty result is not an error at this layer.
func (s *SchedulingService) FindEligibleTherapists(ctx context.Context, serviceIDs []int) ([]uuid.UUID, error) {
	return s.userRepo.FindTherapistsOfferingServices(s.db.WithContext(ctx), serviceIDs)
}

// IsTherapistFree reports whether the therapist has no non-cancelled
// appointment within the symmetric buffer window around t. The buffer is
// fixed, not derived from service duration: back-to-back long services are
// rejected as too close on purpose.
func (s *SchedulingService) IsTherapistFree(ctx context.Context, therapistID uuid.UUID, t time.Time) (bool, error) {
	nearby, err := s.apptRepo.FindNonCancelledNear(s.db.WithContext(ctx), therapistID, t, s.cfg.BufferMinutes)
	if err != nil {
		return false, err
	}
	return len(nearby) == 0, nil
}

// HasScheduleCoverage reports whether the therapist has an active weekly
// window matching t's weekday that contains t's wall-clock time.
func (s *SchedulingService) HasScheduleCoverage(ctx context.Context, therapistID uuid.UUID, t time.Time) (bool, error) {
	windows, err := s.scheduleRepo.FindActiveForTherapistDay(
		s.db.WithContext(ctx), therapistID, entity.DayOfWeekFromTime(t), 0)
	if err != nil {
		return false, err
	}
	wallClock := t.Format("15:04")
	for i := range windows {
		if windows[i].Contains(wallClock) {
			return true, nil
		}
	}
	return false, nil
}

type candidateLoad struct {
	therapistID uuid.UUID
	load        int64
}

// AssignTherapist picks a therapist for an unattributed booking request.
//
// Flow:
// 1. Eligibility filter over the requested service set
// 2. Drop candidates busy inside the buffer window around t
// 3. Rank survivors by non-cancelled appointment count in the rolling
//    load window starting now (not at t); ties break on lowest id
// 4. Take the least-loaded candidate if it has schedule coverage at t;
//    otherwise fall back once, unconditionally, to the second-ranked one
func (s *SchedulingService) AssignTherapist(ctx context.Context, serviceIDs []int, t time.Time) (uuid.UUID, error) {
	eligible, err := s.FindEligibleTherapists(ctx, serviceIDs)
	if err != nil {
		return uuid.Nil, err
	}
	if len(eligible) == 0 {
		return uuid.Nil, ErrNoEligibleTherapist
	}

	var free []uuid.UUID
	for _, id := range eligible {
		ok, err := s.IsTherapistFree(ctx, id, t)
		if err != nil {
			return uuid.Nil, err
		}
		if ok {
			free = append(free, id)
		}
	}
	if len(free) == 0 {
		return uuid.Nil, ErrNoAvailableSlot
	}

	now := time.Now()
	windowEnd := now.AddDate(0, 0, s.cfg.LoadWindowDays)
	candidates := make([]candidateLoad, 0, len(free))
	for _, id := range free {
		load, err := s.apptRepo.CountNonCancelledInWindow(s.db.WithContext(ctx), id, now, windowEnd)
		if err != nil {
			return uuid.Nil, err
		}
		candidates = append(candidates, candidateLoad{therapistID: id, load: load})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].load != candidates[j].load {
			return candidates[i].load < candidates[j].load
		}
		return candidates[i].therapistID.String() < candidates[j].therapistID.String()
	})

	best := candidates[0].therapistID
	covered, err := s.HasScheduleCoverage(ctx, best, t)
	if err != nil {
		return uuid.Nil, err
	}
	if covered {
		return best, nil
	}

	// Single unconditional fallback: the runner-up is taken without
	// re-checking its own coverage.
	if len(candidates) >= 2 {
		second := candidates[1].therapistID
		s.log.Infof("Therapist %s lacks schedule coverage at %s, falling back to %s",
			best, t.Format(time.RFC3339), second)
		return second, nil
	}

	return uuid.Nil, ErrNoAvailableSlot
}
