package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrSlotHeld is returned when another in-flight booking already holds the
// same therapist/instant slot.
var ErrSlotHeld = errors.New("slot is being booked by another request")

const (
	// Redis key prefix for in-flight slot holds
	redisSlotKeyPrefix = "booking:slot:"

	// How long a hold survives if the holder crashes before release
	slotHoldTTL = 2 * time.Minute
)

// SlotReservationService serializes concurrent booking attempts for the same
// therapist and instant with a short-lived Redis SETNX hold. The hold is a
// fast-path guard in front of the transactional re-check, not the source of
// truth: it is released on write failure and expires on its own otherwise.
type SlotReservationService struct {
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewSlotReservationService(redisClient *redis.Client, log *logrus.Logger) *SlotReservationService {
	return &SlotReservationService{
		redisClient: redisClient,
		log:         log,
	}
}

// Reserve takes the hold for the therapist/instant pair.
// Returns ErrSlotHeld when a concurrent request got there first.
func (s *SlotReservationService) Reserve(ctx context.Context, therapistID uuid.UUID, instant time.Time) error {
	key := s.slotKey(therapistID, instant)

	ok, err := s.redisClient.SetNX(ctx, key, "held", slotHoldTTL).Result()
	if err != nil {
		s.log.Warnf("Failed to reserve slot %s: %+v", key, err)
		return fmt.Errorf("reserve slot %s: %w", key, err)
	}
	if !ok {
		return ErrSlotHeld
	}

	s.log.Debugf("Reserved slot %s", key)
	return nil
}

// Release drops the hold. Called to compensate when the booking write fails;
// on success the hold is simply left to expire.
func (s *SlotReservationService) Release(ctx context.Context, therapistID uuid.UUID, instant time.Time) error {
	key := s.slotKey(therapistID, instant)

	if err := s.redisClient.Del(ctx, key).Err(); err != nil {
		s.log.Warnf("Failed to release slot %s: %+v", key, err)
		return fmt.Errorf("release slot %s: %w", key, err)
	}

	s.log.Debugf("Released slot %s", key)
	return nil
}

func (s *SlotReservationService) slotKey(therapistID uuid.UUID, instant time.Time) string {
	return fmt.Sprintf("%s%s:%d", redisSlotKeyPrefix, therapistID, instant.Truncate(time.Minute).Unix())
}
