package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DayOfWeek is an uppercase English weekday name
type DayOfWeek string

const (
	Monday    DayOfWeek = "MONDAY"
	Tuesday   DayOfWeek = "TUESDAY"
	Wednesday DayOfWeek = "WEDNESDAY"
	Thursday  DayOfWeek = "THURSDAY"
	Friday    DayOfWeek = "FRIDAY"
	Saturday  DayOfWeek = "SATURDAY"
	Sunday    DayOfWeek = "SUNDAY"
)

// DayOfWeekFromTime maps an instant to its weekday name
func DayOfWeekFromTime(t time.Time) DayOfWeek {
	return DayOfWeek(strings.ToUpper(t.Weekday().String()))
}

// IsValid reports whether the value is one of the seven weekday names
func (d DayOfWeek) IsValid() bool {
	switch d {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return true
	}
	return false
}

// Schedule represents a therapist's recurring weekly availability window for
// one service. Times are naive "HH:MM" wall-clock strings; zero-padded values
// compare correctly as strings.
type Schedule struct {
	ID          int       `gorm:"primaryKey;autoIncrement" json:"id"`
	TherapistID uuid.UUID `gorm:"type:uuid;not null;index" json:"therapist_id"`
	DayOfWeek   DayOfWeek `gorm:"type:varchar(10);not null;index" json:"day_of_week"`
	StartTime   string    `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime     string    `gorm:"type:varchar(5);not null" json:"end_time"`
	ServiceID   int       `gorm:"not null;index" json:"service_id"`
	IsActive    *bool     `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Therapist User    `gorm:"foreignKey:TherapistID" json:"therapist,omitempty"`
	Service   Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
}

func (Schedule) TableName() string {
	return "schedules"
}

// Overlaps reports whether a proposed [start,end) window conflicts with this
// window. The three cases: the new window starts inside this one, ends inside
// this one, or fully contains it.
func (s *Schedule) Overlaps(start, end string) bool {
	if start >= s.StartTime && start < s.EndTime {
		return true
	}
	if end > s.StartTime && end <= s.EndTime {
		return true
	}
	if start <= s.StartTime && end >= s.EndTime {
		return true
	}
	return false
}

// Contains reports whether a wall-clock "HH:MM" value falls inside the
// half-open [StartTime, EndTime) window.
func (s *Schedule) Contains(wallClock string) bool {
	return wallClock >= s.StartTime && wallClock < s.EndTime
}
