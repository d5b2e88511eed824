package entity

import "time"

// Service represents a treatment offered by the clinic. Services referenced by
// a booked appointment are never deleted, only deactivated.
type Service struct {
	ID              int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`
	PriceMinorUnits int64     `gorm:"not null" json:"price_minor_units"`
	IsActive        *bool     `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Therapists []User `gorm:"many2many:therapist_services;joinReferences:TherapistID" json:"therapists,omitempty"`
}

func (Service) TableName() string {
	return "services"
}
