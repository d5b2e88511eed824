package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents the centralized account table. Therapists and patients are
// both users; therapists additionally carry the set of services they offer.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RoleID    int       `gorm:"not null;index" json:"role_id"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	FullName  string    `gorm:"type:varchar(255);not null" json:"full_name"`
	Phone     string    `gorm:"type:varchar(20)" json:"phone,omitempty"`
	IsActive  *bool     `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Role     Role      `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	Services []Service `gorm:"many2many:therapist_services;joinForeignKey:TherapistID" json:"services,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// IDs are assigned client-side so the entity works on every supported driver.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsTherapist checks if the user holds the therapist role
func (u *User) IsTherapist() bool {
	return u.RoleID == RoleIDTherapist
}

// IsPatient checks if the user holds the patient role
func (u *User) IsPatient() bool {
	return u.RoleID == RoleIDPatient
}
