package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateServiceRequest struct {
	Name            string `json:"name" validate:"required,max=255"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,gt=0,lte=480"`
	Price           string `json:"price" validate:"required"`
}

type UpdateServiceRequest struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,max=255"`
	DurationMinutes *int    `json:"duration_minutes,omitempty" validate:"omitempty,gt=0,lte=480"`
	Price           *string `json:"price,omitempty"`
	IsActive        *bool   `json:"is_active,omitempty"`
}

type SetTherapistServicesRequest struct {
	ServiceIDs []int `json:"service_ids" validate:"required,min=1,dive,gt=0"`
}

type ServiceResponse struct {
	ID              int             `json:"id"`
	Name            string          `json:"name"`
	DurationMinutes int             `json:"duration_minutes"`
	Price           decimal.Decimal `json:"price"`
	IsActive        *bool           `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
	Total    int               `json:"total"`
}

type TherapistServicesResponse struct {
	TherapistID uuid.UUID         `json:"therapist_id"`
	Services    []ServiceResponse `json:"services"`
}
