package converter

import (
	"physio-clinic-service/internal/delivery/dto"
	"physio-clinic-service/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// Prices are stored as integer minor units and exposed as decimal major units.
var minorUnitsPerMajor = decimal.NewFromInt(100)

// PriceToMinorUnits converts a decimal major-unit price to stored minor units
func PriceToMinorUnits(price decimal.Decimal) int64 {
	return price.Mul(minorUnitsPerMajor).IntPart()
}

// MinorUnitsToPrice converts stored minor units to a decimal major-unit price
func MinorUnitsToPrice(minorUnits int64) decimal.Decimal {
	return decimal.NewFromInt(minorUnits).Div(minorUnitsPerMajor)
}

func ServiceToResponse(service *entity.Service) *dto.ServiceResponse {
	return &dto.ServiceResponse{
		ID:              service.ID,
		Name:            service.Name,
		DurationMinutes: service.DurationMinutes,
		Price:           MinorUnitsToPrice(service.PriceMinorUnits),
		IsActive:        service.IsActive,
		CreatedAt:       service.CreatedAt,
		UpdatedAt:       service.UpdatedAt,
	}
}

func ServicesToResponses(services []entity.Service) []dto.ServiceResponse {
	responses := make([]dto.ServiceResponse, len(services))
	for i := range services {
		responses[i] = *ServiceToResponse(&services[i])
	}
	return responses
}
