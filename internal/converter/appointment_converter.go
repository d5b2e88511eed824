package converter

import (
	"physio-clinic-service/internal/delivery/dto"
	"physio-clinic-service/internal/domain/entity"

	"github.com/google/uuid"
)

func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	response := &dto.AppointmentResponse{
		ID:          appointment.ID,
		PatientID:   appointment.PatientID,
		TherapistID: appointment.TherapistID,
		Date:        appointment.Date,
		Status:      string(appointment.Status),
		Notes:       appointment.Notes,
		CreatedAt:   appointment.CreatedAt,
		UpdatedAt:   appointment.UpdatedAt,
	}

	if appointment.Patient.ID != uuid.Nil {
		response.Patient = UserToResponse(&appointment.Patient)
	}
	if appointment.Therapist != nil && appointment.Therapist.ID != uuid.Nil {
		response.Therapist = UserToResponse(appointment.Therapist)
	}
	if len(appointment.Services) > 0 {
		response.Services = ServicesToResponses(appointment.Services)
	}

	return response
}

func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}
