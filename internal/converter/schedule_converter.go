package converter

import (
	"physio-clinic-service/internal/delivery/dto"
	"physio-clinic-service/internal/domain/entity"
)

func ScheduleToResponse(schedule *entity.Schedule) *dto.ScheduleResponse {
	response := &dto.ScheduleResponse{
		ID:          schedule.ID,
		TherapistID: schedule.TherapistID,
		DayOfWeek:   string(schedule.DayOfWeek),
		StartTime:   schedule.StartTime,
		EndTime:     schedule.EndTime,
		ServiceID:   schedule.ServiceID,
		IsActive:    schedule.IsActive,
		CreatedAt:   schedule.CreatedAt,
		UpdatedAt:   schedule.UpdatedAt,
	}

	if schedule.Service.ID != 0 {
		response.Service = ServiceToResponse(&schedule.Service)
	}

	return response
}

func SchedulesToResponses(schedules []entity.Schedule) []dto.ScheduleResponse {
	responses := make([]dto.ScheduleResponse, len(schedules))
	for i := range schedules {
		responses[i] = *ScheduleToResponse(&schedules[i])
	}
	return responses
}
