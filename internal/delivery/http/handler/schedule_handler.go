package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"physio-clinic-service/internal/delivery/dto"
	"physio-clinic-service/internal/usecase"
	"physio-clinic-service/pkg/response"
	"physio-clinic-service/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type ScheduleHandler struct {
	scheduleUsecase usecase.ScheduleUsecase
	validator       *validator.CustomValidator
}

func NewScheduleHandler(scheduleUsecase usecase.ScheduleUsecase, validator *validator.CustomValidator) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleUsecase: scheduleUsecase,
		validator:       validator,
	}
}

func (h *ScheduleHandler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	schedule, err := h.scheduleUsecase.CreateSchedule(r.Context(), &req)
	if err != nil {
		h.writeScheduleError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Schedule created successfully", schedule)
}

func (h *ScheduleHandler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	scheduleID, err := strconv.Atoi(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid schedule ID", nil)
		return
	}

	var req dto.UpdateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	schedule, err := h.scheduleUsecase.UpdateSchedule(r.Context(), scheduleID, &req)
	if err != nil {
		h.writeScheduleError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Schedule updated successfully", schedule)
}

func (h *ScheduleHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	scheduleID, err := strconv.Atoi(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid schedule ID", nil)
		return
	}

	schedule, err := h.scheduleUsecase.GetSchedule(r.Context(), scheduleID)
	if err != nil {
		h.writeScheduleError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Schedule retrieved successfully", schedule)
}

func (h *ScheduleHandler) GetSchedulesByTherapist(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	therapistID, err := uuid.Parse(vars["therapistId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid therapist ID", nil)
		return
	}

	schedules, err := h.scheduleUsecase.GetSchedulesByTherapist(r.Context(), therapistID)
	if err != nil {
		response.InternalServerError(w, "Failed to get schedules")
		return
	}

	response.Success(w, http.StatusOK, "Schedules retrieved successfully", schedules)
}

func (h *ScheduleHandler) writeScheduleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrScheduleNotFound):
		response.NotFound(w, "Schedule not found")
	case errors.Is(err, usecase.ErrScheduleOverlap):
		response.Error(w, http.StatusConflict, "Overlaps an existing schedule", nil)
	case errors.Is(err, usecase.ErrInvalidTimeRange):
		response.Error(w, http.StatusBadRequest, "End time must be after start time", nil)
	case errors.Is(err, usecase.ErrInvalidTimeFormat):
		response.Error(w, http.StatusBadRequest, "Invalid time format, use HH:MM", nil)
	case errors.Is(err, usecase.ErrInvalidDayOfWeek):
		response.Error(w, http.StatusBadRequest, "Invalid day of week", nil)
	case errors.Is(err, usecase.ErrTherapistNotFound):
		response.Error(w, http.StatusUnprocessableEntity, "Therapist not found or inactive", nil)
	case errors.Is(err, usecase.ErrServiceNotFound):
		response.Error(w, http.StatusUnprocessableEntity, "Service not found or inactive", nil)
	default:
		response.InternalServerError(w, "Failed to process schedule")
	}
}
