package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"physio-clinic-service/internal/delivery/dto"
	"physio-clinic-service/internal/service"
	"physio-clinic-service/internal/usecase"
	"physio-clinic-service/pkg/response"
	"physio-clinic-service/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AppointmentHandler struct {
	bookingUsecase usecase.BookingUsecase
	statusUsecase  usecase.AppointmentStatusUsecase
	validator      *validator.CustomValidator
}

func NewAppointmentHandler(
	bookingUsecase usecase.BookingUsecase,
	statusUsecase usecase.AppointmentStatusUsecase,
	validator *validator.CustomValidator,
) *AppointmentHandler {
	return &AppointmentHandler{
		bookingUsecase: bookingUsecase,
		statusUsecase:  statusUsecase,
		validator:      validator,
	}
}

// CreateAppointment is the public booking endpoint; no account is required.
func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.bookingUsecase.CreateAppointment(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrServiceNotFound):
			response.Error(w, http.StatusUnprocessableEntity, "Service not found or inactive", nil)
		case errors.Is(err, usecase.ErrTherapistNotFound):
			response.Error(w, http.StatusUnprocessableEntity, "Therapist not found or inactive", nil)
		case errors.Is(err, usecase.ErrTherapistNotQualified):
			response.Error(w, http.StatusUnprocessableEntity, "Therapist does not offer every requested service", nil)
		case errors.Is(err, usecase.ErrAppointmentPast):
			response.Error(w, http.StatusBadRequest, "Cannot book a past date", nil)
		case errors.Is(err, service.ErrNoEligibleTherapist):
			response.Error(w, http.StatusConflict, "No therapist available for requested services", nil)
		case errors.Is(err, service.ErrNoAvailableSlot):
			response.Error(w, http.StatusConflict, "No available therapist for date/time", nil)
		default:
			response.InternalServerError(w, "Failed to create appointment")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Appointment created successfully", appointment)
}

func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	appointment, err := h.bookingUsecase.GetAppointment(r.Context(), appointmentID)
	if err != nil {
		if errors.Is(err, usecase.ErrAppointmentNotFound) {
			response.NotFound(w, "Appointment not found")
			return
		}
		response.InternalServerError(w, "Failed to get appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

// UpdateStatus handles the administrator/therapist status PATCH
func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	var req dto.UpdateAppointmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.statusUsecase.UpdateStatus(r.Context(), appointmentID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAppointmentNotFound):
			response.NotFound(w, "Appointment not found")
		case errors.Is(err, usecase.ErrInvalidStatus):
			response.Error(w, http.StatusBadRequest, "Status is not a recognized value", nil)
		case errors.Is(err, usecase.ErrTherapistNotFound):
			response.Error(w, http.StatusUnprocessableEntity, "Therapist not found or inactive", nil)
		case errors.Is(err, usecase.ErrTherapistNotQualified):
			response.Error(w, http.StatusUnprocessableEntity, "Therapist does not offer every appointment service", nil)
		case errors.Is(err, service.ErrNoAvailableSlot):
			response.Error(w, http.StatusConflict, "Therapist is not free at the appointment time", nil)
		default:
			response.InternalServerError(w, "Failed to update appointment status")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment status updated successfully", appointment)
}

func (h *AppointmentHandler) GetPatientAppointments(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	patientID, err := uuid.Parse(vars["patientId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	appointments, err := h.bookingUsecase.GetAppointmentsByPatient(r.Context(), patientID)
	if err != nil {
		response.InternalServerError(w, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

// GetTherapistAgenda lists a therapist's appointments for one day
// (?date=YYYY-MM-DD, defaults to today).
func (h *AppointmentHandler) GetTherapistAgenda(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	therapistID, err := uuid.Parse(vars["therapistId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid therapist ID", nil)
		return
	}

	day := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		day, err = time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid date, use YYYY-MM-DD", nil)
			return
		}
	}

	appointments, err := h.bookingUsecase.GetTherapistAgenda(r.Context(), therapistID, day)
	if err != nil {
		response.InternalServerError(w, "Failed to get agenda")
		return
	}

	response.Success(w, http.StatusOK, "Agenda retrieved successfully", appointments)
}
