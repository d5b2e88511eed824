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

type ServiceHandler struct {
	catalogUsecase usecase.ServiceCatalogUsecase
	validator      *validator.CustomValidator
}

func NewServiceHandler(catalogUsecase usecase.ServiceCatalogUsecase, validator *validator.CustomValidator) *ServiceHandler {
	return &ServiceHandler{
		catalogUsecase: catalogUsecase,
		validator:      validator,
	}
}

func (h *ServiceHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	svc, err := h.catalogUsecase.CreateService(r.Context(), &req)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidPrice) {
			response.Error(w, http.StatusBadRequest, "Price must be a non-negative decimal", nil)
			return
		}
		response.InternalServerError(w, "Failed to create service")
		return
	}

	response.Success(w, http.StatusCreated, "Service created successfully", svc)
}

func (h *ServiceHandler) GetService(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	serviceID, err := strconv.Atoi(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid service ID", nil)
		return
	}

	svc, err := h.catalogUsecase.GetService(r.Context(), serviceID)
	if err != nil {
		if errors.Is(err, usecase.ErrServiceNotFound) {
			response.NotFound(w, "Service not found")
			return
		}
		response.InternalServerError(w, "Failed to get service")
		return
	}

	response.Success(w, http.StatusOK, "Service retrieved successfully", svc)
}

func (h *ServiceHandler) GetAllServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.catalogUsecase.GetAllServices(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get services")
		return
	}

	response.Success(w, http.StatusOK, "Services retrieved successfully", services)
}

func (h *ServiceHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	serviceID, err := strconv.Atoi(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid service ID", nil)
		return
	}

	var req dto.UpdateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	svc, err := h.catalogUsecase.UpdateService(r.Context(), serviceID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrServiceNotFound):
			response.NotFound(w, "Service not found")
		case errors.Is(err, usecase.ErrInvalidPrice):
			response.Error(w, http.StatusBadRequest, "Price must be a non-negative decimal", nil)
		default:
			response.InternalServerError(w, "Failed to update service")
		}
		return
	}

	response.Success(w, http.StatusOK, "Service updated successfully", svc)
}

// SetTherapistServices replaces the set of services a therapist offers
func (h *ServiceHandler) SetTherapistServices(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	therapistID, err := uuid.Parse(vars["therapistId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid therapist ID", nil)
		return
	}

	var req dto.SetTherapistServicesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.catalogUsecase.SetTherapistServices(r.Context(), therapistID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrTherapistNotFound):
			response.NotFound(w, "Therapist not found")
		case errors.Is(err, usecase.ErrServiceNotFound):
			response.Error(w, http.StatusUnprocessableEntity, "Service not found or inactive", nil)
		default:
			response.InternalServerError(w, "Failed to set therapist services")
		}
		return
	}

	response.Success(w, http.StatusOK, "Therapist services updated successfully", result)
}
