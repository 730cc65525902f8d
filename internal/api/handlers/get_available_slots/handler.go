package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/lotus-spa/ReservationService/internal/api/handlers"
	"github.com/lotus-spa/ReservationService/internal/api/middleware"
	getAvailableSlots "github.com/lotus-spa/ReservationService/internal/usecase/get_available_slots"
)

const (
	msgInvalidBranchID        = "некорректный ID филиала"
	msgInvalidServiceID       = "некорректный ID услуги"
	msgMissingDate            = "дата обязательна"
	msgInvalidDate            = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgDateInPast             = "дата не может быть в прошлом"
	msgTreatmentUnavailable   = "услуга недоступна в выбранном филиале"
	msgInvalidDurationCatalog = "некорректная конфигурация услуги в каталоге"
	msgMissingUserID          = "отсутствует ID пользователя"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/branches/{branchId}/services/{serviceId}/available-slots
// Query params: date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	branchID, err := strconv.ParseInt(vars["branchId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /branches/{id}/services/{id}/available-slots - Invalid branch ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBranchID)
		return
	}

	serviceID, err := strconv.ParseInt(vars["serviceId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /branches/{id}/services/{id}/available-slots - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /branches/{id}/services/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /branches/{id}/services/{id}/available-slots - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	useCaseReq, err := ToUseCaseRequest(userID, branchID, serviceID, dateStr)
	if err != nil {
		h.logger.Warn("GET /branches/{id}/services/{id}/available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrTreatmentUnavailable):
			h.logger.Warn("GET /branches/{id}/services/{id}/available-slots - Treatment unavailable: branch_id=%d, service_id=%d",
				branchID, serviceID)
			handlers.RespondNotFound(w, msgTreatmentUnavailable)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /branches/{id}/services/{id}/available-slots - Date in past: branch_id=%d, date=%s",
				branchID, dateStr)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, getAvailableSlots.ErrInvalidServiceDuration):
			h.logger.Error("GET /branches/{id}/services/{id}/available-slots - Invalid service duration: service_id=%d",
				serviceID)
			handlers.RespondUnprocessable(w, msgInvalidDurationCatalog)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /branches/{id}/services/{id}/available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /branches/{id}/services/{id}/available-slots - Failed to get slots: branch_id=%d, service_id=%d, error=%v",
				branchID, serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /branches/{id}/services/{id}/available-slots - Slots retrieved: branch_id=%d, service_id=%d, slots_count=%d",
		branchID, serviceID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
