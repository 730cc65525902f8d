package get_branch_bookings

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/lotus-spa/ReservationService/internal/api/handlers"
	"github.com/lotus-spa/ReservationService/internal/domain"
	"github.com/lotus-spa/ReservationService/internal/service/bookings"
	"github.com/lotus-spa/ReservationService/internal/service/bookings/models"
)

const (
	msgInvalidBranchID        = "некорректный ID филиала"
	msgInvalidBranchServiceID = "некорректный ID бронируемой единицы"
	msgInvalidDate            = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidFilter          = "некорректные параметры фильтрации"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/branches/{branchId}/bookings
// Query params: branchServiceId, startDate, endDate, status, includeInactive (все опциональны)
// Только для операторов; роль проверяется на уровне маршрута
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	branchID, err := strconv.ParseInt(vars["branchId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /branches/{id}/bookings - Invalid branch ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBranchID)
		return
	}

	req := &models.GetBranchBookingsRequest{BranchID: branchID}
	query := r.URL.Query()

	if raw := query.Get("branchServiceId"); raw != "" {
		branchServiceID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("GET /branches/{id}/bookings - Invalid branch service ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidBranchServiceID)
			return
		}
		req.BranchServiceID = &branchServiceID
	}

	if raw := query.Get("startDate"); raw != "" {
		startDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /branches/{id}/bookings - Invalid start date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.StartDate = &startDate
	}

	if raw := query.Get("endDate"); raw != "" {
		endDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /branches/{id}/bookings - Invalid end date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.EndDate = &endDate
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	req.IncludeInactive = query.Get("includeInactive") == "true"

	result, err := h.service.GetBranchBookings(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /branches/{id}/bookings - Invalid filter: branch_id=%d", branchID)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /branches/{id}/bookings - Failed to get bookings: branch_id=%d, error=%v", branchID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /branches/{id}/bookings - Bookings retrieved: branch_id=%d, count=%d",
		branchID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
