package get_voucher_usages

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/lotus-spa/ReservationService/internal/api/handlers"
	"github.com/lotus-spa/ReservationService/internal/api/middleware"
	"github.com/lotus-spa/ReservationService/internal/service/vouchers"
)

const (
	msgInvalidVoucherID = "некорректный ID сертификата"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgVoucherNotFound  = "сертификат не найден"
	msgForbidden        = "доступ запрещен"
)

type Handler struct {
	service VoucherService
	logger  Logger
}

func NewHandler(service VoucherService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/vouchers/{voucherId}/usages
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	voucherID, err := strconv.ParseInt(vars["voucherId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /vouchers/{id}/usages - Invalid voucher ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidVoucherID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /vouchers/{id}/usages - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.GetVoucherUsages(r.Context(), voucherID, userID, middleware.IsOperator(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, vouchers.ErrVoucherNotFound):
			h.logger.Warn("GET /vouchers/{id}/usages - Voucher not found: voucher_id=%d", voucherID)
			handlers.RespondNotFound(w, msgVoucherNotFound)

		case errors.Is(err, vouchers.ErrAccessDenied):
			h.logger.Warn("GET /vouchers/{id}/usages - Access denied: voucher_id=%d, user_id=%d", voucherID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /vouchers/{id}/usages - Failed to get usages: voucher_id=%d, error=%v", voucherID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /vouchers/{id}/usages - Usages retrieved: voucher_id=%d, count=%d",
		voucherID, len(result.Usages))
	handlers.RespondJSON(w, http.StatusOK, result)
}
