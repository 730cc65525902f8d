package get_voucher

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/lotus-spa/ReservationService/internal/api/handlers"
	"github.com/lotus-spa/ReservationService/internal/api/middleware"
	"github.com/lotus-spa/ReservationService/internal/service/vouchers"
)

const (
	msgMissingCode     = "код сертификата обязателен"
	msgMissingUserID   = "отсутствует ID пользователя"
	msgVoucherNotFound = "сертификат не найден"
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

// Handle GET /api/v1/vouchers/by-code/{code}
// Предъявитель кода видит баланс и срок действия перед бронированием
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	code := vars["code"]
	if code == "" {
		h.logger.Warn("GET /vouchers/by-code/{code} - Missing code")
		handlers.RespondBadRequest(w, msgMissingCode)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /vouchers/by-code/{code} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.GetVoucherByCode(r.Context(), code, userID, middleware.IsOperator(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, vouchers.ErrVoucherNotFound):
			h.logger.Warn("GET /vouchers/by-code/{code} - Voucher not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgVoucherNotFound)

		default:
			h.logger.Error("GET /vouchers/by-code/{code} - Failed to get voucher: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /vouchers/by-code/{code} - Voucher retrieved: voucher_id=%d, user_id=%d", result.ID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
