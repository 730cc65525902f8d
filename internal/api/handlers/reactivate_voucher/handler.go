package reactivate_voucher

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/lotus-spa/ReservationService/internal/api/handlers"
	"github.com/lotus-spa/ReservationService/internal/service/vouchers"
)

const (
	msgInvalidVoucherID = "некорректный ID сертификата"
	msgVoucherNotFound  = "сертификат не найден"
	msgInvalidState     = "сертификат нельзя реактивировать в текущем статусе"
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

// Handle PATCH /api/v1/vouchers/{voucherId}/reactivate
// Только для операторов; отменяет ошибочное аннулирование
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	voucherID, err := strconv.ParseInt(vars["voucherId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /vouchers/{id}/reactivate - Invalid voucher ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidVoucherID)
		return
	}

	if err := h.service.ReactivateVoucher(r.Context(), voucherID); err != nil {
		switch {
		case errors.Is(err, vouchers.ErrVoucherNotFound):
			h.logger.Warn("PATCH /vouchers/{id}/reactivate - Voucher not found: voucher_id=%d", voucherID)
			handlers.RespondNotFound(w, msgVoucherNotFound)

		case errors.Is(err, vouchers.ErrInvalidState):
			h.logger.Warn("PATCH /vouchers/{id}/reactivate - Invalid state: voucher_id=%d", voucherID)
			handlers.RespondConflict(w, msgInvalidState)

		default:
			h.logger.Error("PATCH /vouchers/{id}/reactivate - Failed to reactivate voucher: voucher_id=%d, error=%v", voucherID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /vouchers/{id}/reactivate - Voucher reactivated: voucher_id=%d", voucherID)
	w.WriteHeader(http.StatusNoContent)
}
