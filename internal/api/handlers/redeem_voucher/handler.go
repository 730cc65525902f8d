package redeem_voucher

import (
	"errors"
	"net/http"

	"github.com/lotus-spa/ReservationService/internal/api/handlers"
	redeemVoucher "github.com/lotus-spa/ReservationService/internal/usecase/redeem_voucher"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgVoucherNotFound     = "сертификат не найден"
	msgVoucherExpired      = "срок действия сертификата истек"
	msgVoucherNotActive    = "сертификат не активен"
	msgInsufficientBalance = "недостаточный остаток на сертификате"
)

type Handler struct {
	useCase RedeemVoucherUseCase
	logger  Logger
}

func NewHandler(useCase RedeemVoucherUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/vouchers/redeem
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req RedeemVoucherRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /vouchers/redeem - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, redeemVoucher.ErrVoucherNotFound):
			h.logger.Warn("POST /vouchers/redeem - Voucher not found")
			handlers.RespondNotFound(w, msgVoucherNotFound)

		case errors.Is(err, redeemVoucher.ErrVoucherExpired):
			h.logger.Warn("POST /vouchers/redeem - Voucher expired")
			handlers.RespondConflict(w, msgVoucherExpired)

		case errors.Is(err, redeemVoucher.ErrVoucherNotActive):
			h.logger.Warn("POST /vouchers/redeem - Voucher not active")
			handlers.RespondConflict(w, msgVoucherNotActive)

		case errors.Is(err, redeemVoucher.ErrInsufficientBalance):
			h.logger.Warn("POST /vouchers/redeem - Insufficient balance: amount=%.2f", req.Amount)
			handlers.RespondConflict(w, msgInsufficientBalance)

		case errors.Is(err, redeemVoucher.ErrInvalidInput):
			h.logger.Warn("POST /vouchers/redeem - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /vouchers/redeem - Failed to redeem voucher: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /vouchers/redeem - Voucher redeemed: voucher_id=%d, amount=%.2f",
		result.Voucher.ID, result.Usage.AmountUsed)
	handlers.RespondJSON(w, http.StatusOK, response)
}
