package create_booking

import (
	"errors"
	"net/http"

	"github.com/lotus-spa/ReservationService/internal/api/handlers"
	"github.com/lotus-spa/ReservationService/internal/api/middleware"
	createBooking "github.com/lotus-spa/ReservationService/internal/usecase/create_booking"
	redeemVoucher "github.com/lotus-spa/ReservationService/internal/usecase/redeem_voucher"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidTime          = "некорректный формат времени начала, ожидается HH:MM"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgSlotNotAvailable     = "выбранный временной слот недоступен"
	msgTreatmentUnavailable = "услуга недоступна в выбранном филиале"
	msgInvalidBookingDate   = "некорректная дата бронирования"
	msgInvalidTimeSlot      = "время начала вне рабочих часов"
	msgTooLateToBook        = "слишком поздно для бронирования этого слота"
	msgInvalidDuration      = "некорректная конфигурация услуги в каталоге"
	msgVoucherNotFound      = "сертификат не найден"
	msgVoucherExpired       = "срок действия сертификата истек"
	msgVoucherNotActive     = "сертификат не активен"
	msgInsufficientBalance  = "недостаточный остаток на сертификате"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse start time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: user_id=%d, branch_id=%d", userID, req.BranchID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrTreatmentUnavailable):
			h.logger.Warn("POST /bookings - Treatment unavailable: branch_id=%d, service_id=%d", req.BranchID, req.ServiceID)
			handlers.RespondNotFound(w, msgTreatmentUnavailable)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Invalid booking date: user_id=%d, date=%s", userID, req.BookingDate)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createBooking.ErrInvalidTimeSlot):
			h.logger.Warn("POST /bookings - Invalid time slot: user_id=%d, time=%s", userID, req.StartTime)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createBooking.ErrTooLateToBook):
			h.logger.Warn("POST /bookings - Too late to book: user_id=%d, time=%s", userID, req.StartTime)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, createBooking.ErrInvalidServiceDuration):
			h.logger.Error("POST /bookings - Invalid service duration: service_id=%d", req.ServiceID)
			handlers.RespondUnprocessable(w, msgInvalidDuration)

		case errors.Is(err, redeemVoucher.ErrVoucherNotFound):
			h.logger.Warn("POST /bookings - Voucher not found: user_id=%d", userID)
			handlers.RespondUnprocessable(w, msgVoucherNotFound)

		case errors.Is(err, redeemVoucher.ErrVoucherExpired):
			h.logger.Warn("POST /bookings - Voucher expired: user_id=%d", userID)
			handlers.RespondUnprocessable(w, msgVoucherExpired)

		case errors.Is(err, redeemVoucher.ErrVoucherNotActive):
			h.logger.Warn("POST /bookings - Voucher not active: user_id=%d", userID)
			handlers.RespondUnprocessable(w, msgVoucherNotActive)

		case errors.Is(err, redeemVoucher.ErrInsufficientBalance):
			h.logger.Warn("POST /bookings - Insufficient voucher balance: user_id=%d", userID)
			handlers.RespondUnprocessable(w, msgInsufficientBalance)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, branch_id=%d, error=%v",
				userID, req.BranchID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created: booking_id=%d, user_id=%d, voucher_applied=%.2f",
		result.Booking.ID, userID, result.VoucherApplied)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
