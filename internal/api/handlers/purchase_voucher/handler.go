package purchase_voucher

import (
	"errors"
	"net/http"

	"github.com/lotus-spa/ReservationService/internal/api/handlers"
	"github.com/lotus-spa/ReservationService/internal/api/middleware"
	purchaseVoucher "github.com/lotus-spa/ReservationService/internal/usecase/purchase_voucher"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgTemplateNotFound   = "шаблон сертификата не найден"
	msgTemplateInactive   = "шаблон снят с продажи"
	msgSoldOut            = "лимит выпуска сертификатов по шаблону исчерпан"
	msgServiceNotFound    = "услуга шаблона не найдена в каталоге"
)

type Handler struct {
	useCase PurchaseVoucherUseCase
	logger  Logger
}

func NewHandler(useCase PurchaseVoucherUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/vouchers
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req PurchaseVoucherRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /vouchers - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /vouchers - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, purchaseVoucher.ErrTemplateNotFound):
			h.logger.Warn("POST /vouchers - Template not found: template_id=%d", req.TemplateID)
			handlers.RespondNotFound(w, msgTemplateNotFound)

		case errors.Is(err, purchaseVoucher.ErrTemplateInactive):
			h.logger.Warn("POST /vouchers - Template inactive: template_id=%d", req.TemplateID)
			handlers.RespondConflict(w, msgTemplateInactive)

		case errors.Is(err, purchaseVoucher.ErrSoldOut):
			h.logger.Warn("POST /vouchers - Template sold out: template_id=%d", req.TemplateID)
			handlers.RespondConflict(w, msgSoldOut)

		case errors.Is(err, purchaseVoucher.ErrServiceNotFound):
			h.logger.Warn("POST /vouchers - Service not found: template_id=%d", req.TemplateID)
			handlers.RespondUnprocessable(w, msgServiceNotFound)

		case errors.Is(err, purchaseVoucher.ErrInvalidInput):
			h.logger.Warn("POST /vouchers - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /vouchers - Failed to purchase voucher: template_id=%d, user_id=%d, error=%v",
				req.TemplateID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /vouchers - Voucher purchased: voucher_id=%d, user_id=%d", result.Voucher.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
