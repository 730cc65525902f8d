package create_voucher_template

import (
	"errors"
	"net/http"

	"github.com/lotus-spa/ReservationService/internal/api/handlers"
	"github.com/lotus-spa/ReservationService/internal/service/vouchers"
	"github.com/lotus-spa/ReservationService/internal/service/vouchers/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgServiceNotFound    = "услуга не найдена в каталоге"
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

// Handle POST /api/v1/voucher-templates
// Только для операторов; роль проверяется на уровне маршрута
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTemplateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /voucher-templates - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.CreateTemplate(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, vouchers.ErrServiceNotFound):
			h.logger.Warn("POST /voucher-templates - Service not found: service_id=%v", req.ServiceID)
			handlers.RespondUnprocessable(w, msgServiceNotFound)

		case errors.Is(err, vouchers.ErrInvalidInput):
			h.logger.Warn("POST /voucher-templates - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /voucher-templates - Failed to create template: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /voucher-templates - Template created: template_id=%d", result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
