package update_voucher_template

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/lotus-spa/ReservationService/internal/api/handlers"
	"github.com/lotus-spa/ReservationService/internal/service/vouchers"
	"github.com/lotus-spa/ReservationService/internal/service/vouchers/models"
)

const (
	msgInvalidTemplateID  = "некорректный ID шаблона"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgTemplateNotFound   = "шаблон сертификата не найден"
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

// Handle PUT /api/v1/voucher-templates/{templateId}
// Только для операторов; уже выпущенные сертификаты не затрагиваются
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	templateID, err := strconv.ParseInt(vars["templateId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /voucher-templates/{id} - Invalid template ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTemplateID)
		return
	}

	var req models.UpdateTemplateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /voucher-templates/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateTemplate(r.Context(), templateID, &req)
	if err != nil {
		switch {
		case errors.Is(err, vouchers.ErrTemplateNotFound):
			h.logger.Warn("PUT /voucher-templates/{id} - Template not found: template_id=%d", templateID)
			handlers.RespondNotFound(w, msgTemplateNotFound)

		case errors.Is(err, vouchers.ErrServiceNotFound):
			h.logger.Warn("PUT /voucher-templates/{id} - Service not found: template_id=%d", templateID)
			handlers.RespondUnprocessable(w, msgServiceNotFound)

		case errors.Is(err, vouchers.ErrInvalidInput):
			h.logger.Warn("PUT /voucher-templates/{id} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PUT /voucher-templates/{id} - Failed to update template: template_id=%d, error=%v", templateID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /voucher-templates/{id} - Template updated: template_id=%d", templateID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
