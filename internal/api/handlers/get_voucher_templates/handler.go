package get_voucher_templates

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
	msgInvalidTemplateID = "некорректный ID шаблона"
	msgTemplateNotFound  = "шаблон сертификата не найден"
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

// HandleList GET /api/v1/voucher-templates
// Витрина показывает только активные шаблоны; оператор видит все
// через includeInactive=true
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("includeInactive") == "true" && middleware.IsOperator(r.Context())

	result, err := h.service.GetTemplates(r.Context(), !includeInactive)
	if err != nil {
		h.logger.Error("GET /voucher-templates - Failed to get templates: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /voucher-templates - Templates retrieved: count=%d", len(result.Templates))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleByID GET /api/v1/voucher-templates/{templateId}
func (h *Handler) HandleByID(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	templateID, err := strconv.ParseInt(vars["templateId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /voucher-templates/{id} - Invalid template ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTemplateID)
		return
	}

	result, err := h.service.GetTemplateByID(r.Context(), templateID)
	if err != nil {
		switch {
		case errors.Is(err, vouchers.ErrTemplateNotFound):
			h.logger.Warn("GET /voucher-templates/{id} - Template not found: template_id=%d", templateID)
			handlers.RespondNotFound(w, msgTemplateNotFound)

		default:
			h.logger.Error("GET /voucher-templates/{id} - Failed to get template: template_id=%d, error=%v", templateID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /voucher-templates/{id} - Template retrieved: template_id=%d", templateID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
