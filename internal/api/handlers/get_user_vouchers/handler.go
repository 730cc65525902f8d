package get_user_vouchers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/lotus-spa/ReservationService/internal/api/handlers"
	"github.com/lotus-spa/ReservationService/internal/api/middleware"
)

const (
	msgInvalidUserID = "некорректный ID пользователя"
	msgMissingUserID = "отсутствует ID пользователя"
	msgForbidden     = "доступ запрещен"
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

// Handle GET /api/v1/users/{userId}/vouchers
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	targetUserID, err := strconv.ParseInt(vars["userId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /users/{id}/vouchers - Invalid user ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /users/{id}/vouchers - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Свои сертификаты видит каждый, чужие - только оператор
	if targetUserID != userID && !middleware.IsOperator(r.Context()) {
		h.logger.Warn("GET /users/{id}/vouchers - Access denied: user_id=%d, target_user_id=%d", userID, targetUserID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	result, err := h.service.GetUserVouchers(r.Context(), targetUserID)
	if err != nil {
		h.logger.Error("GET /users/{id}/vouchers - Failed to get vouchers: user_id=%d, error=%v", targetUserID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /users/{id}/vouchers - Vouchers retrieved: user_id=%d, count=%d",
		targetUserID, len(result.Vouchers))
	handlers.RespondJSON(w, http.StatusOK, result)
}
