package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/lotus-spa/ReservationService/internal/api/handlers"
)

type contextKey string

const (
	userIDKey   contextKey = "userID"
	operatorKey contextKey = "isOperator"

	// HeaderUserID идентификатор пользователя, проставляется API-гейтвеем
	HeaderUserID = "X-User-ID"
	// HeaderUserRole роль пользователя: client или operator
	HeaderUserRole = "X-User-Role"

	roleOperator = "operator"
)

// Auth требует наличия валидного X-User-ID в заголовке запроса
// Аутентификация выполняется на гейтвее; сервис доверяет заголовкам
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.Header.Get(HeaderUserID), 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, "требуется заголовок X-User-ID")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		ctx = context.WithValue(ctx, operatorKey, r.Header.Get(HeaderUserRole) == roleOperator)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Operator пропускает только запросы с ролью operator
// Вешается поверх Auth
func Operator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsOperator(r.Context()) {
			handlers.RespondForbidden(w, "требуется роль оператора")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserID извлекает идентификатор пользователя из контекста запроса
func GetUserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// IsOperator извлекает признак оператора из контекста запроса
func IsOperator(ctx context.Context) bool {
	isOp, _ := ctx.Value(operatorKey).(bool)
	return isOp
}
