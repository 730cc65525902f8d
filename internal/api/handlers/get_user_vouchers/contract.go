package get_user_vouchers

import (
	"context"

	"github.com/lotus-spa/ReservationService/internal/service/vouchers/models"
)

type VoucherService interface {
	GetUserVouchers(ctx context.Context, userID int64) (*models.VoucherListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
