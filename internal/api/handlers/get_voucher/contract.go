package get_voucher

import (
	"context"

	"github.com/lotus-spa/ReservationService/internal/service/vouchers/models"
)

type VoucherService interface {
	GetVoucherByCode(ctx context.Context, code string, userID int64, isOperator bool) (*models.VoucherResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
