package get_voucher_usages

import (
	"context"

	"github.com/lotus-spa/ReservationService/internal/service/vouchers/models"
)

type VoucherService interface {
	GetVoucherUsages(ctx context.Context, voucherID int64, userID int64, isOperator bool) (*models.UsageListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
