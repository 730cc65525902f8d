package reactivate_voucher

import "context"

type VoucherService interface {
	ReactivateVoucher(ctx context.Context, voucherID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
