package redeem_voucher

import (
	"context"

	redeemVoucher "github.com/lotus-spa/ReservationService/internal/usecase/redeem_voucher"
)

type RedeemVoucherUseCase interface {
	Execute(ctx context.Context, req redeemVoucher.Request) (*redeemVoucher.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
