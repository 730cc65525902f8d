package purchase_voucher

import (
	"context"

	purchaseVoucher "github.com/lotus-spa/ReservationService/internal/usecase/purchase_voucher"
)

type PurchaseVoucherUseCase interface {
	Execute(ctx context.Context, req purchaseVoucher.Request) (*purchaseVoucher.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
