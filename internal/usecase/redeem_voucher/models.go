package redeem_voucher

import "github.com/lotus-spa/ReservationService/internal/domain"

// Request запрос на погашение сертификата
type Request struct {
	Code   string
	Amount float64
	// BookingID бронирование, к которому привязывается списание (опционально)
	BookingID *int64
	Notes     *string
}

// Response результат погашения сертификата
type Response struct {
	Usage   *domain.GiftVoucherUsage
	Voucher *domain.GiftVoucher
}
