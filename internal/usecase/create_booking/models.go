package create_booking

import (
	"github.com/lotus-spa/ReservationService/internal/domain"
	"github.com/lotus-spa/ReservationService/pkg/types"
)

// Request запрос на создание бронирования
type Request struct {
	UserID      int64
	BranchID    int64
	ServiceID   int64
	BookingDate string
	StartTime   types.TimeString
	VoucherCode *string
	Notes       *string
}

// Response результат создания бронирования
type Response struct {
	Booking *domain.Booking
	// VoucherApplied сумма, списанная с сертификата (0, если сертификат не применялся)
	VoucherApplied float64
}
