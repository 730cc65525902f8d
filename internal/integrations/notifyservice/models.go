package notifyservice

import "time"

// Типы событий, публикуемых движком
const (
	EventBookingCreated       = "booking-created"
	EventBookingStatusChanged = "booking-status-changed"
	EventVoucherPurchased     = "voucher-purchased"
	EventVoucherRedeemed      = "voucher-redeemed"
)

// Event событие движка для Notification Dispatcher
// Движок только публикует события; доставка (email, push) - зона ответственности коллаборатора
type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`

	BookingEvent *BookingEvent `json:"booking,omitempty"`
	VoucherEvent *VoucherEvent `json:"voucher,omitempty"`
}

// BookingEvent данные события бронирования
type BookingEvent struct {
	BookingID   int64   `json:"bookingId"`
	UserID      int64   `json:"userId"`
	BranchID    int64   `json:"branchId"`
	ServiceName string  `json:"serviceName"`
	BookingDate string  `json:"bookingDate"` // "2026-08-29"
	StartTime   string  `json:"startTime"`   // "10:00"
	Status      string  `json:"status"`
	AdminNotes  *string `json:"adminNotes,omitempty"`
}

// VoucherEvent данные события подарочного сертификата
type VoucherEvent struct {
	VoucherID      int64   `json:"voucherId"`
	Code           string  `json:"code"`
	UserID         int64   `json:"userId"`
	OriginalValue  float64 `json:"originalValue"`
	RemainingValue float64 `json:"remainingValue"`
	AmountUsed     float64 `json:"amountUsed,omitempty"`
	BookingID      *int64  `json:"bookingId,omitempty"`
	Status         string  `json:"status"`
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
