package domain

import "time"

// VoucherTemplateType defines how a template prices the vouchers issued from it
type VoucherTemplateType string

const (
	// TemplateFixedAmount сертификат на фиксированную сумму (value = номинал)
	TemplateFixedAmount VoucherTemplateType = "fixed_amount"
	// TemplatePercentage процентный сертификат; номинал хранится как денежный кредит
	TemplatePercentage VoucherTemplateType = "percentage"
	// TemplateServiceSpecific сертификат на конкретную услугу; номинал = базовая цена услуги
	TemplateServiceSpecific VoucherTemplateType = "service_specific"
)

// GiftVoucherTemplate покупаемый продукт: определяет правила выпуска сертификатов
type GiftVoucherTemplate struct {
	ID    int64
	Name  string
	Type  VoucherTemplateType
	Value float64 // Сумма или процент, в зависимости от Type
	Price float64 // Цена, по которой продаётся сертификат

	// ServiceID обязателен для service_specific, иначе nil
	ServiceID *int64

	ValidityDays int

	// MaxUsageCount лимит выпуска; nil = без ограничений
	MaxUsageCount     *int
	CurrentUsageCount int

	Active bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasIssueLimit returns true if the template caps how many vouchers can be issued
func (t *GiftVoucherTemplate) HasIssueLimit() bool {
	return t.MaxUsageCount != nil
}

// IsSoldOut returns true if the issue cap has been reached
func (t *GiftVoucherTemplate) IsSoldOut() bool {
	return t.MaxUsageCount != nil && t.CurrentUsageCount >= *t.MaxUsageCount
}

// VoucherStatus represents the lifecycle state of an issued voucher
type VoucherStatus string

const (
	VoucherActive    VoucherStatus = "active"
	VoucherUsed      VoucherStatus = "used"
	VoucherExpired   VoucherStatus = "expired"
	VoucherCancelled VoucherStatus = "cancelled"
)

// GiftVoucher выпущенный подарочный сертификат с собственным балансом и кодом
type GiftVoucher struct {
	ID                int64
	TemplateID        int64
	Code              string // Уникальный код для погашения
	PurchasedByUserID int64

	RecipientName  *string
	RecipientEmail *string
	Message        *string

	OriginalValue  float64
	RemainingValue float64

	Status    VoucherStatus
	ExpiresAt time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsExpiredAt returns true if the voucher is past its expiry at the given instant
// Expiry is evaluated lazily on read/redeem, there is no background sweep
func (v *GiftVoucher) IsExpiredAt(now time.Time) bool {
	return now.After(v.ExpiresAt)
}

// CanBeRedeemed returns true if the voucher can fund a redemption right now
func (v *GiftVoucher) CanBeRedeemed(now time.Time) bool {
	return v.Status == VoucherActive && !v.IsExpiredAt(now)
}

// CanBeCancelled returns true if an operator may cancel the voucher
func (v *GiftVoucher) CanBeCancelled() bool {
	return v.Status == VoucherActive
}

// GiftVoucherUsage запись о списании с баланса сертификата
// Append-only: записи никогда не изменяются и не удаляются
type GiftVoucherUsage struct {
	ID        int64
	VoucherID int64
	// AmountUsed списанная сумма, строго положительная
	AmountUsed float64
	// BookingID бронирование, оплаченное списанием; nil = прямое погашение
	BookingID *int64
	UsedAt    time.Time
	Notes     *string
}
