package models

import (
	"errors"
	"time"

	"github.com/lotus-spa/ReservationService/internal/domain"
)

var (
	// ErrInvalidType возвращается при некорректном типе шаблона
	ErrInvalidType = errors.New("invalid voucher template type")
)

// Request модели

// CreateTemplateRequest запрос на создание шаблона сертификата
type CreateTemplateRequest struct {
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	Value         float64 `json:"value"`
	Price         float64 `json:"price"`
	ServiceID     *int64  `json:"serviceId,omitempty"` // Обязателен для service_specific
	ValidityDays  int     `json:"validityDays"`
	MaxUsageCount *int    `json:"maxUsageCount,omitempty"` // Лимит выпуска; null = без ограничений
	Active        bool    `json:"active"`
}

// ToDomain конвертирует request в domain модель
func (r *CreateTemplateRequest) ToDomain() (*domain.GiftVoucherTemplate, error) {
	templateType, err := ToDomainTemplateType(r.Type)
	if err != nil {
		return nil, err
	}

	return &domain.GiftVoucherTemplate{
		Name:          r.Name,
		Type:          templateType,
		Value:         r.Value,
		Price:         r.Price,
		ServiceID:     r.ServiceID,
		ValidityDays:  r.ValidityDays,
		MaxUsageCount: r.MaxUsageCount,
		Active:        r.Active,
	}, nil
}

// UpdateTemplateRequest запрос на обновление шаблона сертификата
// Обновление полное: значения перезаписывают существующие
// Уже выпущенные сертификаты изменения шаблона не затрагивают
type UpdateTemplateRequest = CreateTemplateRequest

// Response модели

// TemplateResponse ответ с данными шаблона
type TemplateResponse struct {
	ID                int64   `json:"id"`
	Name              string  `json:"name"`
	Type              string  `json:"type"`
	Value             float64 `json:"value"`
	Price             float64 `json:"price"`
	ServiceID         *int64  `json:"serviceId,omitempty"`
	ValidityDays      int     `json:"validityDays"`
	MaxUsageCount     *int    `json:"maxUsageCount,omitempty"`
	CurrentUsageCount int     `json:"currentUsageCount"`
	Active            bool    `json:"active"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TemplateListResponse ответ со списком шаблонов
type TemplateListResponse struct {
	Templates []TemplateResponse `json:"templates"`
}

// VoucherResponse ответ с данными сертификата
type VoucherResponse struct {
	ID                int64   `json:"id"`
	TemplateID        int64   `json:"templateId"`
	Code              string  `json:"code"`
	PurchasedByUserID int64   `json:"purchasedByUserId"`
	RecipientName     *string `json:"recipientName,omitempty"`
	RecipientEmail    *string `json:"recipientEmail,omitempty"`
	Message           *string `json:"message,omitempty"`
	OriginalValue     float64 `json:"originalValue"`
	RemainingValue    float64 `json:"remainingValue"`
	Status            string  `json:"status"`
	ExpiresAt         string  `json:"expiresAt"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
}

// VoucherListResponse ответ со списком сертификатов
type VoucherListResponse struct {
	Vouchers []VoucherResponse `json:"vouchers"`
}

// UsageResponse запись журнала списаний
type UsageResponse struct {
	ID         int64   `json:"id"`
	VoucherID  int64   `json:"voucherId"`
	AmountUsed float64 `json:"amountUsed"`
	BookingID  *int64  `json:"bookingId,omitempty"`
	UsedAt     string  `json:"usedAt"` // ISO 8601 format
	Notes      *string `json:"notes,omitempty"`
}

// UsageListResponse журнал списаний сертификата
type UsageListResponse struct {
	Usages []UsageResponse `json:"usages"`
}

// Методы конвертации

// ToDomainTemplateType конвертирует строку в domain.VoucherTemplateType
func ToDomainTemplateType(s string) (domain.VoucherTemplateType, error) {
	switch domain.VoucherTemplateType(s) {
	case domain.TemplateFixedAmount, domain.TemplatePercentage, domain.TemplateServiceSpecific:
		return domain.VoucherTemplateType(s), nil
	default:
		return "", ErrInvalidType
	}
}

// FromDomainTemplate конвертирует domain модель в DTO
func FromDomainTemplate(t *domain.GiftVoucherTemplate) *TemplateResponse {
	if t == nil {
		return nil
	}

	return &TemplateResponse{
		ID:                t.ID,
		Name:              t.Name,
		Type:              string(t.Type),
		Value:             t.Value,
		Price:             t.Price,
		ServiceID:         t.ServiceID,
		ValidityDays:      t.ValidityDays,
		MaxUsageCount:     t.MaxUsageCount,
		CurrentUsageCount: t.CurrentUsageCount,
		Active:            t.Active,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

// FromDomainTemplateList конвертирует список domain моделей в DTO
func FromDomainTemplateList(templates []*domain.GiftVoucherTemplate) *TemplateListResponse {
	result := &TemplateListResponse{
		Templates: make([]TemplateResponse, 0, len(templates)),
	}

	for _, t := range templates {
		if resp := FromDomainTemplate(t); resp != nil {
			result.Templates = append(result.Templates, *resp)
		}
	}

	return result
}

// FromDomainVoucher конвертирует domain модель в DTO
func FromDomainVoucher(v *domain.GiftVoucher) *VoucherResponse {
	if v == nil {
		return nil
	}

	return &VoucherResponse{
		ID:                v.ID,
		TemplateID:        v.TemplateID,
		Code:              v.Code,
		PurchasedByUserID: v.PurchasedByUserID,
		RecipientName:     v.RecipientName,
		RecipientEmail:    v.RecipientEmail,
		Message:           v.Message,
		OriginalValue:     v.OriginalValue,
		RemainingValue:    v.RemainingValue,
		Status:            string(v.Status),
		ExpiresAt:         v.ExpiresAt.Format(time.RFC3339),
		CreatedAt:         v.CreatedAt,
	}
}

// FromDomainVoucherList конвертирует список domain моделей в DTO
func FromDomainVoucherList(vouchers []*domain.GiftVoucher) *VoucherListResponse {
	result := &VoucherListResponse{
		Vouchers: make([]VoucherResponse, 0, len(vouchers)),
	}

	for _, v := range vouchers {
		if resp := FromDomainVoucher(v); resp != nil {
			result.Vouchers = append(result.Vouchers, *resp)
		}
	}

	return result
}

// FromDomainUsageList конвертирует журнал списаний в DTO
func FromDomainUsageList(usages []*domain.GiftVoucherUsage) *UsageListResponse {
	result := &UsageListResponse{
		Usages: make([]UsageResponse, 0, len(usages)),
	}

	for _, u := range usages {
		result.Usages = append(result.Usages, UsageResponse{
			ID:         u.ID,
			VoucherID:  u.VoucherID,
			AmountUsed: u.AmountUsed,
			BookingID:  u.BookingID,
			UsedAt:     u.UsedAt.Format(time.RFC3339),
			Notes:      u.Notes,
		})
	}

	return result
}
