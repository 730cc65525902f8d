package purchase_voucher

import (
	"time"

	purchaseVoucher "github.com/lotus-spa/ReservationService/internal/usecase/purchase_voucher"
)

// PurchaseVoucherRequest HTTP request model
type PurchaseVoucherRequest struct {
	TemplateID     int64   `json:"templateId"`
	RecipientName  *string `json:"recipientName,omitempty"`
	RecipientEmail *string `json:"recipientEmail,omitempty"`
	Message        *string `json:"message,omitempty"`
}

// VoucherResponse HTTP response model
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
	Price             float64 `json:"price"`
	CreatedAt         string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *PurchaseVoucherRequest) ToUseCaseRequest(userID int64) purchaseVoucher.Request {
	return purchaseVoucher.Request{
		TemplateID:     r.TemplateID,
		UserID:         userID,
		RecipientName:  r.RecipientName,
		RecipientEmail: r.RecipientEmail,
		Message:        r.Message,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *purchaseVoucher.Response) *VoucherResponse {
	v := resp.Voucher

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
		Price:             resp.Price,
		CreatedAt:         v.CreatedAt.Format(time.RFC3339),
	}
}
