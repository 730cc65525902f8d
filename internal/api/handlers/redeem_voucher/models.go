package redeem_voucher

import (
	"time"

	redeemVoucher "github.com/lotus-spa/ReservationService/internal/usecase/redeem_voucher"
)

// RedeemVoucherRequest HTTP request model
type RedeemVoucherRequest struct {
	Code      string  `json:"code"`
	Amount    float64 `json:"amount"`
	BookingID *int64  `json:"bookingId,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// RedeemVoucherResponse HTTP response model
type RedeemVoucherResponse struct {
	UsageID        int64   `json:"usageId"`
	VoucherID      int64   `json:"voucherId"`
	Code           string  `json:"code"`
	AmountUsed     float64 `json:"amountUsed"`
	RemainingValue float64 `json:"remainingValue"`
	Status         string  `json:"status"`
	UsedAt         string  `json:"usedAt"` // ISO 8601 format
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RedeemVoucherRequest) ToUseCaseRequest() redeemVoucher.Request {
	return redeemVoucher.Request{
		Code:      r.Code,
		Amount:    r.Amount,
		BookingID: r.BookingID,
		Notes:     r.Notes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *redeemVoucher.Response) *RedeemVoucherResponse {
	return &RedeemVoucherResponse{
		UsageID:        resp.Usage.ID,
		VoucherID:      resp.Voucher.ID,
		Code:           resp.Voucher.Code,
		AmountUsed:     resp.Usage.AmountUsed,
		RemainingValue: resp.Voucher.RemainingValue,
		Status:         string(resp.Voucher.Status),
		UsedAt:         resp.Usage.UsedAt.Format(time.RFC3339),
	}
}
