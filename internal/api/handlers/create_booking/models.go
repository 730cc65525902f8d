package create_booking

import (
	"time"

	"github.com/lotus-spa/ReservationService/internal/domain"
	createBooking "github.com/lotus-spa/ReservationService/internal/usecase/create_booking"
	"github.com/lotus-spa/ReservationService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	BranchID    int64   `json:"branchId"`
	ServiceID   int64   `json:"serviceId"`
	BookingDate string  `json:"bookingDate"` // "2026-08-29"
	StartTime   string  `json:"startTime"`   // "10:00"
	VoucherCode *string `json:"voucherCode,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              int64   `json:"id"`
	UserID          int64   `json:"userId"`
	BranchID        int64   `json:"branchId"`
	ServiceID       int64   `json:"serviceId"`
	BookingDate     string  `json:"bookingDate"`
	StartTime       string  `json:"startTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	ServiceName     string  `json:"serviceName"`
	TotalPrice      float64 `json:"totalPrice"`
	VoucherApplied  float64 `json:"voucherApplied"`
	VoucherUsageID  *int64  `json:"voucherUsageId,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (createBooking.Request, error) {
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return createBooking.Request{}, err
	}

	return createBooking.Request{
		UserID:      userID,
		BranchID:    r.BranchID,
		ServiceID:   r.ServiceID,
		BookingDate: r.BookingDate,
		StartTime:   startTime,
		VoucherCode: r.VoucherCode,
		Notes:       r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	b := resp.Booking

	return &BookingResponse{
		ID:              b.ID,
		UserID:          b.UserID,
		BranchID:        b.BranchID,
		ServiceID:       b.ServiceID,
		BookingDate:     b.BookingDate.Format(domain.DateFormat),
		StartTime:       b.StartTime.String(),
		DurationMinutes: b.DurationMinutes,
		Status:          string(b.Status),
		ServiceName:     b.ServiceName,
		TotalPrice:      b.TotalPrice,
		VoucherApplied:  resp.VoucherApplied,
		VoucherUsageID:  b.VoucherUsageID,
		Notes:           b.Notes,
		CreatedAt:       b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       b.UpdatedAt.Format(time.RFC3339),
	}
}
