package models

import (
	"errors"
	"time"

	"github.com/lotus-spa/ReservationService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	UserID     int64 `json:"userId"`
	IsOperator bool  `json:"-"`
}

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	UserID     int64   `json:"userId"`
	Status     string  `json:"status"`
	AdminNotes *string `json:"adminNotes,omitempty"`
}

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// GetBranchBookingsRequest запрос на получение бронирований филиала
type GetBranchBookingsRequest struct {
	BranchID        int64      `json:"branchId"`
	BranchServiceID *int64     `json:"branchServiceId,omitempty"` // Фильтр по бронируемой единице (опционально)
	StartDate       *time.Time `json:"startDate,omitempty"`       // Начало периода (опционально)
	EndDate         *time.Time `json:"endDate,omitempty"`         // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить завершённые и отменённые
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetBranchBookingsRequest) ToDomainFilter() (domain.BranchBookingsFilter, error) {
	filter := domain.BranchBookingsFilter{
		BranchID:        r.BranchID,
		BranchServiceID: r.BranchServiceID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64  `json:"id"`
	UserID          int64  `json:"userId"`
	BranchID        int64  `json:"branchId"`
	ServiceID       int64  `json:"serviceId"`
	BranchServiceID int64  `json:"branchServiceId"`
	BookingDate     string `json:"bookingDate"` // "2026-08-29"
	StartTime       string `json:"startTime"`   // "10:00"
	DurationMinutes int    `json:"durationMinutes"`
	Status          string `json:"status"`

	// Денормализованные данные
	ServiceName string  `json:"serviceName"`
	TotalPrice  float64 `json:"totalPrice"`

	VoucherUsageID *int64  `json:"voucherUsageId,omitempty"`
	Notes          *string `json:"notes,omitempty"`
	AdminNotes     *string `json:"adminNotes,omitempty"`
	CancelledAt    *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	switch domain.BookingStatus(s) {
	case domain.StatusPending, domain.StatusConfirmed, domain.StatusCompleted, domain.StatusCancelled:
		return domain.BookingStatus(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:              b.ID,
		UserID:          b.UserID,
		BranchID:        b.BranchID,
		ServiceID:       b.ServiceID,
		BranchServiceID: b.BranchServiceID,
		BookingDate:     b.BookingDate.Format(domain.DateFormat),
		StartTime:       b.StartTime.String(),
		DurationMinutes: b.DurationMinutes,
		Status:          string(b.Status),
		ServiceName:     b.ServiceName,
		TotalPrice:      b.TotalPrice,
		VoucherUsageID:  b.VoucherUsageID,
		Notes:           b.Notes,
		AdminNotes:      b.AdminNotes,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}

	if b.CancelledAt != nil {
		cancelledAt := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledAt
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	result := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, b := range bookings {
		if resp := FromDomainBooking(b); resp != nil {
			result.Bookings = append(result.Bookings, *resp)
		}
	}

	return result
}
