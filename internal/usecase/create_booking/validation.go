package create_booking

import (
	"fmt"
	"time"

	"github.com/lotus-spa/ReservationService/internal/domain"
)

// validateRequest проверяет корректность входных данных
func validateRequest(req Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: user_id must be positive", ErrInvalidInput)
	}
	if req.BranchID <= 0 {
		return fmt.Errorf("%w: branch_id must be positive", ErrInvalidInput)
	}
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: service_id must be positive", ErrInvalidInput)
	}
	if req.BookingDate == "" {
		return fmt.Errorf("%w: booking_date is required", ErrInvalidInput)
	}
	if _, err := time.Parse(domain.DateFormat, req.BookingDate); err != nil {
		return fmt.Errorf("%w: booking_date must be in YYYY-MM-DD format", ErrInvalidInput)
	}
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: start_time must be in HH:MM format", ErrInvalidInput)
	}
	if req.VoucherCode != nil && *req.VoucherCode == "" {
		return fmt.Errorf("%w: voucher_code must not be empty", ErrInvalidInput)
	}
	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}
	return nil
}

// validateBookingDate проверяет, что дата бронирования не в прошлом
func validateBookingDate(date time.Time, now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if date.Before(today) {
		return ErrInvalidDate
	}
	return nil
}
