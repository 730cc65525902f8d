package redeem_voucher

import "fmt"

// validateRequest проверяет корректность входных данных
func validateRequest(req Request) error {
	if req.Code == "" {
		return fmt.Errorf("%w: code is required", ErrInvalidInput)
	}
	if req.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if req.BookingID != nil && *req.BookingID <= 0 {
		return fmt.Errorf("%w: booking_id must be positive", ErrInvalidInput)
	}
	return nil
}
