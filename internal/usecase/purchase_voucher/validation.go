package purchase_voucher

import (
	"fmt"

	"github.com/lotus-spa/ReservationService/internal/domain"
)

// validateRequest проверяет корректность входных данных
func validateRequest(req Request) error {
	if req.TemplateID <= 0 {
		return fmt.Errorf("%w: template_id must be positive", ErrInvalidInput)
	}
	if req.UserID <= 0 {
		return fmt.Errorf("%w: user_id must be positive", ErrInvalidInput)
	}
	if req.RecipientEmail != nil && *req.RecipientEmail == "" {
		return fmt.Errorf("%w: recipient_email must not be empty", ErrInvalidInput)
	}
	if req.Message != nil && len(*req.Message) > domain.MaxVoucherMessageLen {
		return fmt.Errorf("%w: message must not exceed %d characters", ErrInvalidInput, domain.MaxVoucherMessageLen)
	}
	return nil
}
