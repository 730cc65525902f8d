package get_voucher_templates

import (
	"context"

	"github.com/lotus-spa/ReservationService/internal/service/vouchers/models"
)

type VoucherService interface {
	GetTemplates(ctx context.Context, activeOnly bool) (*models.TemplateListResponse, error)
	GetTemplateByID(ctx context.Context, id int64) (*models.TemplateResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
