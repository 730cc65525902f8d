package create_voucher_template

import (
	"context"

	"github.com/lotus-spa/ReservationService/internal/service/vouchers/models"
)

type VoucherService interface {
	CreateTemplate(ctx context.Context, req *models.CreateTemplateRequest) (*models.TemplateResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
