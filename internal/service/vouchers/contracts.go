package vouchers

import (
	"context"
	"time"

	"github.com/lotus-spa/ReservationService/internal/domain"
	"github.com/lotus-spa/ReservationService/internal/integrations/catalogservice"
)

// VoucherRepository интерфейс репозитория сертификатов
type VoucherRepository interface {
	CreateTemplate(ctx context.Context, template *domain.GiftVoucherTemplate) (*domain.GiftVoucherTemplate, error)
	GetTemplateByID(ctx context.Context, id int64) (*domain.GiftVoucherTemplate, error)
	GetAllTemplates(ctx context.Context, activeOnly bool) ([]*domain.GiftVoucherTemplate, error)
	UpdateTemplate(ctx context.Context, id int64, template *domain.GiftVoucherTemplate) (*domain.GiftVoucherTemplate, error)

	GetVoucherByID(ctx context.Context, id int64) (*domain.GiftVoucher, error)
	GetVoucherByCode(ctx context.Context, code string) (*domain.GiftVoucher, error)
	GetVouchersByUserID(ctx context.Context, userID int64) ([]*domain.GiftVoucher, error)
	UpdateVoucherStatus(ctx context.Context, id int64, status domain.VoucherStatus) error
	ExpireVoucher(ctx context.Context, id int64) error
	GetUsagesByVoucherID(ctx context.Context, voucherID int64) ([]*domain.GiftVoucherUsage, error)
}

// CatalogServiceClient интерфейс клиента для CatalogService
type CatalogServiceClient interface {
	GetService(ctx context.Context, serviceID int64) (*catalogservice.Service, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
