package purchase_voucher

import (
	"context"
	"time"

	"github.com/lotus-spa/ReservationService/internal/domain"
	"github.com/lotus-spa/ReservationService/internal/integrations/catalogservice"
	"github.com/lotus-spa/ReservationService/internal/integrations/notifyservice"
)

// VoucherRepository интерфейс репозитория сертификатов
type VoucherRepository interface {
	GetTemplateByID(ctx context.Context, id int64) (*domain.GiftVoucherTemplate, error)
	IncrementTemplateUsage(ctx context.Context, id int64) error
	CreateVoucher(ctx context.Context, voucher *domain.GiftVoucher) (*domain.GiftVoucher, error)
}

// CatalogServiceClient интерфейс клиента для CatalogService
type CatalogServiceClient interface {
	GetService(ctx context.Context, serviceID int64) (*catalogservice.Service, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier интерфейс публикации событий движка (fire-and-forget)
type Notifier interface {
	Publish(event notifyservice.Event)
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

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
