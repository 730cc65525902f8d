package redeem_voucher

import (
	"context"
	"time"

	"github.com/lotus-spa/ReservationService/internal/domain"
	"github.com/lotus-spa/ReservationService/internal/integrations/notifyservice"
)

// VoucherRepository интерфейс репозитория сертификатов
type VoucherRepository interface {
	GetVoucherByCode(ctx context.Context, code string) (*domain.GiftVoucher, error)
	DebitVoucher(ctx context.Context, id int64, amount float64) (*domain.GiftVoucher, error)
	CreateUsage(ctx context.Context, usage *domain.GiftVoucherUsage) (*domain.GiftVoucherUsage, error)
	ExpireVoucher(ctx context.Context, id int64) error
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
