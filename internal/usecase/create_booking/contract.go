package create_booking

import (
	"context"
	"time"

	"github.com/lotus-spa/ReservationService/internal/domain"
	"github.com/lotus-spa/ReservationService/internal/integrations/catalogservice"
	"github.com/lotus-spa/ReservationService/internal/integrations/notifyservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetActiveByBranchServiceAndDate(ctx context.Context, branchServiceID int64, date time.Time) ([]*domain.Booking, error)
	SetVoucherUsage(ctx context.Context, bookingID, usageID int64) error
}

// CatalogServiceClient интерфейс клиента для CatalogService
type CatalogServiceClient interface {
	GetBranchService(ctx context.Context, branchID, serviceID int64) (*catalogservice.BranchService, error)
}

// VoucherRedeemer списывает баланс сертификата внутри уже открытой транзакции
// Реализуется usecase погашения сертификатов
type VoucherRedeemer interface {
	// RedeemForBooking списывает с сертификата не больше maxAmount (частичная оплата допустима)
	// Контекст обязан содержать активную транзакцию
	RedeemForBooking(ctx context.Context, code string, maxAmount float64, bookingID int64) (*domain.GiftVoucherUsage, *domain.GiftVoucher, error)

	// MarkExpired помечает сертификат истёкшим вне транзакции (best-effort)
	// Используется, чтобы ленивое истечение сохранилось после отката транзакции бронирования
	MarkExpired(ctx context.Context, voucherID int64)
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
