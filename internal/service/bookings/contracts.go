package bookings

import (
	"context"

	"github.com/lotus-spa/ReservationService/internal/domain"
	"github.com/lotus-spa/ReservationService/internal/integrations/notifyservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByBranchWithFilter(ctx context.Context, filter domain.BranchBookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, fromStatus, status domain.BookingStatus, adminNotes *string) error
}

// Notifier интерфейс публикации событий движка (fire-and-forget)
type Notifier interface {
	Publish(event notifyservice.Event)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
