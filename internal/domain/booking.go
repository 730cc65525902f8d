package domain

import (
	"time"

	"github.com/lotus-spa/ReservationService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// Booking represents a treatment booking in the system
type Booking struct {
	ID              int64
	UserID          int64
	ServiceID       int64
	BranchID        int64
	BranchServiceID int64 // ID связки услуга+филиал (бронируемая единица)
	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          BookingStatus

	// Снимок цены на момент создания; не пересчитывается при изменении прайса филиала
	TotalPrice float64

	// VoucherUsageID ссылка на списание с подарочного сертификата, оплатившее бронирование
	VoucherUsageID *int64

	ServiceName string
	Notes       *string
	AdminNotes  *string

	CancelledAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking occupies its slot
// (pending and confirmed bookings block overlapping intervals)
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsTerminal returns true if no further status transition is legal
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanTransitionTo reports whether moving to the target status is a legal
// lifecycle transition:
//
//	pending   -> confirmed | cancelled
//	confirmed -> completed | cancelled
//
// pending -> completed is not allowed (must pass through confirmed);
// completed and cancelled are terminal.
func (b *Booking) CanTransitionTo(target BookingStatus) bool {
	switch b.Status {
	case StatusPending:
		return target == StatusConfirmed || target == StatusCancelled
	case StatusConfirmed:
		return target == StatusCompleted || target == StatusCancelled
	default:
		return false
	}
}

// BranchBookingsFilter фильтр для получения бронирований филиала
type BranchBookingsFilter struct {
	BranchID        int64
	BranchServiceID *int64         // Фильтр по бронируемой единице (опционально)
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отменённые и завершённые бронирования
}
