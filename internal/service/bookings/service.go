package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lotus-spa/ReservationService/internal/domain"
	bookingRepo "github.com/lotus-spa/ReservationService/internal/infra/storage/booking"
	"github.com/lotus-spa/ReservationService/internal/integrations/notifyservice"
	"github.com/lotus-spa/ReservationService/internal/service/bookings/models"
)

// Service сервис для работы с журналом бронирований
type Service struct {
	bookingRepo BookingRepository
	notifier    Notifier
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	notifier Notifier,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Пользователь видит только своё бронирование; оператор - любое
func (s *Service) GetByID(ctx context.Context, id int64, userID int64, isOperator bool) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.getBooking(ctx, id, "GetByID")
	if err != nil {
		return nil, err
	}

	if booking.UserID != userID && !isOperator {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetBranchBookings получает бронирования филиала с гибкой фильтрацией
// Доступно только операторам; проверка роли выполняется на уровне маршрута
func (s *Service) GetBranchBookings(ctx context.Context, req *models.GetBranchBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetBranchBookings: fetching bookings for branch=%d, includeInactive=%v",
		req.BranchID, req.IncludeInactive)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetBranchBookings: invalid filter for branch=%d: %v", req.BranchID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByBranchWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetBranchBookings: repository error for branch=%d: %v", req.BranchID, err)
		return nil, fmt.Errorf("%w: GetBranchBookings - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("GetBranchBookings: fetched %d bookings for branch=%d", len(bookings), req.BranchID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование
// Пользователь может отменить только своё бронирование; оператор - любое
// Отмена НЕ возвращает списанные с сертификата средства
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.UserID)

	booking, err := s.getBooking(ctx, bookingID, "Cancel")
	if err != nil {
		return err
	}

	if booking.UserID != req.UserID && !req.IsOperator {
		s.logger.Warn("Cancel: access denied for user=%d to booking id=%d", req.UserID, bookingID)
		return ErrAccessDenied
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return ErrCannotCancel
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, booking.Status, domain.StatusCancelled, nil); err != nil {
		// Статус успел измениться конкурентным переходом - бронирование уже не отменить
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			s.logger.Warn("Cancel: booking id=%d changed status concurrently", bookingID)
			return ErrCannotCancel
		}
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("Cancel: cancelled booking id=%d", bookingID)
	s.publishStatusChanged(booking, domain.StatusCancelled, nil)
	return nil
}

// UpdateStatus обновляет статус бронирования
// Доступно только операторам; переход проверяется по таблице жизненного цикла
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s by user=%d",
		bookingID, req.Status, req.UserID)

	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return ErrInvalidStatus
	}

	if req.AdminNotes != nil && len(*req.AdminNotes) > domain.MaxAdminNotesLength {
		s.logger.Warn("UpdateStatus: admin notes too long for booking id=%d", bookingID)
		return fmt.Errorf("%w: admin_notes must not exceed %d characters", ErrInvalidInput, domain.MaxAdminNotesLength)
	}

	booking, err := s.getBooking(ctx, bookingID, "UpdateStatus")
	if err != nil {
		return err
	}

	if !booking.CanTransitionTo(newStatus) {
		s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for booking id=%d",
			booking.Status, newStatus, bookingID)
		return ErrInvalidTransition
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, booking.Status, newStatus, req.AdminNotes); err != nil {
		// Конкурентный переход выиграл гонку - запрошенный переход больше не легален
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			s.logger.Warn("UpdateStatus: booking id=%d changed status concurrently", bookingID)
			return ErrInvalidTransition
		}
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: updated booking id=%d to status=%s", bookingID, newStatus)
	s.publishStatusChanged(booking, newStatus, req.AdminNotes)
	return nil
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, id int64, op string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
	}
	return booking, nil
}

func (s *Service) publishStatusChanged(booking *domain.Booking, newStatus domain.BookingStatus, adminNotes *string) {
	s.notifier.Publish(notifyservice.Event{
		Type:       notifyservice.EventBookingStatusChanged,
		OccurredAt: time.Now(),
		BookingEvent: &notifyservice.BookingEvent{
			BookingID:   booking.ID,
			UserID:      booking.UserID,
			BranchID:    booking.BranchID,
			ServiceName: booking.ServiceName,
			BookingDate: booking.BookingDate.Format(domain.DateFormat),
			StartTime:   booking.StartTime.String(),
			Status:      string(newStatus),
			AdminNotes:  adminNotes,
		},
	})
}
