package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lotus-spa/ReservationService/internal/domain"
	catalogClient "github.com/lotus-spa/ReservationService/internal/integrations/catalogservice"
	"github.com/lotus-spa/ReservationService/internal/integrations/notifyservice"
	"github.com/lotus-spa/ReservationService/internal/usecase/redeem_voucher"
	"github.com/lotus-spa/ReservationService/pkg/types"
)

// UseCase use case для создания бронирования
//
// Создание выполняется в serializable-транзакции: бронирования дня блокируются
// через FOR UPDATE, слот перепроверяется на пересечения, цена фиксируется
// снимком из каталога. Погашение сертификата (если передан код) происходит
// в той же транзакции - либо создаются и бронирование, и списание, либо ничего
type UseCase struct {
	bookingRepo        BookingRepository
	catalogClient      CatalogServiceClient
	voucherRedeemer    VoucherRedeemer
	txManager          TransactionManager
	notifier           Notifier
	hours              domain.BusinessHours
	minLeadTimeMinutes int
	timeProvider       TimeProvider
	logger             Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	catalogClient CatalogServiceClient,
	voucherRedeemer VoucherRedeemer,
	txManager TransactionManager,
	notifier Notifier,
	hours domain.BusinessHours,
	minLeadTimeMinutes int,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:        bookingRepo,
		catalogClient:      catalogClient,
		voucherRedeemer:    voucherRedeemer,
		txManager:          txManager,
		notifier:           notifier,
		hours:              hours,
		minLeadTimeMinutes: minLeadTimeMinutes,
		timeProvider:       &RealTimeProvider{},
		logger:             logger,
	}
}

// Execute выполняет use case создания бронирования
func (uc *UseCase) Execute(ctx context.Context, req Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, branch=%d, service=%d, date=%s, time=%s",
		req.UserID, req.BranchID, req.ServiceID, req.BookingDate, req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	bookingDate, err := time.Parse(domain.DateFormat, req.BookingDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid booking_date: %w", ErrInvalidInput, err)
	}

	now := uc.timeProvider.Now()

	// 2. Дата не в прошлом
	if err := validateBookingDate(bookingDate, now); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	// 3. Получаем бронируемую единицу из каталога
	branchService, err := uc.catalogClient.GetBranchService(ctx, req.BranchID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrBranchServiceNotFound) {
			uc.logger.Warn("CreateBooking: branch=%d service=%d not offered", req.BranchID, req.ServiceID)
			return nil, ErrTreatmentUnavailable
		}
		uc.logger.Error("CreateBooking: failed to get branch service: %v", err)
		return nil, fmt.Errorf("%w: failed to get branch service: %w", ErrInternal, err)
	}

	if !branchService.IsAvailable || branchService.Service == nil || !branchService.Service.IsActive() {
		uc.logger.Warn("CreateBooking: treatment unavailable branch=%d service=%d", req.BranchID, req.ServiceID)
		return nil, ErrTreatmentUnavailable
	}

	duration := branchService.Service.DurationMinutes
	if duration <= 0 {
		uc.logger.Error("CreateBooking: service=%d has invalid duration=%d", req.ServiceID, duration)
		return nil, ErrInvalidServiceDuration
	}

	// 4. Слот целиком внутри рабочих часов
	if err := uc.validateWorkingWindow(req.StartTime, duration); err != nil {
		uc.logger.Warn("CreateBooking: working window check failed: %v", err)
		return nil, err
	}

	// 5. Проверка минимального интервала до начала
	if err := uc.validateLeadTime(bookingDate, req.StartTime, now); err != nil {
		uc.logger.Warn("CreateBooking: lead time check failed: %v", err)
		return nil, err
	}

	// 6. Создаем бронирование и (опционально) списание с сертификата атомарно
	var (
		created        *domain.Booking
		voucherApplied float64
		usage          *domain.GiftVoucherUsage
		redeemed       *domain.GiftVoucher
		expiredID      *int64
	)

	txErr := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Блокируем активные бронирования дня и перепроверяем слот:
		// результат калькулятора доступности мог устареть
		existing, err := uc.bookingRepo.GetActiveByBranchServiceAndDate(txCtx, branchService.ID, bookingDate)
		if err != nil {
			return fmt.Errorf("%w: failed to get existing bookings: %w", ErrInternal, err)
		}

		if hasOverlap(req.StartTime, duration, existing) {
			return ErrSlotNotAvailable
		}

		booking := &domain.Booking{
			UserID:          req.UserID,
			ServiceID:       req.ServiceID,
			BranchID:        req.BranchID,
			BranchServiceID: branchService.ID,
			BookingDate:     bookingDate,
			StartTime:       req.StartTime,
			DurationMinutes: duration,
			Status:          domain.StatusPending,
			// Снимок цены на момент создания: последующие изменения каталога
			// на существующие бронирования не влияют
			TotalPrice:  branchService.Price,
			ServiceName: branchService.Service.Name,
			Notes:       req.Notes,
		}

		created, err = uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		if req.VoucherCode == nil || created.TotalPrice <= 0 {
			return nil
		}

		usage, redeemed, err = uc.voucherRedeemer.RedeemForBooking(txCtx, *req.VoucherCode, created.TotalPrice, created.ID)
		if err != nil {
			// Ленивое истечение: флип статуса откатится вместе с транзакцией,
			// поэтому запоминаем сертификат и помечаем его после отката
			if errors.Is(err, redeem_voucher.ErrVoucherExpired) && redeemed != nil {
				id := redeemed.ID
				expiredID = &id
			}
			return err
		}

		if err := uc.bookingRepo.SetVoucherUsage(txCtx, created.ID, usage.ID); err != nil {
			return fmt.Errorf("%w: failed to link voucher usage: %w", ErrInternal, err)
		}

		created.VoucherUsageID = &usage.ID
		voucherApplied = usage.AmountUsed
		return nil
	})

	if txErr != nil {
		if expiredID != nil {
			uc.voucherRedeemer.MarkExpired(ctx, *expiredID)
		}
		uc.logger.Warn("CreateBooking: transaction failed user=%d: %v", req.UserID, txErr)
		return nil, txErr
	}

	uc.logger.Info("CreateBooking: created booking=%d user=%d price=%.2f voucher_applied=%.2f",
		created.ID, created.UserID, created.TotalPrice, voucherApplied)

	uc.notifier.Publish(notifyservice.Event{
		Type:       notifyservice.EventBookingCreated,
		OccurredAt: now,
		BookingEvent: &notifyservice.BookingEvent{
			BookingID:   created.ID,
			UserID:      created.UserID,
			BranchID:    created.BranchID,
			ServiceName: created.ServiceName,
			BookingDate: created.BookingDate.Format(domain.DateFormat),
			StartTime:   created.StartTime.String(),
			Status:      string(created.Status),
		},
	})

	if voucherApplied > 0 && redeemed != nil {
		uc.notifier.Publish(notifyservice.Event{
			Type:       notifyservice.EventVoucherRedeemed,
			OccurredAt: now,
			VoucherEvent: &notifyservice.VoucherEvent{
				VoucherID:      redeemed.ID,
				Code:           redeemed.Code,
				UserID:         redeemed.PurchasedByUserID,
				OriginalValue:  redeemed.OriginalValue,
				RemainingValue: redeemed.RemainingValue,
				AmountUsed:     voucherApplied,
				BookingID:      &created.ID,
				Status:         string(redeemed.Status),
			},
		})
	}

	return &Response{
		Booking:        created,
		VoucherApplied: voucherApplied,
	}, nil
}

// validateWorkingWindow проверяет, что слот целиком помещается в рабочие часы
func (uc *UseCase) validateWorkingWindow(startTime types.TimeString, durationMinutes int) error {
	openTime := uc.hours.OpenTime()
	closeTime := uc.hours.CloseTime()

	if startTime.IsBefore(openTime) {
		return ErrInvalidTimeSlot
	}

	endTime, err := startTime.AddMinutes(durationMinutes)
	if err != nil {
		return fmt.Errorf("%w: invalid start_time: %w", ErrInvalidInput, err)
	}
	if endTime.IsAfter(closeTime) {
		return ErrInvalidTimeSlot
	}

	return nil
}

// validateLeadTime проверяет минимальный интервал между "сейчас" и началом услуги
func (uc *UseCase) validateLeadTime(date time.Time, startTime types.TimeString, now time.Time) error {
	parsed, err := startTime.ToTime()
	if err != nil {
		return fmt.Errorf("%w: invalid start_time: %w", ErrInvalidInput, err)
	}

	startInstant := time.Date(
		date.Year(), date.Month(), date.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0,
		date.Location(),
	)

	leadThreshold := now.Add(time.Duration(uc.minLeadTimeMinutes) * time.Minute)
	if startInstant.Before(leadThreshold) {
		return ErrTooLateToBook
	}

	return nil
}

// hasOverlap проверяет пересечение запрошенного интервала с активными бронированиями
// Полуинтервалы: соприкасающиеся границы конфликтом не считаются
func hasOverlap(startTime types.TimeString, durationMinutes int, bookings []*domain.Booking) bool {
	endTime, err := startTime.AddMinutes(durationMinutes)
	if err != nil {
		return true
	}

	for _, booking := range bookings {
		if !booking.IsActive() {
			continue
		}

		bookingEnd, err := booking.StartTime.AddMinutes(booking.DurationMinutes)
		if err != nil {
			continue
		}

		if startTime.IsBefore(bookingEnd) && endTime.IsAfter(booking.StartTime) {
			return true
		}
	}

	return false
}
