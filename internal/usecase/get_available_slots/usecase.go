package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/lotus-spa/ReservationService/internal/domain"
	catalogClient "github.com/lotus-spa/ReservationService/internal/integrations/catalogservice"
)

// UseCase use case для получения доступных слотов для бронирования
//
// Слоты рассчитываются заново на каждый запрос, а не хранятся предвычисленными:
// источник истины - таблица бронирований, поэтому расчёт не может разойтись с журналом.
// Путь только на чтение, блокировок нет; ответ носит рекомендательный характер -
// путь записи обязан перепроверить слот внутри транзакции
type UseCase struct {
	bookingRepo         BookingRepository
	catalogClient       CatalogServiceClient
	hours               domain.BusinessHours
	slotIntervalMinutes int
	minLeadTimeMinutes  int
	timeProvider        TimeProvider
	logger              Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	catalogClient CatalogServiceClient,
	hours domain.BusinessHours,
	slotIntervalMinutes int,
	minLeadTimeMinutes int,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:         bookingRepo,
		catalogClient:       catalogClient,
		hours:               hours,
		slotIntervalMinutes: slotIntervalMinutes,
		minLeadTimeMinutes:  minLeadTimeMinutes,
		timeProvider:        &RealTimeProvider{},
		logger:              logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: user=%d, branch=%d, service=%d, date=%s",
		req.UserID, req.BranchID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Валидация даты
	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 4. Получаем бронируемую единицу из каталога
	branchService, err := uc.catalogClient.GetBranchService(ctx, req.BranchID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrBranchServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: branch=%d service=%d not offered", req.BranchID, req.ServiceID)
			return nil, ErrTreatmentUnavailable
		}
		uc.logger.Error("GetAvailableSlots: failed to get branch service branch=%d service=%d: %v",
			req.BranchID, req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get branch service: %w", ErrInternal, err)
	}

	// 5. Услуга должна быть доступна на филиале и активна в каталоге
	if !branchService.IsAvailable || branchService.Service == nil || !branchService.Service.IsActive() {
		uc.logger.Warn("GetAvailableSlots: treatment unavailable branch=%d service=%d", req.BranchID, req.ServiceID)
		return nil, ErrTreatmentUnavailable
	}

	// 6. Длительность услуги обязана быть положительной
	// Нулевая длительность - ошибка конфигурации каталога, отличаем её от "все занято"
	duration := branchService.Service.DurationMinutes
	if duration <= 0 {
		uc.logger.Error("GetAvailableSlots: service=%d has invalid duration=%d", req.ServiceID, duration)
		return nil, ErrInvalidServiceDuration
	}

	// 7. Генерируем кандидатов по сетке рабочего дня
	candidates, err := generateCandidateSlots(uc.hours, uc.slotIntervalMinutes, duration)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate candidate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate candidate slots: %w", ErrInternal, err)
	}

	// 8. Отбрасываем слоты раньше порога lead time
	candidates = filterByLeadTime(candidates, req.Date, now, uc.minLeadTimeMinutes)

	// 9. Загружаем активные бронирования на дату и исключаем пересечения
	bookings, err := uc.bookingRepo.GetActiveByBranchServiceAndDate(ctx, branchService.ID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
	}

	freeSlots := filterByOverlap(candidates, duration, bookings)

	slots := make([]Slot, len(freeSlots))
	for i, startTime := range freeSlots {
		slots[i] = Slot{
			StartTime:       startTime,
			DurationMinutes: duration,
		}
	}

	uc.logger.Info("GetAvailableSlots: %d slots available for branch=%d, service=%d, date=%s",
		len(slots), req.BranchID, req.ServiceID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:                   req.Date,
		BranchID:               req.BranchID,
		ServiceID:              req.ServiceID,
		BranchServiceID:        branchService.ID,
		ServiceDurationMinutes: duration,
		Slots:                  slots,
		IsFullyBooked:          len(slots) == 0,
	}, nil
}
