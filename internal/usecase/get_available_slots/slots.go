package get_available_slots

import (
	"time"

	"github.com/lotus-spa/ReservationService/internal/domain"
	"github.com/lotus-spa/ReservationService/pkg/types"
)

// generateCandidateSlots генерирует все возможные времена начала на день
// Курсор идёт от открытия с фиксированным шагом slotIntervalMinutes;
// остаются только позиции, где процедура длительностью durationMinutes
// целиком помещается до закрытия (cursor + duration <= close)
func generateCandidateSlots(
	hours domain.BusinessHours,
	slotIntervalMinutes int,
	durationMinutes int,
) ([]types.TimeString, error) {
	openTime := hours.OpenTime()
	closeTime := hours.CloseTime()

	candidates := make([]types.TimeString, 0)
	cursor := openTime

	for cursor.IsBefore(closeTime) {
		slotEnd, err := cursor.AddMinutes(durationMinutes)
		if err != nil {
			return nil, err
		}
		if slotEnd.IsAfter(closeTime) {
			break
		}

		candidates = append(candidates, cursor)

		cursor, err = cursor.AddMinutes(slotIntervalMinutes)
		if err != nil {
			return nil, err
		}
	}

	return candidates, nil
}

// filterByLeadTime отбрасывает слоты, начинающиеся раньше порога lead time
// Порог - момент времени now + minLeadTimeMinutes: слоты раньше него
// не предлагаются даже на текущий день
func filterByLeadTime(
	slots []types.TimeString,
	requestDate time.Time,
	now time.Time,
	minLeadTimeMinutes int,
) []types.TimeString {
	leadThreshold := now.Add(time.Duration(minLeadTimeMinutes) * time.Minute)

	filtered := make([]types.TimeString, 0, len(slots))
	for _, slot := range slots {
		startInstant, err := slotStartInstant(requestDate, slot)
		if err != nil {
			continue
		}
		if !startInstant.Before(leadThreshold) {
			filtered = append(filtered, slot)
		}
	}

	return filtered
}

// filterByOverlap оставляет слоты, не пересекающиеся с существующими активными бронированиями
//
// Пересечение полуинтервалов [slotStart, slotEnd) и [bookingStart, bookingEnd):
// slotStart < bookingEnd && slotEnd > bookingStart
// Строгие неравенства: соприкасающиеся границы конфликтом НЕ считаются
// (бронирование 14:00-15:00 не блокирует слот 15:00-16:00)
//
// Каждое бронирование учитывается с его СОБСТВЕННОЙ длительностью на момент создания
func filterByOverlap(
	slots []types.TimeString,
	durationMinutes int,
	bookings []*domain.Booking,
) []types.TimeString {
	free := make([]types.TimeString, 0, len(slots))

	for _, slot := range slots {
		if isSlotFree(slot, durationMinutes, bookings) {
			free = append(free, slot)
		}
	}

	return free
}

func isSlotFree(slotStart types.TimeString, durationMinutes int, bookings []*domain.Booking) bool {
	slotEnd, err := slotStart.AddMinutes(durationMinutes)
	if err != nil {
		return false
	}

	for _, booking := range bookings {
		if !booking.IsActive() {
			continue
		}

		bookingStart := booking.StartTime
		bookingEnd, err := booking.StartTime.AddMinutes(booking.DurationMinutes)
		if err != nil {
			// Если не можем вычислить конец бронирования, пропускаем
			continue
		}

		if slotStart.IsBefore(bookingEnd) && slotEnd.IsAfter(bookingStart) {
			return false
		}
	}

	return true
}

// slotStartInstant собирает момент начала слота из даты и времени суток
func slotStartInstant(date time.Time, slot types.TimeString) (time.Time, error) {
	parsed, err := slot.ToTime()
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(
		date.Year(), date.Month(), date.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0,
		date.Location(),
	), nil
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	// Обнуляем время, чтобы сравнивать только даты
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
