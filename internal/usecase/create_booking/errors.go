package create_booking

import "errors"

var (
	// ErrInvalidInput невалидные входные данные
	ErrInvalidInput = errors.New("usecase.create_booking: invalid input")

	// ErrTreatmentUnavailable услуга не оказывается в филиале или отключена
	ErrTreatmentUnavailable = errors.New("usecase.create_booking: treatment unavailable at branch")

	// ErrInvalidServiceDuration длительность услуги в каталоге некорректна
	ErrInvalidServiceDuration = errors.New("usecase.create_booking: invalid service duration")

	// ErrInvalidDate дата бронирования в прошлом
	ErrInvalidDate = errors.New("usecase.create_booking: booking date is in the past")

	// ErrInvalidTimeSlot время начала вне рабочих часов филиала
	ErrInvalidTimeSlot = errors.New("usecase.create_booking: time slot is outside business hours")

	// ErrTooLateToBook не выдержан минимальный интервал до начала услуги
	ErrTooLateToBook = errors.New("usecase.create_booking: booking time is too soon")

	// ErrSlotNotAvailable слот пересекается с существующим активным бронированием
	ErrSlotNotAvailable = errors.New("usecase.create_booking: slot is not available")

	// ErrInternal внутренняя ошибка сервиса
	ErrInternal = errors.New("usecase.create_booking: internal error")
)
