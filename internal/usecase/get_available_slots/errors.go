package get_available_slots

import "errors"

var (
	// ErrTreatmentUnavailable возвращается, когда услуга не предлагается на филиале,
	// отключена на нём или неактивна в каталоге
	ErrTreatmentUnavailable = errors.New("treatment unavailable at this branch")

	// ErrInvalidServiceDuration возвращается при некорректной длительности услуги в каталоге
	// Это ошибка конфигурации оператора, а не пользователя - она не должна
	// показываться как "все слоты заняты"
	ErrInvalidServiceDuration = errors.New("service has invalid duration configured")

	// ErrInvalidDate возвращается при некорректной дате запроса
	ErrInvalidDate = errors.New("invalid requested date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
