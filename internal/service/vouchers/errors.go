package vouchers

import "errors"

var (
	// ErrTemplateNotFound возвращается, когда шаблон сертификата не найден
	ErrTemplateNotFound = errors.New("voucher template not found")

	// ErrVoucherNotFound возвращается, когда сертификат не найден
	ErrVoucherNotFound = errors.New("voucher not found")

	// ErrServiceNotFound возвращается, когда услуга шаблона не найдена в каталоге
	ErrServiceNotFound = errors.New("service not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidState возвращается при недопустимом переходе статуса сертификата
	ErrInvalidState = errors.New("invalid voucher state")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
