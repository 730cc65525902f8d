package purchase_voucher

import "errors"

var (
	// ErrInvalidInput невалидные входные данные
	ErrInvalidInput = errors.New("usecase.purchase_voucher: invalid input")

	// ErrTemplateNotFound шаблон сертификата не найден
	ErrTemplateNotFound = errors.New("usecase.purchase_voucher: template not found")

	// ErrTemplateInactive шаблон снят с продажи
	ErrTemplateInactive = errors.New("usecase.purchase_voucher: template is inactive")

	// ErrSoldOut достигнут лимит выпуска по шаблону
	ErrSoldOut = errors.New("usecase.purchase_voucher: template issue limit reached")

	// ErrServiceNotFound услуга для service_specific шаблона не найдена в каталоге
	ErrServiceNotFound = errors.New("usecase.purchase_voucher: service not found")

	// ErrInternal внутренняя ошибка сервиса
	ErrInternal = errors.New("usecase.purchase_voucher: internal error")
)
