package voucher

import "errors"

var (
	// ErrTemplateNotFound возвращается, когда шаблон сертификата не найден
	ErrTemplateNotFound = errors.New("voucher.repository: template not found")

	// ErrVoucherNotFound возвращается, когда сертификат не найден
	ErrVoucherNotFound = errors.New("voucher.repository: voucher not found")

	// ErrTemplateSoldOut возвращается, когда лимит выпуска шаблона исчерпан
	ErrTemplateSoldOut = errors.New("voucher.repository: template issue limit reached")

	// ErrInsufficientBalance возвращается, когда остатка на сертификате не хватает для списания
	ErrInsufficientBalance = errors.New("voucher.repository: insufficient voucher balance")

	// ErrDuplicateCode возвращается при нарушении уникальности кода сертификата
	ErrDuplicateCode = errors.New("voucher.repository: duplicate voucher code")

	// ErrTransaction возвращается при ошибках работы с транзакцией
	ErrTransaction = errors.New("voucher.repository: transaction error")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("voucher.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("voucher.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("voucher.repository: failed to scan row")
)
