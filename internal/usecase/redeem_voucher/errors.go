package redeem_voucher

import "errors"

var (
	// ErrInvalidInput невалидные входные данные
	ErrInvalidInput = errors.New("usecase.redeem_voucher: invalid input")

	// ErrVoucherNotFound сертификат с таким кодом не найден
	ErrVoucherNotFound = errors.New("usecase.redeem_voucher: voucher not found")

	// ErrVoucherExpired срок действия сертификата истек
	ErrVoucherExpired = errors.New("usecase.redeem_voucher: voucher is expired")

	// ErrVoucherNotActive сертификат использован или аннулирован
	ErrVoucherNotActive = errors.New("usecase.redeem_voucher: voucher is not active")

	// ErrInsufficientBalance запрошенная сумма превышает остаток на сертификате
	ErrInsufficientBalance = errors.New("usecase.redeem_voucher: insufficient balance")

	// ErrInternal внутренняя ошибка сервиса
	ErrInternal = errors.New("usecase.redeem_voucher: internal error")
)
