package catalogservice

import "errors"

var (
	// ErrBranchServiceNotFound возвращается, когда услуга не предлагается на филиале
	ErrBranchServiceNotFound = errors.New("branch service not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("service not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("catalogservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("catalogservice client: invalid response")
)
