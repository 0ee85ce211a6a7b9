package profileservice

import "errors"

var (
	// ErrUserNotFound возвращается, когда пользователь не найден в ProfileService
	ErrUserNotFound = errors.New("profileservice client: user not found")

	// ErrBeneficiaryNotFound возвращается, когда у пользователя нет такого бенефициара
	ErrBeneficiaryNotFound = errors.New("profileservice client: beneficiary not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("profileservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("profileservice client: invalid response")

	// ErrServiceUnavailable возвращается, когда ProfileService недоступен (сеть, 5xx)
	ErrServiceUnavailable = errors.New("profileservice unavailable")
)
