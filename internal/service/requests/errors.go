package requests

import "errors"

var (
	// ErrRequestNotFound возвращается, когда заявка не найдена
	ErrRequestNotFound = errors.New("requests: appointment request not found")

	// ErrAccessDenied возвращается, когда заявка принадлежит другому врачу
	ErrAccessDenied = errors.New("requests: access denied")

	// ErrInvalidStatus возвращается при неизвестном статусе
	ErrInvalidStatus = errors.New("requests: invalid status")

	// ErrInvalidTransition возвращается, когда заявку нельзя перевести в указанный статус
	ErrInvalidTransition = errors.New("requests: status transition is not allowed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("requests: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("requests: internal error")
)
