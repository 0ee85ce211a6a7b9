package geolocation

import "errors"

var (
	// ErrPermissionDenied возвращается, когда пользователь не разрешил доступ к геопозиции
	ErrPermissionDenied = errors.New("geolocation client: permission denied")

	// ErrPositionUnavailable возвращается, когда позиция пользователя неизвестна
	ErrPositionUnavailable = errors.New("geolocation client: position unavailable")

	// ErrRateLimited возвращается, когда лимит запросов исчерпан до истечения контекста
	ErrRateLimited = errors.New("geolocation client: rate limited")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("geolocation client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("geolocation client: invalid response")
)
