package submit_request

import "errors"

var (
	// ErrWizardNotFound возвращается, когда сессия не найдена или истекла
	ErrWizardNotFound = errors.New("submit_request: wizard not found")

	// ErrAccessDenied возвращается, когда сессия принадлежит другому пользователю
	ErrAccessDenied = errors.New("submit_request: access denied")

	// ErrConflict возвращается, когда сессию не удалось обновить из-за конкурентных изменений
	ErrConflict = errors.New("submit_request: concurrent modification")

	// ErrPersistFailed возвращается, когда заявку не удалось сохранить (сессия остается неотправленной)
	ErrPersistFailed = errors.New("submit_request: failed to persist appointment request")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("submit_request: internal error")
)
