package locate_address

import "errors"

var (
	// ErrWizardNotFound возвращается, когда сессия мастера не найдена или истекла
	ErrWizardNotFound = errors.New("locate_address: wizard not found")

	// ErrAccessDenied возвращается, когда сессия принадлежит другому пользователю
	ErrAccessDenied = errors.New("locate_address: access denied")

	// ErrConflict возвращается, когда сессию одновременно меняют несколько запросов
	ErrConflict = errors.New("locate_address: concurrent update, retry")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("locate_address: internal error")

	// errStaleLookup отменяет запись устаревшего результата
	errStaleLookup = errors.New("locate_address: stale lookup")
)
