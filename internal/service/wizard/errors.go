package wizard

import "errors"

var (
	// ErrWizardNotFound возвращается, когда сессия мастера не найдена или истекла
	ErrWizardNotFound = errors.New("wizard: session not found")

	// ErrAccessDenied возвращается, когда сессия принадлежит другому пользователю
	ErrAccessDenied = errors.New("wizard: access denied")

	// ErrUserNotFound возвращается, когда профиль пользователя не найден
	ErrUserNotFound = errors.New("wizard: user not found")

	// ErrBeneficiaryNotFound возвращается, когда бенефициар не найден в профиле пользователя
	ErrBeneficiaryNotFound = errors.New("wizard: beneficiary not found")

	// ErrProfileUnavailable возвращается, когда сервис профилей недоступен
	ErrProfileUnavailable = errors.New("wizard: profile service unavailable")

	// ErrConflict возвращается, когда сессию одновременно меняют несколько запросов
	ErrConflict = errors.New("wizard: concurrent update, retry")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("wizard: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("wizard: internal error")
)
