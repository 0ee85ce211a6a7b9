package wizard

import "errors"

var (
	// ErrWizardNotFound возвращается, когда сессия мастера не найдена или истекла
	ErrWizardNotFound = errors.New("wizard.store: wizard not found")

	// ErrWizardExists возвращается при повторном создании сессии с тем же ID
	ErrWizardExists = errors.New("wizard.store: wizard already exists")

	// ErrConflict возвращается, когда оптимистичная транзакция не прошла за отведенное число попыток
	ErrConflict = errors.New("wizard.store: concurrent update conflict")

	// ErrRedis возвращается при ошибках Redis
	ErrRedis = errors.New("wizard.store: redis error")

	// ErrEncode возвращается при ошибках сериализации сессии
	ErrEncode = errors.New("wizard.store: failed to encode wizard")

	// ErrDecode возвращается при ошибках десериализации сессии
	ErrDecode = errors.New("wizard.store: failed to decode wizard")
)
