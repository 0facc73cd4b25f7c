package booking_form

import "errors"

var (
	// ErrFormNotFound возвращается, когда форма не найдена или принадлежит другой сессии
	ErrFormNotFound = errors.New("booking_form: form not found")

	// ErrCatalogUnavailable возвращается, если каталог не загрузился при открытии формы
	ErrCatalogUnavailable = errors.New("booking_form: catalog is unavailable")

	// ErrProfessionalNotFound возвращается, когда профессионал отсутствует в каталоге
	ErrProfessionalNotFound = errors.New("booking_form: professional not found")

	// ErrServiceNotAllowed возвращается, когда услуга не входит в список услуг профессионала
	ErrServiceNotAllowed = errors.New("booking_form: service is not offered by the selected professional")

	// ErrTooManyServices возвращается при превышении лимита услуг в одной записи
	ErrTooManyServices = errors.New("booking_form: too many services")

	// ErrDateInPast возвращается, когда выбранная дата раньше сегодняшней
	ErrDateInPast = errors.New("booking_form: date is in the past")

	// ErrInvalidSlot возвращается при некорректном формате времени
	ErrInvalidSlot = errors.New("booking_form: invalid slot format")

	// ErrSlotNotAvailable возвращается, когда времени нет среди свободных слотов
	ErrSlotNotAvailable = errors.New("booking_form: slot is not available")

	// ErrIncomplete возвращается при отправке незаполненной формы
	ErrIncomplete = errors.New("booking_form: form is incomplete")

	// ErrSubmitInProgress возвращается при повторной отправке, пока первая не завершилась
	ErrSubmitInProgress = errors.New("booking_form: submission already in progress")

	// ErrSubmitRejected backend отклонил запись (4xx)
	ErrSubmitRejected = errors.New("booking_form: submission rejected")

	// ErrSubmitFailed запись не создана из-за ошибки сети или backend (5xx)
	ErrSubmitFailed = errors.New("booking_form: submission failed")

	// ErrFormClosed возвращается при обращении к закрытой форме
	ErrFormClosed = errors.New("booking_form: form is closed")
)
