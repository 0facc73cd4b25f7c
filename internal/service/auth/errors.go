package auth

import "errors"

var (
	// ErrInvalidCredentials возвращается при неверном e-mail или пароле
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("auth: invalid input data")

	// ErrRejected backend отклонил регистрацию или подтверждение e-mail
	ErrRejected = errors.New("auth: rejected by backend")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("auth: internal error")
)
