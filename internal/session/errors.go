package session

import "errors"

var (
	// ErrSessionNotFound сессия не найдена ни в кэше, ни в хранилище
	ErrSessionNotFound = errors.New("session: not found")

	// ErrSessionExpired токен сессии истек; сессия очищена
	ErrSessionExpired = errors.New("session: expired")

	// ErrSessionInvalidated backend отклонил токен (401/403), сессия больше не действует
	ErrSessionInvalidated = errors.New("session: invalidated")

	// ErrInvalidToken токен не удалось разобрать
	ErrInvalidToken = errors.New("session: invalid token")

	// ErrTokenExpired токен уже истек на момент входа
	ErrTokenExpired = errors.New("session: token expired")

	// ErrStorage ошибка хранилища сессий
	ErrStorage = errors.New("session: storage error")
)
