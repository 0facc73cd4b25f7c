package schedulingapi

import "context"

// Session сессия пользователя, от имени которой выполняются запросы
type Session interface {
	// Token возвращает bearer-токен; false, если сессия недействительна
	Token() (string, bool)
	// Invalidate переводит сессию в недействительное состояние (принудительный logout)
	Invalidate(ctx context.Context)
}

// Observer получатель метрик вызовов backend
type Observer interface {
	ObserveBackendCall(operation string, status int, seconds float64)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
