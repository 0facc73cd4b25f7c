package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-BookingForm/internal/api/handlers"
	"github.com/m04kA/SMC-BookingForm/internal/session"
)

// HeaderSessionID заголовок с идентификатором сессии
const HeaderSessionID = "X-Session-ID"

const (
	msgMissingSession = "sessão não informada"
	msgSessionInvalid = "sessão inválida, faça login novamente"
)

type ctxKey string

const ctxSession ctxKey = "session"

// Session восстанавливает сессию из заголовка X-Session-ID и кладет ее в контекст.
// Если во время запроса backend отклонил токен, формы сессии закрываются, а сама сессия забывается
func Session(manager SessionManager, forms FormDiscarder, log Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(HeaderSessionID))
			if id == "" {
				log.Warn("%s %s - Missing %s header", r.Method, r.URL.Path, HeaderSessionID)
				handlers.RespondUnauthorized(w, msgMissingSession)
				return
			}

			sess, err := manager.Init(r.Context(), id)
			if err != nil {
				switch {
				case errors.Is(err, session.ErrSessionInvalidated):
					log.Warn("%s %s - Session invalidated: session=%s", r.Method, r.URL.Path, id)
					dropSession(manager, forms, id)
					handlers.RespondSessionExpired(w)
				case errors.Is(err, session.ErrSessionExpired):
					log.Warn("%s %s - Session expired: session=%s", r.Method, r.URL.Path, id)
					forms.DiscardSession(id)
					handlers.RespondSessionExpired(w)
				case errors.Is(err, session.ErrSessionNotFound):
					log.Warn("%s %s - Session not found: session=%s", r.Method, r.URL.Path, id)
					handlers.RespondUnauthorized(w, msgSessionInvalid)
				default:
					log.Error("%s %s - Failed to init session: session=%s, error=%v", r.Method, r.URL.Path, id, err)
					handlers.RespondInternalError(w)
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))

			if sess.State() == session.StateInvalidated {
				log.Warn("%s %s - Session rejected by backend, closing forms: session=%s", r.Method, r.URL.Path, id)
				dropSession(manager, forms, id)
			}
		})
	}
}

// WithSession кладет сессию в контекст
func WithSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, ctxSession, sess)
}

// SessionFromContext возвращает сессию текущего запроса
func SessionFromContext(ctx context.Context) (*session.Session, bool) {
	sess, ok := ctx.Value(ctxSession).(*session.Session)
	return sess, ok && sess != nil
}

func dropSession(manager SessionManager, forms FormDiscarder, id string) {
	forms.DiscardSession(id)
	manager.Forget(id)
}
