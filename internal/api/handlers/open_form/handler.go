package open_form

import (
	"net/http"

	"github.com/m04kA/SMC-BookingForm/internal/api/handlers"
	"github.com/m04kA/SMC-BookingForm/internal/api/middleware"
)

type Handler struct {
	forms  FormRegistry
	logger Logger
}

func NewHandler(forms FormRegistry, logger Logger) *Handler {
	return &Handler{
		forms:  forms,
		logger: logger,
	}
}

// Handle POST /api/v1/forms
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		handlers.RespondSessionExpired(w)
		return
	}

	// Каталог грузится при открытии; его ошибка видна в catalogError, а не в статусе ответа
	form, err := h.forms.Open(r.Context(), sess)
	if err != nil {
		switch {
		case handlers.IsSessionError(err):
			h.logger.Warn("POST /forms - Session rejected by backend: session=%s", sess.ID())
			handlers.RespondSessionExpired(w)
		default:
			h.logger.Error("POST /forms - Failed to open form: session=%s, error=%v", sess.ID(), err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /forms - Form opened: form_id=%s, session=%s", form.ID(), sess.ID())
	handlers.RespondJSON(w, http.StatusCreated, handlers.FromSnapshot(form.Snapshot()))
}
