package get_form

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingForm/internal/api/handlers"
	"github.com/m04kA/SMC-BookingForm/internal/api/middleware"
)

const (
	msgFormNotFound = "formulário não encontrado"
	msgInvalidWait  = "parâmetro wait inválido, esperado true ou false"
)

// DefaultWaitTimeout сколько ждать ответа по слотам при ?wait=true
const DefaultWaitTimeout = 5 * time.Second

type Handler struct {
	forms       FormRegistry
	waitTimeout time.Duration
	logger      Logger
}

func NewHandler(forms FormRegistry, waitTimeout time.Duration, logger Logger) *Handler {
	if waitTimeout <= 0 {
		waitTimeout = DefaultWaitTimeout
	}
	return &Handler{
		forms:       forms,
		waitTimeout: waitTimeout,
		logger:      logger,
	}
}

// Handle GET /api/v1/forms/{formId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		handlers.RespondSessionExpired(w)
		return
	}
	formID := mux.Vars(r)["formId"]

	wait := false
	if raw := r.URL.Query().Get("wait"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			h.logger.Warn("GET /forms/{formId} - Invalid wait param: %s", raw)
			handlers.RespondBadRequest(w, msgInvalidWait)
			return
		}
		wait = parsed
	}

	form, err := h.forms.Get(formID, sess.ID())
	if err != nil {
		h.logger.Warn("GET /forms/{formId} - Form not found: form_id=%s, session=%s", formID, sess.ID())
		handlers.RespondNotFound(w, msgFormNotFound)
		return
	}

	if wait {
		ctx, cancel := context.WithTimeout(r.Context(), h.waitTimeout)
		err := form.WaitAvailability(ctx)
		cancel()
		// по таймауту отдаем снимок с loading=true
		if err != nil && !errors.Is(err, context.DeadlineExceeded) {
			h.logger.Warn("GET /forms/{formId} - Wait interrupted: form_id=%s, error=%v", formID, err)
		}
	}

	handlers.RespondJSON(w, http.StatusOK, handlers.FromSnapshot(form.Snapshot()))
}
