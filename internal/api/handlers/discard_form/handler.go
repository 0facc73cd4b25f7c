package discard_form

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingForm/internal/api/handlers"
	"github.com/m04kA/SMC-BookingForm/internal/api/middleware"
	bookingForm "github.com/m04kA/SMC-BookingForm/internal/usecase/booking_form"
)

const msgFormNotFound = "formulário não encontrado"

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

// Handle DELETE /api/v1/forms/{formId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		handlers.RespondSessionExpired(w)
		return
	}
	formID := mux.Vars(r)["formId"]

	if err := h.forms.Discard(formID, sess.ID()); err != nil {
		switch {
		case errors.Is(err, bookingForm.ErrFormNotFound):
			h.logger.Warn("DELETE /forms/{formId} - Form not found: form_id=%s, session=%s", formID, sess.ID())
			handlers.RespondNotFound(w, msgFormNotFound)
		default:
			h.logger.Error("DELETE /forms/{formId} - Failed to discard form: form_id=%s, error=%v", formID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /forms/{formId} - Form discarded: form_id=%s", formID)
	w.WriteHeader(http.StatusNoContent)
}
