package set_slot

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingForm/internal/api/handlers"
	"github.com/m04kA/SMC-BookingForm/internal/api/middleware"
	bookingForm "github.com/m04kA/SMC-BookingForm/internal/usecase/booking_form"
)

const (
	msgInvalidRequestBody = "corpo da requisição inválido"
	msgFormNotFound       = "formulário não encontrado"
	msgInvalidSlot        = "formato de horário inválido, esperado HH:MM"
	msgSlotNotAvailable   = "horário indisponível"
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

// Handle PUT /api/v1/forms/{formId}/slot
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		handlers.RespondSessionExpired(w)
		return
	}
	formID := mux.Vars(r)["formId"]

	var req SetSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /forms/{formId}/slot - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	form, err := h.forms.Get(formID, sess.ID())
	if err != nil {
		h.logger.Warn("PUT /forms/{formId}/slot - Form not found: form_id=%s, session=%s", formID, sess.ID())
		handlers.RespondNotFound(w, msgFormNotFound)
		return
	}

	if err := form.SetSlot(req.Slot); err != nil {
		switch {
		case errors.Is(err, bookingForm.ErrInvalidSlot):
			h.logger.Warn("PUT /forms/{formId}/slot - Invalid slot: form_id=%s, slot=%q", formID, req.Slot)
			handlers.RespondBadRequest(w, msgInvalidSlot)
		case errors.Is(err, bookingForm.ErrSlotNotAvailable):
			h.logger.Warn("PUT /forms/{formId}/slot - Slot not available: form_id=%s, slot=%s", formID, req.Slot)
			handlers.RespondConflict(w, msgSlotNotAvailable)
		case errors.Is(err, bookingForm.ErrFormClosed):
			h.logger.Warn("PUT /forms/{formId}/slot - Form closed: form_id=%s", formID)
			handlers.RespondNotFound(w, msgFormNotFound)
		default:
			h.logger.Error("PUT /forms/{formId}/slot - Failed to set slot: form_id=%s, error=%v", formID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /forms/{formId}/slot - Slot set: form_id=%s, slot=%s", formID, req.Slot)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromSnapshot(form.Snapshot()))
}
