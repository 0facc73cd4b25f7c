package set_date

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingForm/internal/api/handlers"
	"github.com/m04kA/SMC-BookingForm/internal/api/middleware"
	bookingForm "github.com/m04kA/SMC-BookingForm/internal/usecase/booking_form"
)

const (
	msgInvalidRequestBody = "corpo da requisição inválido"
	msgInvalidDate        = "formato de data inválido, esperado AAAA-MM-DD"
	msgFormNotFound       = "formulário não encontrado"
	msgDateInPast         = "a data não pode ser anterior a hoje"
)

type Handler struct {
	forms    FormRegistry
	location *time.Location
	logger   Logger
}

func NewHandler(forms FormRegistry, location *time.Location, logger Logger) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		forms:    forms,
		location: location,
		logger:   logger,
	}
}

// Handle PUT /api/v1/forms/{formId}/date
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		handlers.RespondSessionExpired(w)
		return
	}
	formID := mux.Vars(r)["formId"]

	var req SetDateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /forms/{formId}/date - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	date, err := req.ParseDate(h.location)
	if err != nil {
		h.logger.Warn("PUT /forms/{formId}/date - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	form, err := h.forms.Get(formID, sess.ID())
	if err != nil {
		h.logger.Warn("PUT /forms/{formId}/date - Form not found: form_id=%s, session=%s", formID, sess.ID())
		handlers.RespondNotFound(w, msgFormNotFound)
		return
	}

	if err := form.SetDate(date); err != nil {
		switch {
		case errors.Is(err, bookingForm.ErrDateInPast):
			h.logger.Warn("PUT /forms/{formId}/date - Date in past: form_id=%s, date=%s", formID, *req.Date)
			handlers.RespondBadRequest(w, msgDateInPast)
		case errors.Is(err, bookingForm.ErrFormClosed):
			h.logger.Warn("PUT /forms/{formId}/date - Form closed: form_id=%s", formID)
			handlers.RespondNotFound(w, msgFormNotFound)
		default:
			h.logger.Error("PUT /forms/{formId}/date - Failed to set date: form_id=%s, error=%v", formID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /forms/{formId}/date - Date set: form_id=%s", formID)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromSnapshot(form.Snapshot()))
}
