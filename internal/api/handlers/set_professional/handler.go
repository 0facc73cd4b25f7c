package set_professional

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingForm/internal/api/handlers"
	"github.com/m04kA/SMC-BookingForm/internal/api/middleware"
	bookingForm "github.com/m04kA/SMC-BookingForm/internal/usecase/booking_form"
)

const (
	msgInvalidRequestBody   = "corpo da requisição inválido"
	msgFormNotFound         = "formulário não encontrado"
	msgProfessionalNotFound = "profissional não encontrado"
	msgCatalogUnavailable   = "Erro ao carregar opções de agendamento."
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

// Handle PUT /api/v1/forms/{formId}/professional
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		handlers.RespondSessionExpired(w)
		return
	}
	formID := mux.Vars(r)["formId"]

	var req SetProfessionalRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /forms/{formId}/professional - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	form, err := h.forms.Get(formID, sess.ID())
	if err != nil {
		h.logger.Warn("PUT /forms/{formId}/professional - Form not found: form_id=%s, session=%s", formID, sess.ID())
		handlers.RespondNotFound(w, msgFormNotFound)
		return
	}

	if err := form.SetProfessional(req.ProfessionalID); err != nil {
		switch {
		case errors.Is(err, bookingForm.ErrProfessionalNotFound):
			h.logger.Warn("PUT /forms/{formId}/professional - Professional not found: form_id=%s, professional_id=%d", formID, *req.ProfessionalID)
			handlers.RespondBadRequest(w, msgProfessionalNotFound)
		case errors.Is(err, bookingForm.ErrCatalogUnavailable):
			h.logger.Warn("PUT /forms/{formId}/professional - Catalog unavailable: form_id=%s", formID)
			handlers.RespondConflict(w, msgCatalogUnavailable)
		case errors.Is(err, bookingForm.ErrFormClosed):
			h.logger.Warn("PUT /forms/{formId}/professional - Form closed: form_id=%s", formID)
			handlers.RespondNotFound(w, msgFormNotFound)
		default:
			h.logger.Error("PUT /forms/{formId}/professional - Failed to set professional: form_id=%s, error=%v", formID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /forms/{formId}/professional - Professional set: form_id=%s", formID)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromSnapshot(form.Snapshot()))
}
