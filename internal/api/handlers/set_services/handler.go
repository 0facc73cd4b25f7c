package set_services

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
	msgServiceNotAllowed  = "serviço não oferecido pelo profissional selecionado"
	msgTooManyServices    = "número máximo de serviços excedido"
	msgCatalogUnavailable = "Erro ao carregar opções de agendamento."
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

// Handle PUT /api/v1/forms/{formId}/services
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		handlers.RespondSessionExpired(w)
		return
	}
	formID := mux.Vars(r)["formId"]

	var req SetServicesRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /forms/{formId}/services - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	form, err := h.forms.Get(formID, sess.ID())
	if err != nil {
		h.logger.Warn("PUT /forms/{formId}/services - Form not found: form_id=%s, session=%s", formID, sess.ID())
		handlers.RespondNotFound(w, msgFormNotFound)
		return
	}

	if err := form.SetServices(req.ServiceIDs); err != nil {
		switch {
		case errors.Is(err, bookingForm.ErrServiceNotAllowed):
			h.logger.Warn("PUT /forms/{formId}/services - Service not allowed: form_id=%s, ids=%v", formID, req.ServiceIDs)
			handlers.RespondBadRequest(w, msgServiceNotAllowed)
		case errors.Is(err, bookingForm.ErrTooManyServices):
			h.logger.Warn("PUT /forms/{formId}/services - Too many services: form_id=%s, count=%d", formID, len(req.ServiceIDs))
			handlers.RespondBadRequest(w, msgTooManyServices)
		case errors.Is(err, bookingForm.ErrCatalogUnavailable):
			h.logger.Warn("PUT /forms/{formId}/services - Catalog unavailable: form_id=%s", formID)
			handlers.RespondConflict(w, msgCatalogUnavailable)
		case errors.Is(err, bookingForm.ErrFormClosed):
			h.logger.Warn("PUT /forms/{formId}/services - Form closed: form_id=%s", formID)
			handlers.RespondNotFound(w, msgFormNotFound)
		default:
			h.logger.Error("PUT /forms/{formId}/services - Failed to set services: form_id=%s, error=%v", formID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /forms/{formId}/services - Services set: form_id=%s, ids=%v", formID, req.ServiceIDs)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromSnapshot(form.Snapshot()))
}
