package submit_form

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingForm/internal/api/handlers"
	"github.com/m04kA/SMC-BookingForm/internal/api/middleware"
	"github.com/m04kA/SMC-BookingForm/internal/integrations/schedulingapi"
	bookingForm "github.com/m04kA/SMC-BookingForm/internal/usecase/booking_form"
)

const (
	msgFormNotFound     = "formulário não encontrado"
	msgIncomplete       = "preencha profissional, serviços, data e horário"
	msgDateInPast       = "a data não pode ser anterior a hoje"
	msgSubmitInProgress = "o agendamento já está sendo enviado"
	msgSubmitFailed     = "Erro ao criar agendamento."
	msgCreated          = "Agendamento criado com sucesso!"
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

// Handle POST /api/v1/forms/{formId}/submit
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		handlers.RespondSessionExpired(w)
		return
	}
	formID := mux.Vars(r)["formId"]

	form, err := h.forms.Get(formID, sess.ID())
	if err != nil {
		h.logger.Warn("POST /forms/{formId}/submit - Form not found: form_id=%s, session=%s", formID, sess.ID())
		handlers.RespondNotFound(w, msgFormNotFound)
		return
	}

	appointment, err := form.Submit(r.Context())
	if err != nil {
		switch {
		case handlers.IsSessionError(err):
			h.logger.Warn("POST /forms/{formId}/submit - Session rejected by backend: form_id=%s, session=%s", formID, sess.ID())
			handlers.RespondSessionExpired(w)
		case errors.Is(err, bookingForm.ErrIncomplete):
			h.logger.Warn("POST /forms/{formId}/submit - Form incomplete: form_id=%s", formID)
			handlers.RespondBadRequest(w, msgIncomplete)
		case errors.Is(err, bookingForm.ErrDateInPast):
			h.logger.Warn("POST /forms/{formId}/submit - Date in the past: form_id=%s, error=%v", formID, err)
			handlers.RespondBadRequest(w, msgDateInPast)
		case errors.Is(err, bookingForm.ErrSubmitInProgress):
			h.logger.Warn("POST /forms/{formId}/submit - Submission in progress: form_id=%s", formID)
			handlers.RespondConflict(w, msgSubmitInProgress)
		case errors.Is(err, bookingForm.ErrSubmitRejected) && errors.Is(err, schedulingapi.ErrConflict):
			h.logger.Warn("POST /forms/{formId}/submit - Slot taken: form_id=%s, error=%v", formID, err)
			handlers.RespondConflict(w, handlers.BackendMessage(err, msgSubmitFailed))
		case errors.Is(err, bookingForm.ErrSubmitRejected):
			h.logger.Warn("POST /forms/{formId}/submit - Rejected by backend: form_id=%s, error=%v", formID, err)
			handlers.RespondBadRequest(w, handlers.BackendMessage(err, msgSubmitFailed))
		case errors.Is(err, bookingForm.ErrSubmitFailed):
			h.logger.Error("POST /forms/{formId}/submit - Backend unavailable: form_id=%s, error=%v", formID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgSubmitFailed)
		case errors.Is(err, bookingForm.ErrFormClosed):
			h.logger.Warn("POST /forms/{formId}/submit - Form closed: form_id=%s", formID)
			handlers.RespondNotFound(w, msgFormNotFound)
		default:
			h.logger.Error("POST /forms/{formId}/submit - Failed to submit: form_id=%s, error=%v", formID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := SubmitResponse{
		Message:     msgCreated,
		Appointment: handlers.FromAppointment(appointment),
		Form:        handlers.FromSnapshot(form.Snapshot()),
	}

	h.logger.Info("POST /forms/{formId}/submit - Appointment created: form_id=%s, appointment_id=%d", formID, appointment.ID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
