package update_appointment_status

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingForm/internal/api/handlers"
	"github.com/m04kA/SMC-BookingForm/internal/api/middleware"
	"github.com/m04kA/SMC-BookingForm/internal/domain"
	"github.com/m04kA/SMC-BookingForm/internal/service/appointments"
)

const (
	msgInvalidAppointmentID = "identificador de agendamento inválido"
	msgInvalidRequestBody   = "corpo da requisição inválido"
	msgInvalidStatus        = "status inválido, esperado Cancelado ou Concluído"
	msgAppointmentNotFound  = "agendamento não encontrado"
	msgUpdateFailed         = "Erro ao atualizar o status do agendamento."
	msgCompleted            = "Agendamento concluído com sucesso!"
	msgCancelled            = "Agendamento cancelado."
)

type Handler struct {
	service AppointmentsService
	logger  Logger
}

func NewHandler(service AppointmentsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		handlers.RespondSessionExpired(w)
		return
	}

	vars := mux.Vars(r)
	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{appointmentId}/status - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{appointmentId}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	status := domain.AppointmentStatus(req.Status)
	if err := h.service.UpdateStatus(r.Context(), sess, appointmentID, status); err != nil {
		switch {
		case handlers.IsSessionError(err):
			h.logger.Warn("PATCH /appointments/{appointmentId}/status - Session rejected by backend: session=%s", sess.ID())
			handlers.RespondSessionExpired(w)
		case errors.Is(err, appointments.ErrInvalidStatus):
			h.logger.Warn("PATCH /appointments/{appointmentId}/status - Invalid status: appointment_id=%d, status=%q", appointmentID, req.Status)
			handlers.RespondBadRequest(w, msgInvalidStatus)
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/{appointmentId}/status - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)
		case errors.Is(err, appointments.ErrCannotChangeStatus):
			h.logger.Warn("PATCH /appointments/{appointmentId}/status - Status change rejected: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondConflict(w, handlers.BackendMessage(err, msgUpdateFailed))
		default:
			h.logger.Error("PATCH /appointments/{appointmentId}/status - Failed to update status: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgUpdateFailed)
		}
		return
	}

	msg := msgCancelled
	if status == domain.StatusCompleted {
		msg = msgCompleted
	}

	h.logger.Info("PATCH /appointments/{appointmentId}/status - Status updated: appointment_id=%d, status=%s", appointmentID, status)
	handlers.RespondJSON(w, http.StatusOK, handlers.MessageResponse{Message: msg})
}
