package list_appointments

import (
	"net/http"

	"github.com/m04kA/SMC-BookingForm/internal/api/handlers"
	"github.com/m04kA/SMC-BookingForm/internal/api/middleware"
)

const msgLoadFailed = "Não foi possível carregar os agendamentos."

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

// Handle GET /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		handlers.RespondSessionExpired(w)
		return
	}

	items, err := h.service.List(r.Context(), sess)
	if err != nil {
		switch {
		case handlers.IsSessionError(err):
			h.logger.Warn("GET /appointments - Session rejected by backend: session=%s", sess.ID())
			handlers.RespondSessionExpired(w)
		default:
			h.logger.Error("GET /appointments - Failed to list appointments: session=%s, error=%v", sess.ID(), err)
			handlers.RespondError(w, http.StatusBadGateway, msgLoadFailed)
		}
		return
	}

	response := make([]handlers.AppointmentResponse, 0, len(items))
	for i := range items {
		response = append(response, handlers.FromAppointment(&items[i]))
	}

	h.logger.Info("GET /appointments - Appointments listed: session=%s, count=%d", sess.ID(), len(response))
	handlers.RespondJSON(w, http.StatusOK, response)
}
