package logout

import (
	"net/http"

	"github.com/m04kA/SMC-BookingForm/internal/api/handlers"
	"github.com/m04kA/SMC-BookingForm/internal/api/middleware"
)

type Handler struct {
	service AuthService
	logger  Logger
}

func NewHandler(service AuthService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/auth/logout
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		handlers.RespondSessionExpired(w)
		return
	}

	h.service.Logout(r.Context(), sess)

	h.logger.Info("POST /auth/logout - Session cleared: session=%s", sess.ID())
	w.WriteHeader(http.StatusNoContent)
}
