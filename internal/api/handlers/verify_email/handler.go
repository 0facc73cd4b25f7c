package verify_email

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BookingForm/internal/api/handlers"
	"github.com/m04kA/SMC-BookingForm/internal/service/auth"
)

const (
	msgMissingToken       = "token de verificação não informado"
	msgRejected           = "Não foi possível verificar seu e-mail. O link pode ter expirado."
	msgBackendUnavailable = "Não foi possível conectar ao servidor."
	msgVerified           = "E-mail verificado com sucesso!"
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

// Handle POST /api/v1/auth/verify-email?token=...
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	msg, err := h.service.VerifyEmail(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidInput):
			h.logger.Warn("POST /auth/verify-email - Missing token")
			handlers.RespondBadRequest(w, msgMissingToken)
		case errors.Is(err, auth.ErrRejected):
			h.logger.Warn("POST /auth/verify-email - Rejected by backend: %v", err)
			handlers.RespondBadRequest(w, handlers.BackendMessage(err, msgRejected))
		default:
			h.logger.Error("POST /auth/verify-email - Failed to verify e-mail: %v", err)
			handlers.RespondError(w, http.StatusBadGateway, msgBackendUnavailable)
		}
		return
	}

	if msg == "" {
		msg = msgVerified
	}

	h.logger.Info("POST /auth/verify-email - E-mail verified")
	handlers.RespondJSON(w, http.StatusOK, handlers.MessageResponse{Message: msg})
}
