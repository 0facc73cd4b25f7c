package login

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BookingForm/internal/api/handlers"
	"github.com/m04kA/SMC-BookingForm/internal/service/auth"
)

const (
	msgInvalidRequestBody = "corpo da requisição inválido"
	msgInvalidInput       = "informe e-mail e senha válidos"
	msgInvalidCredentials = "e-mail ou senha inválidos"
	msgBackendUnavailable = "Não foi possível conectar ao servidor."
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

// Handle POST /api/v1/auth/login
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /auth/login - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	sess, err := h.service.Login(r.Context(), req.ToServiceInput())
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidInput):
			h.logger.Warn("POST /auth/login - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)
		case errors.Is(err, auth.ErrInvalidCredentials):
			h.logger.Warn("POST /auth/login - Invalid credentials: email=%s", req.Email)
			// backend объясняет причину: неверный пароль, аккаунт не подтвержден
			handlers.RespondUnauthorized(w, handlers.BackendMessage(err, msgInvalidCredentials))
		default:
			h.logger.Error("POST /auth/login - Failed to login: email=%s, error=%v", req.Email, err)
			handlers.RespondError(w, http.StatusBadGateway, msgBackendUnavailable)
		}
		return
	}

	h.logger.Info("POST /auth/login - Session started: session=%s, role=%s", sess.ID(), sess.Claims().Role)
	handlers.RespondJSON(w, http.StatusOK, FromSession(sess))
}
