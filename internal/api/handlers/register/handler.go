package register

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BookingForm/internal/api/handlers"
	"github.com/m04kA/SMC-BookingForm/internal/service/auth"
)

const (
	msgInvalidRequestBody = "corpo da requisição inválido"
	msgInvalidInput       = "preencha nome, e-mail, telefone e senha corretamente"
	msgRejected           = "Ocorreu um erro ao processar seu registro."
	msgBackendUnavailable = "Não foi possível conectar ao servidor."
	msgCreated            = "Conta criada! Verifique seu e-mail para ativar."
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

// Handle POST /api/v1/auth/register
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /auth/register - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	msg, err := h.service.Register(r.Context(), req.ToServiceInput())
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidInput):
			h.logger.Warn("POST /auth/register - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)
		case errors.Is(err, auth.ErrRejected):
			h.logger.Warn("POST /auth/register - Rejected by backend: email=%s, error=%v", req.Email, err)
			handlers.RespondBadRequest(w, handlers.BackendMessage(err, msgRejected))
		default:
			h.logger.Error("POST /auth/register - Failed to register: email=%s, error=%v", req.Email, err)
			handlers.RespondError(w, http.StatusBadGateway, msgBackendUnavailable)
		}
		return
	}

	if msg == "" {
		msg = msgCreated
	}

	h.logger.Info("POST /auth/register - Account created: email=%s", req.Email)
	handlers.RespondJSON(w, http.StatusCreated, handlers.MessageResponse{Message: msg})
}
