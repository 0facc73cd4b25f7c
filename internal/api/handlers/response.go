package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BookingForm/internal/integrations/schedulingapi"
)

const (
	msgInternalError  = "erro interno do servidor"
	msgSessionExpired = "sessão expirada, faça login novamente"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// MessageResponse тело ответа с текстом
type MessageResponse struct {
	Message string `json:"message"`
}

// RespondJSON отправляет JSON ответ
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// RespondError отправляет ошибку с кодом
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Code: status, Message: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondConflict(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusConflict, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// RespondSessionExpired backend отклонил токен - клиент должен войти заново
func RespondSessionExpired(w http.ResponseWriter) {
	RespondUnauthorized(w, msgSessionExpired)
}

// DecodeJSON декодирует тело запроса, запрещая неизвестные поля
func DecodeJSON(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// IsSessionError ошибка означает, что сессия больше не действует
func IsSessionError(err error) bool {
	return errors.Is(err, schedulingapi.ErrSessionInactive) ||
		errors.Is(err, schedulingapi.ErrUnauthorized) ||
		errors.Is(err, schedulingapi.ErrForbidden)
}

// BackendMessage сообщение backend или fallback, если его нет
func BackendMessage(err error, fallback string) string {
	if msg := schedulingapi.MessageOf(err); msg != "" {
		return msg
	}
	return fallback
}
