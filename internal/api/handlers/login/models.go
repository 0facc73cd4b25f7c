package login

import (
	"time"

	"github.com/m04kA/SMC-BookingForm/internal/service/auth"
	"github.com/m04kA/SMC-BookingForm/internal/session"
)

// LoginRequest HTTP request model
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse HTTP response model. sessionId передается дальше в заголовке X-Session-ID
type LoginResponse struct {
	SessionID string  `json:"sessionId"`
	Name      string  `json:"name"`
	Role      string  `json:"role"`
	ExpiresAt *string `json:"expiresAt,omitempty"`
}

// ToServiceInput конвертирует HTTP запрос в модель сервиса
func (r *LoginRequest) ToServiceInput() auth.LoginInput {
	return auth.LoginInput{
		Email:    r.Email,
		Password: r.Password,
	}
}

// FromSession конвертирует сессию в HTTP response
func FromSession(sess *session.Session) *LoginResponse {
	claims := sess.Claims()
	resp := &LoginResponse{
		SessionID: sess.ID(),
		Name:      claims.Name,
		Role:      claims.Role,
	}
	if !claims.ExpiresAt.IsZero() {
		exp := claims.ExpiresAt.UTC().Format(time.RFC3339)
		resp.ExpiresAt = &exp
	}
	return resp
}
