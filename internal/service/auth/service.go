package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-BookingForm/internal/integrations/schedulingapi"
	"github.com/m04kA/SMC-BookingForm/internal/session"
	"github.com/m04kA/SMC-BookingForm/pkg/validation"
)

// Service вход, регистрация и выход
type Service struct {
	backend  Backend
	sessions SessionManager
	forms    FormDiscarder
	logger   Logger
}

// NewService создает новый экземпляр сервиса авторизации
func NewService(backend Backend, sessions SessionManager, forms FormDiscarder, logger Logger) *Service {
	return &Service{
		backend:  backend,
		sessions: sessions,
		forms:    forms,
		logger:   logger,
	}
}

// Login получает токен у backend и открывает сессию
func (s *Service) Login(ctx context.Context, input LoginInput) (*session.Session, error) {
	input.Email = strings.TrimSpace(input.Email)
	if err := validation.ValidateStruct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, validation.FirstError(err))
	}

	resp, err := s.backend.Login(ctx, schedulingapi.LoginRequest{
		Email: input.Email,
		Senha: input.Password,
	})
	if err != nil {
		if errors.Is(err, schedulingapi.ErrBadRequest) ||
			errors.Is(err, schedulingapi.ErrUnauthorized) ||
			errors.Is(err, schedulingapi.ErrForbidden) {
			s.logger.Warn("Login: rejected for %s: %v", input.Email, err)
			return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		s.logger.Error("Login: backend error for %s: %v", input.Email, err)
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	sess, err := s.sessions.Start(ctx, resp.Token)
	if err != nil {
		s.logger.Error("Login: failed to start session for %s: %v", input.Email, err)
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	return sess, nil
}

// Register регистрирует клиента. Из телефона удаляется все, кроме цифр
func (s *Service) Register(ctx context.Context, input RegisterInput) (string, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Phone = DigitsOnly(input.Phone)

	if err := validation.ValidateStruct(input); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidInput, validation.FirstError(err))
	}

	msg, err := s.backend.Register(ctx, schedulingapi.RegisterRequest{
		Nome:     input.Name,
		Email:    input.Email,
		Telefone: input.Phone,
		Senha:    input.Password,
	})
	if err != nil {
		return "", s.mapBackendError("Register", err)
	}

	s.logger.Info("Register: account created for %s", input.Email)
	return msg, nil
}

// VerifyEmail подтверждает e-mail по токену из письма
func (s *Service) VerifyEmail(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("%w: token is required", ErrInvalidInput)
	}

	msg, err := s.backend.VerifyEmail(ctx, token)
	if err != nil {
		return "", s.mapBackendError("VerifyEmail", err)
	}
	return msg, nil
}

// Logout закрывает формы сессии и удаляет ее
func (s *Service) Logout(ctx context.Context, sess *session.Session) {
	closed := s.forms.DiscardSession(sess.ID())
	s.sessions.Clear(ctx, sess)
	s.logger.Info("Logout: session=%s cleared, %d forms closed", sess.ID(), closed)
}

func (s *Service) mapBackendError(op string, err error) error {
	if schedulingapi.IsClientError(err) {
		s.logger.Warn("%s: rejected by backend: %v", op, err)
		return fmt.Errorf("%w: %w", ErrRejected, err)
	}
	s.logger.Error("%s: backend error: %v", op, err)
	return fmt.Errorf("%w: %w", ErrInternal, err)
}

// DigitsOnly удаляет маску телефона: "(11) 98765-4321" -> "11987654321"
func DigitsOnly(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
