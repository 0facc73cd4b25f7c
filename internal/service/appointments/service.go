package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingForm/internal/domain"
	"github.com/m04kA/SMC-BookingForm/internal/integrations/schedulingapi"
	"github.com/m04kA/SMC-BookingForm/internal/session"
	"github.com/m04kA/SMC-BookingForm/pkg/validation"
)

// Service сервис для просмотра записей и смены их статуса
type Service struct {
	backendFor BackendProvider
	logger     Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(backendFor BackendProvider, logger Logger) *Service {
	return &Service{
		backendFor: backendFor,
		logger:     logger,
	}
}

type statusInput struct {
	Status string `validate:"required,oneof=Cancelado Concluído"`
}

// List получает записи, которые backend показывает текущему пользователю
func (s *Service) List(ctx context.Context, sess *session.Session) ([]domain.Appointment, error) {
	items, err := s.backendFor(sess).ListAppointments(ctx)
	if err != nil {
		s.logger.Error("List: session=%s backend error: %v", sess.ID(), err)
		return nil, s.mapError(err)
	}

	result := make([]domain.Appointment, 0, len(items))
	for _, item := range items {
		result = append(result, toDomainAppointment(item))
	}

	s.logger.Info("List: session=%s fetched %d appointments", sess.ID(), len(result))
	return result, nil
}

// UpdateStatus завершает или отменяет запись
func (s *Service) UpdateStatus(ctx context.Context, sess *session.Session, appointmentID int64, status domain.AppointmentStatus) error {
	if appointmentID <= 0 {
		return fmt.Errorf("%w: appointment id must be positive", ErrAppointmentNotFound)
	}
	if err := validation.ValidateStruct(statusInput{Status: string(status)}); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, validation.FirstError(err))
	}

	if err := s.backendFor(sess).UpdateAppointmentStatus(ctx, appointmentID, string(status)); err != nil {
		s.logger.Warn("UpdateStatus: session=%s appointment=%d status=%s failed: %v", sess.ID(), appointmentID, status, err)
		return s.mapError(err)
	}

	s.logger.Info("UpdateStatus: session=%s appointment=%d -> %s", sess.ID(), appointmentID, status)
	return nil
}

// mapError ошибки сессии пробрасываются как есть - их обрабатывает слой API
func (s *Service) mapError(err error) error {
	switch {
	case errors.Is(err, schedulingapi.ErrSessionInactive),
		errors.Is(err, schedulingapi.ErrUnauthorized),
		errors.Is(err, schedulingapi.ErrForbidden):
		return err
	case errors.Is(err, schedulingapi.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrAppointmentNotFound, err)
	case errors.Is(err, schedulingapi.ErrBadRequest), errors.Is(err, schedulingapi.ErrConflict):
		return fmt.Errorf("%w: %w", ErrCannotChangeStatus, err)
	default:
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
}

func toDomainAppointment(item schedulingapi.Appointment) domain.Appointment {
	services := item.Servicos
	if services == nil {
		services = []string{}
	}
	return domain.Appointment{
		ID:               item.IDAgendamento,
		DateTime:         item.DataHora,
		Status:           domain.AppointmentStatus(item.Status),
		ProfessionalName: item.NomeProfissional,
		ClientName:       item.NomeCliente,
		Services:         services,
	}
}
