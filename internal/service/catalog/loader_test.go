package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingForm/internal/integrations/schedulingapi"
	"github.com/m04kA/SMC-BookingForm/pkg/logger"
)

type fakeBackend struct {
	professionals    []schedulingapi.Professional
	services         []schedulingapi.Service
	professionalsErr error
	servicesErr      error
}

func (f *fakeBackend) ListProfessionals(context.Context) ([]schedulingapi.Professional, error) {
	return f.professionals, f.professionalsErr
}

func (f *fakeBackend) ListServices(context.Context) ([]schedulingapi.Service, error) {
	return f.services, f.servicesErr
}

func TestLoader_Load(t *testing.T) {
	inactive := false
	backend := &fakeBackend{
		professionals: []schedulingapi.Professional{
			{ID: 1, Nome: "Ana", ServicosIDs: []int64{10, 11}},
		},
		services: []schedulingapi.Service{
			{ID: 10, Nome: "Corte", Preco: 35, DuracaoMinutos: 30},
			{ID: 11, Nome: "Química", Preco: 120, DuracaoMinutos: 90, Ativo: &inactive},
		},
	}

	c, err := NewLoader(logger.NewNop()).Load(context.Background(), backend)
	require.NoError(t, err)

	p, ok := c.Professional(1)
	require.True(t, ok)
	assert.Equal(t, "Ana", p.Name)

	services := c.ServicesFor(p)
	require.Len(t, services, 1, "inactive services are not bookable")
	assert.Equal(t, int64(10), services[0].ID)
	assert.Equal(t, 30, services[0].DurationMinutes)
}

func TestLoader_LoadFailure(t *testing.T) {
	backendErr := errors.New("connection refused")

	tests := []struct {
		name    string
		backend *fakeBackend
	}{
		{name: "professionals fail", backend: &fakeBackend{professionalsErr: backendErr}},
		{name: "services fail", backend: &fakeBackend{servicesErr: backendErr}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewLoader(logger.NewNop()).Load(context.Background(), tt.backend)
			assert.Nil(t, c)
			assert.ErrorIs(t, err, ErrLoadFailed)
			assert.ErrorIs(t, err, backendErr)
		})
	}
}
