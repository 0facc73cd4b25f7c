package schedulingapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingForm/pkg/logger"
)

type fakeSession struct {
	mu          sync.Mutex
	token       string
	active      bool
	invalidated int
}

func (s *fakeSession) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.active
}

func (s *fakeSession) Invalidate(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
	s.invalidated++
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 2*time.Second, 0, 0, logger.NewNop())
}

func TestClient_ListCatalog(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/usuarios/profissionais":
			_, _ = w.Write([]byte(`[{"id":1,"nome":"Ana","servicosIds":[10,11]}]`))
		case "/servicos":
			_, _ = w.Write([]byte(`[{"id":10,"nome":"Corte","preco":35.5,"duracaoMinutos":30,"ativo":true},{"id":11,"nome":"Barba","preco":20,"duracaoMinutos":45}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	professionals, err := client.ListProfessionals(context.Background())
	require.NoError(t, err)
	require.Len(t, professionals, 1)
	assert.Equal(t, []int64{10, 11}, professionals[0].ServicosIDs)

	services, err := client.ListServices(context.Background())
	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.Equal(t, 30, services[0].DuracaoMinutos)
	assert.True(t, services[1].IsActive(), "missing ativo flag means active")
}

func TestClient_GetAvailability_SendsQueryAndToken(t *testing.T) {
	var gotQuery, gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/usuarios/7/disponibilidade", r.URL.Path)
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`["09:00","09:30"]`))
	})

	sess := &fakeSession{token: "tkn", active: true}
	date := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	slots, err := client.WithSession(sess).GetAvailability(context.Background(), 7, date, 75)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:30"}, slots)
	assert.Equal(t, "data=2025-06-01&duracao=75", gotQuery)
	assert.Equal(t, "Bearer tkn", gotAuth)
}

func TestClient_CreateAppointment(t *testing.T) {
	var got CreateAppointmentRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/agendamentos", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	})

	_, err := client.CreateAppointment(context.Background(), CreateAppointmentRequest{
		ProfissionalID: 1,
		ServicosIDs:    []int64{10},
		DataHora:       "2025-06-01T09:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01T09:00", got.DataHora)
	assert.Equal(t, []int64{10}, got.ServicosIDs)
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantErr     error
		wantMessage string
	}{
		{name: "bad request with messages", status: 400, body: `{"messages":["senha curta"]}`, wantErr: ErrBadRequest, wantMessage: "senha curta"},
		{name: "not found", status: 404, body: ``, wantErr: ErrNotFound},
		{name: "conflict with message", status: 409, body: `{"message":"Horário indisponível"}`, wantErr: ErrConflict, wantMessage: "Horário indisponível"},
		{name: "server error plain text", status: 500, body: `boom`, wantErr: ErrUnexpectedStatus, wantMessage: "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.ListAppointments(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantMessage, MessageOf(err))
			assert.True(t, IsClientError(err) == (tt.status < 500))
		})
	}
}

func TestClient_UnauthorizedInvalidatesSession(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	sess := &fakeSession{token: "expired", active: true}
	bound := client.WithSession(sess)

	_, err := bound.ListAppointments(context.Background())
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, 1, sess.invalidated)

	_, err = bound.ListAppointments(context.Background())
	assert.ErrorIs(t, err, ErrSessionInactive, "no request is sent once the session is gone")
	assert.Equal(t, 1, sess.invalidated)
}

func TestClient_LoginFailureDoesNotInvalidate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`"E-mail ou senha inválidos"`))
	})

	sess := &fakeSession{token: "old", active: true}
	_, err := client.WithSession(sess).Login(context.Background(), LoginRequest{Email: "a@b.c", Senha: "x"})
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "E-mail ou senha inválidos", MessageOf(err))
	assert.Equal(t, 0, sess.invalidated)
}

func TestClient_VerifyEmailPlainText(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "abc", r.URL.Query().Get("token"))
		_, _ = w.Write([]byte("E-mail verificado com sucesso"))
	})

	msg, err := client.VerifyEmail(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "E-mail verificado com sucesso", msg)
}

func TestClient_Observer(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	obs := &recordingObserver{}
	_, err := client.WithObserver(obs).ListServices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"list_services:200"}, obs.calls)
}

type recordingObserver struct {
	calls []string
}

func (o *recordingObserver) ObserveBackendCall(operation string, status int, _ float64) {
	o.calls = append(o.calls, operation+":"+strconv.Itoa(status))
}
