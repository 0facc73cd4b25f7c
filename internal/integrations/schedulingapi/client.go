package schedulingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const maxErrorBodyBytes = 4096

// sessionExemptPaths эндпоинты, на которых 401/403 не приводит к logout
// (неверный пароль при логине - это не протухший токен)
var sessionExemptPaths = []string{
	"/auth/login",
	"/auth/registrar",
	"/auth/verificar-email",
}

// Client клиент для работы с backend планировщика
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	session    Session
	observer   Observer
	log        Logger
}

// NewClient создает новый экземпляр клиента.
// ratePerSecond <= 0 отключает ограничение исходящих запросов
func NewClient(baseURL string, timeout time.Duration, ratePerSecond float64, burst int, log Logger) *Client {
	limit := rate.Inf
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
	}
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(limit, burst),
		log:     log,
	}
}

// WithSession возвращает копию клиента, выполняющую запросы от имени сессии
func (c *Client) WithSession(session Session) *Client {
	clone := *c
	clone.session = session
	return &clone
}

// WithObserver возвращает копию клиента, отправляющую метрики вызовов
func (c *Client) WithObserver(observer Observer) *Client {
	clone := *c
	clone.observer = observer
	return &clone
}

// ListProfessionals получает всех профессионалов с их услугами
func (c *Client) ListProfessionals(ctx context.Context) ([]Professional, error) {
	var professionals []Professional
	if err := c.do(ctx, "list_professionals", http.MethodGet, "/usuarios/profissionais", nil, nil, &professionals); err != nil {
		return nil, err
	}
	return professionals, nil
}

// ListServices получает полный каталог услуг
func (c *Client) ListServices(ctx context.Context) ([]Service, error) {
	var services []Service
	if err := c.do(ctx, "list_services", http.MethodGet, "/servicos", nil, nil, &services); err != nil {
		return nil, err
	}
	return services, nil
}

// GetAvailability получает свободные времена начала для профессионала на дату
// при заданной суммарной длительности
func (c *Client) GetAvailability(ctx context.Context, professionalID int64, date time.Time, durationMinutes int) ([]string, error) {
	path := fmt.Sprintf("/usuarios/%d/disponibilidade", professionalID)
	query := url.Values{}
	query.Set("data", date.Format("2006-01-02"))
	query.Set("duracao", strconv.Itoa(durationMinutes))

	var slots []string
	if err := c.do(ctx, "get_availability", http.MethodGet, path, query, nil, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// CreateAppointment создает запись. Backend может вернуть пустое тело
func (c *Client) CreateAppointment(ctx context.Context, req CreateAppointmentRequest) (*Appointment, error) {
	var appointment Appointment
	if err := c.do(ctx, "create_appointment", http.MethodPost, "/agendamentos", nil, req, &appointment); err != nil {
		return nil, err
	}
	return &appointment, nil
}

// ListAppointments получает записи, доступные текущему пользователю
func (c *Client) ListAppointments(ctx context.Context) ([]Appointment, error) {
	var appointments []Appointment
	if err := c.do(ctx, "list_appointments", http.MethodGet, "/agendamentos", nil, nil, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

// UpdateAppointmentStatus меняет статус записи (Cancelado / Concluído)
func (c *Client) UpdateAppointmentStatus(ctx context.Context, appointmentID int64, status string) error {
	path := fmt.Sprintf("/agendamentos/%d/status", appointmentID)
	return c.do(ctx, "update_appointment_status", http.MethodPatch, path, nil, UpdateStatusRequest{Status: status}, nil)
}

// Login выполняет вход и возвращает JWT
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, "login", http.MethodPost, "/auth/login", nil, req, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("%w: empty token in login response", ErrInvalidResponse)
	}
	return &resp, nil
}

// Register регистрирует клиента. Возвращает текст ответа backend
func (c *Client) Register(ctx context.Context, req RegisterRequest) (string, error) {
	var message textBody
	if err := c.do(ctx, "register", http.MethodPost, "/auth/registrar", nil, req, &message); err != nil {
		return "", err
	}
	return string(message), nil
}

// VerifyEmail подтверждает e-mail по токену из письма
func (c *Client) VerifyEmail(ctx context.Context, token string) (string, error) {
	query := url.Values{}
	query.Set("token", token)

	var message textBody
	if err := c.do(ctx, "verify_email", http.MethodPost, "/auth/verificar-email", query, nil, &message); err != nil {
		return "", err
	}
	return string(message), nil
}

// do выполняет запрос и декодирует JSON ответ в out (если out != nil)
func (c *Client) do(ctx context.Context, operation, method, path string, query url.Values, body, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %v", ErrInternal, err)
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.session != nil {
		token, ok := c.session.Token()
		if !ok && !isSessionExempt(path) {
			return ErrSessionInactive
		}
		if ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(operation, 0, start)
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()
	c.observe(operation, resp.StatusCode, start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.handleErrorResponse(ctx, path, resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", ErrInvalidResponse, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if text, ok := out.(*textBody); ok {
		*text = textBody(extractMessage(data))
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}

// handleErrorResponse применяет правило сессии (401/403 -> logout)
// и превращает ответ в *StatusError
func (c *Client) handleErrorResponse(ctx context.Context, path string, resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))

	statusErr := NewStatusError(resp.StatusCode, extractMessage(data))

	if (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) &&
		c.session != nil && !isSessionExempt(path) {
		c.log.Warn("Backend rejected token on %s (status=%d), forcing logout", path, resp.StatusCode)
		c.session.Invalidate(ctx)
	}

	return statusErr
}

func (c *Client) observe(operation string, status int, start time.Time) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveBackendCall(operation, status, time.Since(start).Seconds())
}

func isSessionExempt(path string) bool {
	for _, exempt := range sessionExemptPaths {
		if strings.HasSuffix(path, exempt) {
			return true
		}
	}
	return false
}

// extractMessage достает текст ошибки: message, первый из messages, JSON-строку или plain text
func extractMessage(data []byte) string {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return ""
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(trimmed, &errResp); err == nil {
		if errResp.Message != "" {
			return errResp.Message
		}
		if len(errResp.Messages) > 0 {
			return errResp.Messages[0]
		}
		return ""
	}

	var text string
	if err := json.Unmarshal(trimmed, &text); err == nil {
		return text
	}

	if trimmed[0] == '{' || trimmed[0] == '[' {
		return ""
	}
	return string(trimmed)
}

// textBody ответ в виде JSON-строки, объекта {message} или plain text
type textBody string
