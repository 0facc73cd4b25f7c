package schedulingapi

// Professional профессионал из GET /usuarios/profissionais
type Professional struct {
	ID          int64   `json:"id"`
	Nome        string  `json:"nome"`
	ServicosIDs []int64 `json:"servicosIds"`
}

// Service услуга из GET /servicos
type Service struct {
	ID             int64   `json:"id"`
	Nome           string  `json:"nome"`
	Preco          float64 `json:"preco"`
	DuracaoMinutos int     `json:"duracaoMinutos"`
	Ativo          *bool   `json:"ativo,omitempty"` // отсутствует у старых версий backend
}

// IsActive считает услугу активной, если backend не прислал флаг
func (s *Service) IsActive() bool {
	return s.Ativo == nil || *s.Ativo
}

// CreateAppointmentRequest тело POST /agendamentos
type CreateAppointmentRequest struct {
	ProfissionalID int64   `json:"profissionalId"`
	ServicosIDs    []int64 `json:"servicosIds"`
	DataHora       string  `json:"dataHora"` // "YYYY-MM-DDTHH:mm", без часового пояса
}

// Appointment запись из GET /agendamentos (и ответ на создание)
type Appointment struct {
	IDAgendamento    int64    `json:"idAgendamento"`
	DataHora         string   `json:"dataHora"`
	Status           string   `json:"status"`
	NomeProfissional string   `json:"nomeProfissional"`
	NomeCliente      string   `json:"nomeCliente"`
	Servicos         []string `json:"servicos"`
}

// UpdateStatusRequest тело PATCH /agendamentos/{id}/status
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// LoginRequest тело POST /auth/login
type LoginRequest struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

// LoginResponse ответ POST /auth/login
type LoginResponse struct {
	Token string `json:"token"`
}

// RegisterRequest тело POST /auth/registrar
type RegisterRequest struct {
	Nome     string `json:"nome"`
	Email    string `json:"email"`
	Telefone string `json:"telefone"` // только цифры
	Senha    string `json:"senha"`
}

// ErrorResponse модель ошибки backend
// Ошибки валидации приходят списком в messages, прочие - в message
type ErrorResponse struct {
	Message  string   `json:"message"`
	Messages []string `json:"messages"`
}
