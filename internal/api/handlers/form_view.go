package handlers

import (
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-BookingForm/internal/domain"
	bookingForm "github.com/m04kA/SMC-BookingForm/internal/usecase/booking_form"
)

const (
	msgCatalogUnavailable = "Erro ao carregar opções de agendamento."
	msgSlotsUnavailable   = "Não foi possível buscar os horários para esta data."

	placeholderNoProfessional = "Selecione um profissional primeiro..."
	placeholderNoServices     = "Este profissional não possui serviços vinculados."
	placeholderSelectServices = "Selecione os serviços..."
)

// Option пара значение/подпись для выпадающего списка
type Option struct {
	Value int64  `json:"value"`
	Label string `json:"label"`
}

// ServicesView состояние поля выбора услуг
type ServicesView struct {
	Options     []Option `json:"options"`
	Selected    []Option `json:"selected"`
	Disabled    bool     `json:"disabled"`
	Placeholder string   `json:"placeholder"`
}

// SlotsView состояние выбора времени
type SlotsView struct {
	Available []string `json:"available"`
	Selected  *string  `json:"selected"`
	Loading   bool     `json:"loading"`
	Error     *string  `json:"error"`
}

// FormResponse снимок формы записи
type FormResponse struct {
	ID                   string       `json:"id"`
	CatalogError         *string      `json:"catalogError"`
	Professionals        []Option     `json:"professionals"`
	ProfessionalID       *int64       `json:"professionalId"`
	Services             ServicesView `json:"services"`
	TotalDurationMinutes int          `json:"totalDurationMinutes"`
	Date                 *string      `json:"date"`
	MinDate              string       `json:"minDate"`
	Slots                SlotsView    `json:"slots"`
	Submittable          bool         `json:"submittable"`
	Submitting           bool         `json:"submitting"`
}

// AppointmentResponse запись в ответе API
type AppointmentResponse struct {
	ID               int64    `json:"id"`
	DateTime         string   `json:"dateTime"`
	Status           string   `json:"status"`
	ProfessionalName string   `json:"professionalName"`
	ClientName       string   `json:"clientName,omitempty"`
	Services         []string `json:"services"`
	CanChangeStatus  bool     `json:"canChangeStatus"`
}

// FromSnapshot строит представление формы. Подписи опций формируются только здесь
func FromSnapshot(snap bookingForm.Snapshot) FormResponse {
	resp := FormResponse{
		ID:                   snap.FormID,
		Professionals:        make([]Option, 0, len(snap.Professionals)),
		TotalDurationMinutes: snap.TotalDurationMinutes,
		MinDate:              snap.MinDate.Format(domain.DateFormat),
		Services: ServicesView{
			Options:  serviceOptions(snap.ServiceOptions),
			Selected: serviceOptions(snap.SelectedServices),
		},
		Slots: SlotsView{
			Available: []string{},
			Loading:   snap.SlotsLoading,
		},
		Submittable: snap.Submittable,
		Submitting:  snap.Submitting,
	}

	if snap.CatalogErr != nil {
		msg := msgCatalogUnavailable
		resp.CatalogError = &msg
	}

	for _, p := range snap.Professionals {
		resp.Professionals = append(resp.Professionals, Option{Value: p.ID, Label: p.Name})
	}

	switch {
	case snap.Professional == nil:
		resp.Services.Disabled = true
		resp.Services.Placeholder = placeholderNoProfessional
	case len(snap.ServiceOptions) == 0:
		resp.Services.Disabled = true
		resp.Services.Placeholder = placeholderNoServices
	default:
		resp.Services.Placeholder = placeholderSelectServices
	}
	if snap.Professional != nil {
		id := snap.Professional.ID
		resp.ProfessionalID = &id
	}

	if snap.Date != nil {
		d := snap.Date.Format(domain.DateFormat)
		resp.Date = &d
	}

	if snap.AvailableSlots != nil {
		resp.Slots.Available = snap.AvailableSlots.Strings()
	}
	if snap.Slot != nil {
		s := snap.Slot.String()
		resp.Slots.Selected = &s
	}
	if snap.SlotsErr != nil {
		msg := msgSlotsUnavailable
		resp.Slots.Error = &msg
	}

	return resp
}

// FromAppointment конвертирует запись в ответ API
func FromAppointment(a *domain.Appointment) AppointmentResponse {
	services := a.Services
	if services == nil {
		services = []string{}
	}
	return AppointmentResponse{
		ID:               a.ID,
		DateTime:         a.DateTime,
		Status:           string(a.Status),
		ProfessionalName: a.ProfessionalName,
		ClientName:       a.ClientName,
		Services:         services,
		CanChangeStatus:  a.CanChangeStatus(),
	}
}

// ServiceLabel подпись услуги: "Corte - R$ 35.5 (30 min)"
func ServiceLabel(s domain.Service) string {
	return fmt.Sprintf("%s - R$ %s (%d min)", s.Name, strconv.FormatFloat(s.Price, 'f', -1, 64), s.DurationMinutes)
}

func serviceOptions(services []domain.Service) []Option {
	options := make([]Option, 0, len(services))
	for _, s := range services {
		options = append(options, Option{Value: s.ID, Label: ServiceLabel(s)})
	}
	return options
}
