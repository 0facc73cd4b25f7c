package register

import "github.com/m04kA/SMC-BookingForm/internal/service/auth"

// RegisterRequest HTTP request model. Телефон может приходить с маской
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"` // "(11) 98765-4321"
	Password string `json:"password"`
}

// ToServiceInput конвертирует HTTP запрос в модель сервиса
func (r *RegisterRequest) ToServiceInput() auth.RegisterInput {
	return auth.RegisterInput{
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		Password: r.Password,
	}
}
