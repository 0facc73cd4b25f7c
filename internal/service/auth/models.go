package auth

// LoginInput данные для входа
type LoginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// RegisterInput данные регистрации клиента
type RegisterInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Phone    string `validate:"required,numeric"` // после удаления маски
	Password string `validate:"required"`
}
