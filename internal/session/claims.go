package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims данные пользователя из токена backend
type Claims struct {
	Subject   string    `json:"sub"`
	Name      string    `json:"nome"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"exp"`
}

// Expired возвращает true, если у токена есть срок действия и он прошел
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// ParseClaims разбирает токен без проверки подписи.
// Подпись проверяет backend; здесь claims нужны только для отображения и TTL
func ParseClaims(token string) (Claims, error) {
	mapClaims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mapClaims); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var claims Claims
	if sub, err := mapClaims.GetSubject(); err == nil {
		claims.Subject = sub
	}
	if name, ok := mapClaims["nome"].(string); ok {
		claims.Name = name
	}
	if role, ok := mapClaims["role"].(string); ok {
		claims.Role = role
	}
	exp, err := mapClaims.GetExpirationTime()
	if err != nil {
		return Claims{}, fmt.Errorf("%w: bad exp claim: %v", ErrInvalidToken, err)
	}
	if exp != nil {
		claims.ExpiresAt = exp.Time
	}

	if claims.Subject == "" {
		// у некоторых версий backend subject лежит в email
		if email, ok := mapClaims["email"].(string); ok {
			claims.Subject = email
		}
	}

	return claims, nil
}
