package entity

import (
	"strings"
	"time"
)

// User representa un cliente registrado de la aplicación.
type User struct {
	ID               string
	Name             string
	Email            string // siempre en minúsculas
	PasswordHash     string // bcrypt hash, nunca plano
	StripeCustomerID string // vacío hasta el primer pago
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NormalizeEmail recorta espacios y pasa a minúsculas. Toda búsqueda o escritura por email pasa por aquí.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
