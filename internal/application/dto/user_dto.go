package dto

import "time"

// SignupRequest entrada para registro: nombre, email y contraseña.
type SignupRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionResponse usuario autenticado + token emitido (también va en la cookie).
type SessionResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"-"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// DashboardResponse usuario actual y sus órdenes.
type DashboardResponse struct {
	User   UserResponse    `json:"user"`
	Orders []OrderResponse `json:"orders"`
}
