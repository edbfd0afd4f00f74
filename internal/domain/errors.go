package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrUnauthorized        = errors.New("no autenticado")
	ErrInvalidCredentials  = errors.New("email o contraseña inválidos")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrGateway             = errors.New("pasarela de pagos no disponible")
	ErrPersistence         = errors.New("error de persistencia")
	ErrSignatureInvalid    = errors.New("firma de webhook inválida")
	ErrPaymentNotCompleted = errors.New("el pago no se ha completado")
	ErrPaymentFailed       = errors.New("el pago fue rechazado")
)

// ValidationError error de entrada corregible por el usuario, asociado a un campo.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Message }

// Is permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NewValidationError construye un error de validación para un campo.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// GatewayError envuelve fallos de la pasarela externa. El texto del error original
// solo va a logs; al usuario se le responde con un mensaje genérico.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	if e.Err == nil {
		return "gateway: " + e.Op
	}
	return "gateway: " + e.Op + ": " + e.Err.Error()
}

func (e *GatewayError) Unwrap() error { return e.Err }

func (e *GatewayError) Is(target error) bool { return target == ErrGateway }

// PersistenceError envuelve errores del driver de base de datos.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.Err == nil {
		return "persistencia: " + e.Op
	}
	return "persistencia: " + e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
