// Package password implementa el almacén de credenciales: política de contraseñas,
// hash bcrypt y verificación.
package password

import (
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/review-analyzer-api/internal/domain"
)

// Límites de la política de contraseñas (en caracteres).
const (
	MinLength = 6
	MaxLength = 128
)

// bcrypt solo usa los primeros 72 bytes; las versiones recientes de x/crypto
// rechazan entradas más largas. Se trunca siempre igual al hashear y al verificar.
const bcryptMaxBytes = 72

// Validate aplica la política: requerida, entre MinLength y MaxLength caracteres.
func Validate(password string) error {
	if password == "" {
		return domain.NewValidationError("password", "la contraseña es requerida")
	}
	n := utf8.RuneCountInString(password)
	if n < MinLength {
		return domain.NewValidationError("password", "la contraseña debe tener al menos 6 caracteres")
	}
	if n > MaxLength {
		return domain.NewValidationError("password", "la contraseña no puede superar 128 caracteres")
	}
	return nil
}

// Hash valida la contraseña y devuelve su hash bcrypt.
func Hash(password string) (string, error) {
	if err := Validate(password); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword(truncate(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify compara la contraseña con el hash. Cualquier fallo (hash corrupto,
// algoritmo distinto, contraseña vacía) devuelve false.
func Verify(password, hash string) bool {
	if password == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), truncate(password)) == nil
}

// truncate corta a bcryptMaxBytes sin partir un carácter UTF-8.
func truncate(password string) []byte {
	b := []byte(password)
	if len(b) <= bcryptMaxBytes {
		return b
	}
	cut := bcryptMaxBytes
	for cut > 0 && !utf8.RuneStart(b[cut]) {
		cut--
	}
	return b[:cut]
}
