package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/review-analyzer-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

// persistErr envuelve un error del driver; el texto original queda solo para logs.
func persistErr(op string, err error) error {
	return &domain.PersistenceError{Op: op, Err: err}
}
