package auth

import (
	"context"

	"github.com/jhoicas/review-analyzer-api/internal/domain"
	"github.com/jhoicas/review-analyzer-api/internal/domain/entity"
	"github.com/jhoicas/review-analyzer-api/internal/domain/repository"
	"github.com/jhoicas/review-analyzer-api/pkg/jwt"
	"github.com/jhoicas/review-analyzer-api/pkg/logger"
)

// IdentityResolver traduce el token de la cookie de sesión a un usuario.
type IdentityResolver struct {
	tokens *jwt.Manager
	users  repository.UserRepository
	log    *logger.Logger
}

// NewIdentityResolver construye el resolvedor.
func NewIdentityResolver(tokens *jwt.Manager, users repository.UserRepository, log *logger.Logger) *IdentityResolver {
	return &IdentityResolver{tokens: tokens, users: users, log: log}
}

// Resolve devuelve el usuario del token, o (nil, false) para un visitante anónimo.
// Token ausente, malformado o expirado, usuario borrado o fallo de la base de datos:
// todos son anónimo, nunca error.
func (r *IdentityResolver) Resolve(ctx context.Context, token string) (*entity.User, bool) {
	if token == "" {
		return nil, false
	}
	claims, err := r.tokens.Verify(token)
	if err != nil {
		return nil, false
	}
	user, err := r.users.FindByEmail(ctx, claims.Subject)
	if err != nil {
		r.log.Warn().Err(err).Msg("resolver identidad: lectura de usuario fallida")
		return nil, false
	}
	if user == nil {
		return nil, false
	}
	return user, true
}

// RequireAuthenticated como Resolve, pero un anónimo es domain.ErrUnauthorized.
func (r *IdentityResolver) RequireAuthenticated(ctx context.Context, token string) (*entity.User, error) {
	user, ok := r.Resolve(ctx, token)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}
