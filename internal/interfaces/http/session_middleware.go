package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/review-analyzer-api/internal/application/auth"
	"github.com/jhoicas/review-analyzer-api/internal/domain/entity"
)

// LocalUser clave en c.Locals del usuario de la sesión.
const LocalUser = "user"

// SessionMiddleware resuelve la cookie de sesión y deja el usuario en c.Locals.
// Un visitante anónimo sigue adelante sin usuario; RequireAuth decide después.
func SessionMiddleware(resolver *auth.IdentityResolver, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if user, ok := resolver.Resolve(c.UserContext(), c.Cookies(cookieName)); ok {
			c.Locals(LocalUser, user)
		}
		return c.Next()
	}
}

// RequireAuth rechaza con 401 uniforme cuando no hay usuario en la sesión.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUser(c) == nil {
			return unauthorized(c)
		}
		return c.Next()
	}
}

// CurrentUser devuelve el usuario de la sesión o nil.
func CurrentUser(c *fiber.Ctx) *entity.User {
	u, _ := c.Locals(LocalUser).(*entity.User)
	return u
}
