package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/review-analyzer-api/internal/application/dto"
	"github.com/jhoicas/review-analyzer-api/internal/domain"
	"github.com/jhoicas/review-analyzer-api/internal/domain/entity"
	"github.com/jhoicas/review-analyzer-api/internal/domain/repository"
	"github.com/jhoicas/review-analyzer-api/pkg/jwt"
	"github.com/jhoicas/review-analyzer-api/pkg/password"
)

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, tokens *jwt.Manager) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, tokens: tokens, now: time.Now}
}

// Signup crea un usuario con email normalizado y contraseña hasheada, y abre sesión.
// Devuelve *domain.ValidationError por campo, o domain.ErrConflict si el email ya existe
// (sin distinguir mayúsculas).
func (uc *AuthUseCase) Signup(ctx context.Context, in dto.SignupRequest) (*dto.SessionResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "ingrese su nombre")
	}
	email := entity.NormalizeEmail(in.Email)
	if email == "" {
		return nil, domain.NewValidationError("email", "ingrese su email")
	}
	if !looksLikeEmail(email) {
		return nil, domain.NewValidationError("email", "ingrese un email válido")
	}
	if err := password.Validate(in.Password); err != nil {
		return nil, err
	}

	exists, err := uc.userRepo.Exists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrConflict
	}

	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	// Un registro concurrente con el mismo email termina en ErrConflict por el índice único.
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return uc.openSession(user)
}

// Login verifica email/password y emite el token de sesión.
// Email inexistente y contraseña incorrecta devuelven el mismo domain.ErrInvalidCredentials.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.SessionResponse, error) {
	email := entity.NormalizeEmail(in.Email)
	if email == "" {
		return nil, domain.NewValidationError("email", "ingrese su email")
	}
	if in.Password == "" {
		return nil, domain.NewValidationError("password", "ingrese su contraseña")
	}
	user, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !password.Verify(in.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return uc.openSession(user)
}

func (uc *AuthUseCase) openSession(user *entity.User) (*dto.SessionResponse, error) {
	token, exp, err := uc.tokens.Issue(user.Email)
	if err != nil {
		return nil, err
	}
	return &dto.SessionResponse{
		User:      *ToUserResponse(user),
		Token:     token,
		ExpiresAt: exp,
	}, nil
}

// looksLikeEmail la misma comprobación laxa del formulario original: "@" y un punto en el dominio.
func looksLikeEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return strings.Contains(email[at+1:], ".")
}

// ToUserResponse convierte la entidad a DTO (sin password).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
