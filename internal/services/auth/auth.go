// Package services содержит бизнес-логику аутентификации: регистрацию,
// вход и проверку JWT токена.
package services

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/site-platform/internal/lib/jwt"
	"github.com/magabrotheeeer/site-platform/internal/lib/password"
	"github.com/magabrotheeeer/site-platform/internal/lib/slug"
	"github.com/magabrotheeeer/site-platform/internal/models"
	"github.com/magabrotheeeer/site-platform/internal/storage"
)

// Ошибки уровня бизнес-логики аутентификации.
var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnknownSite        = errors.New("unknown site slug")
)

// AuthRepository определяет методы для работы с учётными записями в хранилище.
type AuthRepository interface {
	// RegisterUser вставляет пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)
	// GetUserByEmail возвращает пользователя по почте, поиск регистронезависимый.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthService реализует бизнес-логику аутентификации.
type AuthService struct {
	repo   AuthRepository
	tokens jwt.Maker
	log    *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(repo AuthRepository, tokens jwt.Maker, log *slog.Logger) *AuthService {
	return &AuthService{
		repo:   repo,
		tokens: tokens,
		log:    log,
	}
}

// Register создает новую учётную запись: клиент на тарифе essential со
// статусом оплаты pending. Почта приводится к нижнему регистру.
func (s *AuthService) Register(ctx context.Context, req models.DummyRegister) (string, error) {
	hash, err := password.GetHash(req.Password)
	if err != nil {
		return "", err
	}

	user := models.User{
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:  hash,
		Role:          models.RoleClient,
		Plan:          models.PlanEssential,
		BillingStatus: "pending",
	}
	if req.SiteSlug != "" {
		canonical := slug.Normalize(req.SiteSlug)
		user.SiteSlug = &canonical
	}

	uid, err := s.repo.RegisterUser(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return "", ErrEmailTaken
		}
		if errors.Is(err, storage.ErrMissingReference) {
			return "", ErrUnknownSite
		}
		return "", err
	}
	s.log.Info("user registered", slog.String("user_uid", uid), slog.String("email", user.Email))
	return uid, nil
}

// Login проверяет учётные данные и возвращает подписанный JWT.
// Неизвестная почта и неверный пароль неразличимы для вызывающего.
func (s *AuthService) Login(ctx context.Context, req models.DummyLogin) (string, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if err := password.CompareHash(user.PasswordHash, req.Password); err != nil {
		return "", ErrInvalidCredentials
	}

	siteSlug := ""
	if user.SiteSlug != nil {
		siteSlug = *user.SiteSlug
	}
	token, err := s.tokens.GenerateToken(user.UID, user.Email, user.Role, user.Plan, siteSlug)
	if err != nil {
		return "", err
	}
	s.log.Info("user logged in", slog.String("user_uid", user.UID))
	return token, nil
}

// ValidateToken проверяет JWT и возвращает его claims.
func (s *AuthService) ValidateToken(tokenStr string) (*jwt.CustomClaims, error) {
	return s.tokens.ParseToken(tokenStr)
}
