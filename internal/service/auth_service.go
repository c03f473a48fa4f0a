package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/mailer"
	"github.com/spec-kit/helpdesk-service/internal/ratelimit"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/pkg/apperrors"
)

const minPasswordLen = 6

// AuthService handles login, admin registration and password recovery.
type AuthService struct {
	users         repository.UserRepository
	tokens        *auth.TokenManager
	mail          mailer.Mailer
	limiter       ratelimit.Limiter
	resetTokenTTL time.Duration
	bcryptCost    int
	logger        *zap.Logger
}

type AuthDependencies struct {
	UserRepo      repository.UserRepository
	Tokens        *auth.TokenManager
	Mailer        mailer.Mailer
	Limiter       ratelimit.Limiter
	ResetTokenTTL time.Duration
	BcryptCost    int
	Logger        *zap.Logger
}

// LoginResult carries the authenticated user and its session token.
type LoginResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

func NewAuthService(deps AuthDependencies) *AuthService {
	return &AuthService{
		users:         deps.UserRepo,
		tokens:        deps.Tokens,
		mail:          deps.Mailer,
		limiter:       deps.Limiter,
		resetTokenTTL: deps.ResetTokenTTL,
		bcryptCost:    deps.BcryptCost,
		logger:        deps.Logger,
	}
}

// Login authenticates by email and password. Unknown emails, wrong
// passwords and deactivated accounts all fail with the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("credenciais inválidas")
		}
		return nil, apperrors.MapError(err)
	}
	if !user.Active {
		return nil, apperrors.NewUnauthorized("credenciais inválidas")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("credenciais inválidas")
	}

	token, expiresAt, err := s.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &LoginResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// RegisterAdmin creates an administrator account, optionally bound to a
// specialty category used by triage assignment.
func (s *AuthService) RegisterAdmin(ctx context.Context, fullName, email, password string, specialtyCategoryID *int64) (*domain.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = normalizeEmail(email)

	if len(password) < minPasswordLen {
		return nil, apperrors.NewValidationError("invalid registration payload", map[string]any{
			"senha": "must have at least 6 characters",
		})
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewValidationError("email já está em uso", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		FullName:            fullName,
		Email:               email,
		PasswordHash:        hash,
		Role:                domain.RoleAdmin,
		Active:              true,
		SpecialtyCategoryID: specialtyCategoryID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// ForgotPassword starts password recovery. It answers identically for
// known and unknown emails so account existence cannot be probed, and
// the mail send is best effort.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, "forgot-password:"+email)
		if err != nil {
			s.logger.Warn("rate limiter unavailable", zap.Error(err))
		} else if !allowed {
			s.logger.Info("forgot-password rate limited", zap.String("email", email))
			return nil
		}
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return apperrors.MapError(err)
	}
	if !user.Active {
		return nil
	}

	token, err := auth.NewResetToken()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	expires := time.Now().UTC().Add(s.resetTokenTTL)
	user.ResetToken = &token
	user.ResetTokenExpires = &expires
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.MapError(err)
	}

	if err := s.mail.SendPasswordResetEmail(user.Email, token); err != nil {
		s.logger.Error("failed to send password reset email",
			zap.Int64("user_id", user.ID), zap.Error(err))
	}
	return nil
}

// ResetPassword consumes a recovery token and sets the new password.
// Tokens are single use: both the token and its expiry are cleared on
// success, so replaying the same token fails.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return apperrors.NewValidationError("invalid password", map[string]any{
			"novaSenha": "must have at least 6 characters",
		})
	}

	user, err := s.users.GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError("token inválido ou expirado", nil)
		}
		return apperrors.MapError(err)
	}
	if user.ResetTokenExpires == nil || time.Now().After(*user.ResetTokenExpires) {
		return apperrors.NewValidationError("token inválido ou expirado", nil)
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash
	user.ResetToken = nil
	user.ResetTokenExpires = nil
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
