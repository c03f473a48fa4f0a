package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// The JSON contract keeps the Portuguese field names the web frontend
// already speaks.

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"senha" validate:"required"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiraEm"`
	User      UserResponse `json:"usuario"`
}

type RegisterAdminRequest struct {
	FullName            string `json:"nomeCompleto" validate:"required,max=150"`
	Email               string `json:"email" validate:"required,email"`
	Password            string `json:"senha" validate:"required,min=6"`
	SpecialtyCategoryID *int64 `json:"categoriaEspecialidadeId" validate:"omitempty,gt=0"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"novaSenha" validate:"required,min=6"`
}

type MessageResponse struct {
	Message string `json:"mensagem"`
}

type UserResponse struct {
	ID                  int64  `json:"id"`
	FullName            string `json:"nomeCompleto"`
	Email               string `json:"email"`
	Role                int    `json:"tipoUsuario"`
	RoleName            string `json:"tipoUsuarioNome"`
	Active              bool   `json:"ativo"`
	SpecialtyCategoryID *int64 `json:"categoriaEspecialidadeId,omitempty"`
}

func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:                  user.ID,
		FullName:            user.FullName,
		Email:               user.Email,
		Role:                int(user.Role),
		RoleName:            user.Role.String(),
		Active:              user.Active,
		SpecialtyCategoryID: user.SpecialtyCategoryID,
	}
}
