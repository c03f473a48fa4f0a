package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	"github.com/spec-kit/helpdesk-service/pkg/apperrors"
)

type memoryUserRepo struct {
	mu    sync.Mutex
	users map[int64]*domain.User
}

func (r *memoryUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = int64(len(r.users) + 1)
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memoryUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.users[user.ID] == nil {
		return pgx.ErrNoRows
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memoryUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user := r.users[id]; user != nil {
		copied := *user
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryUserRepo) GetByResetToken(_ context.Context, token string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.ResetToken != nil && *user.ResetToken == token {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryUserRepo) FindSpecialist(_ context.Context, categoryID int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Role == domain.RoleAdmin && user.Active &&
			user.SpecialtyCategoryID != nil && *user.SpecialtyCategoryID == categoryID {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type noopMailer struct{}

func (noopMailer) SendPasswordResetEmail(_, _ string) error   { return nil }
func (noopMailer) SendTicketOpenedEmail(_, _ string) error    { return nil }
func (noopMailer) SendTicketStatusEmail(_, _, _ string) error { return nil }
func (noopMailer) SendTicketAssignedEmail(_, _ string) error  { return nil }

func newUsersApp(t *testing.T) (*fiber.App, *memoryUserRepo) {
	t.Helper()
	repo := &memoryUserRepo{users: map[int64]*domain.User{}}

	hash, err := auth.HashPassword("segredo123", bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), &domain.User{
		FullName:     "Ana Souza",
		Email:        "ana@faculdade.edu",
		PasswordHash: hash,
		Role:         domain.RoleStudent,
		Active:       true,
	}))

	tokens := auth.NewTokenManager("test-secret", 60)
	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:      repo,
		Tokens:        tokens,
		Mailer:        noopMailer{},
		ResetTokenTTL: 30 * time.Minute,
		BcryptCost:    bcrypt.MinCost,
		Logger:        zap.NewNop(),
	})
	handler := NewUsersHandler(authService)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"error": fiber.Map{
				"code":    domainErr.Code,
				"message": domainErr.Message,
			}})
		},
	})
	middleware := auth.NewAuthMiddleware(tokens, repo)
	app.Post("/Usuarios/login", handler.Login)
	app.Post("/Usuarios/registrar-admin", handler.RegisterAdmin)
	app.Post("/Usuarios/esqueci-senha", handler.ForgotPassword)
	app.Post("/Usuarios/resetar-senha", handler.ResetPassword)
	app.Get("/Usuarios/perfil", middleware.Handle, handler.Profile)
	return app, repo
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestUsersHandler_Login(t *testing.T) {
	app, _ := newUsersApp(t)

	resp := postJSON(t, app, "/Usuarios/login", fiber.Map{"email": "ana@faculdade.edu", "senha": "segredo123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var decoded struct {
		Token string `json:"token"`
		User  struct {
			Email string `json:"email"`
			Role  int    `json:"tipoUsuario"`
		} `json:"usuario"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	assert.NotEmpty(t, decoded.Token)
	assert.Equal(t, "ana@faculdade.edu", decoded.User.Email)
	assert.Equal(t, int(domain.RoleStudent), decoded.User.Role)
}

func TestUsersHandler_Login_BadCredentials(t *testing.T) {
	app, _ := newUsersApp(t)

	resp := postJSON(t, app, "/Usuarios/login", fiber.Map{"email": "ana@faculdade.edu", "senha": "errada"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUsersHandler_Login_MalformedPayload(t *testing.T) {
	app, _ := newUsersApp(t)

	resp := postJSON(t, app, "/Usuarios/login", fiber.Map{"email": "não-é-email", "senha": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUsersHandler_ForgotPassword_IndistinguishableResponses(t *testing.T) {
	app, _ := newUsersApp(t)

	known := postJSON(t, app, "/Usuarios/esqueci-senha", fiber.Map{"email": "ana@faculdade.edu"})
	unknown := postJSON(t, app, "/Usuarios/esqueci-senha", fiber.Map{"email": "ninguem@faculdade.edu"})

	assert.Equal(t, http.StatusOK, known.StatusCode)
	assert.Equal(t, http.StatusOK, unknown.StatusCode)

	knownBody, err := io.ReadAll(known.Body)
	require.NoError(t, err)
	unknownBody, err := io.ReadAll(unknown.Body)
	require.NoError(t, err)
	assert.Equal(t, string(knownBody), string(unknownBody),
		"responses must not reveal whether the account exists")
}

func TestUsersHandler_ResetPassword_FullFlow(t *testing.T) {
	app, repo := newUsersApp(t)

	resp := postJSON(t, app, "/Usuarios/esqueci-senha", fiber.Map{"email": "ana@faculdade.edu"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	stored, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, stored.ResetToken)

	resp = postJSON(t, app, "/Usuarios/resetar-senha", fiber.Map{
		"token":     *stored.ResetToken,
		"novaSenha": "novaSenha123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postJSON(t, app, "/Usuarios/login", fiber.Map{"email": "ana@faculdade.edu", "senha": "novaSenha123"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The consumed token cannot be replayed.
	resp = postJSON(t, app, "/Usuarios/resetar-senha", fiber.Map{
		"token":     *stored.ResetToken,
		"novaSenha": "outraSenha123",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUsersHandler_ResetPassword_ShortPassword(t *testing.T) {
	app, _ := newUsersApp(t)

	resp := postJSON(t, app, "/Usuarios/resetar-senha", fiber.Map{"token": "abc", "novaSenha": "12345"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUsersHandler_RegisterAdmin(t *testing.T) {
	app, _ := newUsersApp(t)

	resp := postJSON(t, app, "/Usuarios/registrar-admin", fiber.Map{
		"nomeCompleto": "Clara Dias",
		"email":        "clara@faculdade.edu",
		"senha":        "segredo123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		Email    string  `json:"email"`
		Role     int     `json:"tipoUsuario"`
		RoleName string  `json:"tipoUsuarioNome"`
		Password *string `json:"senha"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, "clara@faculdade.edu", created.Email)
	assert.Equal(t, int(domain.RoleAdmin), created.Role)
	assert.Equal(t, "Admin", created.RoleName)
	assert.Nil(t, created.Password, "password material must never be serialized")

	// Reusing the email is rejected.
	resp = postJSON(t, app, "/Usuarios/registrar-admin", fiber.Map{
		"nomeCompleto": "Outra Clara",
		"email":        "clara@faculdade.edu",
		"senha":        "segredo123",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUsersHandler_Profile(t *testing.T) {
	app, _ := newUsersApp(t)

	resp := postJSON(t, app, "/Usuarios/login", fiber.Map{"email": "ana@faculdade.edu", "senha": "segredo123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))

	req := httptest.NewRequest(http.MethodGet, "/Usuarios/perfil", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var profile struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&profile))
	assert.Equal(t, int64(1), profile.ID)
	assert.Equal(t, "ana@faculdade.edu", profile.Email)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/Usuarios/perfil", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
