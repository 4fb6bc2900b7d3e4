package authenticating

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/repository/mocks"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "segredo-de-teste"

func hashedUser(t *testing.T) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("demo123"), bcrypt.MinCost)
	require.NoError(t, err)
	return &domain.User{ID: "demo-ana", Name: "Ana", Email: "ana@example.com", PasswordHash: string(hash), RoleID: domain.RoleViewer}
}

func authCode(t *testing.T, err error) string {
	t.Helper()
	var authErr *AuthError
	require.True(t, errors.As(err, &authErr), "esperado AuthError, recebido %v", err)
	return authErr.Code
}

func TestLoginUser_GeraTokenValido(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepository(ctrl)
	users.EXPECT().GetUserByEmail(gomock.Any(), "ana@example.com").Return(hashedUser(t), nil)

	service := NewService(users, testSecret)

	token, err := service.LoginUser(context.Background(), " Ana@Example.com ", "demo123")
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "demo-ana", claims.UserID)
	assert.Equal(t, domain.RoleViewer, claims.UserRoleID)
}

func TestLoginUser_Erros(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		setup    func(users *mocks.MockUserRepository, user *domain.User)
		wantCode string
	}{
		{
			name:     "dados ausentes",
			email:    "",
			password: "x",
			setup:    func(*mocks.MockUserRepository, *domain.User) {},
			wantCode: apiErrors.ErrMissingRequiredData,
		},
		{
			name:     "usuário inexistente",
			email:    "x@example.com",
			password: "demo123",
			setup: func(users *mocks.MockUserRepository, _ *domain.User) {
				users.EXPECT().GetUserByEmail(gomock.Any(), "x@example.com").Return(nil, nil)
			},
			wantCode: apiErrors.ErrUserNotFound,
		},
		{
			name:     "senha incorreta",
			email:    "ana@example.com",
			password: "errada",
			setup: func(users *mocks.MockUserRepository, user *domain.User) {
				users.EXPECT().GetUserByEmail(gomock.Any(), "ana@example.com").Return(user, nil)
			},
			wantCode: apiErrors.ErrInvalidCredentials,
		},
		{
			name:     "falha no banco",
			email:    "ana@example.com",
			password: "demo123",
			setup: func(users *mocks.MockUserRepository, _ *domain.User) {
				users.EXPECT().GetUserByEmail(gomock.Any(), "ana@example.com").Return(nil, errors.New("timeout"))
			},
			wantCode: apiErrors.ErrDatabaseOperation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			users := mocks.NewMockUserRepository(ctrl)
			tt.setup(users, hashedUser(t))

			_, err := NewService(users, testSecret).LoginUser(context.Background(), tt.email, tt.password)
			assert.Equal(t, tt.wantCode, authCode(t, err))
		})
	}
}

func TestValidateToken_Expirado(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := NewService(mocks.NewMockUserRepository(ctrl), testSecret)

	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	token, err := generateJWT(hashedUser(t), testSecret, issued)
	require.NoError(t, err)

	service.now = func() time.Time { return issued.Add(tokenTTL + time.Minute) }

	_, err = service.ValidateToken(token)
	assert.Equal(t, apiErrors.ErrExpiredToken, authCode(t, err))
}

func TestValidateToken_AssinaturaInvalida(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := NewService(mocks.NewMockUserRepository(ctrl), testSecret)

	token, err := generateJWT(hashedUser(t), "outro-segredo", time.Now())
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.Equal(t, apiErrors.ErrInvalidToken, authCode(t, err))
}

func TestGetUserProfile_OcultaHash(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepository(ctrl)
	user := hashedUser(t)
	users.EXPECT().GetUserByID(gomock.Any(), "demo-ana").Return(user, nil)

	profile, err := NewService(users, testSecret).GetUserProfile(context.Background(), "demo-ana")
	require.NoError(t, err)
	assert.Empty(t, profile.PasswordHash)
	assert.NotEmpty(t, user.PasswordHash)
}
