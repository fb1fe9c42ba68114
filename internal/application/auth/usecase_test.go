package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kirodsllc/inventario-contable/internal/application/dto"
	"github.com/kirodsllc/inventario-contable/internal/domain"
	"github.com/kirodsllc/inventario-contable/internal/domain/entity"
	"github.com/kirodsllc/inventario-contable/pkg/jwt"
)

type memUserRepo struct {
	byEmail map[string]*entity.User
}

func (r *memUserRepo) GetByEmail(email string) (*entity.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (r *memUserRepo) GetByID(id string) (*entity.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memUserRepo) Create(u *entity.User) error {
	r.byEmail[u.Email] = u
	return nil
}

func newAuthFixture(t *testing.T) (*UseCase, *entity.User) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secreto123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &entity.User{
		ID:           uuid.NewString(),
		Email:        "operador@taller.co",
		PasswordHash: string(hash),
		Name:         "Operador Uno",
		Role:         "operator",
		CreatedAt:    time.Now(),
	}
	repo := &memUserRepo{byEmail: map[string]*entity.User{user.Email: user}}
	uc := NewUseCase(repo, JWTConfig{Secret: "test-secret", ExpMinutes: 60, Issuer: "inventario-contable"})
	return uc, user
}

func TestLogin(t *testing.T) {
	t.Run("credenciales válidas", func(t *testing.T) {
		uc, user := newAuthFixture(t)

		resp, err := uc.Login(dto.LoginRequest{Email: user.Email, Password: "secreto123"})
		require.NoError(t, err)
		assert.Equal(t, user.ID, resp.User.ID)
		assert.Equal(t, "operator", resp.User.Role)

		userID, role, err := jwt.Parse("test-secret", resp.Token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, userID)
		assert.Equal(t, "operator", role)
	})

	t.Run("contraseña errada", func(t *testing.T) {
		uc, user := newAuthFixture(t)
		_, err := uc.Login(dto.LoginRequest{Email: user.Email, Password: "otra"})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("correo desconocido responde igual que contraseña errada", func(t *testing.T) {
		uc, _ := newAuthFixture(t)
		_, err := uc.Login(dto.LoginRequest{Email: "nadie@taller.co", Password: "secreto123"})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}
