package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/abonneezy/abonneezy-api/internal/lib/apperr"
	"github.com/abonneezy/abonneezy-api/internal/lib/jwt"
	"github.com/abonneezy/abonneezy-api/internal/lib/password"
	"github.com/abonneezy/abonneezy-api/internal/models"
	"github.com/abonneezy/abonneezy-api/internal/storage/repository"
)

// MockUserRepository реализует интерфейс UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) DeleteUser(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

// MockMaker реализует интерфейс jwt.Maker
type MockMaker struct {
	mock.Mock
}

func (m *MockMaker) GenerateToken(userID, email string) (string, error) {
	args := m.Called(userID, email)
	return args.String(0), args.Error(1)
}

func (m *MockMaker) ParseToken(tokenStr string) (*jwt.Claims, error) {
	args := m.Called(tokenStr)
	if res := args.Get(0); res != nil {
		return res.(*jwt.Claims), args.Error(1)
	}
	return nil, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("успешная регистрация", func(t *testing.T) {
		repo := new(MockUserRepository)
		maker := new(MockMaker)
		svc := NewUserService(repo, maker, newNoopLogger())

		repo.On("FindUserByEmail", mock.Anything, "user1@example.com").Return(nil, nil).Once()
		repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
			return u.Email == "user1@example.com" && u.Name == "User One" &&
				u.ID != "" && u.PasswordHash != "" && u.PasswordHash != "password123"
		})).Return(&models.User{ID: "user-id-1", Email: "user1@example.com", Name: "User One"}, nil).Once()
		maker.On("GenerateToken", "user-id-1", "user1@example.com").Return("token123", nil).Once()

		user, token, err := svc.Register(ctx, "user1@example.com", "password123", "User One")

		assert.NoError(t, err)
		assert.Equal(t, "user-id-1", user.ID)
		assert.Equal(t, "token123", token)
		repo.AssertExpectations(t)
		maker.AssertExpectations(t)
	})

	t.Run("занятый email", func(t *testing.T) {
		repo := new(MockUserRepository)
		maker := new(MockMaker)
		svc := NewUserService(repo, maker, newNoopLogger())

		existing := &models.User{ID: "other-id", Email: "taken@example.com"}
		repo.On("FindUserByEmail", mock.Anything, "taken@example.com").Return(existing, nil).Once()

		_, _, err := svc.Register(ctx, "taken@example.com", "password123", "User One")

		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
		repo.AssertExpectations(t)
	})

	t.Run("гонка регистраций закрывается ограничением базы", func(t *testing.T) {
		repo := new(MockUserRepository)
		maker := new(MockMaker)
		svc := NewUserService(repo, maker, newNoopLogger())

		repo.On("FindUserByEmail", mock.Anything, "race@example.com").Return(nil, nil).Once()
		repo.On("CreateUser", mock.Anything, mock.Anything).Return(nil, repository.ErrEmailTaken).Once()

		_, _, err := svc.Register(ctx, "race@example.com", "password123", "User One")

		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
		repo.AssertExpectations(t)
	})
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()

	hashed, err := password.Hash("password123")
	assert.NoError(t, err)

	t.Run("успешный вход", func(t *testing.T) {
		repo := new(MockUserRepository)
		maker := new(MockMaker)
		svc := NewUserService(repo, maker, newNoopLogger())

		user := &models.User{ID: "user-id-1", Email: "user1@example.com", PasswordHash: hashed}
		repo.On("FindUserByEmail", mock.Anything, "user1@example.com").Return(user, nil).Once()
		maker.On("GenerateToken", "user-id-1", "user1@example.com").Return("token123", nil).Once()

		got, token, err := svc.Login(ctx, "user1@example.com", "password123")

		assert.NoError(t, err)
		assert.Equal(t, "user-id-1", got.ID)
		assert.Equal(t, "token123", token)
	})

	t.Run("неизвестный email", func(t *testing.T) {
		repo := new(MockUserRepository)
		maker := new(MockMaker)
		svc := NewUserService(repo, maker, newNoopLogger())

		repo.On("FindUserByEmail", mock.Anything, "nobody@example.com").Return(nil, nil).Once()

		_, _, err := svc.Login(ctx, "nobody@example.com", "password123")

		assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
		assert.Equal(t, "invalid email or password", apperr.UserMessage(err))
	})

	t.Run("неверный пароль даёт то же сообщение", func(t *testing.T) {
		repo := new(MockUserRepository)
		maker := new(MockMaker)
		svc := NewUserService(repo, maker, newNoopLogger())

		user := &models.User{ID: "user-id-1", Email: "user1@example.com", PasswordHash: hashed}
		repo.On("FindUserByEmail", mock.Anything, "user1@example.com").Return(user, nil).Once()

		_, _, err := svc.Login(ctx, "user1@example.com", "wrongpass")

		assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
		assert.Equal(t, "invalid email or password", apperr.UserMessage(err))
	})
}

func TestUserService_Profile(t *testing.T) {
	ctx := context.Background()

	t.Run("профиль найден", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo, new(MockMaker), newNoopLogger())

		user := &models.User{ID: "user-id-1", Email: "user1@example.com"}
		repo.On("FindUserByID", mock.Anything, "user-id-1").Return(user, nil).Once()

		got, err := svc.Profile(ctx, "user-id-1")

		assert.NoError(t, err)
		assert.Equal(t, "user1@example.com", got.Email)
	})

	t.Run("пользователь не найден", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo, new(MockMaker), newNoopLogger())

		repo.On("FindUserByID", mock.Anything, "missing-id").Return(nil, nil).Once()

		_, err := svc.Profile(ctx, "missing-id")

		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}

func TestUserService_Update(t *testing.T) {
	ctx := context.Background()

	strPtr := func(s string) *string { return &s }

	t.Run("частичное обновление сохраняет незатронутые поля", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo, new(MockMaker), newNoopLogger())

		current := &models.User{ID: "user-id-1", Email: "user1@example.com", Name: "Old Name", PasswordHash: "oldhash"}
		repo.On("FindUserByID", mock.Anything, "user-id-1").Return(current, nil).Once()
		repo.On("UpdateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
			return u.Name == "New Name" && u.Email == "user1@example.com" && u.PasswordHash == "oldhash"
		})).Return(&models.User{ID: "user-id-1", Email: "user1@example.com", Name: "New Name"}, nil).Once()

		got, err := svc.Update(ctx, "user-id-1", models.UpdateUserRequest{Name: strPtr("New Name")})

		assert.NoError(t, err)
		assert.Equal(t, "New Name", got.Name)
		repo.AssertExpectations(t)
	})

	t.Run("новый email занят другим пользователем", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo, new(MockMaker), newNoopLogger())

		current := &models.User{ID: "user-id-1", Email: "user1@example.com"}
		other := &models.User{ID: "user-id-2", Email: "taken@example.com"}
		repo.On("FindUserByID", mock.Anything, "user-id-1").Return(current, nil).Once()
		repo.On("FindUserByEmail", mock.Anything, "taken@example.com").Return(other, nil).Once()

		_, err := svc.Update(ctx, "user-id-1", models.UpdateUserRequest{Email: strPtr("taken@example.com")})

		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	})

	t.Run("смена пароля хешируется", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo, new(MockMaker), newNoopLogger())

		current := &models.User{ID: "user-id-1", Email: "user1@example.com", PasswordHash: "oldhash"}
		repo.On("FindUserByID", mock.Anything, "user-id-1").Return(current, nil).Once()
		repo.On("UpdateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
			return u.PasswordHash != "oldhash" && u.PasswordHash != "newpassword"
		})).Return(current, nil).Once()

		_, err := svc.Update(ctx, "user-id-1", models.UpdateUserRequest{Password: strPtr("newpassword")})

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("успешное удаление", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo, new(MockMaker), newNoopLogger())

		repo.On("DeleteUser", mock.Anything, "user-id-1").Return(int64(1), nil).Once()

		assert.NoError(t, svc.Delete(ctx, "user-id-1"))
	})

	t.Run("пользователя нет", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo, new(MockMaker), newNoopLogger())

		repo.On("DeleteUser", mock.Anything, "missing-id").Return(int64(0), nil).Once()

		err := svc.Delete(ctx, "missing-id")
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("ошибка хранилища", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo, new(MockMaker), newNoopLogger())

		repo.On("DeleteUser", mock.Anything, "user-id-1").Return(int64(0), errors.New("db error")).Once()

		err := svc.Delete(ctx, "user-id-1")
		assert.Error(t, err)
		assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	})
}
