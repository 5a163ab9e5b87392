// Package services содержит бизнес-логику работы с пользователями и подписками.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/abonneezy/abonneezy-api/internal/lib/apperr"
	"github.com/abonneezy/abonneezy-api/internal/lib/jwt"
	"github.com/abonneezy/abonneezy-api/internal/lib/password"
	"github.com/abonneezy/abonneezy-api/internal/models"
	"github.com/abonneezy/abonneezy-api/internal/storage/repository"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя; занятый email — repository.ErrEmailTaken.
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	// FindUserByEmail возвращает пользователя или (nil, nil), если его нет.
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	// FindUserByID возвращает пользователя или (nil, nil), если его нет.
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	// UpdateUser перезаписывает изменяемые поля; (nil, nil), если записи нет.
	UpdateUser(ctx context.Context, user models.User) (*models.User, error)
	// DeleteUser удаляет пользователя и возвращает количество удалённых строк.
	DeleteUser(ctx context.Context, id string) (int64, error)
}

// UserService отвечает за жизненный цикл учётной записи:
// регистрацию, аутентификацию, чтение и обновление профиля, удаление.
type UserService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	log      *slog.Logger
}

// NewUserService создаёт новый экземпляр UserService.
func NewUserService(users UserRepository, jwtMaker jwt.Maker, log *slog.Logger) *UserService {
	return &UserService{
		users:    users,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// Register создаёт пользователя с хешированием пароля и выпускает токен доступа.
//
// Проверка занятости email здесь — только ранний отказ; гонку двух одновременных
// регистраций закрывает уникальное ограничение в базе.
func (s *UserService) Register(ctx context.Context, email, rawPassword, name string) (*models.User, string, error) {
	const op = "services.user.Register"

	existing, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	if existing != nil {
		return nil, "", apperr.Conflict("email already in use")
	}

	hashed, err := password.Hash(rawPassword)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hashed,
	}
	created, err := s.users.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, "", apperr.Conflict("email already in use")
		}
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.jwtMaker.GenerateToken(created.ID, created.Email)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return created, token, nil
}

// Login проверяет учётные данные и выпускает токен доступа.
// Сообщение об ошибке не раскрывает, что именно не совпало.
func (s *UserService) Login(ctx context.Context, email, rawPassword string) (*models.User, string, error) {
	const op = "services.user.Login"

	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	if user == nil {
		return nil, "", apperr.Unauthorized("invalid email or password")
	}
	if err := password.Verify(user.PasswordHash, rawPassword); err != nil {
		return nil, "", apperr.Unauthorized("invalid email or password")
	}

	token, err := s.jwtMaker.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return user, token, nil
}

// Profile возвращает пользователя по идентификатору из токена.
func (s *UserService) Profile(ctx context.Context, id string) (*models.User, error) {
	const op = "services.user.Profile"

	user, err := s.users.FindUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}
	return user, nil
}

// Update применяет частичное обновление профиля: меняются только переданные поля.
// Смена email заново проверяется на уникальность, смена пароля — хешируется.
func (s *UserService) Update(ctx context.Context, id string, req models.UpdateUserRequest) (*models.User, error) {
	const op = "services.user.Update"

	current, err := s.users.FindUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if current == nil {
		return nil, apperr.NotFound("user not found")
	}

	if req.Email != nil && *req.Email != current.Email {
		existing, err := s.users.FindUserByEmail(ctx, *req.Email)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if existing != nil && existing.ID != id {
			return nil, apperr.Conflict("email already in use")
		}
		current.Email = *req.Email
	}
	if req.Name != nil {
		current.Name = *req.Name
	}
	if req.Password != nil {
		hashed, err := password.Hash(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		current.PasswordHash = hashed
	}

	updated, err := s.users.UpdateUser(ctx, *current)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, apperr.Conflict("email already in use")
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if updated == nil {
		return nil, apperr.NotFound("user not found")
	}
	return updated, nil
}

// Delete удаляет учётную запись пользователя.
func (s *UserService) Delete(ctx context.Context, id string) error {
	const op = "services.user.Delete"

	rows, err := s.users.DeleteUser(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}
