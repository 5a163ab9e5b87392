package login

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/abonneezy/abonneezy-api/internal/lib/apperr"
	"github.com/abonneezy/abonneezy-api/internal/models"
)

// MockService реализует интерфейс login.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	args := m.Called(ctx, email, password)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.String(1), args.Error(2)
	}
	return nil, args.String(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	logger := newNoopLogger()

	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(*MockService)
		wantStatusCode int
		wantBody       string
	}{
		{
			name: "успешная авторизация",
			requestBody: Request{
				Email:    "user1@example.com",
				Password: "password123",
			},
			setupMock: func(m *MockService) {
				user := &models.User{ID: "user-id-1", Email: "user1@example.com", Name: "User One"}
				m.On("Login", mock.Anything, "user1@example.com", "password123").
					Return(user, "token123", nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantBody:       `"token":"token123"`,
		},
		{
			name:           "некорректный json",
			requestBody:    "{broken",
			setupMock:      func(_ *MockService) {},
			wantStatusCode: http.StatusBadRequest,
			wantBody:       `"message":"invalid request body"`,
		},
		{
			name: "ошибка валидации - нет email",
			requestBody: Request{
				Password: "password123",
			},
			setupMock:      func(_ *MockService) {},
			wantStatusCode: http.StatusBadRequest,
			wantBody:       "field Email is a required field",
		},
		{
			name: "неверные учетные данные",
			requestBody: Request{
				Email:    "user1@example.com",
				Password: "wrongpass",
			},
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "user1@example.com", "wrongpass").
					Return(nil, "", apperr.Unauthorized("invalid email or password")).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
			wantBody:       `"message":"invalid email or password"`,
		},
		{
			name: "неизвестный email даёт то же сообщение",
			requestBody: Request{
				Email:    "nobody@example.com",
				Password: "password123",
			},
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "nobody@example.com", "password123").
					Return(nil, "", apperr.Unauthorized("invalid email or password")).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
			wantBody:       `"message":"invalid email or password"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)

			mockService.AssertExpectations(t)
		})
	}
}
