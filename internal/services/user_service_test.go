package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agamariel/laborders/internal/auth"
	"github.com/agamariel/laborders/internal/models"
	"github.com/agamariel/laborders/internal/storage"
	"github.com/google/uuid"
)

func TestUserServiceImpl_Register(t *testing.T) {
	ctx := context.Background()
	secret := "test-secret"

	tests := []struct {
		name        string
		email       string
		password    string
		mockStorage *storage.MockUserStorage
		wantErr     bool
		errType     error
	}{
		{
			name:     "successful registration",
			email:    "test@example.com",
			password: "password123",
			mockStorage: &storage.MockUserStorage{
				CreateFunc: func(ctx context.Context, user *models.User) error {
					return nil
				},
			},
			wantErr: false,
		},
		{
			name:        "empty email",
			email:       "",
			password:    "password123",
			mockStorage: &storage.MockUserStorage{},
			wantErr:     true,
			errType:     ErrEmptyCredentials,
		},
		{
			name:        "empty password",
			email:       "test@example.com",
			password:    "",
			mockStorage: &storage.MockUserStorage{},
			wantErr:     true,
			errType:     ErrEmptyCredentials,
		},
		{
			name:     "email already registered",
			email:    "existing@example.com",
			password: "password123",
			mockStorage: &storage.MockUserStorage{
				CreateFunc: func(ctx context.Context, user *models.User) error {
					return storage.ErrEmailExists
				},
			},
			wantErr: true,
			errType: storage.ErrEmailExists,
		},
		{
			name:     "storage error",
			email:    "test@example.com",
			password: "password123",
			mockStorage: &storage.MockUserStorage{
				CreateFunc: func(ctx context.Context, user *models.User) error {
					return errors.New("database error")
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewUserService(tt.mockStorage, secret, 24*time.Hour)

			user, token, err := service.Register(ctx, tt.email, tt.password)

			if (err != nil) != tt.wantErr {
				t.Errorf("Register() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if tt.wantErr {
				if tt.errType != nil && !errors.Is(err, tt.errType) {
					t.Errorf("Register() error = %v, want %v", err, tt.errType)
				}
				return
			}

			if user == nil {
				t.Fatal("Register() returned nil user")
			}
			if user.Email != tt.email {
				t.Errorf("Email = %v, want %v", user.Email, tt.email)
			}
			// Пароль хранится только как хеш
			if user.PasswordHash == tt.password {
				t.Error("Register() stored plaintext password")
			}
			if !auth.CheckPassword(tt.password, user.PasswordHash) {
				t.Error("Register() stored hash doesn't match password")
			}
			if token == "" {
				t.Error("Register() returned empty token")
			}

			// Токен несёт ID и email пользователя
			claims, err := auth.ValidateToken(token, secret)
			if err != nil {
				t.Fatalf("ValidateToken() error = %v", err)
			}
			if claims.UserID != user.ID {
				t.Errorf("token UserID = %v, want %v", claims.UserID, user.ID)
			}
			if claims.Email != user.Email {
				t.Errorf("token Email = %v, want %v", claims.Email, user.Email)
			}
		})
	}
}

func TestUserServiceImpl_Login(t *testing.T) {
	ctx := context.Background()
	secret := "test-secret"

	password := "password123"
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	existingUser := &models.User{
		ID:           uuid.New(),
		Email:        "test@example.com",
		PasswordHash: passwordHash,
	}

	storageWithUser := &storage.MockUserStorage{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			if email == existingUser.Email {
				return existingUser, nil
			}
			return nil, storage.ErrUserNotFound
		},
	}

	tests := []struct {
		name        string
		email       string
		password    string
		mockStorage *storage.MockUserStorage
		wantErr     bool
		errType     error
	}{
		{
			name:        "successful login",
			email:       "test@example.com",
			password:    password,
			mockStorage: storageWithUser,
			wantErr:     false,
		},
		{
			name:        "empty credentials",
			email:       "",
			password:    "",
			mockStorage: storageWithUser,
			wantErr:     true,
			errType:     ErrEmptyCredentials,
		},
		{
			name:        "unknown email",
			email:       "unknown@example.com",
			password:    password,
			mockStorage: storageWithUser,
			wantErr:     true,
			errType:     ErrInvalidCredentials,
		},
		{
			name:        "wrong password",
			email:       "test@example.com",
			password:    "wrong-password",
			mockStorage: storageWithUser,
			wantErr:     true,
			errType:     ErrInvalidCredentials,
		},
		{
			name:     "storage error",
			email:    "test@example.com",
			password: password,
			mockStorage: &storage.MockUserStorage{
				GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
					return nil, errors.New("database error")
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewUserService(tt.mockStorage, secret, 24*time.Hour)

			user, token, err := service.Login(ctx, tt.email, tt.password)

			if (err != nil) != tt.wantErr {
				t.Errorf("Login() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if tt.wantErr {
				if tt.errType != nil && !errors.Is(err, tt.errType) {
					t.Errorf("Login() error = %v, want %v", err, tt.errType)
				}
				return
			}

			if user == nil {
				t.Fatal("Login() returned nil user")
			}
			if token == "" {
				t.Error("Login() returned empty token")
			}
		})
	}
}

// Неизвестный email и неверный пароль должны давать одну и ту же ошибку,
// чтобы по ответу нельзя было перечислять зарегистрированные адреса.
func TestUserServiceImpl_LoginIndistinguishableFailures(t *testing.T) {
	ctx := context.Background()

	passwordHash, err := auth.HashPassword("correct")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	mockStorage := &storage.MockUserStorage{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			if email == "known@example.com" {
				return &models.User{
					ID:           uuid.New(),
					Email:        email,
					PasswordHash: passwordHash,
				}, nil
			}
			return nil, storage.ErrUserNotFound
		},
	}

	service := NewUserService(mockStorage, "test-secret", 24*time.Hour)

	_, _, errUnknown := service.Login(ctx, "unknown@example.com", "whatever")
	_, _, errWrongPass := service.Login(ctx, "known@example.com", "wrong")

	if !errors.Is(errUnknown, ErrInvalidCredentials) {
		t.Errorf("unknown email error = %v, want ErrInvalidCredentials", errUnknown)
	}
	if !errors.Is(errWrongPass, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", errWrongPass)
	}
	if errUnknown.Error() != errWrongPass.Error() {
		t.Errorf("error messages differ: %q vs %q", errUnknown.Error(), errWrongPass.Error())
	}
}
