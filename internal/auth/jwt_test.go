package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/agamariel/laborders/internal/models"
	"github.com/google/uuid"
)

func TestGenerateToken(t *testing.T) {
	secret := "test-secret"
	expiration := 1 * time.Hour

	user := &models.User{
		ID:    uuid.New(),
		Email: "test@example.com",
	}

	tests := []struct {
		name       string
		user       *models.User
		secret     string
		expiration time.Duration
		wantErr    bool
	}{
		{
			name:       "valid user",
			user:       user,
			secret:     secret,
			expiration: expiration,
			wantErr:    false,
		},
		{
			name: "user with empty email",
			user: &models.User{
				ID:    uuid.New(),
				Email: "",
			},
			secret:     secret,
			expiration: expiration,
			wantErr:    false, // JWT не валидирует пустой email
		},
		{
			name:       "empty secret",
			user:       user,
			secret:     "",
			expiration: expiration,
			wantErr:    false, // Токен создастся, но будет легко взломать
		},
		{
			name:       "negative expiration",
			user:       user,
			secret:     secret,
			expiration: -1 * time.Hour,
			wantErr:    false, // Токен уже истёк
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateToken(tt.user, tt.secret, tt.expiration)
			if (err != nil) != tt.wantErr {
				t.Errorf("GenerateToken() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && token == "" {
				t.Error("GenerateToken() returned empty token")
			}
		})
	}
}

func TestValidateToken(t *testing.T) {
	secret := "test-secret"
	user := &models.User{
		ID:    uuid.New(),
		Email: "test@example.com",
	}

	validToken, err := GenerateToken(user, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	expiredToken, err := GenerateToken(user, secret, -time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	tests := []struct {
		name    string
		token   string
		secret  string
		wantErr error
	}{
		{
			name:   "valid token",
			token:  validToken,
			secret: secret,
		},
		{
			name:    "expired token",
			token:   expiredToken,
			secret:  secret,
			wantErr: ErrTokenExpired,
		},
		{
			name:    "wrong secret",
			token:   validToken,
			secret:  "another-secret",
			wantErr: ErrInvalidToken,
		},
		{
			name:    "malformed token",
			token:   "not.a.token",
			secret:  secret,
			wantErr: ErrInvalidToken,
		},
		{
			name:    "empty token",
			token:   "",
			secret:  secret,
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token, tt.secret)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ValidateToken() error = %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("ValidateToken() unexpected error = %v", err)
			}
			if claims.UserID != user.ID {
				t.Errorf("UserID = %v, want %v", claims.UserID, user.ID)
			}
			if claims.Email != user.Email {
				t.Errorf("Email = %v, want %v", claims.Email, user.Email)
			}
		})
	}
}
