package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/Vaflel/planning/domain"
)

const minPasswordLength = 6

// ErrNoToken в ответе на вход нет токена
var ErrNoToken = errors.New("бэкенд не вернул токен")

// Credentials форма входа
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PasswordChange форма смены пароля
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// AuthService вход, выход и смена пароля
type AuthService struct {
	api   BackendClient
	store TokenStore
}

// NewAuthService создаёт сервис авторизации
func NewAuthService(api BackendClient, store TokenStore) *AuthService {
	return &AuthService{api: api, store: store}
}

// Login отправляет форму входа; токен и данные пользователя сохраняются отдельно
func (s *AuthService) Login(ctx context.Context, c Credentials) (domain.User, error) {
	if c.Email == "" || c.Password == "" {
		return domain.User{}, &domain.ValidationError{Field: "email", Message: "укажите email и пароль"}
	}

	var resp map[string]json.RawMessage
	if err := s.api.Do(ctx, http.MethodPost, "/api/auth/login", c, &resp); err != nil {
		return domain.User{}, err
	}

	var token string
	if raw, ok := resp["token"]; ok {
		if err := json.Unmarshal(raw, &token); err != nil {
			return domain.User{}, fmt.Errorf("неверный формат токена: %w", err)
		}
	}
	if token == "" {
		return domain.User{}, ErrNoToken
	}
	delete(resp, "token")

	userJSON, err := json.Marshal(resp)
	if err != nil {
		return domain.User{}, err
	}
	var user domain.User
	if err := json.Unmarshal(userJSON, &user); err != nil {
		return domain.User{}, fmt.Errorf("неверный формат пользователя: %w", err)
	}

	if err := s.store.Save(token, userJSON); err != nil {
		return domain.User{}, err
	}
	log.Printf("Вход выполнен: %s", user.Email)
	return user, nil
}

// Logout забывает токен
func (s *AuthService) Logout() error {
	return s.store.Clear()
}

// CurrentUser пользователь текущей сессии; ok=false, если токена нет или он истёк
func (s *AuthService) CurrentUser() (domain.User, bool) {
	if s.store.Token() == "" {
		return domain.User{}, false
	}
	var user domain.User
	if err := json.Unmarshal(s.store.User(), &user); err != nil {
		return domain.User{}, false
	}
	return user, true
}

// ChangePassword проверяет форму и меняет пароль на бэкенде
func (s *AuthService) ChangePassword(ctx context.Context, p PasswordChange) error {
	if p.NewPassword != p.ConfirmPassword {
		return &domain.ValidationError{Field: "confirmPassword", Message: "новые пароли не совпадают"}
	}
	if len([]rune(p.NewPassword)) < minPasswordLength {
		return &domain.ValidationError{Field: "newPassword", Message: fmt.Sprintf("пароль должен быть не короче %d символов", minPasswordLength)}
	}

	body := map[string]string{
		"currentPassword": p.CurrentPassword,
		"newPassword":     p.NewPassword,
	}
	return s.api.Do(ctx, http.MethodPut, "/api/auth/change-password", body, nil)
}
