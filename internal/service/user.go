package service

import (
	"context"
	"errors"
	"strings"

	"SessionKeeper/internal/model"
	"SessionKeeper/internal/repo"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrLoginTaken — логин уже занят.
	ErrLoginTaken = errors.New("login already taken")
	// ErrInvalidCredentials — неверный логин или пароль.
	ErrInvalidCredentials = errors.New("invalid login or password")
	// ErrUserNotFound — пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmptyCredentials — пустой логин или пароль.
	ErrEmptyCredentials = errors.New("login and password are required")
)

// UserService инкапсулирует бизнес-логику регистрации, входа и профиля.
type UserService struct {
	repo repo.UserRepository
}

func NewUserService(r repo.UserRepository) *UserService {
	return &UserService{repo: r}
}

// Register создаёт пользователя с bcrypt-хешем пароля.
func (s *UserService) Register(ctx context.Context, login, password string) (*model.User, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, ErrEmptyCredentials
	}
	existing, err := s.repo.GetUserByLogin(ctx, login)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrLoginTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u, err := s.repo.CreateUser(ctx, &model.User{Login: login, Password: string(hash), Nickname: login})
	if err != nil {
		if s.loginTaken(ctx, login, err) {
			return nil, ErrLoginTaken
		}
		return nil, err
	}
	return u, nil
}

// loginTaken распознаёт проигранную гонку двух регистраций одного логина.
// Не все драйверы переводят ошибку уникального индекса в gorm.ErrDuplicatedKey,
// поэтому при любой ошибке вставки логин проверяется повторно.
func (s *UserService) loginTaken(ctx context.Context, login string, createErr error) bool {
	if errors.Is(createErr, gorm.ErrDuplicatedKey) {
		return true
	}
	existing, err := s.repo.GetUserByLogin(ctx, login)
	return err == nil && existing != nil
}

// Login проверяет пару логин/пароль.
func (s *UserService) Login(ctx context.Context, login, password string) (*model.User, error) {
	u, err := s.repo.GetUserByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// GetByID возвращает пользователя для эндпоинта профиля.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	u, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
