package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Kariqs/puffvibe-api/logger"
	"github.com/Kariqs/puffvibe-api/models"
	"github.com/Kariqs/puffvibe-api/repositories"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost      = 10
	DefaultTokenTTL = 30 * 24 * time.Hour
)

// Principal is the identity carried by a verified token.
type Principal struct {
	UserID uint
	Email  string
	Role   string
}

func (p Principal) Viewer() Viewer {
	return Viewer{UserID: p.UserID, Role: p.Role}
}

type AuthService struct {
	users  repositories.UserRepository
	secret []byte
	ttl    time.Duration
	log    *logger.Logger
	now    func() time.Time
}

func NewAuthService(users repositories.UserRepository, secret string, log *logger.Logger) *AuthService {
	return &AuthService{
		users:  users,
		secret: []byte(secret),
		ttl:    DefaultTokenTTL,
		log:    log.WithComponent("auth_service"),
		now:    time.Now,
	}
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func (s *AuthService) generateJWT(user *models.User) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"iat":     now.Unix(),
		"exp":     now.Add(s.ttl).Unix(),
	})
	return token.SignedString(s.secret)
}

func (s *AuthService) Register(ctx context.Context, data models.SignupData) (*models.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(data.Email))
	phone := strings.TrimSpace(data.Phone)

	exists, err := s.users.UserExists(ctx, email, phone)
	if err != nil {
		return nil, "", InternalError("Error registering user", err)
	}
	if exists {
		return nil, "", ValidationError("User already exists with this email or phone")
	}

	hashed, err := hashPassword(data.Password)
	if err != nil {
		return nil, "", InternalError("Error registering user", err)
	}

	user := &models.User{
		Name:      strings.TrimSpace(data.Name),
		Email:     email,
		Phone:     phone,
		Password:  hashed,
		Role:      models.RoleCustomer,
		Address:   data.Address,
		Latitude:  data.Latitude,
		Longitude: data.Longitude,
		Instagram: data.Instagram,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, "", ValidationError("User already exists with this email or phone")
		}
		return nil, "", InternalError("Error registering user", err)
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, "", InternalError("Error registering user", err)
	}
	s.log.Info("User registered", "user_id", user.ID)
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, data models.LoginData) (*models.User, string, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(data.Email)))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, "", UnauthorizedError("Invalid credentials")
		}
		return nil, "", InternalError("Error logging in", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(data.Password)); err != nil {
		return nil, "", UnauthorizedError("Invalid credentials")
	}

	now := s.now()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.log.Warn("Failed to record last login", "user_id", user.ID, "error", err)
	} else {
		user.LastLogin = &now
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, "", InternalError("Error logging in", err)
	}
	return user, token, nil
}

func (s *AuthService) Me(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NotFoundError("User not found")
		}
		return nil, InternalError("Error fetching user", err)
	}
	return user, nil
}

// Authenticate verifies a bearer token and returns who it belongs to.
func (s *AuthService) Authenticate(tokenString string) (*Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, UnauthorizedError("Token is not valid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, UnauthorizedError("Token is not valid")
	}
	id, ok := claims["user_id"].(float64)
	if !ok || id <= 0 {
		return nil, UnauthorizedError("Token is not valid")
	}
	principal := &Principal{UserID: uint(id)}
	principal.Email, _ = claims["email"].(string)
	principal.Role, _ = claims["role"].(string)
	return principal, nil
}

// EnsureAdmin creates the bootstrap admin account if no user holds its email.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, phone, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return false, nil
	}
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return false, err
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return false, err
	}
	if name == "" {
		name = "Admin"
	}
	admin := &models.User{Name: name, Email: email, Phone: phone, Password: hashed, Role: models.RoleAdmin}
	if err := s.users.CreateUser(ctx, admin); err != nil {
		return false, err
	}
	s.log.Info("Admin account created", "email", email)
	return true, nil
}
