package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campus_lost_found/internal/models"
	"campus_lost_found/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultSessionTTL = 24 * time.Hour
	sessionIssuer     = "campus-lost-found"
)

// AuthService handles registration, login and session tokens.
type AuthService struct {
	users  repository.UserRepo
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthService(repo repository.UserRepo, cfg SessionConfig) *AuthService {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultSessionTTL
	}
	return &AuthService{
		users:  repo,
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		now:    time.Now,
	}
}

// Register validates the form, hashes the password and stores a new user.
// It does not log the user in.
func (s *AuthService) Register(ctx context.Context, email, password, passwordConfirm string) (int, error) {
	email = models.NormalizeEmail(email)
	if email == "" || password == "" {
		return 0, ErrCredentialsRequired
	}
	if password != passwordConfirm {
		return 0, ErrPasswordMismatch
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, fmt.Errorf("register %q: %w", email, ErrDuplicate)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return 0, err
	}
	id, err := s.users.Create(ctx, models.User{Email: email, PasswordHash: hash, CreatedAt: s.now()})
	if err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repository.ErrDuplicate) {
			return 0, fmt.Errorf("register %q: %w", email, ErrDuplicate)
		}
		return 0, err
	}
	return id, nil
}

// Claims defines the session token claims. The subject is the user's email.
type Claims struct {
	jwt.RegisteredClaims
}

// Login checks credentials and returns a signed session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = models.NormalizeEmail(email)
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", ErrAuth
	}
	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return "", ErrAuth
	}
	return s.issueToken(u.Email)
}

// ParseSession validates a session token and returns the email it was issued for.
func (s *AuthService) ParseSession(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(sessionIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalidSession
	}
	return claims.Subject, nil
}

// CurrentUser resolves a session token to its user. It returns (nil, nil) when
// there is no token or the user no longer exists, and ErrInvalidSession when
// the token cannot be trusted.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}
	email, err := s.ParseSession(token)
	if err != nil {
		return nil, err
	}
	return s.users.GetByEmail(ctx, email)
}

// HashPassword returns a salted bcrypt hash of password.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: password is empty", ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// helper: issue a signed session token for an email
func (s *AuthService) issueToken(email string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    sessionIssuer,
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	return token.SignedString(s.secret)
}
