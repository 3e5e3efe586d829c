package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"accounts_service/internal/repository"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTokenTTL = time.Hour

// Domain errors for auth flows. Unknown email and wrong password both
// surface as ErrInvalidCredentials so a caller cannot probe which emails
// are registered.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
)

// Claims defines JWT claims: the registered subject holds the user id,
// plus the user's email.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// TokenIssuer produces a signed, time-bounded session token for a user.
type TokenIssuer interface {
	Sign(userID int, email string) (string, error)
}

// hmacTokenIssuer signs HS256 tokens with a shared secret.
type hmacTokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func (i *hmacTokenIssuer) Sign(userID int, email string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(userID),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email: email,
	})
	return token.SignedString(i.secret)
}

// AuthService handles login verification and token parsing.
type AuthService struct {
	users  repository.Users
	audit  auditRecorder
	issuer TokenIssuer
	secret []byte
}

func NewAuthService(users repository.Users, audit auditRecorder, cfg Config) *AuthService {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	secret := []byte(cfg.JWTSecret)
	return &AuthService{
		users:  users,
		audit:  audit,
		issuer: &hmacTokenIssuer{secret: secret, ttl: ttl},
		secret: secret,
	}
}

// Login verifies the email/password pair and returns a signed token plus the
// redacted user view. Both failure paths return the same error value and
// record the same audit event, so neither the response nor the trail reveals
// whether the email exists.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return LoginResult{}, err
	}
	if u == nil {
		return LoginResult{}, s.rejectLogin(ctx, email)
	}

	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return LoginResult{}, s.rejectLogin(ctx, email)
	}

	token, err := s.issuer.Sign(u.ID, u.Email)
	if err != nil {
		return LoginResult{}, fmt.Errorf("sign token: %w", err)
	}

	_ = s.audit.Record(ctx, EventLoginOK, fmt.Sprintf("user #%d logged in", u.ID), nil)

	return LoginResult{Token: token, User: u.Public()}, nil
}

func (s *AuthService) rejectLogin(ctx context.Context, email string) error {
	_ = s.audit.Record(ctx, EventLoginFailed, "login rejected", map[string]any{"email": email})
	return ErrInvalidCredentials
}

// ParseToken parses a session token and returns the user id from its subject.
func (s *AuthService) ParseToken(accessToken string) (int, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return userID, nil
}
