package service

import (
	"context"
	"time"

	"accounts_service/internal/models"
	"accounts_service/internal/repository"
)

// Users is the credential store: user lifecycle with field-level redaction.
// Every return value is the redacted projection; the password hash never
// leaves this layer.
type Users interface {
	Create(ctx context.Context, in CreateUserInput) (models.PublicUser, error)
	GetByID(ctx context.Context, id int) (models.PublicUser, error)
	List(ctx context.Context) ([]models.PublicUser, error)
	Update(ctx context.Context, id int, in UpdateUserInput) (models.PublicUser, error)
	Remove(ctx context.Context, id int) error
}

// Authorization verifies login credentials and issues session tokens.
type Authorization interface {
	Login(ctx context.Context, email, password string) (LoginResult, error)
	ParseToken(accessToken string) (int, error)
}

// AuditLog exposes the append-only user-lifecycle trail with filtering access.
type AuditLog interface {
	List(ctx context.Context, f LogFilter) ([]models.AuditEvent, error)
	Tail(ctx context.Context, limit int) ([]models.AuditEvent, error)
}

// System exposes backing-store health for the status endpoint.
type System interface {
	DBStatus(ctx context.Context) error
}

// CreateUserInput is the registration payload after boundary validation.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
}

// UpdateUserInput carries a partial field merge; nil means "leave unchanged".
type UpdateUserInput struct {
	Username *string
	Email    *string
	Password *string
	IsActive *bool
}

// LoginResult is a signed session token plus the redacted user view.
type LoginResult struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// LogFilter supports audit history filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "USER_CREATED", "USER_UPDATED", "USER_DELETED", "LOGIN_OK", "LOGIN_FAILED"
}

// Config carries the secrets the surrounding system manages for the
// token issuer.
type Config struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// Service aggregates all sub-services.
type Service struct {
	Users
	Authorization
	AuditLog
	System
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, cfg Config) *Service {
	audit := NewAuditLogService(repos.Audit)
	return &Service{
		Users:         NewUserService(repos.Users, audit),
		Authorization: NewAuthService(repos.Users, audit, cfg),
		AuditLog:      audit,
		System:        NewSystemService(repos.System),
	}
}
