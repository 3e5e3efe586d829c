package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"accounts_service/internal/models"
	"accounts_service/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// Domain errors for the user lifecycle.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// Audit event types recorded by the services.
const (
	EventUserCreated = "USER_CREATED"
	EventUserUpdated = "USER_UPDATED"
	EventUserDeleted = "USER_DELETED"
	EventLoginOK     = "LOGIN_OK"
	EventLoginFailed = "LOGIN_FAILED"
)

// auditRecorder is the write side of the audit trail consumed by the
// user and auth services.
type auditRecorder interface {
	Record(ctx context.Context, typ, description string, meta any) error
}

// UserService is the credential store: it owns hashing on write and
// redaction on read, so no caller can accidentally leak a hash.
type UserService struct {
	users repository.Users
	audit auditRecorder
}

func NewUserService(users repository.Users, audit auditRecorder) *UserService {
	return &UserService{users: users, audit: audit}
}

// Create registers a new user. The email lookup gives a friendly Conflict on
// the common path; the unique index on users.email is what actually closes
// the check-then-insert race, so its violation maps to the same error.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (models.PublicUser, error) {
	hash, err := hashPassword(in.Password)
	if err != nil {
		return models.PublicUser{}, fmt.Errorf("invalid password: %w", err)
	}

	existing, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return models.PublicUser{}, err
	}
	if existing != nil {
		return models.PublicUser{}, ErrEmailTaken
	}

	now := time.Now().UTC()
	u := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	id, err := s.users.Create(ctx, u)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return models.PublicUser{}, ErrEmailTaken
		}
		return models.PublicUser{}, err
	}
	u.ID = id

	// audit is best-effort
	_ = s.audit.Record(ctx, EventUserCreated, fmt.Sprintf("user #%d registered", id), map[string]any{"email": u.Email})

	return u.Public(), nil
}

// GetByID returns the redacted view or ErrUserNotFound.
func (s *UserService) GetByID(ctx context.Context, id int) (models.PublicUser, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return models.PublicUser{}, err
	}
	if u == nil {
		return models.PublicUser{}, ErrUserNotFound
	}
	return u.Public(), nil
}

// List returns all users as redacted views, ordered by id.
func (s *UserService) List(ctx context.Context) ([]models.PublicUser, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	return out, nil
}

// Update merges the provided fields over the existing record. A password,
// if present, is re-hashed before the merge. The returned view is redacted
// like every other externally observable return.
func (s *UserService) Update(ctx context.Context, id int, in UpdateUserInput) (models.PublicUser, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return models.PublicUser{}, err
	}
	if u == nil {
		return models.PublicUser{}, ErrUserNotFound
	}

	if in.Username != nil {
		u.Username = *in.Username
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.Password != nil {
		hash, err := hashPassword(*in.Password)
		if err != nil {
			return models.PublicUser{}, fmt.Errorf("invalid password: %w", err)
		}
		u.PasswordHash = hash
	}
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}
	u.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, u); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return models.PublicUser{}, ErrEmailTaken
		case errors.Is(err, sql.ErrNoRows):
			return models.PublicUser{}, ErrUserNotFound
		}
		return models.PublicUser{}, err
	}

	_ = s.audit.Record(ctx, EventUserUpdated, fmt.Sprintf("user #%d updated", id), nil)

	return u.Public(), nil
}

// Remove deletes the user. A second call for the same id fails with
// ErrUserNotFound.
func (s *UserService) Remove(ctx context.Context, id int) error {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}

	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}

	_ = s.audit.Record(ctx, EventUserDeleted, fmt.Sprintf("user #%d deleted", id), nil)
	return nil
}

// helper: hash password safely. bcrypt embeds a fresh random salt per call.
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash in constant time.
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
