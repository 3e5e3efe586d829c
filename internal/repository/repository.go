package repository

import (
	"context"
	"database/sql"
	"time"

	"accounts_service/internal/models"
	"accounts_service/internal/repository/db"
)

// Users owns persistent user records. GetByEmail is the only accessor that
// returns the password hash; it stays inside the trust boundary.
type Users interface {
	Create(ctx context.Context, u *models.User) (int, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id int) error
}

// AuditEvents is the append-only user-lifecycle trail.
type AuditEvents interface {
	Append(ctx context.Context, e models.AuditEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.AuditEvent, error)
	ListRecent(ctx context.Context, limit int) ([]models.AuditEvent, error)
}

// System exposes backing-store health.
type System interface {
	Ping(ctx context.Context) error
}

type Repository struct {
	Users  Users
	Audit  AuditEvents
	System System
}

func NewRepository(sqlDB *sql.DB) *Repository {
	return &Repository{
		Users:  NewUserRepository(sqlDB),
		Audit:  NewAuditSQLite(sqlDB),
		System: NewSystemRepository(sqlDB),
	}
}

// InitDB opens the SQLite database and ensures the schema exists.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}
