package repository

import (
	"context"
	"database/sql"
)

// SystemRepository reports backing-store health for the /db-status endpoint.
type SystemRepository struct {
	db *sql.DB
}

func NewSystemRepository(db *sql.DB) *SystemRepository {
	return &SystemRepository{db: db}
}

var _ System = (*SystemRepository)(nil)

func (r *SystemRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
