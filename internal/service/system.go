package service

import (
	"context"

	"accounts_service/internal/repository"
)

// SystemService reports backing-store connectivity.
type SystemService struct {
	system repository.System
}

func NewSystemService(system repository.System) *SystemService {
	return &SystemService{system: system}
}

func (s *SystemService) DBStatus(ctx context.Context) error {
	return s.system.Ping(ctx)
}
