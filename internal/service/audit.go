package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"accounts_service/internal/models"
	"accounts_service/internal/repository"
)

const defaultTailLimit = 20

type AuditLogService struct {
	events repository.AuditEvents
}

func NewAuditLogService(events repository.AuditEvents) *AuditLogService {
	return &AuditLogService{events: events}
}

var errInvalidTimeRange = errors.New("invalid time range: From must be <= To")

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeEventType trims spaces and uppercases the event type filter.
func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f LogFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", errInvalidTimeRange
	}

	return from, to, normalizeEventType(f.Type), nil
}

// Record appends a lifecycle event to the trail.
func (s *AuditLogService) Record(ctx context.Context, typ, description string, meta any) error {
	return s.events.Append(ctx, models.AuditEvent{
		Type:        typ,
		Description: description,
		Metadata:    meta,
	})
}

func (s *AuditLogService) List(ctx context.Context, f LogFilter) ([]models.AuditEvent, error) {
	from, to, typ, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.events.List(ctx, from, to, typ)
}

// Tail returns the most recent events, newest first.
func (s *AuditLogService) Tail(ctx context.Context, limit int) ([]models.AuditEvent, error) {
	if limit <= 0 {
		limit = defaultTailLimit
	}
	return s.events.ListRecent(ctx, limit)
}
