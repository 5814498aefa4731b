package services

import (
	"context"
	"log"

	"retailstock/internal/models"
	"retailstock/internal/repositories"

	"github.com/google/uuid"
)

// AuditService records who changed what. Recording is best-effort: an audit
// failure is logged, never propagated, so it can never roll back a committed
// stock change.
type AuditService interface {
	RecordAudit(ctx context.Context, entity, entityID, action string, before, after models.JSONB, changedBy uuid.UUID)
	ListByEntity(ctx context.Context, entity, entityID string, limit, offset int) ([]*models.AuditLog, error)
}

type auditService struct {
	auditRepo repositories.AuditLogsRepository
}

func NewAuditService(auditRepo repositories.AuditLogsRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

func (s *auditService) RecordAudit(ctx context.Context, entity, entityID, action string, before, after models.JSONB, changedBy uuid.UUID) {
	entry := &models.AuditLog{
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		Before:   before,
		After:    after,
	}
	if changedBy != uuid.Nil {
		entry.ChangedBy = &changedBy
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		log.Printf("audit record failed for %s %s (%s): %v", entity, entityID, action, err)
	}
}

func (s *auditService) ListByEntity(ctx context.Context, entity, entityID string, limit, offset int) ([]*models.AuditLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.auditRepo.ListByEntity(ctx, entity, entityID, limit, offset)
}
