package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"retailstock/internal/models"

	"github.com/google/uuid"
)

type AuditLogsRepository interface {
	Create(ctx context.Context, auditLog *models.AuditLog) error
	ListByEntity(ctx context.Context, entity, entityID string, limit, offset int) ([]*models.AuditLog, error)
}

type auditLogsRepo struct {
	db Database
}

func NewAuditLogsRepo(db Database) AuditLogsRepository {
	return &auditLogsRepo{db: db}
}

func (r *auditLogsRepo) Create(ctx context.Context, auditLog *models.AuditLog) error {
	if auditLog.ID == uuid.Nil {
		auditLog.ID = uuid.New()
	}
	auditLog.CreatedAt = time.Now()

	var beforeBytes, afterBytes []byte
	var err error
	if auditLog.Before != nil {
		beforeBytes, err = json.Marshal(auditLog.Before)
		if err != nil {
			return fmt.Errorf("failed to marshal before_state: %w", err)
		}
	}
	if auditLog.After != nil {
		afterBytes, err = json.Marshal(auditLog.After)
		if err != nil {
			return fmt.Errorf("failed to marshal after_state: %w", err)
		}
	}

	query := `
		INSERT INTO audit_logs (id, entity, entity_id, action, before_state, after_state, changed_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.db.Exec(ctx, query,
		auditLog.ID, auditLog.Entity, auditLog.EntityID, auditLog.Action,
		beforeBytes, afterBytes, auditLog.ChangedBy, auditLog.CreatedAt)
	if err != nil {
		return MapError(err)
	}
	return nil
}

func (r *auditLogsRepo) ListByEntity(ctx context.Context, entity, entityID string, limit, offset int) ([]*models.AuditLog, error) {
	query := `
		SELECT id, entity, entity_id, action, before_state, after_state, changed_by, created_at
		FROM audit_logs
		WHERE entity = $1 AND entity_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, entity, entityID, limit, offset)
	if err != nil {
		return nil, MapError(err)
	}
	defer rows.Close()

	var logs []*models.AuditLog
	for rows.Next() {
		entry := &models.AuditLog{}
		var beforeBytes, afterBytes []byte
		if err := rows.Scan(&entry.ID, &entry.Entity, &entry.EntityID, &entry.Action,
			&beforeBytes, &afterBytes, &entry.ChangedBy, &entry.CreatedAt); err != nil {
			return nil, MapError(err)
		}
		if len(beforeBytes) > 0 {
			if err := json.Unmarshal(beforeBytes, &entry.Before); err != nil {
				return nil, fmt.Errorf("failed to unmarshal before_state: %w", err)
			}
		}
		if len(afterBytes) > 0 {
			if err := json.Unmarshal(afterBytes, &entry.After); err != nil {
				return nil, fmt.Errorf("failed to unmarshal after_state: %w", err)
			}
		}
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}
