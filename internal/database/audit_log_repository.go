package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/voyagehub/booking-backend/internal/models"
)

// AuditLogRepository appends to and reads the audit log. The log is
// append only; there are no update or delete operations.
type AuditLogRepository struct {
	db Queryer
}

// NewAuditLogRepository creates a new AuditLogRepository
func NewAuditLogRepository(db Queryer) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// Append writes a single audit entry
func (r *AuditLogRepository) Append(entry *models.AuditLogEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	query := `
		INSERT INTO audit_logs (
			id, user_id, action, object_type, object_id, details
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
		RETURNING created_at
	`

	err := r.db.QueryRow(
		query,
		entry.ID, entry.UserID, entry.Action, entry.ObjectType, entry.ObjectID, entry.Details,
	).Scan(&entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}

	return nil
}

// GetByObject retrieves the audit trail of a single object, oldest first
func (r *AuditLogRepository) GetByObject(objectType string, objectID uuid.UUID) ([]models.AuditLogEntry, error) {
	query := `
		SELECT id, user_id, action, object_type, object_id, details, created_at
		FROM audit_logs
		WHERE object_type = $1 AND object_id = $2
		ORDER BY created_at, id
	`

	entries := []models.AuditLogEntry{}
	if err := r.db.Select(&entries, query, objectType, objectID); err != nil {
		return nil, fmt.Errorf("failed to get audit entries: %w", err)
	}
	return entries, nil
}
