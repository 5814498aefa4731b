package repositories

import (
	"context"
	"time"

	"retailstock/internal/models"

	"github.com/google/uuid"
)

// MovementRepository is append-only: entries are inserted inside the mutating
// transaction and never touched again.
type MovementRepository interface {
	Insert(ctx context.Context, q Database, entry *models.MovementEntry) error
	ListByProduct(ctx context.Context, productID uuid.UUID, limit, offset int) ([]*models.MovementEntry, error)
	ListByTimeRange(ctx context.Context, from, to time.Time) ([]*models.MovementEntry, error)
	// SumDeltas replays the ledger for a product: the signed sum of all entries
	// since inventory creation, for reproducibility checks.
	SumDeltas(ctx context.Context, productID uuid.UUID) (int, error)
}

type movementRepo struct {
	db Database
}

func NewMovementRepo(db Database) MovementRepository {
	return &movementRepo{db: db}
}

const movementColumns = `id, product_id, movement_type, quantity, reference_id, performed_by, source_table, terminal_id, created_at`

func (r *movementRepo) Insert(ctx context.Context, q Database, entry *models.MovementEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	query := `
		INSERT INTO stock_movements (id, product_id, movement_type, quantity, reference_id, performed_by, source_table, terminal_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`
	_, err := q.Exec(ctx, query,
		entry.ID, entry.ProductID, string(entry.Movement), entry.Quantity,
		entry.ReferenceID, entry.PerformedBy, entry.SourceTable, entry.TerminalID)
	if err != nil {
		return MapError(err)
	}
	return nil
}

func (r *movementRepo) ListByProduct(ctx context.Context, productID uuid.UUID, limit, offset int) ([]*models.MovementEntry, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE product_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, productID, limit, offset)
	if err != nil {
		return nil, MapError(err)
	}
	defer rows.Close()

	var entries []*models.MovementEntry
	for rows.Next() {
		e := &models.MovementEntry{}
		if err := rows.Scan(&e.ID, &e.ProductID, &e.Movement, &e.Quantity, &e.ReferenceID, &e.PerformedBy, &e.SourceTable, &e.TerminalID, &e.CreatedAt); err != nil {
			return nil, MapError(err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *movementRepo) ListByTimeRange(ctx context.Context, from, to time.Time) ([]*models.MovementEntry, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, MapError(err)
	}
	defer rows.Close()

	var entries []*models.MovementEntry
	for rows.Next() {
		e := &models.MovementEntry{}
		if err := rows.Scan(&e.ID, &e.ProductID, &e.Movement, &e.Quantity, &e.ReferenceID, &e.PerformedBy, &e.SourceTable, &e.TerminalID, &e.CreatedAt); err != nil {
			return nil, MapError(err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// SumDeltas groups by movement type so the signed direction comes from the
// policy table rather than SQL duplicating it.
func (r *movementRepo) SumDeltas(ctx context.Context, productID uuid.UUID) (int, error) {
	query := `
		SELECT movement_type, COALESCE(SUM(quantity), 0)
		FROM stock_movements
		WHERE product_id = $1
		GROUP BY movement_type
	`
	rows, err := r.db.Query(ctx, query, productID)
	if err != nil {
		return 0, MapError(err)
	}
	defer rows.Close()

	total := 0
	for rows.Next() {
		var movement models.MovementType
		var quantity int
		if err := rows.Scan(&movement, &quantity); err != nil {
			return 0, MapError(err)
		}
		total += quantity * movement.Direction()
	}
	return total, rows.Err()
}
