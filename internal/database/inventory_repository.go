package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/voyagehub/booking-backend/internal/models"
)

// InventoryRepository handles database operations for inventory items
type InventoryRepository struct {
	db Queryer
}

// NewInventoryRepository creates a new InventoryRepository
func NewInventoryRepository(db Queryer) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// Create persists an inventory item
func (r *InventoryRepository) Create(item *models.InventoryItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}

	query := `
		INSERT INTO inventory_items (
			id, provider_id, travel_mode, title, location, price_cents,
			currency, is_available, available_from, available_to, details
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		item.ID, item.ProviderID, item.TravelMode, item.Title, item.Location, item.PriceCents,
		item.Currency, item.IsAvailable, item.AvailableFrom, item.AvailableTo, item.Details,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create inventory item: %w", err)
	}

	return nil
}

// GetByID retrieves an inventory item by ID
func (r *InventoryRepository) GetByID(itemID uuid.UUID) (*models.InventoryItem, error) {
	query := `
		SELECT id, provider_id, travel_mode, title, location, price_cents,
		       currency, is_available, available_from, available_to, details,
		       created_at, updated_at
		FROM inventory_items
		WHERE id = $1
	`

	item := &models.InventoryItem{}
	err := r.db.Get(item, query, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrInventoryItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}

	return item, nil
}

// Search retrieves inventory items matching the filters
func (r *InventoryRepository) Search(filters models.InventorySearchFilters) ([]models.InventoryItem, error) {
	clauses := []string{}
	args := []interface{}{}

	if filters.TravelMode != nil {
		args = append(args, *filters.TravelMode)
		clauses = append(clauses, fmt.Sprintf("travel_mode = $%d", len(args)))
	}
	if filters.Location != nil {
		args = append(args, "%"+*filters.Location+"%")
		clauses = append(clauses, fmt.Sprintf("location ILIKE $%d", len(args)))
	}
	if filters.MinPriceCents != nil {
		args = append(args, *filters.MinPriceCents)
		clauses = append(clauses, fmt.Sprintf("price_cents >= $%d", len(args)))
	}
	if filters.MaxPriceCents != nil {
		args = append(args, *filters.MaxPriceCents)
		clauses = append(clauses, fmt.Sprintf("price_cents <= $%d", len(args)))
	}
	if filters.DateFrom != nil {
		args = append(args, *filters.DateFrom)
		clauses = append(clauses, fmt.Sprintf("(available_from IS NULL OR available_from <= $%d)", len(args)))
	}
	if filters.DateTo != nil {
		args = append(args, *filters.DateTo)
		clauses = append(clauses, fmt.Sprintf("(available_to IS NULL OR available_to >= $%d)", len(args)))
	}
	if filters.IsAvailable != nil {
		args = append(args, *filters.IsAvailable)
		clauses = append(clauses, fmt.Sprintf("is_available = $%d", len(args)))
	}

	where := ""
	if len(clauses) > 0 {
		where = "WHERE " + strings.Join(clauses, " AND ")
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit, filters.Offset)

	query := fmt.Sprintf(`
		SELECT id, provider_id, travel_mode, title, location, price_cents,
		       currency, is_available, available_from, available_to, details,
		       created_at, updated_at
		FROM inventory_items
		%s
		ORDER BY price_cents, created_at
		LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args))

	items := []models.InventoryItem{}
	if err := r.db.Select(&items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to search inventory: %w", err)
	}
	return items, nil
}

// SetAvailability flips the availability flag of an inventory item
func (r *InventoryRepository) SetAvailability(itemID uuid.UUID, available bool) error {
	query := `
		UPDATE inventory_items
		SET is_available = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, itemID, available)
	if err != nil {
		return fmt.Errorf("failed to update inventory availability: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrInventoryItemNotFound
	}
	return nil
}
