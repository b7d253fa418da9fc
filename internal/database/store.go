package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Store aggregates the repositories over one shared query surface.
// A Store built by NewStore runs each call on the connection pool;
// WithinTx derives a Store whose repositories all share one
// transaction, which is how every lifecycle operation gets its
// all-or-nothing unit of work.
type Store struct {
	db *sqlx.DB // nil when the store is bound to a transaction

	Bookings      *BookingRepository
	Payments      *PaymentRepository
	Audit         *AuditLogRepository
	Inventory     *InventoryRepository
	Notifications *NotificationRepository
}

// NewStore creates a store over the connection pool
func NewStore(db *sqlx.DB) *Store {
	s := bindStore(db)
	s.db = db
	return s
}

func bindStore(q Queryer) *Store {
	return &Store{
		Bookings:      NewBookingRepository(q),
		Payments:      NewPaymentRepository(q),
		Audit:         NewAuditLogRepository(q),
		Inventory:     NewInventoryRepository(q),
		Notifications: NewNotificationRepository(q),
	}
}

// WithinTx runs fn against a transaction-bound store. Every write fn
// performs commits together or not at all; any error from fn rolls the
// transaction back and is returned unchanged. Calling WithinTx on an
// already transaction-bound store reuses the open transaction.
func (s *Store) WithinTx(fn func(*Store) error) error {
	if s.db == nil {
		return fn(s)
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(bindStore(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
