package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/voyagehub/booking-backend/internal/database"
	"github.com/voyagehub/booking-backend/internal/models"
	"github.com/voyagehub/booking-backend/internal/utils"
)

// AuditService reads audit trails and records operational events that
// happen outside a lifecycle transaction. Lifecycle services write
// their own entries inside the unit of work that performs the change.
type AuditService struct {
	store *database.Store
}

// NewAuditService creates a new audit service
func NewAuditService(store *database.Store) *AuditService {
	return &AuditService{store: store}
}

// Record appends an entry enriched with the client request context.
// The caller's details map is extended with the IP address and parsed
// device information.
func (s *AuditService) Record(entry *models.AuditLogEntry, ipAddress, userAgent string) error {
	if entry.Details == nil {
		entry.Details = models.JSONB{}
	}
	if ipAddress != "" {
		entry.Details["ip_address"] = ipAddress
	}
	if userAgent != "" {
		entry.Details["device_info"] = utils.ParseUserAgent(userAgent)
	}

	if err := s.store.Audit.Append(entry); err != nil {
		return fmt.Errorf("failed to record audit event: %w", err)
	}
	return nil
}

// GetBookingTrail retrieves the audit entries of a booking, oldest first
func (s *AuditService) GetBookingTrail(bookingID uuid.UUID) ([]models.AuditLogEntry, error) {
	return s.store.Audit.GetByObject(models.AuditObjectBooking, bookingID)
}

// GetPaymentTrail retrieves the audit entries of a payment, oldest first
func (s *AuditService) GetPaymentTrail(paymentID uuid.UUID) ([]models.AuditLogEntry, error) {
	return s.store.Audit.GetByObject(models.AuditObjectPayment, paymentID)
}
