package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryItem is one bookable catalog entry (a room type, a flight
// fare class, a rental car, a train or bus departure)
type InventoryItem struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	ProviderID    *uuid.UUID `json:"provider_id,omitempty" db:"provider_id"`
	TravelMode    TravelMode `json:"travel_mode" db:"travel_mode"`
	Title         string     `json:"title" db:"title"`
	Location      *string    `json:"location,omitempty" db:"location"`
	PriceCents    int64      `json:"price_cents" db:"price_cents"`
	Currency      string     `json:"currency" db:"currency"`
	IsAvailable   bool       `json:"is_available" db:"is_available"`
	AvailableFrom *time.Time `json:"available_from,omitempty" db:"available_from"`
	AvailableTo   *time.Time `json:"available_to,omitempty" db:"available_to"`
	Details       JSONB      `json:"details,omitempty" db:"details"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// InventorySearchFilters narrows catalog searches
type InventorySearchFilters struct {
	TravelMode    *TravelMode
	Location      *string
	MinPriceCents *int64
	MaxPriceCents *int64
	DateFrom      *time.Time
	DateTo        *time.Time
	IsAvailable   *bool
	Limit         int
	Offset        int
}
