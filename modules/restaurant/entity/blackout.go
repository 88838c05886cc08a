package entity

import (
	"time"

	"github.com/google/uuid"
)

// Blackout is an externally declared unavailability period. TableIDs may be
// empty, in which case the blackout covers the whole sector (or the whole
// restaurant when SectorID is nil). Spans are half-open [StartAt, EndAt).
type Blackout struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	RestaurantID uuid.UUID  `db:"restaurant_id" json:"restaurant_id"`
	SectorID     *uuid.UUID `db:"sector_id" json:"sector_id,omitempty"`
	TableIDs     UUIDArray  `db:"table_ids" json:"table_ids"`
	StartAt      time.Time  `db:"start_at" json:"start_at"`
	EndAt        time.Time  `db:"end_at" json:"end_at"`
	Reason       string     `db:"reason" json:"reason"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}
