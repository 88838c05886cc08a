package entity

import (
	"time"

	restentity "tablebook/modules/restaurant/entity"

	"github.com/google/uuid"
)

type ReservationStatus string

const (
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
)

// Reservation is a committed allocation. It is created exactly once by the
// commit protocol and only ever transitions confirmed -> cancelled; rows are
// never deleted, preserving audit history.
type Reservation struct {
	ID              uuid.UUID            `db:"id" json:"id"`
	Code            string               `db:"code" json:"code"`
	RestaurantID    uuid.UUID            `db:"restaurant_id" json:"restaurant_id"`
	SectorID        uuid.UUID            `db:"sector_id" json:"sector_id"`
	TableIDs        restentity.UUIDArray `db:"table_ids" json:"table_ids"`
	PartySize       int                  `db:"party_size" json:"party_size"`
	StartAt         time.Time            `db:"start_at" json:"start_at"`
	EndAt           time.Time            `db:"end_at" json:"end_at"`
	DurationMinutes int                  `db:"duration_minutes" json:"duration_minutes"`
	Status          ReservationStatus    `db:"status" json:"status"`
	CreatedAt       time.Time            `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time            `db:"updated_at" json:"updated_at"`
}
