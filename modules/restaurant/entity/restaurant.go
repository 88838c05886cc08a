package entity

import (
	"time"

	"github.com/google/uuid"
)

// Restaurant owns the tables, sectors and service hours of one venue.
// Timezone is the IANA zone local times-of-day are resolved against.
type Restaurant struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Timezone  string    `db:"timezone" json:"timezone"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Sector is a seating area inside a restaurant (dining room, terrace, bar)
type Sector struct {
	ID           uuid.UUID `db:"id" json:"id"`
	RestaurantID uuid.UUID `db:"restaurant_id" json:"restaurant_id"`
	Name         string    `db:"name" json:"name"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
