package entity

import (
	"time"

	"github.com/google/uuid"
)

// Table is a seatable unit with an admissible party-size range
type Table struct {
	ID          uuid.UUID `db:"id" json:"id"`
	SectorID    uuid.UUID `db:"sector_id" json:"sector_id"`
	Label       string    `db:"label" json:"label"`
	MinCapacity int       `db:"min_capacity" json:"min_capacity"`
	MaxCapacity int       `db:"max_capacity" json:"max_capacity"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Fits reports whether the table alone can seat the party. A party of one is
// seated at any table with room for one, regardless of the table's minimum.
func (t Table) Fits(partySize int) bool {
	if partySize == 1 {
		return t.MaxCapacity >= 1
	}
	return partySize >= t.MinCapacity && partySize <= t.MaxCapacity
}
