package dto

import (
	"time"

	"tablebook/modules/restaurant/entity"
)

// ===================== Request DTOs =====================

// CreateTableRequest adds a table to a sector
type CreateTableRequest struct {
	SectorID    string `json:"sector_id" validate:"required"`
	Label       string `json:"label" validate:"required"`
	MinCapacity int    `json:"min_capacity" validate:"min=0"`
	MaxCapacity int    `json:"max_capacity" validate:"required,min=1"`
}

// CreateBlackoutRequest declares an unavailability period. Leave table_ids
// empty to black out the whole sector, and sector_id empty as well to black
// out the whole restaurant.
type CreateBlackoutRequest struct {
	RestaurantID string   `json:"restaurant_id" validate:"required"`
	SectorID     string   `json:"sector_id"`
	TableIDs     []string `json:"table_ids"`
	StartAt      string   `json:"start_at" validate:"required"` // RFC3339
	EndAt        string   `json:"end_at" validate:"required"`   // RFC3339
	Reason       string   `json:"reason"`
}

// ===================== Response DTOs =====================

type TableResponse struct {
	ID          string    `json:"id"`
	SectorID    string    `json:"sector_id"`
	Label       string    `json:"label"`
	MinCapacity int       `json:"min_capacity"`
	MaxCapacity int       `json:"max_capacity"`
	CreatedAt   time.Time `json:"created_at"`
}

type BlackoutResponse struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurant_id"`
	SectorID     string    `json:"sector_id,omitempty"`
	TableIDs     []string  `json:"table_ids"`
	StartAt      time.Time `json:"start_at"`
	EndAt        time.Time `json:"end_at"`
	Reason       string    `json:"reason,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func ToTableResponse(t *entity.Table) TableResponse {
	return TableResponse{
		ID:          t.ID.String(),
		SectorID:    t.SectorID.String(),
		Label:       t.Label,
		MinCapacity: t.MinCapacity,
		MaxCapacity: t.MaxCapacity,
		CreatedAt:   t.CreatedAt,
	}
}

func ToBlackoutResponse(b *entity.Blackout) BlackoutResponse {
	ids := make([]string, len(b.TableIDs))
	for i, id := range b.TableIDs {
		ids[i] = id.String()
	}
	resp := BlackoutResponse{
		ID:           b.ID.String(),
		RestaurantID: b.RestaurantID.String(),
		TableIDs:     ids,
		StartAt:      b.StartAt,
		EndAt:        b.EndAt,
		Reason:       b.Reason,
		CreatedAt:    b.CreatedAt,
	}
	if b.SectorID != nil {
		resp.SectorID = b.SectorID.String()
	}
	return resp
}
