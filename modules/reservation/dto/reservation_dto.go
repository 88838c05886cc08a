package dto

import (
	"time"

	"tablebook/modules/reservation/entity"

	"github.com/google/uuid"
)

// CommitRequest asks the engine to allocate and confirm a reservation.
// The idempotency key comes from the client so retries of the same logical
// request converge on one reservation.
type CommitRequest struct {
	IdempotencyKey  string   `json:"idempotency_key" validate:"required"`
	RestaurantID    string   `json:"restaurant_id" validate:"required"`
	SectorID        string   `json:"sector_id" validate:"required"`
	Date            string   `json:"date" validate:"required"` // YYYY-MM-DD in the restaurant zone
	PartySize       int      `json:"party_size" validate:"required"`
	DurationMinutes int      `json:"duration_minutes" validate:"required"`
	WindowStart     string   `json:"window_start,omitempty"` // optional HH:mm
	WindowEnd       string   `json:"window_end,omitempty"`
}

// ReservationResponse is the API shape of a reservation
type ReservationResponse struct {
	ID              uuid.UUID   `json:"id"`
	Code            string      `json:"code"`
	RestaurantID    uuid.UUID   `json:"restaurant_id"`
	SectorID        uuid.UUID   `json:"sector_id"`
	TableIDs        []uuid.UUID `json:"table_ids"`
	PartySize       int         `json:"party_size"`
	StartAt         time.Time   `json:"start_at"`
	EndAt           time.Time   `json:"end_at"`
	DurationMinutes int         `json:"duration_minutes"`
	Status          string      `json:"status"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

func ToReservationResponse(r *entity.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:              r.ID,
		Code:            r.Code,
		RestaurantID:    r.RestaurantID,
		SectorID:        r.SectorID,
		TableIDs:        r.TableIDs.UUIDs(),
		PartySize:       r.PartySize,
		StartAt:         r.StartAt,
		EndAt:           r.EndAt,
		DurationMinutes: r.DurationMinutes,
		Status:          string(r.Status),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}
