package repository

import (
	"context"
	"database/sql"
	"time"

	"tablebook/core/database"
	"tablebook/core/logger"
	availentity "tablebook/modules/availability/entity"
	"tablebook/modules/reservation/entity"
	restentity "tablebook/modules/restaurant/entity"

	"github.com/google/uuid"
)

// ReservationRepository owns the reservations table and the busy-interval
// reads (reservations union blackouts) the availability engine consumes
type ReservationRepository struct {
	DB database.IDatabase
}

func NewReservationRepository(db database.IDatabase) *ReservationRepository {
	return &ReservationRepository{DB: db}
}

// ReservationRepositoryInterface defines the repository contract
type ReservationRepositoryInterface interface {
	CreateReservation(ctx context.Context, reservation *entity.Reservation) (*entity.Reservation, error)
	GetReservationByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)
	UpdateReservationStatus(ctx context.Context, id uuid.UUID, status entity.ReservationStatus) error
	ListBusyIntervals(ctx context.Context, restaurantID, sectorID uuid.UUID, span availentity.TimeInterval) ([]availentity.BusyInterval, error)
	ListBusyForTables(ctx context.Context, restaurantID uuid.UUID, tableIDs []uuid.UUID, span availentity.TimeInterval) ([]availentity.BusyInterval, error)
	ListConfirmedOverlapping(ctx context.Context, restaurantID uuid.UUID, sectorID *uuid.UUID, tableIDs []uuid.UUID, start, end time.Time) ([]entity.Reservation, error)
}

// busyRow is the scan target for the union queries
type busyRow struct {
	TableIDs restentity.UUIDArray `db:"table_ids"`
	StartAt  time.Time            `db:"start_at"`
	EndAt    time.Time            `db:"end_at"`
	Kind     string               `db:"kind"`
}

func (r *ReservationRepository) CreateReservation(ctx context.Context, reservation *entity.Reservation) (*entity.Reservation, error) {
	query := `
		INSERT INTO reservations (id, code, restaurant_id, sector_id, table_ids, party_size,
		                          start_at, end_at, duration_minutes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, code, restaurant_id, sector_id, table_ids, party_size,
		          start_at, end_at, duration_minutes, status, created_at, updated_at
	`

	var created entity.Reservation
	err := r.DB.GetContext(ctx, &created, query,
		reservation.ID, reservation.Code, reservation.RestaurantID, reservation.SectorID,
		reservation.TableIDs, reservation.PartySize, reservation.StartAt, reservation.EndAt,
		reservation.DurationMinutes, reservation.Status)
	if err != nil {
		logger.Error("ReservationRepository:CreateReservation", err)
		return nil, err
	}

	return &created, nil
}

func (r *ReservationRepository) GetReservationByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	query := `
		SELECT id, code, restaurant_id, sector_id, table_ids, party_size,
		       start_at, end_at, duration_minutes, status, created_at, updated_at
		FROM reservations WHERE id = $1
	`

	var reservation entity.Reservation
	err := r.DB.GetContext(ctx, &reservation, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ReservationRepository:GetReservationByID", err)
		return nil, err
	}

	return &reservation, nil
}

func (r *ReservationRepository) UpdateReservationStatus(ctx context.Context, id uuid.UUID, status entity.ReservationStatus) error {
	query := `
		UPDATE reservations
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`

	err := r.DB.ExecContext(ctx, query, id, status)
	if err != nil {
		logger.Error("ReservationRepository:UpdateReservationStatus", err)
		return err
	}

	return nil
}

// ListBusyIntervals returns every confirmed reservation and blackout in the
// sector overlapping span. Blackouts with no table ids cover the whole
// sector; restaurant-wide blackouts (null sector) are included too.
func (r *ReservationRepository) ListBusyIntervals(ctx context.Context, restaurantID, sectorID uuid.UUID, span availentity.TimeInterval) ([]availentity.BusyInterval, error) {
	query := `
		SELECT table_ids, start_at, end_at, 'booking' AS kind
		FROM reservations
		WHERE restaurant_id = $1 AND sector_id = $2 AND status = 'confirmed'
		  AND start_at < $4 AND end_at > $3
		UNION ALL
		SELECT table_ids, start_at, end_at, 'blackout' AS kind
		FROM blackouts
		WHERE restaurant_id = $1 AND (sector_id IS NULL OR sector_id = $2)
		  AND start_at < $4 AND end_at > $3
		ORDER BY start_at
	`

	var rows []busyRow
	err := r.DB.SelectContext(ctx, &rows, query, restaurantID, sectorID, span.Start, span.End)
	if err != nil {
		logger.Error("ReservationRepository:ListBusyIntervals", err)
		return nil, err
	}

	return toBusyIntervals(rows), nil
}

// ListBusyForTables is the narrower re-verification read: only intervals
// touching the given tables (or covering them via a sector/restaurant-wide
// blackout) inside span.
func (r *ReservationRepository) ListBusyForTables(ctx context.Context, restaurantID uuid.UUID, tableIDs []uuid.UUID, span availentity.TimeInterval) ([]availentity.BusyInterval, error) {
	query := `
		SELECT table_ids, start_at, end_at, 'booking' AS kind
		FROM reservations
		WHERE restaurant_id = $1 AND status = 'confirmed'
		  AND table_ids && $2::uuid[]
		  AND start_at < $4 AND end_at > $3
		UNION ALL
		SELECT table_ids, start_at, end_at, 'blackout' AS kind
		FROM blackouts
		WHERE restaurant_id = $1
		  AND (table_ids && $2::uuid[] OR cardinality(table_ids) = 0)
		  AND start_at < $4 AND end_at > $3
		ORDER BY start_at
	`

	var rows []busyRow
	err := r.DB.SelectContext(ctx, &rows, query, restaurantID, restentity.UUIDArray(tableIDs), span.Start, span.End)
	if err != nil {
		logger.Error("ReservationRepository:ListBusyForTables", err)
		return nil, err
	}

	return toBusyIntervals(rows), nil
}

// ListConfirmedOverlapping finds the confirmed reservations a blackout
// overlaps. Empty tableIDs means every table in the sector (or restaurant
// when sectorID is nil).
func (r *ReservationRepository) ListConfirmedOverlapping(ctx context.Context, restaurantID uuid.UUID, sectorID *uuid.UUID, tableIDs []uuid.UUID, start, end time.Time) ([]entity.Reservation, error) {
	query := `
		SELECT id, code, restaurant_id, sector_id, table_ids, party_size,
		       start_at, end_at, duration_minutes, status, created_at, updated_at
		FROM reservations
		WHERE restaurant_id = $1 AND status = 'confirmed'
		  AND start_at < $5 AND end_at > $4
		  AND ($2::uuid IS NULL OR sector_id = $2)
		  AND (cardinality($3::uuid[]) = 0 OR table_ids && $3::uuid[])
		ORDER BY start_at
	`

	var reservations []entity.Reservation
	err := r.DB.SelectContext(ctx, &reservations, query,
		restaurantID, sectorID, restentity.UUIDArray(tableIDs), start, end)
	if err != nil {
		logger.Error("ReservationRepository:ListConfirmedOverlapping", err)
		return nil, err
	}

	return reservations, nil
}

func toBusyIntervals(rows []busyRow) []availentity.BusyInterval {
	out := make([]availentity.BusyInterval, 0, len(rows))
	for _, row := range rows {
		out = append(out, availentity.BusyInterval{
			TableIDs: row.TableIDs.UUIDs(),
			Interval: availentity.NewTimeInterval(row.StartAt, row.EndAt),
			Kind:     availentity.BusyKind(row.Kind),
		})
	}
	return out
}
