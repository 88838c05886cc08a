package repository

import (
	"context"
	"database/sql"

	"tablebook/core/database"
	"tablebook/core/logger"
	"tablebook/modules/restaurant/entity"

	"github.com/google/uuid"
)

// BlackoutRepository owns the blackouts table
type BlackoutRepository struct {
	DB database.IDatabase
}

func NewBlackoutRepository(db database.IDatabase) *BlackoutRepository {
	return &BlackoutRepository{DB: db}
}

// BlackoutRepositoryInterface defines the repository contract
type BlackoutRepositoryInterface interface {
	CreateBlackout(ctx context.Context, blackout *entity.Blackout) (*entity.Blackout, error)
	GetBlackoutByID(ctx context.Context, id uuid.UUID) (*entity.Blackout, error)
	DeleteBlackout(ctx context.Context, id uuid.UUID) error
}

func (r *BlackoutRepository) CreateBlackout(ctx context.Context, blackout *entity.Blackout) (*entity.Blackout, error) {
	query := `
		INSERT INTO blackouts (id, restaurant_id, sector_id, table_ids, start_at, end_at, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, restaurant_id, sector_id, table_ids, start_at, end_at, reason, created_at
	`

	var created entity.Blackout
	err := r.DB.GetContext(ctx, &created, query,
		blackout.ID, blackout.RestaurantID, blackout.SectorID, blackout.TableIDs,
		blackout.StartAt, blackout.EndAt, blackout.Reason)
	if err != nil {
		logger.Error("BlackoutRepository:CreateBlackout", err)
		return nil, err
	}

	return &created, nil
}

func (r *BlackoutRepository) GetBlackoutByID(ctx context.Context, id uuid.UUID) (*entity.Blackout, error) {
	query := `
		SELECT id, restaurant_id, sector_id, table_ids, start_at, end_at, reason, created_at
		FROM blackouts WHERE id = $1
	`

	var blackout entity.Blackout
	err := r.DB.GetContext(ctx, &blackout, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("BlackoutRepository:GetBlackoutByID", err)
		return nil, err
	}

	return &blackout, nil
}

func (r *BlackoutRepository) DeleteBlackout(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM blackouts WHERE id = $1`
	err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		logger.Error("BlackoutRepository:DeleteBlackout", err)
		return err
	}
	return nil
}
