package repository

import (
	"context"
	"database/sql"

	"tablebook/core/database"
	"tablebook/core/logger"
	"tablebook/modules/restaurant/entity"

	"github.com/google/uuid"
)

// RestaurantRepository reads the externally owned restaurant data: venues,
// sectors, tables and service hours
type RestaurantRepository struct {
	DB database.IDatabase
}

func NewRestaurantRepository(db database.IDatabase) *RestaurantRepository {
	return &RestaurantRepository{DB: db}
}

// RestaurantRepositoryInterface defines the repository contract
type RestaurantRepositoryInterface interface {
	GetRestaurantByID(ctx context.Context, id uuid.UUID) (*entity.Restaurant, error)
	GetSectorByID(ctx context.Context, id uuid.UUID) (*entity.Sector, error)
	ListTablesBySector(ctx context.Context, sectorID uuid.UUID) ([]entity.Table, error)
	GetTablesByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Table, error)
	ListServiceWindows(ctx context.Context, restaurantID uuid.UUID) ([]entity.ServiceWindow, error)
	CreateTable(ctx context.Context, table *entity.Table) (*entity.Table, error)
}

func (r *RestaurantRepository) GetRestaurantByID(ctx context.Context, id uuid.UUID) (*entity.Restaurant, error) {
	query := `
		SELECT id, name, timezone, created_at
		FROM restaurants WHERE id = $1
	`

	var restaurant entity.Restaurant
	err := r.DB.GetContext(ctx, &restaurant, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("RestaurantRepository:GetRestaurantByID", err)
		return nil, err
	}

	return &restaurant, nil
}

func (r *RestaurantRepository) GetSectorByID(ctx context.Context, id uuid.UUID) (*entity.Sector, error) {
	query := `
		SELECT id, restaurant_id, name, created_at
		FROM sectors WHERE id = $1
	`

	var sector entity.Sector
	err := r.DB.GetContext(ctx, &sector, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("RestaurantRepository:GetSectorByID", err)
		return nil, err
	}

	return &sector, nil
}

func (r *RestaurantRepository) ListTablesBySector(ctx context.Context, sectorID uuid.UUID) ([]entity.Table, error) {
	query := `
		SELECT id, sector_id, label, min_capacity, max_capacity, created_at
		FROM tables
		WHERE sector_id = $1
		ORDER BY label
	`

	var tables []entity.Table
	err := r.DB.SelectContext(ctx, &tables, query, sectorID)
	if err != nil {
		logger.Error("RestaurantRepository:ListTablesBySector", err)
		return nil, err
	}

	return tables, nil
}

func (r *RestaurantRepository) GetTablesByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Table, error) {
	query := `
		SELECT id, sector_id, label, min_capacity, max_capacity, created_at
		FROM tables
		WHERE id = ANY($1::uuid[])
		ORDER BY label
	`

	var tables []entity.Table
	err := r.DB.SelectContext(ctx, &tables, query, entity.UUIDArray(ids))
	if err != nil {
		logger.Error("RestaurantRepository:GetTablesByIDs", err)
		return nil, err
	}

	return tables, nil
}

func (r *RestaurantRepository) ListServiceWindows(ctx context.Context, restaurantID uuid.UUID) ([]entity.ServiceWindow, error) {
	query := `
		SELECT id, restaurant_id, weekday, start_time, end_time
		FROM service_windows
		WHERE restaurant_id = $1
		ORDER BY weekday, start_time
	`

	var windows []entity.ServiceWindow
	err := r.DB.SelectContext(ctx, &windows, query, restaurantID)
	if err != nil {
		logger.Error("RestaurantRepository:ListServiceWindows", err)
		return nil, err
	}

	return windows, nil
}

func (r *RestaurantRepository) CreateTable(ctx context.Context, table *entity.Table) (*entity.Table, error) {
	query := `
		INSERT INTO tables (id, sector_id, label, min_capacity, max_capacity)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, sector_id, label, min_capacity, max_capacity, created_at
	`

	var created entity.Table
	err := r.DB.GetContext(ctx, &created, query,
		table.ID, table.SectorID, table.Label, table.MinCapacity, table.MaxCapacity)
	if err != nil {
		logger.Error("RestaurantRepository:CreateTable", err)
		return nil, err
	}

	return &created, nil
}
