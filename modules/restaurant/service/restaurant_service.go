package service

import (
	"context"
	"time"

	"tablebook/core/errors"
	"tablebook/core/logger"
	"tablebook/modules/restaurant/dto"
	"tablebook/modules/restaurant/entity"
	"tablebook/modules/restaurant/repository"
	resvservice "tablebook/modules/reservation/service"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// TaskEnqueuer is the slice of asynq.Client this service needs
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// RestaurantServiceInterface defines the service contract
type RestaurantServiceInterface interface {
	ListTables(ctx context.Context, restaurantID, sectorID uuid.UUID) ([]dto.TableResponse, *errors.AppError)
	CreateTable(ctx context.Context, req *dto.CreateTableRequest) (*dto.TableResponse, *errors.AppError)
	CreateBlackout(ctx context.Context, req *dto.CreateBlackoutRequest) (*dto.BlackoutResponse, *errors.AppError)
	DeleteBlackout(ctx context.Context, id uuid.UUID) *errors.AppError
}

// RestaurantService handles restaurant, table and blackout business logic
type RestaurantService struct {
	repo      repository.RestaurantRepositoryInterface
	blackouts repository.BlackoutRepositoryInterface
	tasks     TaskEnqueuer
}

func NewRestaurantService(repo repository.RestaurantRepositoryInterface, blackouts repository.BlackoutRepositoryInterface, tasks TaskEnqueuer) RestaurantServiceInterface {
	return &RestaurantService{
		repo:      repo,
		blackouts: blackouts,
		tasks:     tasks,
	}
}

func (s *RestaurantService) ListTables(ctx context.Context, restaurantID, sectorID uuid.UUID) ([]dto.TableResponse, *errors.AppError) {
	sector, err := s.repo.GetSectorByID(ctx, sectorID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load sector", nil)
	}
	if sector == nil || sector.RestaurantID != restaurantID {
		return nil, errors.NewAppError(errors.ErrNotFound, "Sector not found", nil)
	}

	tables, err := s.repo.ListTablesBySector(ctx, sectorID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load tables", nil)
	}

	result := make([]dto.TableResponse, 0, len(tables))
	for _, t := range tables {
		result = append(result, dto.ToTableResponse(&t))
	}
	return result, nil
}

func (s *RestaurantService) CreateTable(ctx context.Context, req *dto.CreateTableRequest) (*dto.TableResponse, *errors.AppError) {
	sectorID, err := uuid.Parse(req.SectorID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid sector ID", nil)
	}
	if req.Label == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Label is required", nil)
	}
	if req.MinCapacity < 0 || req.MaxCapacity < req.MinCapacity {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Capacity range must satisfy 0 <= min <= max", nil)
	}

	sector, err := s.repo.GetSectorByID(ctx, sectorID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load sector", nil)
	}
	if sector == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Sector not found", nil)
	}

	table := &entity.Table{
		ID:          uuid.New(),
		SectorID:    sectorID,
		Label:       req.Label,
		MinCapacity: req.MinCapacity,
		MaxCapacity: req.MaxCapacity,
	}

	created, err := s.repo.CreateTable(ctx, table)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to create table", nil)
	}

	resp := dto.ToTableResponse(created)
	return &resp, nil
}

// CreateBlackout stores the blackout and enqueues cancellation of any
// confirmed reservations it overlaps. The cancellation runs in the worker so
// a large overlap set does not hold up the admin request.
func (s *RestaurantService) CreateBlackout(ctx context.Context, req *dto.CreateBlackoutRequest) (*dto.BlackoutResponse, *errors.AppError) {
	restaurantID, err := uuid.Parse(req.RestaurantID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid restaurant ID", nil)
	}

	restaurant, err := s.repo.GetRestaurantByID(ctx, restaurantID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load restaurant", nil)
	}
	if restaurant == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Restaurant not found", nil)
	}

	var sectorID *uuid.UUID
	if req.SectorID != "" {
		id, err := uuid.Parse(req.SectorID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid sector ID", nil)
		}
		sector, err := s.repo.GetSectorByID(ctx, id)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load sector", nil)
		}
		if sector == nil || sector.RestaurantID != restaurantID {
			return nil, errors.NewAppError(errors.ErrNotFound, "Sector not found", nil)
		}
		sectorID = &id
	}

	tableIDs := make(entity.UUIDArray, 0, len(req.TableIDs))
	for _, raw := range req.TableIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid table ID", nil)
		}
		tableIDs = append(tableIDs, id)
	}
	if len(tableIDs) > 0 {
		found, err := s.repo.GetTablesByIDs(ctx, tableIDs.UUIDs())
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load tables", nil)
		}
		if len(found) != len(tableIDs) {
			return nil, errors.NewAppError(errors.ErrNotFound, "One or more tables not found", nil)
		}
	}

	startAt, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid start, expected RFC3339", nil)
	}
	endAt, err := time.Parse(time.RFC3339, req.EndAt)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid end, expected RFC3339", nil)
	}
	if !endAt.After(startAt) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "End must be after start", nil)
	}

	blackout := &entity.Blackout{
		ID:           uuid.New(),
		RestaurantID: restaurantID,
		SectorID:     sectorID,
		TableIDs:     tableIDs,
		StartAt:      startAt.UTC(),
		EndAt:        endAt.UTC(),
		Reason:       req.Reason,
	}

	created, err := s.blackouts.CreateBlackout(ctx, blackout)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to create blackout", nil)
	}

	task, err := resvservice.NewBlackoutCancelTask(created.ID)
	if err != nil {
		logger.Error("RestaurantService:CreateBlackout:NewBlackoutCancelTask", "error", err, "blackout_id", created.ID)
	} else if _, err := s.tasks.EnqueueContext(ctx, task); err != nil {
		// The blackout itself is stored; overlapped reservations stay
		// confirmed until the task is retried or re-enqueued.
		logger.Error("RestaurantService:CreateBlackout:Enqueue", "error", err, "blackout_id", created.ID)
	}

	resp := dto.ToBlackoutResponse(created)
	return &resp, nil
}

func (s *RestaurantService) DeleteBlackout(ctx context.Context, id uuid.UUID) *errors.AppError {
	blackout, err := s.blackouts.GetBlackoutByID(ctx, id)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to load blackout", nil)
	}
	if blackout == nil {
		return errors.NewAppError(errors.ErrNotFound, "Blackout not found", nil)
	}

	if err := s.blackouts.DeleteBlackout(ctx, id); err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "Failed to delete blackout", nil)
	}
	return nil
}
