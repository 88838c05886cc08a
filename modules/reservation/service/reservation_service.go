package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tablebook/core/constants"
	"tablebook/core/errors"
	"tablebook/core/logger"
	"tablebook/core/utils"
	availservice "tablebook/modules/availability/service"
	"tablebook/modules/reservation/dto"
	"tablebook/modules/reservation/entity"
	"tablebook/modules/reservation/repository"
	restentity "tablebook/modules/restaurant/entity"
	restrepo "tablebook/modules/restaurant/repository"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// ReservationServiceInterface defines the service contract
type ReservationServiceInterface interface {
	Commit(ctx context.Context, req *dto.CommitRequest) (*dto.ReservationResponse, *errors.AppError)
	Cancel(ctx context.Context, id uuid.UUID) *errors.AppError
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ReservationResponse, *errors.AppError)
	HandleBlackoutCancel(ctx context.Context, task *asynq.Task) error
}

// ReservationService runs the commit protocol: idempotency claim, candidate
// discovery, per-table locking, re-verification against fresh busy data, and
// finally the insert. Locks are held only across the re-verify and insert.
type ReservationService struct {
	repo         repository.ReservationRepositoryInterface
	blackouts    restrepo.BlackoutRepositoryInterface
	availability availservice.AvailabilityServiceInterface
	locks        *LockKeeper
	idempotency  IdempotencyStore
	lockWait     time.Duration
}

func NewReservationService(
	repo repository.ReservationRepositoryInterface,
	blackouts restrepo.BlackoutRepositoryInterface,
	availability availservice.AvailabilityServiceInterface,
	idempotency IdempotencyStore,
	lockWait time.Duration,
) *ReservationService {
	return &ReservationService{
		repo:         repo,
		blackouts:    blackouts,
		availability: availability,
		locks:        NewLockKeeper(),
		idempotency:  idempotency,
		lockWait:     lockWait,
	}
}

func (s *ReservationService) Commit(ctx context.Context, req *dto.CommitRequest) (*dto.ReservationResponse, *errors.AppError) {
	if req.IdempotencyKey == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Idempotency key is required", nil)
	}

	q, appErr := commitQuery(req)
	if appErr != nil {
		return nil, appErr
	}

	// The fingerprint covers everything but the key itself, so the same key
	// with a changed payload is rejected instead of silently replayed.
	payload := *req
	payload.IdempotencyKey = ""
	fingerprint := Fingerprint(payload)

	claim, err := s.idempotency.Begin(ctx, req.IdempotencyKey, fingerprint)
	if err != nil {
		logger.Error("ReservationService:Commit:IdempotencyBegin", "error", err, "key", req.IdempotencyKey)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to check idempotency", nil)
	}

	switch claim.State {
	case IdempotencyReplay:
		return s.replay(ctx, claim.ReservationID)
	case IdempotencyConflict:
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Idempotency key reused with a different payload", nil)
	case IdempotencyInProgress:
		return nil, errors.NewAppError(errors.ErrTableLocked, "A commit with this idempotency key is in progress", nil)
	}

	resp, appErr := s.allocate(ctx, req, *q)
	if appErr != nil {
		if ferr := s.idempotency.Fail(ctx, req.IdempotencyKey); ferr != nil {
			logger.Error("ReservationService:Commit:IdempotencyFail", "error", ferr, "key", req.IdempotencyKey)
		}
		return nil, appErr
	}

	if cerr := s.idempotency.Complete(ctx, req.IdempotencyKey, fingerprint, resp.ID.String()); cerr != nil {
		// The reservation is committed; a lost completion record only costs a
		// failed replay within the TTL.
		logger.Error("ReservationService:Commit:IdempotencyComplete", "error", cerr, "key", req.IdempotencyKey)
	}
	return resp, nil
}

// allocate runs discovery through insert for a claimed commit
func (s *ReservationService) allocate(ctx context.Context, req *dto.CommitRequest, q availservice.CandidateQuery) (*dto.ReservationResponse, *errors.AppError) {
	candidates, appErr := s.availability.CandidatesFor(ctx, q)
	if appErr != nil {
		return nil, appErr
	}
	if len(candidates) == 0 {
		return nil, errors.NewAppError(errors.ErrNoCapacity, "No table or combination can seat this party", nil)
	}
	best := candidates[0]

	keys := make([]string, len(best.TableIDs))
	for i, id := range best.TableIDs {
		keys[i] = LockKey(id, best.Interval.Start)
	}

	lockCtx, cancel := context.WithTimeout(ctx, s.lockWait)
	defer cancel()

	acquired, err := s.locks.AcquireAll(lockCtx, keys)
	if err != nil {
		logger.Warn("ReservationService:Commit:LockTimeout", "keys", keys)
		return nil, errors.NewAppError(errors.ErrTableLocked, "Tables are locked by a concurrent commit", nil)
	}
	defer s.locks.ReleaseAll(acquired)

	// Re-verify under the locks: another commit may have filled these tables
	// between discovery and now.
	busy, err := s.repo.ListBusyForTables(ctx, q.RestaurantID, best.TableIDs, best.Interval)
	if err != nil {
		logger.Error("ReservationService:Commit:ListBusyForTables", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to re-verify availability", nil)
	}
	if len(busy) > 0 {
		return nil, errors.NewAppError(errors.ErrNoCapacity, "Selected tables were taken by a concurrent commit", nil)
	}

	reservation := &entity.Reservation{
		ID:              uuid.New(),
		Code:            utils.GenerateReservationCode(),
		RestaurantID:    q.RestaurantID,
		SectorID:        q.SectorID,
		TableIDs:        restentity.UUIDArray(best.TableIDs),
		PartySize:       q.PartySize,
		StartAt:         best.Interval.Start,
		EndAt:           best.Interval.End,
		DurationMinutes: int(q.Duration / time.Minute),
		Status:          entity.StatusConfirmed,
	}

	created, err := s.repo.CreateReservation(ctx, reservation)
	if err != nil {
		logger.Error("ReservationService:Commit:CreateReservation", "error", err)
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to store reservation", nil)
	}

	logger.Info("ReservationService:Commit:Confirmed",
		"reservation_id", created.ID, "code", created.Code,
		"tables", len(created.TableIDs), "start_at", created.StartAt)

	resp := dto.ToReservationResponse(created)
	return &resp, nil
}

// replay returns the reservation a completed commit with this key produced
func (s *ReservationService) replay(ctx context.Context, reservationID string) (*dto.ReservationResponse, *errors.AppError) {
	id, err := uuid.Parse(reservationID)
	if err != nil {
		logger.Error("ReservationService:Replay:Parse", "error", err, "reservation_id", reservationID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Corrupt idempotency record", nil)
	}

	reservation, err := s.repo.GetReservationByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load reservation", nil)
	}
	if reservation == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Reservation not found", nil)
	}

	resp := dto.ToReservationResponse(reservation)
	return &resp, nil
}

// Cancel marks a confirmed reservation cancelled. Cancelling twice is a no-op.
func (s *ReservationService) Cancel(ctx context.Context, id uuid.UUID) *errors.AppError {
	reservation, err := s.repo.GetReservationByID(ctx, id)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to load reservation", nil)
	}
	if reservation == nil {
		return errors.NewAppError(errors.ErrNotFound, "Reservation not found", nil)
	}
	if reservation.Status == entity.StatusCancelled {
		return nil
	}

	if err := s.repo.UpdateReservationStatus(ctx, id, entity.StatusCancelled); err != nil {
		return errors.NewAppError(errors.ErrUpdateFailed, "Failed to cancel reservation", nil)
	}

	logger.Info("ReservationService:Cancel:Cancelled", "reservation_id", id)
	return nil
}

func (s *ReservationService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ReservationResponse, *errors.AppError) {
	reservation, err := s.repo.GetReservationByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load reservation", nil)
	}
	if reservation == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Reservation not found", nil)
	}

	resp := dto.ToReservationResponse(reservation)
	return &resp, nil
}

// BlackoutCancelPayload is the task body for blackout-driven cancellations
type BlackoutCancelPayload struct {
	BlackoutID uuid.UUID `json:"blackout_id"`
}

// NewBlackoutCancelTask builds the worker task that cancels every confirmed
// reservation a freshly created blackout overlaps
func NewBlackoutCancelTask(blackoutID uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(BlackoutCancelPayload{BlackoutID: blackoutID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(constants.TaskBlackoutCancelOverlaps, payload), nil
}

// HandleBlackoutCancel is the asynq handler for blackout cancellation tasks.
// Returning an error makes asynq retry the task.
func (s *ReservationService) HandleBlackoutCancel(ctx context.Context, task *asynq.Task) error {
	var payload BlackoutCancelPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Error("ReservationService:HandleBlackoutCancel:Unmarshal", err)
		return err
	}

	blackout, err := s.blackouts.GetBlackoutByID(ctx, payload.BlackoutID)
	if err != nil {
		return err
	}
	if blackout == nil {
		// Deleted before the task ran; nothing to cancel.
		logger.Warn("ReservationService:HandleBlackoutCancel:BlackoutGone", "blackout_id", payload.BlackoutID)
		return nil
	}

	overlapping, err := s.repo.ListConfirmedOverlapping(ctx,
		blackout.RestaurantID, blackout.SectorID, blackout.TableIDs.UUIDs(),
		blackout.StartAt, blackout.EndAt)
	if err != nil {
		return err
	}

	for _, r := range overlapping {
		if err := s.repo.UpdateReservationStatus(ctx, r.ID, entity.StatusCancelled); err != nil {
			logger.Error("ReservationService:HandleBlackoutCancel:Cancel", "error", err, "reservation_id", r.ID)
			return err
		}
		logger.Info("ReservationService:HandleBlackoutCancel:Cancelled",
			"reservation_id", r.ID, "blackout_id", blackout.ID)
	}
	return nil
}

// commitQuery validates and converts a commit request into a candidate query
func commitQuery(req *dto.CommitRequest) (*availservice.CandidateQuery, *errors.AppError) {
	restaurantID, err := uuid.Parse(req.RestaurantID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid restaurant ID", nil)
	}
	sectorID, err := uuid.Parse(req.SectorID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid sector ID", nil)
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid date, expected YYYY-MM-DD", nil)
	}
	if req.PartySize <= 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Party size must be positive", nil)
	}
	if req.DurationMinutes <= 0 || req.DurationMinutes%constants.GridUnitMinutes != 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput,
			fmt.Sprintf("Duration must be a positive multiple of %d minutes", constants.GridUnitMinutes), nil)
	}

	q := &availservice.CandidateQuery{
		RestaurantID: restaurantID,
		SectorID:     sectorID,
		Date:         date,
		PartySize:    req.PartySize,
		Duration:     time.Duration(req.DurationMinutes) * time.Minute,
	}
	if req.WindowStart != "" {
		w := req.WindowStart
		q.WindowStart = &w
	}
	if req.WindowEnd != "" {
		w := req.WindowEnd
		q.WindowEnd = &w
	}
	return q, nil
}
