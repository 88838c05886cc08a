package service

import (
	"context"
	"fmt"
	"time"

	"tablebook/core/constants"
	"tablebook/core/errors"
	"tablebook/core/logger"
	"tablebook/modules/availability/dto"
	"tablebook/modules/availability/entity"
	restentity "tablebook/modules/restaurant/entity"

	"github.com/google/uuid"
)

// TableDirectory is the read side of the restaurant data this engine consumes
type TableDirectory interface {
	GetRestaurantByID(ctx context.Context, id uuid.UUID) (*restentity.Restaurant, error)
	GetSectorByID(ctx context.Context, id uuid.UUID) (*restentity.Sector, error)
	ListTablesBySector(ctx context.Context, sectorID uuid.UUID) ([]restentity.Table, error)
	ListServiceWindows(ctx context.Context, restaurantID uuid.UUID) ([]restentity.ServiceWindow, error)
}

// BusySource lists the occupied intervals (bookings and blackouts) of a
// sector overlapping a span
type BusySource interface {
	ListBusyIntervals(ctx context.Context, restaurantID, sectorID uuid.UUID, span entity.TimeInterval) ([]entity.BusyInterval, error)
}

// CandidateQuery is one discovery question: which table sets could seat this
// party on this date for this duration
type CandidateQuery struct {
	RestaurantID uuid.UUID
	SectorID     uuid.UUID
	Date         time.Time // calendar day, interpreted in the restaurant zone
	PartySize    int
	Duration     time.Duration
	WindowStart  *string // optional "HH:mm" local override
	WindowEnd    *string
}

type AvailabilityServiceInterface interface {
	Discover(ctx context.Context, req *dto.DiscoverRequest) (*dto.DiscoverResponse, *errors.AppError)
	CandidatesFor(ctx context.Context, q CandidateQuery) ([]entity.Candidate, *errors.AppError)
}

// AvailabilityService runs the availability engine over a fresh snapshot of
// busy data. It holds no mutable state; every call recomputes from its inputs.
type AvailabilityService struct {
	directory TableDirectory
	busy      BusySource
	gaps      *GapFinder
	combos    *ComboFinder
	selector  *Selector
}

func NewAvailabilityService(directory TableDirectory, busy BusySource) AvailabilityServiceInterface {
	return &AvailabilityService{
		directory: directory,
		busy:      busy,
		gaps:      NewGapFinder(),
		combos:    NewComboFinder(),
		selector:  NewSelector(),
	}
}

// Discover handles the HTTP-facing discovery operation
func (s *AvailabilityService) Discover(ctx context.Context, req *dto.DiscoverRequest) (*dto.DiscoverResponse, *errors.AppError) {
	q, appErr := queryFromRequest(req)
	if appErr != nil {
		return nil, appErr
	}

	candidates, appErr := s.CandidatesFor(ctx, *q)
	if appErr != nil {
		return nil, appErr
	}

	limit := req.Limit
	if limit <= 0 || limit > constants.DefaultDiscoveryLimit {
		limit = constants.DefaultDiscoveryLimit
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	return dto.ToDiscoverResponse(candidates, req.DurationMinutes), nil
}

// CandidatesFor computes the full, deterministically ordered candidate set
// for a query. The commit protocol calls this twice per attempt: once to
// discover and once (narrowed) to re-verify.
func (s *AvailabilityService) CandidatesFor(ctx context.Context, q CandidateQuery) ([]entity.Candidate, *errors.AppError) {
	if appErr := validateQuery(q); appErr != nil {
		return nil, appErr
	}

	restaurant, err := s.directory.GetRestaurantByID(ctx, q.RestaurantID)
	if err != nil {
		logger.Error("AvailabilityService:CandidatesFor:GetRestaurantByID", "error", err, "restaurant_id", q.RestaurantID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load restaurant", nil)
	}
	if restaurant == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Restaurant not found", nil)
	}

	sector, err := s.directory.GetSectorByID(ctx, q.SectorID)
	if err != nil {
		logger.Error("AvailabilityService:CandidatesFor:GetSectorByID", "error", err, "sector_id", q.SectorID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load sector", nil)
	}
	if sector == nil || sector.RestaurantID != q.RestaurantID {
		return nil, errors.NewAppError(errors.ErrNotFound, "Sector not found", nil)
	}

	loc, err := time.LoadLocation(restaurant.Timezone)
	if err != nil {
		logger.Error("AvailabilityService:CandidatesFor:LoadLocation", "error", err, "timezone", restaurant.Timezone)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Invalid restaurant timezone", nil)
	}

	tables, err := s.directory.ListTablesBySector(ctx, q.SectorID)
	if err != nil {
		logger.Error("AvailabilityService:CandidatesFor:ListTablesBySector", "error", err, "sector_id", q.SectorID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load tables", nil)
	}
	if len(tables) == 0 {
		return nil, nil
	}

	windows, err := s.directory.ListServiceWindows(ctx, q.RestaurantID)
	if err != nil {
		logger.Error("AvailabilityService:CandidatesFor:ListServiceWindows", "error", err, "restaurant_id", q.RestaurantID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load service windows", nil)
	}

	// Anchor the calendar day in the restaurant's zone; the parsed date is a
	// bare day and must not shift across midnight when converting.
	day := time.Date(q.Date.Year(), q.Date.Month(), q.Date.Day(), 0, 0, 0, 0, loc)

	active := s.gaps.ResolveWindows(windows, day, loc)
	active, appErr := applyWindowOverride(active, q, day, loc)
	if appErr != nil {
		return nil, appErr
	}
	if len(active) == 0 {
		return nil, nil
	}

	// Windows are sorted by start, not end; an early window can outlast every
	// later one, so the span end is the maximum end over all of them.
	span := entity.TimeInterval{Start: active[0].Start, End: active[0].End}
	for _, w := range active[1:] {
		if w.End.After(span.End) {
			span.End = w.End
		}
	}
	busy, err := s.busy.ListBusyIntervals(ctx, q.RestaurantID, q.SectorID, span)
	if err != nil {
		logger.Error("AvailabilityService:CandidatesFor:ListBusyIntervals", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load busy intervals", nil)
	}

	return s.buildCandidates(tables, active, busy, q.PartySize, q.Duration), nil
}

// buildCandidates is the pure core: snapshot in, ordered candidates out
func (s *AvailabilityService) buildCandidates(tables []restentity.Table, active []entity.TimeInterval, busy []entity.BusyInterval, partySize int, duration time.Duration) []entity.Candidate {
	busyByTable := groupBusyByTable(tables, busy)

	gapsByTable := make(map[uuid.UUID][]entity.TimeInterval, len(tables))
	for _, t := range tables {
		gapsByTable[t.ID] = s.gaps.GapsForTable(active, busyByTable[t.ID], duration)
	}

	candidates := make([]entity.Candidate, 0)

	for _, t := range tables {
		if !t.Fits(partySize) {
			continue
		}
		for _, gap := range gapsByTable[t.ID] {
			iv := entity.TimeInterval{Start: gap.Start, End: gap.Start.Add(duration)}
			candidates = append(candidates, entity.NewCandidate(
				entity.CandidateSingle, []uuid.UUID{t.ID}, iv, t.MinCapacity, t.MaxCapacity))
		}
	}

	for _, combo := range s.combos.FindCombos(tables, partySize) {
		perTable := make([][]entity.TimeInterval, len(combo))
		empty := false
		for i, t := range combo {
			perTable[i] = gapsByTable[t.ID]
			if len(perTable[i]) == 0 {
				empty = true
				break
			}
		}
		if empty {
			continue
		}

		ids := make([]uuid.UUID, len(combo))
		for i, t := range combo {
			ids[i] = t.ID
		}
		minCap, maxCap := ComboCapacity(combo)

		for _, gap := range s.gaps.ComboGaps(perTable, duration) {
			iv := entity.TimeInterval{Start: gap.Start, End: gap.Start.Add(duration)}
			candidates = append(candidates, entity.NewCandidate(
				entity.CandidateCombo, ids, iv, minCap, maxCap))
		}
	}

	return s.selector.Order(candidates)
}

func groupBusyByTable(tables []restentity.Table, busy []entity.BusyInterval) map[uuid.UUID][]entity.TimeInterval {
	out := make(map[uuid.UUID][]entity.TimeInterval)
	for _, b := range busy {
		if len(b.TableIDs) == 0 {
			// Sector-wide blackout: every table is occupied
			for _, t := range tables {
				out[t.ID] = append(out[t.ID], b.Interval)
			}
			continue
		}
		for _, id := range b.TableIDs {
			out[id] = append(out[id], b.Interval)
		}
	}
	return out
}

// applyWindowOverride narrows the active windows by the caller-supplied
// bounds. Both bounds replace the service hours (still clamped against them);
// a single bound only filters.
func applyWindowOverride(active []entity.TimeInterval, q CandidateQuery, day time.Time, loc *time.Location) ([]entity.TimeInterval, *errors.AppError) {
	if q.WindowStart == nil && q.WindowEnd == nil {
		return active, nil
	}
	if len(active) == 0 {
		return active, nil
	}

	local := day

	var start, end *time.Time
	if q.WindowStart != nil {
		t, err := resolveClock(*q.WindowStart, local, loc)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid window start, expected HH:mm", nil)
		}
		u := t.UTC()
		start = &u
	}
	if q.WindowEnd != nil {
		t, err := resolveClock(*q.WindowEnd, local, loc)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid window end, expected HH:mm", nil)
		}
		u := t.UTC()
		end = &u
	}
	if start != nil && end != nil && !end.After(*start) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Window end must be after window start", nil)
	}

	narrowed := make([]entity.TimeInterval, 0, len(active))
	for _, w := range active {
		s, e := w.Start, w.End
		if start != nil && start.After(s) {
			s = *start
		}
		if end != nil && end.Before(e) {
			e = *end
		}
		iv := entity.TimeInterval{Start: s, End: e}
		if iv.IsValid() {
			narrowed = append(narrowed, iv)
		}
	}
	if len(narrowed) == 0 {
		return nil, errors.NewAppError(errors.ErrOutsideServiceWindow, "Requested window does not overlap any service window", nil)
	}
	return narrowed, nil
}

func validateQuery(q CandidateQuery) *errors.AppError {
	if q.RestaurantID == uuid.Nil || q.SectorID == uuid.Nil {
		return errors.NewAppError(errors.ErrInvalidInput, "Restaurant and sector are required", nil)
	}
	if q.Date.IsZero() {
		return errors.NewAppError(errors.ErrInvalidInput, "Date is required", nil)
	}
	if q.PartySize <= 0 {
		return errors.NewAppError(errors.ErrInvalidInput, "Party size must be positive", nil)
	}
	minutes := int(q.Duration / time.Minute)
	if minutes <= 0 || minutes%constants.GridUnitMinutes != 0 {
		return errors.NewAppError(errors.ErrInvalidInput,
			fmt.Sprintf("Duration must be a positive multiple of %d minutes", constants.GridUnitMinutes), nil)
	}
	return nil
}

func queryFromRequest(req *dto.DiscoverRequest) (*CandidateQuery, *errors.AppError) {
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

	q := &CandidateQuery{
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
