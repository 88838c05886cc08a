package dto

import (
	"time"

	"tablebook/core/constants"
	"tablebook/modules/availability/entity"
)

// ===================== Request DTOs =====================

// DiscoverRequest asks which table sets could seat a party
type DiscoverRequest struct {
	RestaurantID    string `query:"restaurant_id" json:"restaurant_id"`
	SectorID        string `query:"sector_id" json:"sector_id"`
	Date            string `query:"date" json:"date"` // YYYY-MM-DD
	PartySize       int    `query:"party_size" json:"party_size"`
	DurationMinutes int    `query:"duration_minutes" json:"duration_minutes"`
	WindowStart     string `query:"window_start" json:"window_start,omitempty"` // HH:mm local
	WindowEnd       string `query:"window_end" json:"window_end,omitempty"`
	Limit           int    `query:"limit" json:"limit,omitempty"`
}

// ===================== Response DTOs =====================

// CandidateResponse is one proposed allocation
type CandidateResponse struct {
	Kind     string    `json:"kind"` // single | combo
	TableIDs []string  `json:"table_ids"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// DiscoverResponse is the ordered candidate list for one discovery call
type DiscoverResponse struct {
	Candidates      []CandidateResponse `json:"candidates"`
	GridMinutes     int                 `json:"grid_minutes"`
	DurationMinutes int                 `json:"duration_minutes"`
}

func ToCandidateResponse(c entity.Candidate) CandidateResponse {
	ids := make([]string, len(c.TableIDs))
	for i, id := range c.TableIDs {
		ids[i] = id.String()
	}
	return CandidateResponse{
		Kind:     string(c.Kind),
		TableIDs: ids,
		Start:    c.Interval.Start,
		End:      c.Interval.End,
	}
}

func ToDiscoverResponse(candidates []entity.Candidate, durationMinutes int) *DiscoverResponse {
	out := make([]CandidateResponse, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, ToCandidateResponse(c))
	}
	return &DiscoverResponse{
		Candidates:      out,
		GridMinutes:     constants.GridUnitMinutes,
		DurationMinutes: durationMinutes,
	}
}
