package entity

import "github.com/google/uuid"

type BusyKind string

const (
	BusyBooking  BusyKind = "booking"
	BusyBlackout BusyKind = "blackout"
)

// BusyInterval is a confirmed reservation or blackout occupying tables.
// An empty TableIDs list means the whole sector is affected.
type BusyInterval struct {
	TableIDs []uuid.UUID
	Interval TimeInterval
	Kind     BusyKind
}
