package entity

import (
	"database/sql/driver"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// UUIDArray maps a postgres uuid[] column onto []uuid.UUID
type UUIDArray []uuid.UUID

func (a UUIDArray) Value() (driver.Value, error) {
	ss := make([]string, len(a))
	for i, id := range a {
		ss[i] = id.String()
	}
	return pq.StringArray(ss).Value()
}

func (a *UUIDArray) Scan(src any) error {
	var ss pq.StringArray
	if err := ss.Scan(src); err != nil {
		return err
	}
	out := make([]uuid.UUID, len(ss))
	for i, s := range ss {
		id, err := uuid.Parse(s)
		if err != nil {
			return fmt.Errorf("invalid uuid in array: %w", err)
		}
		out[i] = id
	}
	*a = out
	return nil
}

// UUIDs returns the plain slice form
func (a UUIDArray) UUIDs() []uuid.UUID {
	return []uuid.UUID(a)
}
