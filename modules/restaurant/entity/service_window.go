package entity

import (
	"github.com/google/uuid"
)

// ServiceWindow is an allowed operating span for one weekday, expressed as
// local "HH:mm" times-of-day. Weekday follows time.Weekday (0 = Sunday).
type ServiceWindow struct {
	ID           uuid.UUID `db:"id" json:"id"`
	RestaurantID uuid.UUID `db:"restaurant_id" json:"restaurant_id"`
	Weekday      int       `db:"weekday" json:"weekday"`
	StartTime    string    `db:"start_time" json:"start_time"`
	EndTime      string    `db:"end_time" json:"end_time"`
}
