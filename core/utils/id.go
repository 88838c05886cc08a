package utils

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

func GenerateID() string {
	id, err := gonanoid.Generate("0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz", 7)
	if err != nil {
		return ""
	}
	return id
}

// GenerateReservationCode returns a short human-readable booking reference.
// The alphabet drops easily confused characters (0/O, 1/I/L).
func GenerateReservationCode() string {
	code, err := gonanoid.Generate("23456789ABCDEFGHJKMNPQRSTUVWXYZ", 8)
	if err != nil {
		return ""
	}
	return "R-" + code
}
