package service

import (
	"errors"
	"time"
)

var ErrInvalidAddress = errors.New("invalid account address")

// Clock returns the current time. Services default to UTC wall time.
type Clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}
