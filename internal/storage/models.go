package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested slot does not exist.
var ErrNotFound = errors.New("not found")

// Slot is one keyed JSON document as stored on disk.
type Slot struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
