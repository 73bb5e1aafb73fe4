package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Draft statuses.
const (
	DraftActive   = "active"
	DraftArchived = "archived"
)

// Draft is one conversation's stored brief. BriefJSON holds the serialized
// live brief; Summary is denormalized for cheap listing.
type Draft struct {
	ID        string
	Status    string // "active", "archived"
	BriefJSON string
	Summary   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DraftMessage is one turn of a draft's conversation.
type DraftMessage struct {
	ID        string
	DraftID   string
	Role      string // "user", "assistant"
	Content   string
	CreatedAt time.Time
}
