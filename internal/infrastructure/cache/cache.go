package cache

import (
	"time"

	"github.com/google/uuid"
)

// DefaultMatchTTL is how long a cached match list stays valid.
const DefaultMatchTTL = 15 * time.Minute

type Stats struct {
	TotalEntries   int `json:"total_entries"`
	ValidEntries   int `json:"valid_entries"`
	ExpiredEntries int `json:"expired_entries"`
}

type matchKey struct {
	UserID    uuid.UUID
	PersonaID uuid.UUID
}
