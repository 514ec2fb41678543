package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SavedQuery is a named scoping query over one index. Join sources of kind
// storedQuery reference a saved query by id and inherit its index and query.
type SavedQuery struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Index     string          `json:"index"`
	Query     json.RawMessage `json:"query"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
