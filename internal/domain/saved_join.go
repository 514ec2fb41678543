package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SavedJoin is a named join configuration persisted for reuse. The engine
// itself never persists anything; saving and loading configurations is a
// convenience layer above it.
type SavedJoin struct {
	ID            uuid.UUID         `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	Configuration JoinConfiguration `json:"configuration"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// Helper utilities for encoding/decoding configurations to JSONB blobs used by persistence.
func ConfigurationToJSONB(cfg JoinConfiguration) (json.RawMessage, error) {
	return json.Marshal(cfg)
}

func ConfigurationFromJSONB(data json.RawMessage) (JoinConfiguration, error) {
	var cfg JoinConfiguration
	if len(data) == 0 {
		return cfg, nil
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return JoinConfiguration{}, err
	}
	return cfg, nil
}
