package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// GateRegistration is the persisted form of one gate registration: which
// gate implementation to build, its configuration, and the applicability
// metadata the engine filters and orders by.
type GateRegistration struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	Name            string          `json:"name" db:"name"`
	GateType        string          `json:"gate_type" db:"gate_type"`
	Config          json.RawMessage `json:"config" db:"config"` // JSONB, gate-type specific
	Context         string          `json:"context" db:"context"`
	PathPattern     string          `json:"path_pattern,omitempty" db:"path_pattern"`
	Operations      []string        `json:"operations,omitempty" db:"operations"`
	FinalOperations []string        `json:"final_operations,omitempty" db:"final_operations"`
	Ranking         int             `json:"ranking" db:"ranking"`
	Enabled         bool            `json:"enabled" db:"enabled"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the GateRegistration model
func (GateRegistration) TableName() string {
	return "gate_registrations"
}

// NewGateRegistration creates a new enabled GateRegistration instance
func NewGateRegistration(name, gateType string, config json.RawMessage, context string, ranking int) *GateRegistration {
	now := time.Now()
	return &GateRegistration{
		ID:        uuid.New(),
		Name:      name,
		GateType:  gateType,
		Config:    config,
		Context:   context,
		Ranking:   ranking,
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
