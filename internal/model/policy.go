package model

import (
	"encoding/json"
	"time"
)

// Policy is a manually submitted policy summary. Every descriptive field is
// required.
type Policy struct {
	ID              string    `json:"id"`
	Name            string    `json:"name" validate:"required"`
	Email           string    `json:"email" validate:"required"`
	Insurer         string    `json:"insurer" validate:"required"`
	PolicyNumber    string    `json:"policy_number" validate:"required"`
	PolicyStartDate string    `json:"policy_start_date" validate:"required"`
	PolicyEndDate   string    `json:"policy_end_date" validate:"required"`
	DateOfPolicy    string    `json:"date_of_policy" validate:"required"`
	ExpiryDate      string    `json:"expiry_date" validate:"required"`
	VehicleType     string    `json:"vehicle_type" validate:"required"`
	SubmittedAt     time.Time `json:"submitted_at"`
}

// Document is one processed document and its reconciliation result.
type Document struct {
	ID         string          `json:"id"`
	Filename   string          `json:"filename"`
	Category   Category        `json:"category"`
	Status     Status          `json:"status"`
	Diagnostic string          `json:"diagnostic,omitempty"`
	Pages      int             `json:"pages"`
	Payload    json.RawMessage `json:"payload"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Summary decodes the flat record carried in the payload, if any.
func (d Document) Summary() (VehicleRecord, bool) {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(d.Payload, &env); err != nil {
		return VehicleRecord{}, false
	}
	raw, ok := env[SummaryKey]
	if !ok {
		raw, ok = env[SummaryKeyAlias]
	}
	if !ok {
		return VehicleRecord{}, false
	}
	var rec VehicleRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return VehicleRecord{}, false
	}
	return rec, true
}
