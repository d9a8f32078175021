package model

import (
	"encoding/json"

	"github.com/rotisserie/eris"
)

// Status tags an Outcome.
type Status string

const (
	StatusValidated Status = "validated"
	StatusDegraded  Status = "degraded"
)

// Outcome is the result of one reconciliation. A validated outcome carries
// typed records; a degraded one carries only the normalized mapping and the
// reason strict validation rejected it. Normalized is set in both cases.
type Outcome struct {
	Status     Status
	Category   Category
	Vehicle    *VehicleRecord
	Medical    *MedicalRecord
	Summary    *VehicleRecord
	Normalized Raw
	Diagnostic string
}

// Validated builds a successful vehicle or medical outcome.
func Validated(cat Category, normalized Raw, vehicle *VehicleRecord, medical *MedicalRecord, summary *VehicleRecord) Outcome {
	return Outcome{
		Status:     StatusValidated,
		Category:   cat,
		Vehicle:    vehicle,
		Medical:    medical,
		Summary:    summary,
		Normalized: normalized,
	}
}

// Degraded builds a fallback outcome.
func Degraded(cat Category, normalized Raw, diagnostic string) Outcome {
	return Outcome{
		Status:     StatusDegraded,
		Category:   cat,
		Normalized: normalized,
		Diagnostic: diagnostic,
	}
}

// IsValidated reports whether strict validation succeeded.
func (o Outcome) IsValidated() bool { return o.Status == StatusValidated }

// Payload returns the output document: the typed records under their
// envelope keys when validated, the normalized mapping otherwise.
func (o Outcome) Payload() (map[string]any, error) {
	if !o.IsValidated() {
		return map[string]any(o.Normalized), nil
	}
	out := make(map[string]any, 2)
	if o.Vehicle != nil {
		v, err := toMap(o.Vehicle)
		if err != nil {
			return nil, err
		}
		out[SummaryKey] = v
	}
	if o.Medical != nil {
		m, err := toMap(o.Medical)
		if err != nil {
			return nil, err
		}
		out[MedicalKey] = m
	}
	if o.Summary != nil {
		s, err := toMap(o.Summary)
		if err != nil {
			return nil, err
		}
		out[SummaryKey] = s
	}
	return out, nil
}

// SummaryRecord returns the flat record of the outcome: the vehicle record
// on the vehicle path, the projected summary on the medical path. Degraded
// outcomes have none.
func (o Outcome) SummaryRecord() *VehicleRecord {
	if o.Vehicle != nil {
		return o.Vehicle
	}
	return o.Summary
}

func toMap(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, eris.Wrap(err, "model: marshal record")
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, eris.Wrap(err, "model: unmarshal record")
	}
	return m, nil
}
