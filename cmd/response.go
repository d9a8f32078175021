package main

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/insurawise/internal/model"
)

// envelope is the result document shared by the normalize and process
// commands and the HTTP API.
type envelope struct {
	Message         string         `json:"message" yaml:"message"`
	Data            map[string]any `json:"data" yaml:"data"`
	ProductType     string         `json:"product_type" yaml:"product_type"`
	InsuranceType   string         `json:"insurance_type" yaml:"insurance_type"`
	VehicleType     *string        `json:"vehicle_type" yaml:"vehicle_type"`
	Status          model.Status   `json:"status" yaml:"status"`
	ValidationError string         `json:"validation_error,omitempty" yaml:"validation_error,omitempty"`
	DocumentID      string         `json:"document_id,omitempty" yaml:"document_id,omitempty"`
}

func newEnvelope(message string, out model.Outcome) (*envelope, error) {
	data, err := out.Payload()
	if err != nil {
		return nil, eris.Wrap(err, "build payload")
	}
	env := &envelope{
		Message:         message,
		Data:            data,
		ProductType:     out.Category.String(),
		InsuranceType:   out.Category.InsuranceType(),
		Status:          out.Status,
		ValidationError: out.Diagnostic,
	}
	if vt := out.Category.VehicleType(); vt != "" {
		env.VehicleType = &vt
	}
	return env, nil
}
