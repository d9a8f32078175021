package reconcile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/rotisserie/eris"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/sells-group/insurawise/internal/model"
)

// ValidationError reports why a record failed strict validation. It is
// recovered by the pipeline and surfaced as a degraded outcome's diagnostic.
type ValidationError struct {
	Record string
	Err    error
}

func (e *ValidationError) Error() string {
	return e.Record + " record: " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Validator checks untyped records against the canonical schemas and
// produces typed records. Checks run in three steps: JSON Schema structure,
// decoding into the typed record, then field rules on the typed record.
type Validator struct {
	vehicle      *jsonschema.Schema
	medical      *jsonschema.Schema
	fields       *validator.Validate
	defaultState string
}

// NewValidator compiles the record schemas. defaultState is applied to
// vehicle records that omit the state column.
func NewValidator(defaultState string) (*Validator, error) {
	vehicle, err := compileSchema(vehicleSchemaURL, VehicleSchema())
	if err != nil {
		return nil, err
	}
	medical, err := compileSchema(medicalSchemaURL, MedicalSchema())
	if err != nil {
		return nil, err
	}
	return &Validator{
		vehicle:      vehicle,
		medical:      medical,
		fields:       validator.New(validator.WithRequiredStructEnabled()),
		defaultState: defaultState,
	}, nil
}

// ValidateVehicle validates a flat vehicle record.
func (v *Validator) ValidateVehicle(rec any) (*model.VehicleRecord, error) {
	rec = plain(rec)
	if err := v.vehicle.Validate(rec); err != nil {
		return nil, &ValidationError{Record: "vehicle", Err: schemaError(err)}
	}
	out := model.NewVehicleRecord(v.defaultState)
	if err := decode(rec, &out); err != nil {
		return nil, &ValidationError{Record: "vehicle", Err: err}
	}
	if err := v.fields.Struct(out); err != nil {
		return nil, &ValidationError{Record: "vehicle", Err: fieldError(err)}
	}
	return &out, nil
}

// ValidateMedical validates the content of the medical envelope.
func (v *Validator) ValidateMedical(rec any) (*model.MedicalRecord, error) {
	rec = plain(rec)
	if err := v.medical.Validate(rec); err != nil {
		return nil, &ValidationError{Record: "medical", Err: schemaError(err)}
	}
	var out model.MedicalRecord
	if err := decode(rec, &out); err != nil {
		return nil, &ValidationError{Record: "medical", Err: err}
	}
	return &out, nil
}

func decode(in, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Squash:  true,
		Result:  out,
	})
	if err != nil {
		return eris.Wrap(err, "reconcile: build decoder")
	}
	if err := dec.Decode(in); err != nil {
		return eris.Wrap(err, "reconcile: decode record")
	}
	return nil
}

// plain converts model.Raw values to the map type the schema validator
// recognises.
func plain(v any) any {
	if r, ok := v.(model.Raw); ok {
		return map[string]any(r)
	}
	return v
}

// schemaError flattens a jsonschema failure into its leaf messages.
func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	var msgs []string
	collectCauses(ve, &msgs)
	if len(msgs) == 0 {
		return err
	}
	return eris.New(strings.Join(msgs, "; "))
}

func collectCauses(ve *jsonschema.ValidationError, msgs *[]string) {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*msgs = append(*msgs, fmt.Sprintf("%s: %s", loc, ve.Message))
		return
	}
	for _, c := range ve.Causes {
		collectCauses(c, msgs)
	}
}

func fieldError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return eris.New(strings.Join(msgs, "; "))
}
