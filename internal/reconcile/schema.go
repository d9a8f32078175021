package reconcile

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/sells-group/insurawise/internal/model"
)

// Schema resource names registered with the compiler.
const (
	vehicleSchemaURL = "vehicle.json"
	medicalSchemaURL = "medical.json"
)

// VehicleSchema returns the JSON Schema of the flat vehicle record.
func VehicleSchema() map[string]any {
	return objectSchema(reflect.TypeOf(model.VehicleRecord{}))
}

// MedicalSchema returns the JSON Schema of the medical record.
func MedicalSchema() map[string]any {
	return objectSchema(reflect.TypeOf(model.MedicalRecord{}))
}

// objectSchema derives a schema from struct tags. String fields map to
// "string", pointer fields to nullable strings, nested structs to objects.
// A field is required when its validate tag says so, and nested structs are
// required unless tagged omitempty. Unknown keys are allowed.
func objectSchema(t reflect.Type) map[string]any {
	props := map[string]any{}
	var required []string
	collectProperties(t, props, &required)

	s := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func collectProperties(t reflect.Type, props map[string]any, required *[]string) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			collectProperties(f.Type, props, required)
			continue
		}
		name, opts, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}

		switch f.Type.Kind() {
		case reflect.Struct:
			props[name] = objectSchema(f.Type)
			if !strings.Contains(opts, "omitempty") {
				*required = append(*required, name)
				continue
			}
		case reflect.Pointer:
			props[name] = map[string]any{"type": []string{"string", "null"}}
		default:
			props[name] = map[string]any{"type": "string"}
		}
		if hasRule(f.Tag.Get("validate"), "required") {
			*required = append(*required, name)
		}
	}
}

func hasRule(tag, rule string) bool {
	for _, r := range strings.Split(tag, ",") {
		if r == rule {
			return true
		}
	}
	return false
}

// compileSchema registers schema under url and compiles it.
func compileSchema(url string, schema map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schema)
	if err != nil {
		return nil, eris.Wrapf(err, "reconcile: marshal %s", url)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, bytes.NewReader(b)); err != nil {
		return nil, eris.Wrapf(err, "reconcile: add schema %s", url)
	}
	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, eris.Wrapf(err, "reconcile: compile %s", url)
	}
	return compiled, nil
}
