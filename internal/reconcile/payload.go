package reconcile

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/insurawise/internal/model"
)

// ErrUnparsablePayload marks classifier output that is not a JSON object.
// It is the only payload-level failure that aborts a reconciliation.
var ErrUnparsablePayload = eris.New("classification error")

var errNotObject = eris.New("top-level value is not a JSON object")

// PayloadError carries the decoder failure for unparsable classifier output.
// Its message always starts with "classification error:".
type PayloadError struct {
	Err error
}

func (e *PayloadError) Error() string {
	return "classification error: " + e.Err.Error()
}

func (e *PayloadError) Unwrap() error { return e.Err }

// Is matches ErrUnparsablePayload.
func (e *PayloadError) Is(target error) bool { return target == ErrUnparsablePayload }

// ParsePayload decodes classifier text into a Raw object. Markdown code
// fences and prose around the outermost object are tolerated.
func ParsePayload(text string) (model.Raw, error) {
	body := strings.TrimSpace(text)
	if fenced := stripCodeFences(body); fenced != "" {
		body = fenced
	}
	if body == "" {
		return nil, &PayloadError{Err: eris.New("empty classifier response")}
	}

	raw, err := decodeObject(body)
	if err == nil {
		return raw, nil
	}
	if errors.Is(err, errNotObject) {
		return nil, &PayloadError{Err: err}
	}
	if candidate := extractObject(body); candidate != "" && candidate != body {
		if raw, cerr := decodeObject(candidate); cerr == nil {
			return raw, nil
		}
	}
	return nil, &PayloadError{Err: err}
}

func decodeObject(body string) (model.Raw, error) {
	var v any
	if err := json.Unmarshal([]byte(body), &v); err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errNotObject
	}
	return model.Raw(obj), nil
}

// stripCodeFences returns the content of a ``` fenced block, or "" when text
// is not fenced.
func stripCodeFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return ""
	}
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return ""
	}
	lines = lines[1:]
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// extractObject returns the span from the first "{" to the last "}".
func extractObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return ""
	}
	return text[start : end+1]
}
