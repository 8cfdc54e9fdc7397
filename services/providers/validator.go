package providers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/upb/ticket-triage/models"
	"github.com/upb/ticket-triage/services"
	"github.com/upb/ticket-triage/utils"
)

// Static reasons surfaced by ValidateOutput. None of them carry backend output.
const (
	reasonEmptyResponse  = "model returned an empty response"
	reasonInvalidJSON    = "model returned invalid JSON"
	reasonSchemaMismatch = "model response did not match expected schema"
)

// flagKeys is the exact set of keys a flags object must carry
var flagKeys = []string{"requires_human", "is_abusive", "missing_info", "is_vip_customer"}

// triageFields holds the values extracted by exact key match, ready for tag validation
type triageFields struct {
	Category string `json:"category" validate:"required,oneof=billing technical account sales other"`
	Priority string `json:"priority" validate:"required,oneof=low normal high urgent"`
}

// ValidateOutput parses raw backend text and enforces the fixed triage schema.
// Keys are matched case-sensitively. Unknown top-level keys are ignored; the
// flags object must hold exactly the four flag keys with boolean values. Any
// failure is an invalid response error with a static message.
func ValidateOutput(raw string) (*models.TriageOutput, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, services.NewInvalidResponseError(reasonEmptyResponse)
	}

	var top map[string]json.RawMessage
	if err := decodeStrict([]byte(raw), &top); err != nil {
		return nil, services.NewInvalidResponseError(reasonInvalidJSON)
	}

	var fields triageFields
	if !decodeString(top["category"], &fields.Category) || !decodeString(top["priority"], &fields.Priority) {
		return nil, services.NewInvalidResponseError(reasonSchemaMismatch)
	}
	if err := utils.ValidateStruct(&fields); err != nil {
		return nil, services.NewInvalidResponseError(reasonSchemaMismatch)
	}

	flags, ok := decodeFlags(top["flags"])
	if !ok {
		return nil, services.NewInvalidResponseError(reasonSchemaMismatch)
	}

	return &models.TriageOutput{
		Category: models.Category(fields.Category),
		Priority: models.Priority(fields.Priority),
		Flags:    flags,
	}, nil
}

// decodeString decodes a present, non-null JSON string
func decodeString(data json.RawMessage, v *string) bool {
	var s *string
	if len(data) == 0 || json.Unmarshal(data, &s) != nil || s == nil {
		return false
	}
	*v = *s
	return true
}

// decodeFlags requires exactly the four flag keys, each a non-null boolean
func decodeFlags(data json.RawMessage) (models.TriageFlags, bool) {
	var obj map[string]json.RawMessage
	if len(data) == 0 || json.Unmarshal(data, &obj) != nil || len(obj) != len(flagKeys) {
		return models.TriageFlags{}, false
	}

	values := make(map[string]bool, len(flagKeys))
	for _, key := range flagKeys {
		var b *bool
		raw, ok := obj[key]
		if !ok || json.Unmarshal(raw, &b) != nil || b == nil {
			return models.TriageFlags{}, false
		}
		values[key] = *b
	}

	return models.TriageFlags{
		RequiresHuman: values["requires_human"],
		IsAbusive:     values["is_abusive"],
		MissingInfo:   values["missing_info"],
		IsVIPCustomer: values["is_vip_customer"],
	}, true
}

// decodeStrict decodes exactly one JSON value from data into v
func decodeStrict(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("trailing data after JSON value")
	}
	return nil
}
