package descriptor

import (
	"bytes"
	"encoding/json"
)

// Value carries a control value. Controls hold a *Value so an unset value
// (nil pointer, omitted from JSON) stays distinct from an explicit null.
type Value struct {
	Data any
}

// MarshalJSON encodes the wrapped payload.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Data)
}

// UnmarshalJSON decodes any JSON payload, keeping null as a nil Data.
func (v *Value) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		v.Data = nil
		return nil
	}
	return json.Unmarshal(data, &v.Data)
}
