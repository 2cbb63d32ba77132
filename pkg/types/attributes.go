package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Attributes is a free-form string map persisted as a JSON text column.
// Cart line items use it for shopper-chosen variants (size, color, ...).
type Attributes map[string]string

// Value marshals the map into its JSON column representation.
func (a Attributes) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "{}", nil
	}
	raw, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("attributes: marshal: %w", err)
	}
	return string(raw), nil
}

// Scan decodes the JSON column back into the map.
func (a *Attributes) Scan(value interface{}) error {
	if value == nil {
		*a = Attributes{}
		return nil
	}
	raw, ok := toString(value)
	if !ok {
		return fmt.Errorf("attributes: unsupported scan type %T", value)
	}
	if raw == "" {
		*a = Attributes{}
		return nil
	}
	decoded := Attributes{}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return fmt.Errorf("attributes: unmarshal: %w", err)
	}
	*a = decoded
	return nil
}

func toString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	case fmt.Stringer:
		return v.String(), true
	default:
		return "", false
	}
}
