package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// ShippingDetails is the delivery destination snapshot stored on an order.
// Persisted as a JSON text column so the snapshot survives later edits to
// whatever address book produced it.
type ShippingDetails struct {
	RecipientName string `json:"recipient_name" validate:"required"`
	Phone         string `json:"phone" validate:"required"`
	Line1         string `json:"line1" validate:"required"`
	Line2         string `json:"line2,omitempty"`
	City          string `json:"city" validate:"required"`
	Province      string `json:"province" validate:"required"`
	PostalCode    string `json:"postal_code" validate:"required"`
	Notes         string `json:"notes,omitempty"`
}

// Validate reports the first missing required field, if any.
func (s ShippingDetails) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"recipient_name", s.RecipientName},
		{"phone", s.Phone},
		{"line1", s.Line1},
		{"city", s.City},
		{"province", s.Province},
		{"postal_code", s.PostalCode},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("shipping details: missing %s", field.name)
		}
	}
	return nil
}

// Value marshals ShippingDetails into its JSON column representation.
func (s ShippingDetails) Value() (driver.Value, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("shipping details: marshal: %w", err)
	}
	return string(raw), nil
}

// Scan decodes the JSON column back into the struct.
func (s *ShippingDetails) Scan(value interface{}) error {
	if value == nil {
		*s = ShippingDetails{}
		return nil
	}
	raw, ok := toString(value)
	if !ok {
		return fmt.Errorf("shipping details: unsupported scan type %T", value)
	}
	if raw == "" {
		*s = ShippingDetails{}
		return nil
	}
	if err := json.Unmarshal([]byte(raw), s); err != nil {
		return fmt.Errorf("shipping details: unmarshal: %w", err)
	}
	return nil
}
