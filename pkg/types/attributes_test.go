package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributesRoundTrip(t *testing.T) {
	attrs := Attributes{"size": "XL", "color": "navy"}

	raw, err := attrs.Value()
	require.NoError(t, err)

	var decoded Attributes
	require.NoError(t, decoded.Scan(raw))
	assert.Equal(t, attrs, decoded)
}

func TestAttributesScanNilYieldsEmptyMap(t *testing.T) {
	var decoded Attributes
	require.NoError(t, decoded.Scan(nil))
	assert.NotNil(t, decoded)
	assert.Empty(t, decoded)
}

func TestShippingDetailsValidate(t *testing.T) {
	details := ShippingDetails{
		RecipientName: "Rina Kusuma",
		Phone:         "+62811223344",
		Line1:         "Jl. Melati 12",
		City:          "Bandung",
		Province:      "Jawa Barat",
		PostalCode:    "40115",
	}
	require.NoError(t, details.Validate())

	details.City = " "
	err := details.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "city")
}
