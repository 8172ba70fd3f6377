package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripNonDigits(t *testing.T) {
	assert.Equal(t, "12345678000190", StripNonDigits("12.345.678/0001-90"))
	assert.Equal(t, "12345678901", StripNonDigits("123.456.789-01"))
	assert.Equal(t, "", StripNonDigits("abc-/."))
	assert.Equal(t, "123", StripNonDigits("123"))
}

func TestFirstN(t *testing.T) {
	items := []string{"a", "b", "c", "d"}
	assert.Equal(t, []string{"a", "b", "c"}, FirstN(items, 3))
	assert.Equal(t, items, FirstN(items, 10))
	assert.Empty(t, FirstN(nil, 3))
}
