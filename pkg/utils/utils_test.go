package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToNullString(t *testing.T) {
	assert.Equal(t, false, ToNullString("").Valid)

	ns := ToNullString("value")
	assert.True(t, ns.Valid)
	assert.Equal(t, "value", ns.String)
}
