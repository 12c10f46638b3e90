package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLowerAll(t *testing.T) {
	assert.Equal(t, []string{"red", "navy blue"}, lowerAll([]string{" Red ", "Navy Blue"}))
	assert.Empty(t, lowerAll(nil))
}

func TestJSONString(t *testing.T) {
	assert.Equal(t, `"red"`, jsonString("red"))
	// Characters that json escapes must match the serialized column content.
	assert.Equal(t, `"l\"x"`, jsonString(`l"x`))
}
