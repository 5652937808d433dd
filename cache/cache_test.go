package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	key := Key("JFK", "LHR", "2", "2026-06-15", "2026-06-16")

	assert.NotEmpty(t, key)
	assert.Equal(t, key, Key("JFK", "LHR", "2", "2026-06-15", "2026-06-16"))
	assert.NotEqual(t, key, Key("JFK", "LHR", "3", "2026-06-15", "2026-06-16"))

	// part boundaries matter
	assert.NotEqual(t, Key("JF", "KLHR"), Key("JFK", "LHR"))

	// keys are url-safe handles
	for _, c := range key {
		assert.True(t, (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'), "unexpected character %q", c)
	}
}
