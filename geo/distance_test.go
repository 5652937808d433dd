package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	// JFK -> LHR is about 5540km
	d := Distance(40.6413, -73.7781, 51.4700, -0.4543)
	assert.InDelta(t, 5540, d, 50)
}

func TestDistance_Zero(t *testing.T) {
	assert.InDelta(t, 0, Distance(40.6413, -73.7781, 40.6413, -73.7781), 1e-9)
}

func TestDistance_Symmetric(t *testing.T) {
	a := Distance(40.6413, -73.7781, 35.5494, 139.7798)
	b := Distance(35.5494, 139.7798, 40.6413, -73.7781)
	assert.InDelta(t, a, b, 1e-9)
}
