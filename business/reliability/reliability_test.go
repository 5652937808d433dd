package reliability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hachrisjordan/newroutebuilder-sub001/business/availability"
	"github.com/hachrisjordan/newroutebuilder-sub001/business/compose"
	"github.com/hachrisjordan/newroutebuilder-sub001/db"
)

func flightOf(number string, duration, y, w, j, f int) availability.Flight {
	dep := time.Date(2026, time.June, 15, 10, 0, 0, 0, time.UTC)
	return availability.Flight{
		FlightNumber:  number,
		TotalDuration: duration,
		DepartsAt:     dep,
		ArrivesAt:     dep.Add(time.Duration(duration) * time.Minute),
		YCount:        y,
		WCount:        w,
		JCount:        j,
		FCount:        f,
	}
}

func intern(fs ...availability.Flight) ([]string, compose.Flights) {
	fingerprints := make([]string, 0, len(fs))
	flights := make(compose.Flights, len(fs))
	for _, f := range fs {
		fp := f.Fingerprint()
		fingerprints = append(fingerprints, fp)
		flights[fp] = f
	}

	return fingerprints, flights
}

func TestRules_Threshold(t *testing.T) {
	rules := Rules{
		"UA": {Code: "UA", MinCount: 2},
		"LH": {Code: "LH", MinCount: 3, ExemptCabins: "JF"},
	}

	assert.Equal(t, 2, rules.Threshold("UA", availability.CabinBusiness))
	assert.Equal(t, 3, rules.Threshold("LH", availability.CabinEconomy))
	// exempt cabins fall back to a threshold of 1
	assert.Equal(t, 1, rules.Threshold("LH", availability.CabinBusiness))
	assert.Equal(t, 1, rules.Threshold("LH", availability.CabinFirst))
	// carriers without a rule default to 1
	assert.Equal(t, 1, rules.Threshold("AA", availability.CabinFirst))
}

func TestRules_Unreliable(t *testing.T) {
	rules := Rules{"UA": {Code: "UA", MinCount: 2}}

	// one seat in every cabin, all below the threshold of 2
	assert.True(t, rules.Unreliable(flightOf("UA100", 60, 1, 1, 1, 1)))
	// a single cabin meeting its threshold makes the flight reliable
	assert.False(t, rules.Unreliable(flightOf("UA101", 60, 2, 0, 0, 0)))
	// no rule: any nonzero cabin is enough
	assert.False(t, rules.Unreliable(flightOf("AA100", 60, 0, 0, 1, 0)))
	assert.True(t, rules.Unreliable(flightOf("AA101", 60, 0, 0, 0, 0)))
}

func TestRules_UnreliablePercent(t *testing.T) {
	rules := Rules{"UA": {Code: "UA", MinCount: 2}}

	// 400 of 600 minutes on an unreliable flight
	fingerprints, flights := intern(
		flightOf("UA100", 400, 0, 0, 0, 0),
		flightOf("UA101", 200, 4, 0, 2, 0),
	)

	assert.InDelta(t, 66.7, rules.UnreliablePercent(fingerprints, flights), 0.1)
}

func TestRules_Filter(t *testing.T) {
	rules := Rules{"UA": {Code: "UA", MinCount: 2}}

	fingerprints, flights := intern(
		flightOf("UA100", 400, 0, 0, 0, 0),
		flightOf("UA101", 200, 4, 0, 2, 0),
	)
	itineraries := []compose.Itinerary{{RouteKey: "JFK/BOS/LHR", Fingerprints: fingerprints}}

	// kept only while minPercent <= 33.3
	assert.Len(t, rules.Filter(itineraries, flights, 30), 1)
	assert.Len(t, rules.Filter(itineraries, flights, 33.3), 1)
	assert.Len(t, rules.Filter(itineraries, flights, 34), 0)
	assert.Len(t, rules.Filter(itineraries, flights, DefaultMinPercent), 0)
}

func TestRules_Filter_FullyReliableAlwaysKept(t *testing.T) {
	rules := Rules{"UA": {Code: "UA", MinCount: 2}}

	fingerprints, flights := intern(flightOf("UA100", 400, 4, 0, 2, 0))
	itineraries := []compose.Itinerary{{RouteKey: "JFK/LHR", Fingerprints: fingerprints}}

	assert.Len(t, rules.Filter(itineraries, flights, 100), 1)
}

func TestRules_Filter_Monotonic(t *testing.T) {
	rules := Rules{"UA": {Code: "UA", MinCount: 2}, "LH": {Code: "LH", MinCount: 4}}

	fingerprints1, flights := intern(
		flightOf("UA100", 400, 0, 0, 0, 0),
		flightOf("UA101", 200, 4, 0, 2, 0),
	)
	fingerprints2, flights2 := intern(
		flightOf("LH900", 300, 2, 0, 0, 0),
		flightOf("LH901", 300, 4, 0, 4, 0),
	)
	for fp, f := range flights2 {
		flights[fp] = f
	}

	itineraries := []compose.Itinerary{
		{RouteKey: "JFK/BOS/LHR", Fingerprints: fingerprints1},
		{RouteKey: "JFK/FRA/LHR", Fingerprints: fingerprints2},
	}

	prev := len(itineraries) + 1
	for _, minPercent := range []float64{0, 25, 50, 75, 85, 100} {
		kept := len(rules.Filter(itineraries, flights, minPercent))
		assert.LessOrEqual(t, kept, prev, "raising minPercent to %.0f increased the kept count", minPercent)
		prev = kept
	}
}

func TestRules_Percentages_EconomyBinary(t *testing.T) {
	rules := Rules{}

	fingerprints, flights := intern(
		flightOf("UA100", 300, 4, 0, 0, 0),
		flightOf("UA101", 300, 4, 0, 0, 0),
	)
	assert.Equal(t, 100.0, rules.Percentages(fingerprints, flights).Y)

	fingerprints, flights = intern(
		flightOf("UA100", 300, 4, 0, 0, 0),
		flightOf("UA101", 300, 0, 0, 0, 0),
	)
	assert.Equal(t, 0.0, rules.Percentages(fingerprints, flights).Y)
}

func TestRules_Percentages_DurationWeighted(t *testing.T) {
	rules := Rules{}

	// business space on 450 of 600 minutes
	fingerprints, flights := intern(
		flightOf("UA100", 450, 4, 0, 2, 0),
		flightOf("UA101", 150, 4, 0, 0, 0),
	)

	cp := rules.Percentages(fingerprints, flights)
	assert.InDelta(t, 75, cp.J, 0.1)
	assert.Equal(t, 0.0, cp.W)
	assert.Equal(t, 0.0, cp.F)
}

func TestRules_Percentages_LongSegmentOverride(t *testing.T) {
	rules := Rules{"UA": {Code: "UA", MinCount: 2}}

	// the long flight has one business seat, below its threshold of 2; it
	// covers well over 15% of the itinerary so its count is forced to zero
	fingerprints, flights := intern(
		flightOf("UA100", 450, 4, 0, 1, 0),
		flightOf("UA101", 150, 4, 0, 4, 0),
	)

	cp := rules.Percentages(fingerprints, flights)
	assert.InDelta(t, 25, cp.J, 0.1)
}

func TestRules_Percentages_ShortSegmentKeepsCount(t *testing.T) {
	rules := Rules{"UA": {Code: "UA", MinCount: 2}}

	// the short flight is below threshold but under the 15% share, so its
	// single seat still counts
	fingerprints, flights := intern(
		flightOf("UA100", 900, 4, 0, 4, 0),
		flightOf("UA101", 100, 4, 0, 1, 0),
	)

	cp := rules.Percentages(fingerprints, flights)
	assert.Equal(t, 100.0, cp.J)
}

func TestRules_Percentages_SingleFlight(t *testing.T) {
	rules := Rules{"UA": {Code: "UA", MinCount: 2}}

	// a single flight is 100% of the duration, so the long-segment override
	// always applies to it
	fingerprints, flights := intern(flightOf("UA100", 400, 4, 0, 1, 0))
	cp := rules.Percentages(fingerprints, flights)
	assert.Equal(t, 0.0, cp.J)

	fingerprints, flights = intern(flightOf("UA100", 400, 4, 0, 2, 0))
	cp = rules.Percentages(fingerprints, flights)
	assert.Equal(t, 100.0, cp.J)
	assert.Equal(t, 100.0, cp.Y)
	assert.Equal(t, 0.0, cp.F)
}

func TestReliabilityRuleThreshold(t *testing.T) {
	r := db.ReliabilityRule{Code: "LH", MinCount: 3, ExemptCabins: "F"}
	require.Equal(t, 3, r.Threshold('J'))
	require.Equal(t, 1, r.Threshold('F'))

	unlimited := db.ReliabilityRule{Code: "AA", MinCount: 1}
	require.Equal(t, 1, unlimited.Threshold('J'))
}
