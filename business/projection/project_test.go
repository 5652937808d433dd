package projection

import (
	"fmt"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hachrisjordan/newroutebuilder-sub001/business/availability"
	"github.com/hachrisjordan/newroutebuilder-sub001/business/compose"
	"github.com/hachrisjordan/newroutebuilder-sub001/business/reliability"
	"github.com/hachrisjordan/newroutebuilder-sub001/xtime"
)

func recordOf(route string, flightNumbers []string, departure string, durationMinutes int, cabin reliability.CabinPercent) Record {
	dep, err := time.Parse(time.RFC3339, departure)
	if err != nil {
		panic(err)
	}

	airports := strings.Split(route, "/")
	carriers := make([]string, 0, len(flightNumbers))
	for _, fn := range flightNumbers {
		if c := fn[:2]; !slices.Contains(carriers, c) {
			carriers = append(carriers, c)
		}
	}

	return Record{
		Route:         route,
		Date:          xtime.NewLocalDate(dep),
		Stops:         len(airports) - 2,
		FlightNumbers: flightNumbers,
		Carriers:      carriers,
		Airports:      airports,
		Departure:     dep,
		Arrival:       dep.Add(time.Duration(durationMinutes) * time.Minute),
		TotalDuration: durationMinutes,
		Cabin:         cabin,
	}
}

func testRecords() []Record {
	return []Record{
		recordOf("JFK/LHR", []string{"BA178"}, "2026-06-15T08:00:00Z", 420, reliability.CabinPercent{Y: 100, J: 100}),
		recordOf("JFK/BOS/LHR", []string{"AA100", "BA202"}, "2026-06-15T06:00:00Z", 540, reliability.CabinPercent{Y: 100, J: 50}),
		recordOf("EWR/LHR", []string{"UA16"}, "2026-06-15T22:00:00Z", 400, reliability.CabinPercent{Y: 0, J: 100, F: 100}),
		recordOf("JFK/YYZ/FRA/LHR", []string{"AC55", "LH441", "LH900"}, "2026-06-15T09:30:00Z", 780, reliability.CabinPercent{Y: 100}),
	}
}

func TestProject_Defaults(t *testing.T) {
	page := Project(testRecords())

	require.Len(t, page.Records, 4)
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.PageCount)

	// default sort is total duration ascending
	assert.Equal(t, "EWR/LHR", page.Records[0].Route)
	assert.Equal(t, "JFK/LHR", page.Records[1].Route)
	assert.Equal(t, "JFK/BOS/LHR", page.Records[2].Route)
	assert.Equal(t, "JFK/YYZ/FRA/LHR", page.Records[3].Route)
}

func TestProject_FilterStops(t *testing.T) {
	page := Project(testRecords(), WithStops{0})
	require.Len(t, page.Records, 2)
	for _, r := range page.Records {
		assert.Equal(t, 0, r.Stops)
	}

	page = Project(testRecords(), WithStops{1, 2})
	assert.Equal(t, 2, page.Total)
}

func TestProject_FilterCarriers(t *testing.T) {
	page := Project(testRecords(), WithIncludeCarriers{"ba"})
	require.Len(t, page.Records, 2)
	for _, r := range page.Records {
		assert.Contains(t, r.Carriers, "BA")
	}

	page = Project(testRecords(), WithExcludeCarriers{"BA", "UA"})
	require.Len(t, page.Records, 1)
	assert.Equal(t, "JFK/YYZ/FRA/LHR", page.Records[0].Route)
}

func TestProject_FilterMaxDuration(t *testing.T) {
	page := Project(testRecords(), WithMaxDuration(7*time.Hour))
	require.Len(t, page.Records, 2)
	for _, r := range page.Records {
		assert.LessOrEqual(t, r.TotalDuration, 420)
	}
}

func TestProject_FilterMinCabinPercent(t *testing.T) {
	page := Project(testRecords(), WithMinCabinPercent{Cabin: availability.CabinBusiness, Percent: 100})
	assert.Equal(t, 2, page.Total)

	page = Project(testRecords(), WithMinCabinPercent{Cabin: availability.CabinFirst, Percent: 1})
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "EWR/LHR", page.Records[0].Route)
}

func TestProject_FilterDepartureWindow(t *testing.T) {
	page := Project(testRecords(), WithDepartureWindow{
		xtime.MustParseLocalTime("06:00"),
		xtime.MustParseLocalTime("09:00"),
	})

	require.Len(t, page.Records, 2)
	assert.Equal(t, "JFK/LHR", page.Records[0].Route)
	assert.Equal(t, "JFK/BOS/LHR", page.Records[1].Route)
}

func TestProject_FilterAirports(t *testing.T) {
	page := Project(testRecords(), WithIncludeOrigins{"EWR"})
	require.Len(t, page.Records, 1)
	assert.Equal(t, "EWR", page.Records[0].Origin())

	page = Project(testRecords(), WithExcludeOrigins{"JFK"})
	require.Len(t, page.Records, 1)
	assert.Equal(t, "EWR/LHR", page.Records[0].Route)

	page = Project(testRecords(), WithIncludeDestinations{"LHR"})
	assert.Equal(t, 4, page.Total)

	page = Project(testRecords(), WithIncludeConnections{"bos"})
	require.Len(t, page.Records, 1)
	assert.Equal(t, "JFK/BOS/LHR", page.Records[0].Route)

	page = Project(testRecords(), WithExcludeConnections{"YYZ", "BOS"})
	assert.Equal(t, 2, page.Total)
}

func TestProject_FilterSearch(t *testing.T) {
	// every term must match somewhere on the record
	page := Project(testRecords(), WithSearch("lh441 2026-06-15"))
	require.Len(t, page.Records, 1)
	assert.Equal(t, "JFK/YYZ/FRA/LHR", page.Records[0].Route)

	page = Project(testRecords(), WithSearch("jfk/bos"))
	require.Len(t, page.Records, 1)
	assert.Equal(t, "JFK/BOS/LHR", page.Records[0].Route)

	page = Project(testRecords(), WithSearch("nomatch"))
	assert.Equal(t, 0, page.Total)

	// a blank search filters nothing
	page = Project(testRecords(), WithSearch("   "))
	assert.Equal(t, 4, page.Total)
}

func TestProject_SortDeparture(t *testing.T) {
	page := Project(testRecords(), WithSort(SortDeparture))

	require.Len(t, page.Records, 4)
	for i := 1; i < len(page.Records); i++ {
		assert.False(t, page.Records[i].Departure.Before(page.Records[i-1].Departure))
	}
	assert.Equal(t, "JFK/BOS/LHR", page.Records[0].Route)
}

func TestProject_SortArrivalDescending(t *testing.T) {
	page := Project(testRecords(), WithSort(SortArrival))

	require.Len(t, page.Records, 4)
	for i := 1; i < len(page.Records); i++ {
		assert.False(t, page.Records[i].Arrival.After(page.Records[i-1].Arrival))
	}
}

func TestProject_SortCabinDescending(t *testing.T) {
	page := Project(testRecords(), WithSort(SortBusiness))

	require.Len(t, page.Records, 4)
	// 100% business first; the tie between the two 100% records breaks on
	// duration ascending
	assert.Equal(t, "EWR/LHR", page.Records[0].Route)
	assert.Equal(t, "JFK/LHR", page.Records[1].Route)
	assert.Equal(t, "JFK/BOS/LHR", page.Records[2].Route)
	assert.Equal(t, "JFK/YYZ/FRA/LHR", page.Records[3].Route)
}

func TestProject_Pagination(t *testing.T) {
	records := make([]Record, 0, 60)
	for i := 0; i < 60; i++ {
		records = append(records, recordOf(
			"JFK/LHR",
			[]string{fmt.Sprintf("BA%03d", i)},
			"2026-06-15T08:00:00Z",
			400+i,
			reliability.CabinPercent{Y: 100},
		))
	}

	page := Project(records)
	assert.Equal(t, 60, page.Total)
	assert.Equal(t, 3, page.PageCount)
	assert.Len(t, page.Records, PageSize)
	assert.Equal(t, 400, page.Records[0].TotalDuration)

	page = Project(records, WithPage(3))
	assert.Equal(t, 3, page.Page)
	assert.Len(t, page.Records, 10)
	assert.Equal(t, 450, page.Records[0].TotalDuration)

	// out-of-range pages clamp to the last page
	page = Project(records, WithPage(99))
	assert.Equal(t, 3, page.Page)
	assert.Len(t, page.Records, 10)

	page = Project(records, WithPage(-1))
	assert.Equal(t, 1, page.Page)
}

func TestProject_EmptyInput(t *testing.T) {
	page := Project(nil)
	assert.Equal(t, 0, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 0, page.PageCount)
	assert.Empty(t, page.Records)
}

func TestAggregate(t *testing.T) {
	md := Aggregate(testRecords())

	assert.Equal(t, []int{0, 1, 2}, md.Stops)
	assert.Equal(t, []string{"AA", "AC", "BA", "LH", "UA"}, md.Carriers)
	assert.Equal(t, []string{"BOS", "EWR", "FRA", "JFK", "LHR", "YYZ"}, md.Airports)
	assert.Equal(t, 400, md.MinDuration)
	assert.Equal(t, 780, md.MaxDuration)
	assert.Equal(t, "2026-06-15T06:00:00Z", md.MinDeparture.Format(time.RFC3339))
	assert.Equal(t, "2026-06-15T22:00:00Z", md.MaxDeparture.Format(time.RFC3339))
}

func TestFlatten(t *testing.T) {
	dep := time.Date(2026, time.June, 15, 8, 0, 0, 0, time.UTC)
	first := availability.Flight{
		FlightNumber:  "AA100",
		TotalDuration: 60,
		DepartsAt:     dep,
		ArrivesAt:     dep.Add(time.Hour),
		YCount:        4,
		JCount:        2,
	}
	second := availability.Flight{
		FlightNumber:  "BA202",
		TotalDuration: 400,
		DepartsAt:     dep.Add(2 * time.Hour),
		ArrivesAt:     dep.Add(2*time.Hour + 400*time.Minute),
		YCount:        4,
		JCount:        2,
	}

	flights := compose.Flights{
		first.Fingerprint():  first,
		second.Fingerprint(): second,
	}
	itineraries := []compose.Itinerary{
		{
			RouteKey:     "JFK/BOS/LHR",
			Date:         xtime.MustParseLocalDate("2026-06-15"),
			Fingerprints: []string{first.Fingerprint(), second.Fingerprint()},
		},
		// fingerprints missing from the flight map are dropped
		{
			RouteKey:     "JFK/LHR",
			Date:         xtime.MustParseLocalDate("2026-06-15"),
			Fingerprints: []string{"missing"},
		},
	}

	records := Flatten(itineraries, flights, reliability.Rules{})
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, "JFK/BOS/LHR", r.Route)
	assert.Equal(t, 1, r.Stops)
	assert.Equal(t, []string{"AA100", "BA202"}, r.FlightNumbers)
	assert.Equal(t, []string{"AA", "BA"}, r.Carriers)
	assert.Equal(t, "JFK", r.Origin())
	assert.Equal(t, "LHR", r.Destination())
	assert.Equal(t, []string{"BOS"}, r.Connections())
	assert.Equal(t, dep, r.Departure)
	// first departure to last arrival, layover included
	assert.Equal(t, 520, r.TotalDuration)
	assert.Equal(t, 100.0, r.Cabin.Y)
	assert.Equal(t, 100.0, r.Cabin.J)
}
