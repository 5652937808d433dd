package projection

import (
	"slices"
	"strings"
	"time"

	"github.com/hachrisjordan/newroutebuilder-sub001/business/compose"
	"github.com/hachrisjordan/newroutebuilder-sub001/business/reliability"
	"github.com/hachrisjordan/newroutebuilder-sub001/xtime"
)

// Record is one composed itinerary flattened for presentation.
type Record struct {
	Route         string                   `json:"route"`
	Date          xtime.LocalDate          `json:"date"`
	Itinerary     compose.Itinerary        `json:"itinerary"`
	Stops         int                      `json:"stops"`
	FlightNumbers []string                 `json:"flightNumbers"`
	Carriers      []string                 `json:"carriers"`
	Airports      []string                 `json:"airports"`
	Departure     time.Time                `json:"departure"`
	Arrival       time.Time                `json:"arrival"`
	TotalDuration int                      `json:"totalDuration"` // minutes, first departure to last arrival
	Cabin         reliability.CabinPercent `json:"cabin"`
}

// Origin and Destination return the endpoint airports of the record's route;
// Connections returns the airports in between.
func (r Record) Origin() string {
	return r.Airports[0]
}

func (r Record) Destination() string {
	return r.Airports[len(r.Airports)-1]
}

func (r Record) Connections() []string {
	return r.Airports[1 : len(r.Airports)-1]
}

// Flatten projects composed itineraries into uniform records, deriving the
// presentation fields from the shared flight map and the reliability rules.
func Flatten(itineraries []compose.Itinerary, flights compose.Flights, rules reliability.Rules) []Record {
	records := make([]Record, 0, len(itineraries))
	for _, it := range itineraries {
		airports := strings.Split(it.RouteKey, "/")
		if len(airports) < 2 {
			continue
		}

		r := Record{
			Route:     it.RouteKey,
			Date:      it.Date,
			Itinerary: it,
			Stops:     len(airports) - 2,
			Airports:  airports,
			Cabin:     rules.Percentages(it.Fingerprints, flights),
		}

		valid := true
		for i, fp := range it.Fingerprints {
			f, ok := flights[fp]
			if !ok {
				valid = false
				break
			}

			r.FlightNumbers = append(r.FlightNumbers, f.FlightNumber)
			if !slices.Contains(r.Carriers, f.Carrier()) {
				r.Carriers = append(r.Carriers, f.Carrier())
			}

			if i == 0 {
				r.Departure = f.DepartsAt
			}
			r.Arrival = f.ArrivesAt
		}

		if !valid || len(r.FlightNumbers) < 1 {
			continue
		}

		r.TotalDuration = int(r.Arrival.Sub(r.Departure) / time.Minute)
		records = append(records, r)
	}

	return records
}
