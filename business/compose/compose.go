// Package compose assembles concrete bookable itineraries from per-segment
// availability data via constrained depth-first search over a macro-route's
// legs.
package compose

import (
	"strings"
	"time"

	"github.com/hachrisjordan/newroutebuilder-sub001/business/availability"
	"github.com/hachrisjordan/newroutebuilder-sub001/business/route"
	"github.com/hachrisjordan/newroutebuilder-sub001/xset"
	"github.com/hachrisjordan/newroutebuilder-sub001/xtime"
)

const (
	// MinConnection is the shortest feasible connection between two legs.
	MinConnection = 45 * time.Minute
	// MaxConnection rejects impractically long layovers.
	MaxConnection = 24 * time.Hour
)

// Itinerary is an ordered sequence of flight fingerprints on a macro-route,
// dated by its first flight's departure date.
type Itinerary struct {
	RouteKey     string          `json:"routeKey"`
	Date         xtime.LocalDate `json:"date"`
	Fingerprints []string        `json:"fingerprints"`
}

// Flights interns every flight referenced by at least one itinerary, keyed by
// fingerprint. Entries are idempotent: the same fingerprint always maps to
// the same flight data.
type Flights map[string]availability.Flight

// Compose runs the per-date depth-first search over every skeleton's legs
// and returns the deduplicated itineraries plus the shared flight map,
// pruned of flights no surviving itinerary references.
func Compose(skeletons []route.Skeleton, groups []availability.Group, dates xtime.LocalDateRange) ([]Itinerary, Flights) {
	bySegment := make(map[string][]availability.Group)
	for _, g := range groups {
		bySegment[g.SegmentKey()] = append(bySegment[g.SegmentKey()], g)
	}

	flights := make(Flights)
	seen := make(xset.Set[string])
	var itineraries []Itinerary

	for _, s := range skeletons {
		legs := s.Legs()
		if len(legs) < 1 {
			continue
		}

		key := route.Key(s.Airports())

		for date := range dates.Iter() {
			c := composer{
				bySegment: bySegment,
				legs:      legs,
				date:      date,
				flights:   flights,
				used:      make(xset.Set[string]),
				path:      make([]availability.Flight, 0, len(legs)),
			}

			c.search(0, func(path []availability.Flight) {
				fingerprints := make([]string, 0, len(path))
				for _, f := range path {
					fp := f.Fingerprint()
					fingerprints = append(fingerprints, fp)
					flights[fp] = f
				}

				// the travel date is the first flight's departure date, which
				// may trail the queried group date for post-midnight departures
				travelDate := xtime.NewLocalDate(path[0].DepartsAt)

				dedupeKey := key + "|" + travelDate.String() + "|" + strings.Join(fingerprints, ",")
				if seen.Contains(dedupeKey) {
					return
				}
				seen.Add(dedupeKey)

				itineraries = append(itineraries, Itinerary{
					RouteKey:     key,
					Date:         travelDate,
					Fingerprints: fingerprints,
				})
			})
		}
	}

	itineraries = pruneOutOfWindow(itineraries, dates)
	Sweep(itineraries, flights)

	return itineraries, flights
}

type composer struct {
	bySegment map[string][]availability.Group
	legs      []route.Leg
	date      xtime.LocalDate
	flights   Flights
	used      xset.Set[string]
	path      []availability.Flight
}

func (c *composer) search(legIdx int, emit func(path []availability.Flight)) {
	if legIdx >= len(c.legs) {
		emit(c.path)
		return
	}

	leg := c.legs[legIdx]
	for _, g := range c.bySegment[leg.From+"-"+leg.To] {
		// the first leg is pinned to the candidate date; later legs may
		// depart the following day
		if legIdx == 0 && g.Date.Compare(c.date) != 0 {
			continue
		}

		if leg.Alliance != "" && g.Alliance != leg.Alliance {
			continue
		}

		for _, f := range g.Flights {
			if legIdx == 0 {
				if c.used.Contains(g.Origin) {
					continue
				}
			} else {
				prev := c.path[len(c.path)-1]
				gap := f.DepartsAt.Sub(prev.ArrivesAt)
				if gap < MinConnection || gap > MaxConnection {
					continue
				}
			}

			if c.used.Contains(g.Destination) {
				continue
			}

			if legIdx == 0 {
				c.used.Add(g.Origin)
			}
			c.used.Add(g.Destination)
			c.path = append(c.path, f)

			c.search(legIdx+1, emit)

			c.path = c.path[:len(c.path)-1]
			c.used.Remove(g.Destination)
			if legIdx == 0 {
				c.used.Remove(g.Origin)
			}
		}
	}
}

func pruneOutOfWindow(itineraries []Itinerary, dates xtime.LocalDateRange) []Itinerary {
	kept := itineraries[:0]
	for _, it := range itineraries {
		if dates.Contains(it.Date) {
			kept = append(kept, it)
		}
	}

	return kept
}

// Sweep removes flights no itinerary references from the shared map.
func Sweep(itineraries []Itinerary, flights Flights) {
	referenced := make(xset.Set[string], len(flights))
	for _, it := range itineraries {
		for _, fp := range it.Fingerprints {
			referenced.Add(fp)
		}
	}

	for fp := range flights {
		if !referenced.Contains(fp) {
			delete(flights, fp)
		}
	}
}
