package projection

import (
	"slices"
	"strings"
	"time"

	"github.com/hachrisjordan/newroutebuilder-sub001/business/availability"
	"github.com/hachrisjordan/newroutebuilder-sub001/xtime"
)

type recordPredicate func(r *Record) bool

type Options struct {
	filters []recordPredicate
	sortKey SortKey
	page    int
}

type Option interface {
	Apply(o *Options)
}

type WithStops []int

func (v WithStops) Apply(o *Options) {
	o.filters = append(o.filters, func(r *Record) bool {
		return slices.Contains(v, r.Stops)
	})
}

type WithIncludeCarriers []string

func (v WithIncludeCarriers) Apply(o *Options) {
	codes := upperAll(v)
	o.filters = append(o.filters, func(r *Record) bool {
		return slices.ContainsFunc(r.Carriers, func(c string) bool {
			return slices.Contains(codes, c)
		})
	})
}

type WithExcludeCarriers []string

func (v WithExcludeCarriers) Apply(o *Options) {
	codes := upperAll(v)
	o.filters = append(o.filters, func(r *Record) bool {
		return !slices.ContainsFunc(r.Carriers, func(c string) bool {
			return slices.Contains(codes, c)
		})
	})
}

type WithMaxDuration time.Duration

func (v WithMaxDuration) Apply(o *Options) {
	o.filters = append(o.filters, func(r *Record) bool {
		return time.Duration(r.TotalDuration)*time.Minute <= time.Duration(v)
	})
}

type WithMinCabinPercent struct {
	Cabin   availability.Cabin
	Percent float64
}

func (v WithMinCabinPercent) Apply(o *Options) {
	o.filters = append(o.filters, func(r *Record) bool {
		return r.Cabin.Of(v.Cabin) >= v.Percent
	})
}

type WithDepartureWindow [2]xtime.LocalTime

func (v WithDepartureWindow) Apply(o *Options) {
	o.filters = append(o.filters, func(r *Record) bool {
		return withinWindow(r.Departure, v[0], v[1])
	})
}

type WithArrivalWindow [2]xtime.LocalTime

func (v WithArrivalWindow) Apply(o *Options) {
	o.filters = append(o.filters, func(r *Record) bool {
		return withinWindow(r.Arrival, v[0], v[1])
	})
}

type WithIncludeOrigins []string

func (v WithIncludeOrigins) Apply(o *Options) {
	codes := upperAll(v)
	o.filters = append(o.filters, func(r *Record) bool {
		return slices.Contains(codes, r.Origin())
	})
}

type WithExcludeOrigins []string

func (v WithExcludeOrigins) Apply(o *Options) {
	codes := upperAll(v)
	o.filters = append(o.filters, func(r *Record) bool {
		return !slices.Contains(codes, r.Origin())
	})
}

type WithIncludeDestinations []string

func (v WithIncludeDestinations) Apply(o *Options) {
	codes := upperAll(v)
	o.filters = append(o.filters, func(r *Record) bool {
		return slices.Contains(codes, r.Destination())
	})
}

type WithExcludeDestinations []string

func (v WithExcludeDestinations) Apply(o *Options) {
	codes := upperAll(v)
	o.filters = append(o.filters, func(r *Record) bool {
		return !slices.Contains(codes, r.Destination())
	})
}

type WithIncludeConnections []string

func (v WithIncludeConnections) Apply(o *Options) {
	codes := upperAll(v)
	o.filters = append(o.filters, func(r *Record) bool {
		return slices.ContainsFunc(r.Connections(), func(c string) bool {
			return slices.Contains(codes, c)
		})
	})
}

type WithExcludeConnections []string

func (v WithExcludeConnections) Apply(o *Options) {
	codes := upperAll(v)
	o.filters = append(o.filters, func(r *Record) bool {
		return !slices.ContainsFunc(r.Connections(), func(c string) bool {
			return slices.Contains(codes, c)
		})
	})
}

// WithSearch is the free-text filter: every whitespace-separated term must
// match the route string, the date or one of the contained flight numbers,
// case-insensitively.
type WithSearch string

func (v WithSearch) Apply(o *Options) {
	terms := strings.Fields(strings.ToLower(string(v)))
	if len(terms) < 1 {
		return
	}

	o.filters = append(o.filters, func(r *Record) bool {
		haystack := make([]string, 0, len(r.FlightNumbers)+2)
		haystack = append(haystack, strings.ToLower(r.Route), r.Date.String())
		for _, fn := range r.FlightNumbers {
			haystack = append(haystack, strings.ToLower(fn))
		}

		for _, term := range terms {
			matched := slices.ContainsFunc(haystack, func(h string) bool {
				return strings.Contains(h, term)
			})
			if !matched {
				return false
			}
		}

		return true
	})
}

type WithSort SortKey

func (v WithSort) Apply(o *Options) {
	o.sortKey = SortKey(v)
}

type WithPage int

func (v WithPage) Apply(o *Options) {
	o.page = int(v)
}

func upperAll(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		result = append(result, strings.ToUpper(v))
	}

	return result
}

func withinWindow(t time.Time, start, end xtime.LocalTime) bool {
	lt := xtime.NewLocalTime(t)
	return lt.Compare(start) >= 0 && lt.Compare(end) <= 0
}
