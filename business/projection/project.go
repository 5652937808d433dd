// Package projection flattens, filters, sorts and paginates composed
// itineraries for presentation, and derives the aggregate metadata backing
// the UI's filter widgets.
package projection

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

const PageSize = 25

type SortKey string

const (
	SortDuration  SortKey = "duration"
	SortDeparture SortKey = "departure"
	SortArrival   SortKey = "arrival"
	SortEconomy   SortKey = "y"
	SortPremium   SortKey = "w"
	SortBusiness  SortKey = "j"
	SortFirst     SortKey = "f"
)

type Page struct {
	Records   []Record `json:"records"`
	Total     int      `json:"total"`
	Page      int      `json:"page"`
	PageCount int      `json:"pageCount"`
}

// Metadata aggregates the observed values across all records, before
// filtering, so the UI can size its filter widgets.
type Metadata struct {
	Stops        []int     `json:"stops"`
	Carriers     []string  `json:"carriers"`
	Airports     []string  `json:"airports"`
	MinDuration  int       `json:"minDuration"`
	MaxDuration  int       `json:"maxDuration"`
	MinDeparture time.Time `json:"minDeparture"`
	MaxDeparture time.Time `json:"maxDeparture"`
	MinArrival   time.Time `json:"minArrival"`
	MaxArrival   time.Time `json:"maxArrival"`
}

// Project applies the filters in option order, sorts and paginates.
func Project(records []Record, options ...Option) Page {
	o := Options{sortKey: SortDuration, page: 1}
	for _, opt := range options {
		opt.Apply(&o)
	}

	filtered := make([]Record, 0, len(records))
	for _, r := range records {
		if allMatch(&r, o.filters) {
			filtered = append(filtered, r)
		}
	}

	slices.SortFunc(filtered, compareFunc(o.sortKey))

	total := len(filtered)
	pageCount := (total + PageSize - 1) / PageSize
	page := min(max(o.page, 1), max(pageCount, 1))

	start := (page - 1) * PageSize
	end := min(start+PageSize, total)
	if start > total {
		start = total
	}

	return Page{
		Records:   filtered[start:end],
		Total:     total,
		Page:      page,
		PageCount: pageCount,
	}
}

// Aggregate derives the filter metadata from the full record set.
func Aggregate(records []Record) Metadata {
	var md Metadata
	for i, r := range records {
		if !slices.Contains(md.Stops, r.Stops) {
			md.Stops = append(md.Stops, r.Stops)
		}

		for _, c := range r.Carriers {
			if !slices.Contains(md.Carriers, c) {
				md.Carriers = append(md.Carriers, c)
			}
		}

		for _, a := range r.Airports {
			if !slices.Contains(md.Airports, a) {
				md.Airports = append(md.Airports, a)
			}
		}

		if i == 0 || r.TotalDuration < md.MinDuration {
			md.MinDuration = r.TotalDuration
		}
		if r.TotalDuration > md.MaxDuration {
			md.MaxDuration = r.TotalDuration
		}

		if md.MinDeparture.IsZero() || r.Departure.Before(md.MinDeparture) {
			md.MinDeparture = r.Departure
		}
		if r.Departure.After(md.MaxDeparture) {
			md.MaxDeparture = r.Departure
		}

		if md.MinArrival.IsZero() || r.Arrival.Before(md.MinArrival) {
			md.MinArrival = r.Arrival
		}
		if r.Arrival.After(md.MaxArrival) {
			md.MaxArrival = r.Arrival
		}
	}

	slices.Sort(md.Stops)
	slices.Sort(md.Carriers)
	slices.Sort(md.Airports)

	return md
}

func allMatch(r *Record, filters []recordPredicate) bool {
	for _, f := range filters {
		if !f(r) {
			return false
		}
	}

	return true
}

// compareFunc builds the sort comparator. Duration and departure sort
// ascending, arrival and cabin percentages descending; ties break on total
// duration ascending.
func compareFunc(key SortKey) func(a, b Record) int {
	byDuration := func(a, b Record) int {
		return cmp.Compare(a.TotalDuration, b.TotalDuration)
	}

	switch key {
	case SortDeparture:
		return func(a, b Record) int {
			if c := a.Departure.Compare(b.Departure); c != 0 {
				return c
			}

			return byDuration(a, b)
		}

	case SortArrival:
		return func(a, b Record) int {
			if c := b.Arrival.Compare(a.Arrival); c != 0 {
				return c
			}

			return byDuration(a, b)
		}

	case SortEconomy, SortPremium, SortBusiness, SortFirst:
		cabin := strings.ToUpper(string(key))[0]
		return func(a, b Record) int {
			if c := cmp.Compare(b.Cabin.Of(cabin), a.Cabin.Of(cabin)); c != 0 {
				return c
			}

			return byDuration(a, b)
		}

	default:
		return byDuration
	}
}
