// Package reliability classifies award space per carrier-specific seat-count
// rules and derives per-cabin availability percentages for composed
// itineraries.
package reliability

import (
	"context"

	"github.com/hachrisjordan/newroutebuilder-sub001/business/availability"
	"github.com/hachrisjordan/newroutebuilder-sub001/business/compose"
	"github.com/hachrisjordan/newroutebuilder-sub001/db"
)

// DefaultMinPercent is the caller-facing default for the minimum reliable
// share of an itinerary's flight time.
const DefaultMinPercent = 85.0

// longSegmentShare: a flight covering more than this share of the
// itinerary's total flight duration must itself meet the reliability
// threshold to count towards a cabin's availability.
const longSegmentShare = 0.15

// Repo supplies the carrier rule table; implementations keep it behind a
// short in-process cache since it changes rarely and is read per request.
type Repo interface {
	ReliabilityRules(ctx context.Context) (map[string]db.ReliabilityRule, error)
}

// Rules maps a two-letter carrier code to its reliability rule. Carriers
// without a rule use a threshold of 1 seat in every cabin.
type Rules map[string]db.ReliabilityRule

// Load fetches the current rule table from the repo.
func Load(ctx context.Context, repo Repo) (Rules, error) {
	m, err := repo.ReliabilityRules(ctx)
	if err != nil {
		return nil, err
	}

	return Rules(m), nil
}

func (r Rules) Threshold(carrier string, cabin availability.Cabin) int {
	rule, ok := r[carrier]
	if !ok {
		return 1
	}

	return rule.Threshold(cabin)
}

// Unreliable reports whether the flight's award space is below the effective
// threshold in every cabin.
func (r Rules) Unreliable(f availability.Flight) bool {
	for _, cabin := range availability.Cabins {
		if f.Seats(cabin) >= r.Threshold(f.Carrier(), cabin) {
			return false
		}
	}

	return true
}

// UnreliablePercent is the share of the itinerary's total flight duration
// flown on unreliable flights, in percent.
func (r Rules) UnreliablePercent(fingerprints []string, flights compose.Flights) float64 {
	var totalDuration, unreliableDuration int
	for _, fp := range fingerprints {
		f, ok := flights[fp]
		if !ok {
			continue
		}

		totalDuration += f.TotalDuration
		if r.Unreliable(f) {
			unreliableDuration += f.TotalDuration
		}
	}

	if unreliableDuration == 0 || totalDuration == 0 {
		return 0
	}

	return float64(unreliableDuration) / float64(totalDuration) * 100
}

// Filter keeps only itineraries whose unreliable share does not exceed
// 100 - minPercent. Itineraries with no unreliable flight are always kept.
func (r Rules) Filter(itineraries []compose.Itinerary, flights compose.Flights, minPercent float64) []compose.Itinerary {
	kept := make([]compose.Itinerary, 0, len(itineraries))
	for _, it := range itineraries {
		if r.UnreliablePercent(it.Fingerprints, flights) <= 100-minPercent {
			kept = append(kept, it)
		}
	}

	return kept
}

// CabinPercent holds the derived availability percentage per cabin.
type CabinPercent struct {
	Y float64 `json:"y"`
	W float64 `json:"w"`
	J float64 `json:"j"`
	F float64 `json:"f"`
}

func (cp CabinPercent) Of(cabin availability.Cabin) float64 {
	switch cabin {
	case availability.CabinEconomy:
		return cp.Y
	case availability.CabinPremium:
		return cp.W
	case availability.CabinBusiness:
		return cp.J
	case availability.CabinFirst:
		return cp.F
	}

	return 0
}

// Percentages derives the cabin availability of an itinerary. Economy is
// binary: 100 only if every flight has economy space. Premium, business and
// first are duration-weighted: the share of total flight time (layovers
// excluded) covered by flights with space in that cabin. Before either
// computation, any flight longer than longSegmentShare of the total that is
// below a cabin's threshold counts as zero seats in that cabin.
func (r Rules) Percentages(fingerprints []string, flights compose.Flights) CabinPercent {
	fs := make([]availability.Flight, 0, len(fingerprints))
	var totalDuration int
	for _, fp := range fingerprints {
		if f, ok := flights[fp]; ok {
			fs = append(fs, f)
			totalDuration += f.TotalDuration
		}
	}

	if len(fs) < 1 || totalDuration == 0 {
		return CabinPercent{}
	}

	seats := func(f availability.Flight, cabin availability.Cabin) int {
		n := f.Seats(cabin)
		if float64(f.TotalDuration) > longSegmentShare*float64(totalDuration) && n < r.Threshold(f.Carrier(), cabin) {
			return 0
		}

		return n
	}

	var cp CabinPercent

	cp.Y = 100
	for _, f := range fs {
		if seats(f, availability.CabinEconomy) < 1 {
			cp.Y = 0
			break
		}
	}

	for _, cabin := range []availability.Cabin{availability.CabinPremium, availability.CabinBusiness, availability.CabinFirst} {
		var covered int
		for _, f := range fs {
			if seats(f, cabin) > 0 {
				covered += f.TotalDuration
			}
		}

		pct := float64(covered) / float64(totalDuration) * 100
		switch cabin {
		case availability.CabinPremium:
			cp.W = pct
		case availability.CabinBusiness:
			cp.J = pct
		case availability.CabinFirst:
			cp.F = pct
		}
	}

	return cp
}
