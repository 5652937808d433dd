package availability

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/hachrisjordan/newroutebuilder-sub001/xtime"
)

type Cabin = byte

const (
	CabinEconomy  Cabin = 'Y'
	CabinPremium  Cabin = 'W'
	CabinBusiness Cabin = 'J'
	CabinFirst    Cabin = 'F'
)

var Cabins = []Cabin{CabinEconomy, CabinPremium, CabinBusiness, CabinFirst}

// Flight is one concrete flight with award seat counts per cabin.
type Flight struct {
	FlightNumber  string    `json:"flightNumber"`
	TotalDuration int       `json:"totalDuration"` // minutes
	Aircraft      string    `json:"aircraft"`
	DepartsAt     time.Time `json:"departsAt"`
	ArrivesAt     time.Time `json:"arrivesAt"`
	YCount        int       `json:"yCount"`
	WCount        int       `json:"wCount"`
	JCount        int       `json:"jCount"`
	FCount        int       `json:"fCount"`
}

// Fingerprint is the flight's identity: a content hash of flight number,
// departure and arrival. The same physical flight seen through overlapping
// queries always hashes to the same value.
func (f Flight) Fingerprint() string {
	h := sha256.Sum256([]byte(fmt.Sprintf(
		"%s|%d|%d",
		f.FlightNumber,
		f.DepartsAt.UnixMilli(),
		f.ArrivesAt.UnixMilli(),
	)))

	return hex.EncodeToString(h[:16])
}

// Carrier returns the two-letter carrier code of the flight number.
func (f Flight) Carrier() string {
	if len(f.FlightNumber) < 2 {
		return strings.ToUpper(f.FlightNumber)
	}

	return strings.ToUpper(f.FlightNumber[:2])
}

func (f Flight) Seats(cabin Cabin) int {
	switch cabin {
	case CabinEconomy:
		return f.YCount
	case CabinPremium:
		return f.WCount
	case CabinBusiness:
		return f.JCount
	case CabinFirst:
		return f.FCount
	}

	return 0
}

// Group is the raw unit returned by the provider: all flights for one
// (segment, date, alliance).
type Group struct {
	Origin      string          `json:"origin"`
	Destination string          `json:"destination"`
	Date        xtime.LocalDate `json:"date"`
	Alliance    string          `json:"alliance"`
	Flights     []Flight        `json:"flights"`
}

// SegmentKey buckets groups the way the composer consumes them.
func (g Group) SegmentKey() string {
	return g.Origin + "-" + g.Destination
}

// RateLimit is the provider quota snapshot observed on a response.
type RateLimit struct {
	Remaining int       `json:"remaining"`
	Reset     time.Time `json:"reset"`
}

// Merge keeps the minimum remaining and the earliest reset of the two
// snapshots, ignoring zero-valued sides.
func (rl RateLimit) Merge(other RateLimit) RateLimit {
	if rl.Reset.IsZero() {
		return other
	}
	if other.Reset.IsZero() {
		return rl
	}

	merged := rl
	if other.Remaining < merged.Remaining {
		merged.Remaining = other.Remaining
	}
	if other.Reset.Before(merged.Reset) {
		merged.Reset = other.Reset
	}

	return merged
}
