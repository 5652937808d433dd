package db

import (
	"database/sql"
	"strings"
)

type Airport struct {
	IataCode string
	Lat      float64
	Lon      float64
	Region   string
}

// BackbonePath is a precomputed multi-carrier routing between two airports,
// optionally via up to two hubs. Alliances holds every alliance the path is
// bookable through.
type BackbonePath struct {
	Origin      string
	Destination string
	Hub1        sql.NullString
	Hub2        sql.NullString
	Alliances   []string
	Distance    float64
}

// Airports returns the non-null airport codes of the path in travel order.
func (bp BackbonePath) Airports() []string {
	codes := make([]string, 0, 4)
	codes = append(codes, bp.Origin)
	if bp.Hub1.Valid {
		codes = append(codes, bp.Hub1.String)
	}
	if bp.Hub2.Valid {
		codes = append(codes, bp.Hub2.String)
	}

	return append(codes, bp.Destination)
}

// FeederRoute is a short single-alliance connector used to extend a
// BackbonePath to an arbitrary origin/destination, or to connect two airports
// directly.
type FeederRoute struct {
	Origin      string
	Destination string
	Alliance    string
	Distance    float64
}

// ReliabilityRule classifies a carrier's award space: seats below MinCount
// are treated as not bookable through partner channels. Cabins listed in
// ExemptCabins use a threshold of 1 instead.
type ReliabilityRule struct {
	Code         string
	MinCount     int
	ExemptCabins string
}

func (r ReliabilityRule) Threshold(cabin byte) int {
	if r.MinCount <= 1 {
		return 1
	}

	if strings.IndexByte(r.ExemptCabins, cabin) >= 0 {
		return 1
	}

	return r.MinCount
}
