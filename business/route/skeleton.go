package route

import (
	"strings"
)

type Case uint8

const (
	CaseBackboneOnly Case = iota + 1
	CaseFeederBackbone
	CaseBackboneFeeder
	CaseFeederBackboneFeeder
	CaseFeederOnly
)

func (c Case) String() string {
	switch c {
	case CaseBackboneOnly:
		return "backbone"
	case CaseFeederBackbone:
		return "feeder-backbone"
	case CaseBackboneFeeder:
		return "backbone-feeder"
	case CaseFeederBackboneFeeder:
		return "feeder-backbone-feeder"
	case CaseFeederOnly:
		return "feeder"
	}

	return "unknown"
}

// Leg is one consecutive airport pair of a skeleton. An empty Alliance means
// the leg is unconstrained.
type Leg struct {
	From     string
	To       string
	Alliance string
}

// FeederLeg is a single feeder connector of a skeleton, carrying exactly one
// alliance.
type FeederLeg struct {
	From     string
	To       string
	Alliance string
	Distance float64
}

// BackboneLeg is the backbone portion of a skeleton: two to four airports in
// travel order, all flown within a single alliance ("" = unconstrained).
type BackboneLeg struct {
	Airports []string
	Alliance string
	Distance float64
}

// Skeleton is a macro-route candidate: an ordered, airport-distinct sequence
// of up to six airports built from feeder and backbone legs, with one
// alliance constraint per leg group.
type Skeleton interface {
	Case() Case
	// Airports returns the full airport sequence in travel order.
	Airports() []string
	// Legs returns the consecutive airport pairs with their alliance
	// constraints.
	Legs() []Leg
	Distance() float64
}

// Key returns the canonical identity of an airport sequence, used to group
// composed itineraries per macro-route.
func Key(airports []string) string {
	return strings.Join(airports, "/")
}

type FeederOnly struct {
	Feeder FeederLeg
}

func (s FeederOnly) Case() Case { return CaseFeederOnly }

func (s FeederOnly) Airports() []string {
	return []string{s.Feeder.From, s.Feeder.To}
}

func (s FeederOnly) Legs() []Leg {
	return []Leg{{From: s.Feeder.From, To: s.Feeder.To, Alliance: s.Feeder.Alliance}}
}

func (s FeederOnly) Distance() float64 { return s.Feeder.Distance }

type BackboneOnly struct {
	Backbone BackboneLeg
}

func (s BackboneOnly) Case() Case { return CaseBackboneOnly }

func (s BackboneOnly) Airports() []string {
	return s.Backbone.Airports
}

func (s BackboneOnly) Legs() []Leg {
	return backboneLegs(s.Backbone, nil)
}

func (s BackboneOnly) Distance() float64 { return s.Backbone.Distance }

type FeederBackbone struct {
	FeederIn FeederLeg
	Backbone BackboneLeg
}

func (s FeederBackbone) Case() Case { return CaseFeederBackbone }

func (s FeederBackbone) Airports() []string {
	return append([]string{s.FeederIn.From}, s.Backbone.Airports...)
}

func (s FeederBackbone) Legs() []Leg {
	legs := []Leg{{From: s.FeederIn.From, To: s.FeederIn.To, Alliance: s.FeederIn.Alliance}}
	return backboneLegs(s.Backbone, legs)
}

func (s FeederBackbone) Distance() float64 { return s.FeederIn.Distance + s.Backbone.Distance }

type BackboneFeeder struct {
	Backbone  BackboneLeg
	FeederOut FeederLeg
}

func (s BackboneFeeder) Case() Case { return CaseBackboneFeeder }

func (s BackboneFeeder) Airports() []string {
	return append(append([]string(nil), s.Backbone.Airports...), s.FeederOut.To)
}

func (s BackboneFeeder) Legs() []Leg {
	legs := backboneLegs(s.Backbone, nil)
	return append(legs, Leg{From: s.FeederOut.From, To: s.FeederOut.To, Alliance: s.FeederOut.Alliance})
}

func (s BackboneFeeder) Distance() float64 { return s.Backbone.Distance + s.FeederOut.Distance }

type FeederBackboneFeeder struct {
	FeederIn  FeederLeg
	Backbone  BackboneLeg
	FeederOut FeederLeg
}

func (s FeederBackboneFeeder) Case() Case { return CaseFeederBackboneFeeder }

func (s FeederBackboneFeeder) Airports() []string {
	airports := append([]string{s.FeederIn.From}, s.Backbone.Airports...)
	return append(airports, s.FeederOut.To)
}

func (s FeederBackboneFeeder) Legs() []Leg {
	legs := []Leg{{From: s.FeederIn.From, To: s.FeederIn.To, Alliance: s.FeederIn.Alliance}}
	legs = backboneLegs(s.Backbone, legs)
	return append(legs, Leg{From: s.FeederOut.From, To: s.FeederOut.To, Alliance: s.FeederOut.Alliance})
}

func (s FeederBackboneFeeder) Distance() float64 {
	return s.FeederIn.Distance + s.Backbone.Distance + s.FeederOut.Distance
}

func backboneLegs(b BackboneLeg, legs []Leg) []Leg {
	for i := 0; i+1 < len(b.Airports); i++ {
		legs = append(legs, Leg{From: b.Airports[i], To: b.Airports[i+1], Alliance: b.Alliance})
	}

	return legs
}
