// Package querygroup collapses the segment set implied by a list of
// macro-route skeletons into the minimum number of external availability
// queries, each covering a set of origins times a set of destinations under
// the provider's combination ceiling.
package querygroup

import (
	"slices"
	"sort"
	"strings"

	"github.com/hachrisjordan/newroutebuilder-sub001/business/route"
	"github.com/hachrisjordan/newroutebuilder-sub001/xset"
)

// MaxProduct is the provider's practical ceiling on origins x destinations
// per query.
const MaxProduct = 60

type Group struct {
	Keys  xset.Set[string]
	Dests xset.Set[string]

	// terminal marks groups whose destinations are requested trip
	// destinations; only those participate in the advanced merge pass.
	terminal bool
}

func (g *Group) Product() int {
	return len(g.Keys) * len(g.Dests)
}

// ID is the deterministic query identifier: sorted origins, then sorted
// destinations, slash-joined within each side.
func (g *Group) ID() string {
	return strings.Join(xset.Sorted(g.Keys), "/") + "-" + strings.Join(xset.Sorted(g.Dests), "/")
}

// Legs returns every (origin, destination) pair the group covers.
func (g *Group) Legs() []route.Leg {
	legs := make([]route.Leg, 0, g.Product())
	for _, from := range xset.Sorted(g.Keys) {
		for _, to := range xset.Sorted(g.Dests) {
			legs = append(legs, route.Leg{From: from, To: to})
		}
	}

	return legs
}

// Consolidate decomposes the skeletons into their consecutive airport-pair
// legs and merges them into as few groups as possible. destinations is the
// set of requested trip destinations, used to separate destination-terminal
// legs from interior legs.
func Consolidate(skeletons []route.Skeleton, destinations []string) []*Group {
	requested := xset.Of(destinations...)

	// terminal legs group by destination, interior legs by origin
	byDest := make(map[string]xset.Set[string])
	byOrigin := make(map[string]xset.Set[string])

	for _, s := range skeletons {
		for _, leg := range s.Legs() {
			if requested.Contains(leg.To) {
				if byDest[leg.To] == nil {
					byDest[leg.To] = make(xset.Set[string])
				}
				byDest[leg.To].Add(leg.From)
			} else {
				if byOrigin[leg.From] == nil {
					byOrigin[leg.From] = make(xset.Set[string])
				}
				byOrigin[leg.From].Add(leg.To)
			}
		}
	}

	groups := make([]*Group, 0, len(byDest)+len(byOrigin))
	for dest, origins := range byDest {
		groups = append(groups, &Group{Keys: origins, Dests: xset.Of(dest), terminal: true})
	}
	for origin, dests := range byOrigin {
		groups = append(groups, &Group{Keys: xset.Of(origin), Dests: dests})
	}

	groups = mergeByDestSubset(groups)
	groups = mergeByKeySubset(groups)
	groups = splitOversize(groups)

	slices.SortFunc(groups, func(a, b *Group) int {
		// larger destination sets first maximizes coverage per call
		if len(a.Dests) != len(b.Dests) {
			return len(b.Dests) - len(a.Dests)
		}

		return strings.Compare(a.ID(), b.ID())
	})

	return groups
}

// mergeByDestSubset repeatedly merges any two groups where one group's
// destination set is a subset of the other's, combining their key sets,
// as long as the merged product stays within the cap. Runs to a fixed point.
func mergeByDestSubset(groups []*Group) []*Group {
	for {
		merged := false

		for i := 0; i < len(groups); i++ {
			for j := 0; j < len(groups); j++ {
				if i == j || groups[i] == nil || groups[j] == nil {
					continue
				}

				a, b := groups[i], groups[j]
				if !b.Dests.SubsetOf(a.Dests) {
					continue
				}

				keys := a.Keys.Clone()
				keys.AddAll(b.Keys)
				if len(keys)*len(a.Dests) > MaxProduct {
					continue
				}

				a.Keys = keys
				a.terminal = a.terminal && b.terminal
				groups[j] = nil
				merged = true
			}
		}

		if !merged {
			break
		}
	}

	return compact(groups)
}

// mergeByKeySubset is the advanced pass over destination-terminal groups:
// merge groups whose key set is a subset of another's, combining destination
// sets. Smallest key sets are considered first to maximize consolidation
// opportunities.
func mergeByKeySubset(groups []*Group) []*Group {
	order := make([]int, 0, len(groups))
	for i, g := range groups {
		if g.terminal {
			order = append(order, i)
		}
	}

	sort.Slice(order, func(a, b int) bool {
		return len(groups[order[a]].Keys) < len(groups[order[b]].Keys)
	})

	for {
		merged := false

		for _, i := range order {
			for _, j := range order {
				if i == j || groups[i] == nil || groups[j] == nil {
					continue
				}

				into, from := groups[i], groups[j]
				if !from.Keys.SubsetOf(into.Keys) {
					continue
				}

				dests := into.Dests.Clone()
				dests.AddAll(from.Dests)
				if len(into.Keys)*len(dests) > MaxProduct {
					continue
				}

				into.Dests = dests
				groups[j] = nil
				merged = true
			}
		}

		if !merged {
			break
		}
	}

	return compact(groups)
}

// splitOversize re-emits any group still exceeding the cap as one group per
// covered leg, so its segments are still queried, just without batching.
func splitOversize(groups []*Group) []*Group {
	result := make([]*Group, 0, len(groups))
	for _, g := range groups {
		if g.Product() <= MaxProduct {
			result = append(result, g)
			continue
		}

		for _, leg := range g.Legs() {
			result = append(result, &Group{
				Keys:     xset.Of(leg.From),
				Dests:    xset.Of(leg.To),
				terminal: g.terminal,
			})
		}
	}

	return result
}

func compact(groups []*Group) []*Group {
	return slices.DeleteFunc(groups, func(g *Group) bool {
		return g == nil
	})
}
