package querygroup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hachrisjordan/newroutebuilder-sub001/business/route"
	"github.com/hachrisjordan/newroutebuilder-sub001/xset"
)

func skeletonsOf(routes ...[]string) []route.Skeleton {
	skeletons := make([]route.Skeleton, 0, len(routes))
	for _, airports := range routes {
		switch len(airports) {
		case 2:
			skeletons = append(skeletons, route.FeederOnly{
				Feeder: route.FeederLeg{From: airports[0], To: airports[1]},
			})
		default:
			skeletons = append(skeletons, route.BackboneOnly{
				Backbone: route.BackboneLeg{Airports: airports},
			})
		}
	}

	return skeletons
}

func TestConsolidate_MergesTerminalLegs(t *testing.T) {
	// three routes all terminating at LHR: their final legs share the
	// destination and consolidate into a single query
	groups := Consolidate(skeletonsOf(
		[]string{"JFK", "LHR"},
		[]string{"JFK", "BOS", "LHR"},
		[]string{"JFK", "YYZ", "LHR"},
	), []string{"LHR"})

	var terminal *Group
	for _, g := range groups {
		if g.Dests.Contains("LHR") {
			require.Nil(t, terminal, "expected a single LHR-terminal group")
			terminal = g
		}
	}

	require.NotNil(t, terminal)
	assert.Equal(t, xset.Of("JFK", "BOS", "YYZ"), terminal.Keys)
}

func TestConsolidate_InteriorLegsGroupByOrigin(t *testing.T) {
	groups := Consolidate(skeletonsOf(
		[]string{"JFK", "BOS", "LHR"},
		[]string{"JFK", "YYZ", "LHR"},
	), []string{"LHR"})

	// the two interior legs share the origin JFK and merge into one group
	var interior *Group
	for _, g := range groups {
		if g.Keys.Contains("JFK") && !g.Dests.Contains("LHR") {
			interior = g
		}
	}

	require.NotNil(t, interior)
	assert.Equal(t, xset.Of("BOS", "YYZ"), interior.Dests)
}

func TestConsolidate_CapHolds(t *testing.T) {
	// many distinct routes; whatever the merge order, no group may exceed
	// the product cap
	routes := make([][]string, 0)
	hubs := []string{"AAA", "BBB", "CCC", "DDD", "EEE", "FFF", "GGG", "HHH"}
	origins := []string{"JFK", "EWR", "LGA", "BOS", "PHL", "IAD", "BWI", "ORD", "MDW", "DTW"}
	for _, o := range origins {
		for _, h := range hubs {
			routes = append(routes, []string{o, h, "LHR"})
		}
	}

	groups := Consolidate(skeletonsOf(routes...), []string{"LHR"})
	for _, g := range groups {
		assert.LessOrEqual(t, g.Product(), MaxProduct)
	}
}

func TestConsolidate_CoversEveryLeg(t *testing.T) {
	skeletons := skeletonsOf(
		[]string{"JFK", "BOS", "LHR"},
		[]string{"EWR", "YYZ", "LHR"},
		[]string{"JFK", "LHR"},
	)

	groups := Consolidate(skeletons, []string{"LHR"})

	covered := make(xset.Set[string])
	for _, g := range groups {
		for _, leg := range g.Legs() {
			covered.Add(leg.From + "-" + leg.To)
		}
	}

	for _, s := range skeletons {
		for _, leg := range s.Legs() {
			assert.True(t, covered.Contains(leg.From+"-"+leg.To), "leg %s-%s not covered", leg.From, leg.To)
		}
	}
}

func TestConsolidate_Deterministic(t *testing.T) {
	skeletons := skeletonsOf(
		[]string{"JFK", "BOS", "LHR"},
		[]string{"EWR", "YYZ", "LHR"},
	)

	a := Consolidate(skeletons, []string{"LHR"})
	b := Consolidate(skeletons, []string{"LHR"})

	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].ID(), b[i].ID())
	}

	// larger destination sets sort first
	for i := 1; i < len(a); i++ {
		assert.GreaterOrEqual(t, len(a[i-1].Dests), len(a[i].Dests))
	}
}

func TestGroup_ID(t *testing.T) {
	g := Group{
		Keys:  xset.Of("JFK", "BOS", "EWR"),
		Dests: xset.Of("LHR", "CDG"),
	}

	assert.Equal(t, "BOS/EWR/JFK-CDG/LHR", g.ID())
}

func TestGroup_Legs(t *testing.T) {
	g := Group{
		Keys:  xset.Of("JFK", "BOS"),
		Dests: xset.Of("LHR"),
	}

	legs := g.Legs()
	assert.Len(t, legs, 2)
	assert.Equal(t, route.Leg{From: "BOS", To: "LHR"}, legs[0])
	assert.Equal(t, route.Leg{From: "JFK", To: "LHR"}, legs[1])
}
