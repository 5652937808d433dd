package route

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hachrisjordan/newroutebuilder-sub001/concurrent"
	"github.com/hachrisjordan/newroutebuilder-sub001/db"
	"github.com/hachrisjordan/newroutebuilder-sub001/geo"
)

var (
	ErrAirportNotFound = errors.New("airport not found")
	ErrNoRoute         = errors.New("no route found")
)

// Routing options more than twice as long as the direct great-circle distance
// are pruned.
const detourFactor = 2.0

const maxPairParallelism = 8

type Repo interface {
	Airports(ctx context.Context, codes []string) (map[string]db.Airport, error)
	BackbonePaths(ctx context.Context, originRegion, destinationRegion string, maxDistance float64) ([]db.BackbonePath, error)
	FeederRoutesByOrigin(ctx context.Context, origins []string) (map[string][]db.FeederRoute, error)
	FeederRoutesByDestination(ctx context.Context, destinations []string) (map[string][]db.FeederRoute, error)
}

type Finder struct {
	repo Repo
}

func NewFinder(repo Repo) *Finder {
	return &Finder{repo: repo}
}

// refData holds the reference lookups for a single Find call, prefetched in
// one batch per kind and shared across all origin/destination pairs.
type refData struct {
	repo     Repo
	airports map[string]db.Airport
	feedOut  map[string][]db.FeederRoute
	feedIn   map[string][]db.FeederRoute

	mtx   sync.Mutex
	paths map[string][]db.BackbonePath
}

func (rd *refData) backbonePaths(ctx context.Context, originRegion, destinationRegion string, maxDistance float64) ([]db.BackbonePath, error) {
	key := fmt.Sprintf("%s|%s|%.0f", originRegion, destinationRegion, maxDistance)

	rd.mtx.Lock()
	paths, ok := rd.paths[key]
	rd.mtx.Unlock()
	if ok {
		return paths, nil
	}

	paths, err := rd.repo.BackbonePaths(ctx, originRegion, destinationRegion, maxDistance)
	if err != nil {
		return nil, err
	}

	rd.mtx.Lock()
	rd.paths[key] = paths
	rd.mtx.Unlock()

	return paths, nil
}

type pair struct {
	origin      string
	destination string
}

// Find enumerates macro-route skeletons between the given endpoints, each of
// which may be a slash-separated list of airport codes. All pairs of the
// resulting cartesian product are searched independently; a pair failing does
// not abort the others, and an error is returned only if every pair failed.
func (f *Finder) Find(ctx context.Context, origin, destination string, maxStop int) ([]Skeleton, error) {
	origins := SplitCodes(origin)
	destinations := SplitCodes(destination)
	if len(origins) < 1 || len(destinations) < 1 {
		return nil, fmt.Errorf("%w: empty origin or destination", ErrAirportNotFound)
	}

	rd, err := f.prefetch(ctx, origins, destinations)
	if err != nil {
		return nil, err
	}

	pairs := make([]pair, 0, len(origins)*len(destinations))
	for _, o := range origins {
		for _, d := range destinations {
			pairs = append(pairs, pair{origin: o, destination: d})
		}
	}

	results := concurrent.Settled(ctx, maxPairParallelism, pairs, func(ctx context.Context, p pair) ([]Skeleton, error) {
		return f.findPair(ctx, rd, p.origin, p.destination, maxStop)
	})

	var skeletons []Skeleton
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
			continue
		}

		skeletons = append(skeletons, r.Value...)
	}

	if len(skeletons) < 1 {
		if len(errs) > 0 {
			return nil, errors.Join(errs...)
		}

		return nil, ErrNoRoute
	}

	slices.SortFunc(skeletons, func(a, b Skeleton) int {
		if c := strings.Compare(Key(a.Airports()), Key(b.Airports())); c != 0 {
			return c
		}

		return strings.Compare(allianceKey(a.Legs()), allianceKey(b.Legs()))
	})

	return skeletons, nil
}

func (f *Finder) prefetch(ctx context.Context, origins, destinations []string) (*refData, error) {
	rd := refData{
		repo:  f.repo,
		paths: make(map[string][]db.BackbonePath),
	}

	codes := append(append([]string(nil), origins...), destinations...)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rd.airports, err = f.repo.Airports(gctx, codes)
		return err
	})

	g.Go(func() error {
		var err error
		rd.feedOut, err = f.repo.FeederRoutesByOrigin(gctx, origins)
		return err
	})

	g.Go(func() error {
		var err error
		rd.feedIn, err = f.repo.FeederRoutesByDestination(gctx, destinations)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &rd, nil
}

func (f *Finder) findPair(ctx context.Context, rd *refData, origin, destination string, maxStop int) ([]Skeleton, error) {
	o, ok := rd.airports[origin]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAirportNotFound, origin)
	}

	d, ok := rd.airports[destination]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAirportNotFound, destination)
	}

	maxDistance := detourFactor * geo.Distance(o.Lat, o.Lon, d.Lat, d.Lon)

	paths, err := rd.backbonePaths(ctx, o.Region, d.Region, maxDistance)
	if err != nil {
		return nil, err
	}

	feedersOut := rd.feedOut[origin]
	feedersIn := rd.feedIn[destination]

	var candidates []Skeleton
	keep := func(s Skeleton) {
		if s.Distance() > maxDistance {
			return
		}

		airports := s.Airports()
		if len(airports) > maxStop+2 {
			return
		}

		if !airportsDistinct(airports) {
			return
		}

		candidates = append(candidates, s)
	}

	// pure feeder, no backbone involved
	for _, fr := range feedersOut {
		if fr.Destination == destination {
			keep(FeederOnly{Feeder: feederLegOf(fr)})
		}
	}

	for _, bp := range paths {
		startsAtOrigin := bp.Origin == origin
		endsAtDestination := bp.Destination == destination

		switch {
		case startsAtOrigin && endsAtDestination:
			for combo := range explodeAlliances(bp.Alliances) {
				keep(BackboneOnly{Backbone: backboneLegOf(bp, combo[0])})
			}

		case endsAtDestination:
			// prefix a feeder from the requested origin to the path start
			for _, fr := range feedersOut {
				if fr.Destination != bp.Origin || fr.Distance+bp.Distance > maxDistance {
					continue
				}

				for combo := range explodeAlliances([]string{fr.Alliance}, bp.Alliances) {
					keep(FeederBackbone{
						FeederIn: feederLegWith(fr, combo[0]),
						Backbone: backboneLegOf(bp, combo[1]),
					})
				}
			}

		case startsAtOrigin:
			// suffix a feeder from the path end to the requested destination
			for _, fr := range feedersIn {
				if fr.Origin != bp.Destination || bp.Distance+fr.Distance > maxDistance {
					continue
				}

				for combo := range explodeAlliances(bp.Alliances, []string{fr.Alliance}) {
					keep(BackboneFeeder{
						Backbone:  backboneLegOf(bp, combo[0]),
						FeederOut: feederLegWith(fr, combo[1]),
					})
				}
			}

		default:
			// both a prefix and a suffix feeder are required
			for _, frIn := range feedersOut {
				if frIn.Destination != bp.Origin {
					continue
				}

				for _, frOut := range feedersIn {
					if frOut.Origin != bp.Destination || frIn.Distance+bp.Distance+frOut.Distance > maxDistance {
						continue
					}

					for combo := range explodeAlliances([]string{frIn.Alliance}, bp.Alliances, []string{frOut.Alliance}) {
						keep(FeederBackboneFeeder{
							FeederIn:  feederLegWith(frIn, combo[0]),
							Backbone:  backboneLegOf(bp, combo[1]),
							FeederOut: feederLegWith(frOut, combo[2]),
						})
					}
				}
			}
		}
	}

	if len(candidates) < 1 {
		return nil, fmt.Errorf("%w: %s-%s with maxStop=%d", ErrNoRoute, origin, destination, maxStop)
	}

	return candidates, nil
}

// explodeAlliances yields one combination per element of the cartesian
// product of the given alliance lists. An empty (or nil) list means that slot
// is unconstrained and contributes the empty alliance.
func explodeAlliances(lists ...[]string) iter.Seq[[]string] {
	return func(yield func([]string) bool) {
		combo := make([]string, len(lists))

		var walk func(i int) bool
		walk = func(i int) bool {
			if i >= len(lists) {
				return yield(slices.Clone(combo))
			}

			if len(lists[i]) < 1 {
				combo[i] = ""
				return walk(i + 1)
			}

			for _, alliance := range lists[i] {
				combo[i] = alliance
				if !walk(i + 1) {
					return false
				}
			}

			return true
		}

		walk(0)
	}
}

// SplitCodes expands a slash-separated airport code list, uppercased and
// deduplicated, preserving order.
func SplitCodes(v string) []string {
	parts := strings.Split(v, "/")
	codes := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p == "" || slices.Contains(codes, p) {
			continue
		}

		codes = append(codes, p)
	}

	return codes
}

func airportsDistinct(airports []string) bool {
	for i, a := range airports {
		if slices.Contains(airports[i+1:], a) {
			return false
		}
	}

	return true
}

func feederLegOf(fr db.FeederRoute) FeederLeg {
	return feederLegWith(fr, fr.Alliance)
}

func feederLegWith(fr db.FeederRoute, alliance string) FeederLeg {
	return FeederLeg{
		From:     fr.Origin,
		To:       fr.Destination,
		Alliance: alliance,
		Distance: fr.Distance,
	}
}

func backboneLegOf(bp db.BackbonePath, alliance string) BackboneLeg {
	return BackboneLeg{
		Airports: bp.Airports(),
		Alliance: alliance,
		Distance: bp.Distance,
	}
}

func allianceKey(legs []Leg) string {
	alliances := make([]string, 0, len(legs))
	for _, leg := range legs {
		alliances = append(alliances, leg.Alliance)
	}

	return strings.Join(alliances, ",")
}
