package db

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"
)

const reliabilityRuleTTL = 5 * time.Minute

type referenceRepoDatabase interface {
	Conn(ctx context.Context) (*sql.Conn, error)
}

// ReferenceRepo serves the read-only routing reference data: airports,
// backbone paths, feeder routes and the per-carrier reliability rules.
type ReferenceRepo struct {
	db    referenceRepoDatabase
	rules *expiring[map[string]ReliabilityRule]
}

func NewReferenceRepo(db referenceRepoDatabase) *ReferenceRepo {
	rr := ReferenceRepo{db: db}
	rr.rules = newExpiring(reliabilityRuleTTL, rr.reliabilityRulesInternal)

	return &rr
}

func (rr *ReferenceRepo) Airports(ctx context.Context, codes []string) (map[string]Airport, error) {
	conn, err := rr.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	placeholders, params := buildParams(codes)
	rows, err := conn.QueryContext(
		ctx,
		`SELECT iata_code, lat, lon, region FROM airports WHERE iata_code IN (`+placeholders+`)`,
		params...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]Airport, len(codes))
	for rows.Next() {
		var a Airport
		if err = rows.Scan(&a.IataCode, &a.Lat, &a.Lon, &a.Region); err != nil {
			return nil, err
		}

		result[a.IataCode] = a
	}

	return result, rows.Err()
}

// BackbonePaths returns all precomputed paths between the two region tags
// whose total distance is within maxDistance.
func (rr *ReferenceRepo) BackbonePaths(ctx context.Context, originRegion, destinationRegion string, maxDistance float64) ([]BackbonePath, error) {
	conn, err := rr.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.QueryContext(
		ctx,
		`
SELECT bp.origin, bp.destination, bp.hub1, bp.hub2, bp.alliances, bp.distance
FROM backbone_paths bp
JOIN airports o ON o.iata_code = bp.origin
JOIN airports d ON d.iata_code = bp.destination
WHERE o.region = ? AND d.region = ? AND bp.distance <= ?
`,
		originRegion,
		destinationRegion,
		maxDistance,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []BackbonePath
	for rows.Next() {
		var bp BackbonePath
		var alliances string
		if err = rows.Scan(&bp.Origin, &bp.Destination, &bp.Hub1, &bp.Hub2, &alliances, &bp.Distance); err != nil {
			return nil, err
		}

		if alliances != "" {
			bp.Alliances = strings.Split(alliances, ",")
		}

		result = append(result, bp)
	}

	return result, rows.Err()
}

func (rr *ReferenceRepo) FeederRoutesByOrigin(ctx context.Context, origins []string) (map[string][]FeederRoute, error) {
	return rr.feederRoutes(ctx, "origin", origins)
}

func (rr *ReferenceRepo) FeederRoutesByDestination(ctx context.Context, destinations []string) (map[string][]FeederRoute, error) {
	return rr.feederRoutes(ctx, "destination", destinations)
}

func (rr *ReferenceRepo) feederRoutes(ctx context.Context, keyColumn string, keys []string) (map[string][]FeederRoute, error) {
	conn, err := rr.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	placeholders, params := buildParams(keys)
	rows, err := conn.QueryContext(
		ctx,
		`SELECT origin, destination, alliance, distance FROM feeder_routes WHERE `+keyColumn+` IN (`+placeholders+`)`,
		params...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string][]FeederRoute, len(keys))
	for rows.Next() {
		var fr FeederRoute
		if err = rows.Scan(&fr.Origin, &fr.Destination, &fr.Alliance, &fr.Distance); err != nil {
			return nil, err
		}

		key := fr.Origin
		if keyColumn == "destination" {
			key = fr.Destination
		}

		result[key] = append(result[key], fr)
	}

	return result, rows.Err()
}

func (rr *ReferenceRepo) ReliabilityRules(ctx context.Context) (map[string]ReliabilityRule, error) {
	return rr.rules.Value(ctx)
}

func (rr *ReferenceRepo) reliabilityRulesInternal(ctx context.Context) (map[string]ReliabilityRule, error) {
	conn, err := rr.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, `SELECT code, min_count, COALESCE(exemption, '') FROM reliability_rules`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]ReliabilityRule)
	for rows.Next() {
		var r ReliabilityRule
		if err = rows.Scan(&r.Code, &r.MinCount, &r.ExemptCabins); err != nil {
			return nil, err
		}

		result[strings.ToUpper(r.Code)] = r
	}

	return result, rows.Err()
}

// expiring is a TTL-checked lazily refreshed value shared across requests.
type expiring[T any] struct {
	mtx       sync.Mutex
	ttl       time.Duration
	fetchedAt time.Time
	value     T
	fetcher   func(ctx context.Context) (T, error)
}

func newExpiring[T any](ttl time.Duration, fetcher func(ctx context.Context) (T, error)) *expiring[T] {
	return &expiring[T]{ttl: ttl, fetcher: fetcher}
}

func (e *expiring[T]) Value(ctx context.Context) (T, error) {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	if !e.fetchedAt.IsZero() && time.Since(e.fetchedAt) < e.ttl {
		return e.value, nil
	}

	value, err := e.fetcher(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	e.value = value
	e.fetchedAt = time.Now()

	return value, nil
}

func buildParams[T any](values []T) (string, []any) {
	placeholders := make([]string, 0, len(values))
	params := make([]any, 0, len(values))

	for _, v := range values {
		placeholders = append(placeholders, "?")
		params = append(params, v)
	}

	return strings.Join(placeholders, ","), params
}
