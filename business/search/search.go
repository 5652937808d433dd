// Package search orchestrates the full composition pipeline: skeleton
// discovery, query consolidation, bounded-concurrency availability fetch,
// itinerary composition, reliability filtering and the response cache.
package search

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/hachrisjordan/newroutebuilder-sub001/business/availability"
	"github.com/hachrisjordan/newroutebuilder-sub001/business/compose"
	"github.com/hachrisjordan/newroutebuilder-sub001/business/projection"
	"github.com/hachrisjordan/newroutebuilder-sub001/business/querygroup"
	"github.com/hachrisjordan/newroutebuilder-sub001/business/reliability"
	"github.com/hachrisjordan/newroutebuilder-sub001/business/route"
	"github.com/hachrisjordan/newroutebuilder-sub001/cache"
	"github.com/hachrisjordan/newroutebuilder-sub001/concurrent"
	"github.com/hachrisjordan/newroutebuilder-sub001/xtime"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrAirportNotFound = route.ErrAirportNotFound
	ErrNoRoute         = route.ErrNoRoute
	ErrResultNotFound  = errors.New("result not found or expired")
)

const (
	MaxStopLimit = 4
	// MaxDateRangeDays caps the queried span; each extra day multiplies the
	// provider calls behind a single request.
	MaxDateRangeDays = 7

	queryParallelism = 5
)

type availabilityClient interface {
	Query(ctx context.Context, groupId string, dates xtime.LocalDateRange, params availability.QueryParams) (availability.QueryResult, error)
}

type Request struct {
	Origin                string
	Destination           string
	MaxStop               int
	Dates                 xtime.LocalDateRange
	Cabin                 string
	Carriers              []string
	MinReliabilityPercent float64
}

// Metadata accompanies a composed result: the shareable cache key, provider
// quota accounting and the sizes of the intermediate stages.
type Metadata struct {
	Key           string                 `json:"key"`
	CallCount     int                    `json:"callCount"`
	RateLimit     availability.RateLimit `json:"rateLimit"`
	SkeletonCount int                    `json:"skeletonCount"`
	GroupCount    int                    `json:"groupCount"`
}

type Response struct {
	Itineraries []compose.Itinerary `json:"itineraries"`
	Flights     compose.Flights     `json:"flights"`
	Metadata    Metadata            `json:"metadata"`
}

type Engine struct {
	finder    *route.Finder
	client    availabilityClient
	rules     reliability.Repo
	responses *cache.Store
	log       logrus.FieldLogger
}

func NewEngine(finder *route.Finder, client availabilityClient, rules reliability.Repo, responses *cache.Store, log logrus.FieldLogger) *Engine {
	return &Engine{
		finder:    finder,
		client:    client,
		rules:     rules,
		responses: responses,
		log:       log,
	}
}

// ComposeItineraries runs the full pipeline for one request, read-through
// against the response cache.
func (e *Engine) ComposeItineraries(ctx context.Context, req Request) (Response, error) {
	if err := validate(req); err != nil {
		return Response{}, err
	}

	if req.MinReliabilityPercent <= 0 {
		req.MinReliabilityPercent = reliability.DefaultMinPercent
	}

	key := requestKey(req)
	if e.responses != nil {
		var cached Response
		if ok, err := e.responses.Get(ctx, key, &cached); err != nil {
			e.log.WithError(err).Warn("response cache read failed")
		} else if ok {
			return cached, nil
		}
	}

	skeletons, err := e.finder.Find(ctx, req.Origin, req.Destination, req.MaxStop)
	if err != nil {
		return Response{}, err
	}

	groups := querygroup.Consolidate(skeletons, route.SplitCodes(req.Destination))

	fetched, err := e.fetchAvailability(ctx, groups, req)
	if err != nil {
		return Response{}, err
	}

	itineraries, flights := compose.Compose(skeletons, fetched.groups, req.Dates)

	rules, err := reliability.Load(ctx, e.rules)
	if err != nil {
		return Response{}, err
	}

	itineraries = rules.Filter(itineraries, flights, req.MinReliabilityPercent)
	compose.Sweep(itineraries, flights)

	resp := Response{
		Itineraries: itineraries,
		Flights:     flights,
		Metadata: Metadata{
			Key:           key,
			CallCount:     fetched.callCount,
			RateLimit:     fetched.rateLimit,
			SkeletonCount: len(skeletons),
			GroupCount:    len(groups),
		},
	}

	if e.responses != nil {
		if err = e.responses.Put(ctx, key, resp); err != nil {
			e.log.WithError(err).Error("response cache write failed")
			return Response{}, err
		}
	}

	return resp, nil
}

// Project runs the projection stage against a previously composed result.
func (e *Engine) Project(ctx context.Context, key string, options ...projection.Option) (projection.Page, projection.Metadata, error) {
	if e.responses == nil {
		return projection.Page{}, projection.Metadata{}, ErrResultNotFound
	}

	var resp Response
	ok, err := e.responses.Get(ctx, key, &resp)
	if err != nil {
		return projection.Page{}, projection.Metadata{}, err
	} else if !ok {
		return projection.Page{}, projection.Metadata{}, ErrResultNotFound
	}

	rules, err := reliability.Load(ctx, e.rules)
	if err != nil {
		return projection.Page{}, projection.Metadata{}, err
	}

	records := projection.Flatten(resp.Itineraries, resp.Flights, rules)
	return projection.Project(records, options...), projection.Aggregate(records), nil
}

type fetchAcc struct {
	groups    []availability.Group
	callCount int
	rateLimit availability.RateLimit
}

// fetchAvailability issues the consolidated queries with bounded
// concurrency. A failing query degrades to zero flights for its group rather
// than failing the request.
func (e *Engine) fetchAvailability(ctx context.Context, groups []*querygroup.Group, req Request) (fetchAcc, error) {
	params := availability.QueryParams{
		Cabin:    req.Cabin,
		Carriers: req.Carriers,
	}

	wg := concurrent.WorkGroup[*querygroup.Group, fetchAcc, fetchAcc]{
		Parallelism: queryParallelism,
		Worker: func(ctx context.Context, g *querygroup.Group, acc fetchAcc) (fetchAcc, error) {
			result, err := e.client.Query(ctx, g.ID(), req.Dates, params)
			if err != nil {
				e.log.WithError(err).WithField("group", g.ID()).Warn("availability query failed, treating as empty")
				return acc, nil
			}

			acc.groups = append(acc.groups, result.Groups...)
			acc.callCount += result.CallCount
			acc.rateLimit = acc.rateLimit.Merge(result.RateLimit)

			return acc, nil
		},
		Combiner: func(ctx context.Context, a, b fetchAcc) (fetchAcc, error) {
			a.groups = append(a.groups, b.groups...)
			a.callCount += b.callCount
			a.rateLimit = a.rateLimit.Merge(b.rateLimit)

			return a, nil
		},
		Finisher: func(ctx context.Context, acc fetchAcc) (fetchAcc, error) {
			return acc, nil
		},
	}

	return wg.Run(ctx, groups)
}

func validate(req Request) error {
	if len(route.SplitCodes(req.Origin)) < 1 {
		return fmt.Errorf("%w: origin is required", ErrInvalidInput)
	}

	if len(route.SplitCodes(req.Destination)) < 1 {
		return fmt.Errorf("%w: destination is required", ErrInvalidInput)
	}

	if req.MaxStop < 0 || req.MaxStop > MaxStopLimit {
		return fmt.Errorf("%w: maxStop must be between 0 and %d", ErrInvalidInput, MaxStopLimit)
	}

	if req.Dates[0].IsZero() || req.Dates[1].IsZero() || req.Dates[0].Compare(req.Dates[1]) > 0 {
		return fmt.Errorf("%w: invalid date range", ErrInvalidInput)
	}

	if req.Dates.Days() > MaxDateRangeDays {
		return fmt.Errorf("%w: date range exceeds %d days", ErrInvalidInput, MaxDateRangeDays)
	}

	if req.MinReliabilityPercent < 0 || req.MinReliabilityPercent > 100 {
		return fmt.Errorf("%w: minReliabilityPercent must be between 0 and 100", ErrInvalidInput)
	}

	return nil
}

func requestKey(req Request) string {
	return cache.Key(
		strings.Join(route.SplitCodes(req.Origin), "/"),
		strings.Join(route.SplitCodes(req.Destination), "/"),
		strconv.Itoa(req.MaxStop),
		req.Dates[0].String(),
		req.Dates[1].String(),
		req.Cabin,
		strings.Join(req.Carriers, ","),
		strconv.FormatFloat(req.MinReliabilityPercent, 'f', 2, 64),
	)
}
