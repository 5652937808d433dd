package availability

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/hachrisjordan/newroutebuilder-sub001/xtime"
)

var ErrUpstream = errors.New("availability provider error")

type responseStatusErr struct {
	StatusCode int
	Status     string
}

func (e responseStatusErr) Error() string {
	return e.Status
}

// QueryParams are the optional provider-side filters for one query.
type QueryParams struct {
	Cabin    string
	Carriers []string
	MinSeats int
}

// QueryResult is the provider's answer for one consolidated query group.
type QueryResult struct {
	Groups    []Group
	CallCount int
	RateLimit RateLimit
}

// QueryCache is the read-through cache for raw per-query provider responses.
type QueryCache interface {
	Get(ctx context.Context, key string) (QueryResult, bool)
	Put(ctx context.Context, key string, result QueryResult)
}

type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      QueryCache
	baseUrl    string
	apiKey     string
}

type ClientOption func(c *Client)

func WithHttpClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithRateLimiter(limiter *rate.Limiter) ClientOption {
	return func(c *Client) {
		c.limiter = limiter
	}
}

func WithQueryCache(cache QueryCache) ClientOption {
	return func(c *Client) {
		c.cache = cache
	}
}

func NewClient(baseUrl, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseUrl: baseUrl,
		apiKey:  apiKey,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.httpClient = cmp.Or(c.httpClient, http.DefaultClient)

	return c
}

// Query fetches availability for one consolidated query group identifier
// (`<origins>-<dests>`) across the given date range. Responses are served
// read-through from the query cache when present.
func (c *Client) Query(ctx context.Context, groupId string, dates xtime.LocalDateRange, params QueryParams) (QueryResult, error) {
	cacheKey := queryCacheKey(groupId, dates, params)
	if c.cache != nil {
		if result, ok := c.cache.Get(ctx, cacheKey); ok {
			return result, nil
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return QueryResult{}, err
		}
	}

	q := make(url.Values)
	q.Set("route", groupId)
	q.Set("startDate", dates[0].String())
	q.Set("endDate", dates[1].String())

	if params.Cabin != "" {
		q.Set("cabin", params.Cabin)
	}
	if len(params.Carriers) > 0 {
		q.Set("carriers", strings.Join(params.Carriers, ","))
	}
	if params.MinSeats > 0 {
		q.Set("seats", strconv.Itoa(params.MinSeats))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseUrl+"/availability?"+q.Encode(), nil)
	if err != nil {
		return QueryResult{}, err
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return QueryResult{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return QueryResult{}, fmt.Errorf("%w: %w", ErrUpstream, responseStatusErr{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		})
	}

	var body struct {
		Groups    []Group `json:"groups"`
		CallCount int     `json:"callCount"`
	}

	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return QueryResult{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	result := QueryResult{
		Groups:    body.Groups,
		CallCount: max(body.CallCount, 1),
		RateLimit: parseRateLimit(resp.Header),
	}

	if c.cache != nil {
		c.cache.Put(ctx, cacheKey, result)
	}

	return result, nil
}

func parseRateLimit(h http.Header) RateLimit {
	var rl RateLimit

	if v, err := strconv.Atoi(h.Get("X-RateLimit-Remaining")); err == nil {
		rl.Remaining = v
	}

	if v, err := strconv.ParseInt(h.Get("X-RateLimit-Reset"), 10, 64); err == nil {
		rl.Reset = time.Unix(v, 0).UTC()
	}

	return rl
}

func queryCacheKey(groupId string, dates xtime.LocalDateRange, params QueryParams) string {
	return strings.Join([]string{
		groupId,
		dates[0].String(),
		dates[1].String(),
		params.Cabin,
		strings.Join(params.Carriers, ","),
		strconv.Itoa(params.MinSeats),
	}, "|")
}
