// Package routing talks to the external road-routing service and caches
// its answers. The assignment decision never depends on road-accurate
// geometry, so every failure here degrades to straight-line estimates
// instead of surfacing an error.
package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"fleetopt/internal/config"
	"fleetopt/internal/geo"
	"fleetopt/internal/metrics"
	"fleetopt/internal/model"
)

// fallbackSpeedKmh is the assumed average speed when estimating duration
// from straight-line distance.
const fallbackSpeedKmh = 30.0

// Route is the normalized provider result: path in (lat,lng) order,
// distance in km, duration in minutes. Fallback marks straight-line
// geometry produced locally after a provider failure.
type Route struct {
	Path        []model.Point `json:"path"`
	DistanceKm  float64       `json:"distanceKm"`
	DurationMin float64       `json:"durationMin"`
	Fallback    bool          `json:"fallback,omitempty"`
}

// Client fetches road routes from an OSRM-style HTTP service. It is safe
// for concurrent use; the injected cache carries the shared state.
type Client struct {
	http    *http.Client
	baseURL string
	profile string
	limiter *rate.Limiter
	cache   RouteCache
	log     *zap.Logger
}

func NewClient(cfg config.Provider, cache RouteCache, log *zap.Logger) *Client {
	return &Client{
		http:    &http.Client{Timeout: cfg.RequestTimeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		profile: cfg.Profile,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.RateBurst),
		cache:   cache,
		log:     log,
	}
}

// osrmResponse is the subset of the provider payload we consume. The
// service reports meters/seconds and GeoJSON (lng,lat) coordinates.
type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// FetchRoute resolves an ordered waypoint list into a road route. It
// always returns a usable Route: malformed waypoints are filtered first,
// fewer than two remaining yields a degenerate zero route, and any cache,
// rate-limit, network or service error falls back to straight-line
// segments between the waypoints.
func (c *Client) FetchRoute(ctx context.Context, waypoints []model.Point) Route {
	valid := make([]model.Point, 0, len(waypoints))
	for _, wp := range waypoints {
		if wp.Valid() {
			valid = append(valid, wp)
		}
	}
	if dropped := len(waypoints) - len(valid); dropped > 0 {
		c.log.Warn("dropped malformed waypoints", zap.Int("dropped", dropped))
	}
	if len(valid) < 2 {
		metrics.ProviderRequests.WithLabelValues("degenerate").Inc()
		return Route{Path: valid}
	}

	key := cacheKey(valid)
	if c.cache != nil {
		cached, hit, err := c.cache.Get(ctx, key)
		if err != nil {
			c.log.Warn("route cache read failed", zap.Error(err))
		} else if hit {
			metrics.RouteCacheHits.Inc()
			return cached
		}
		metrics.RouteCacheMisses.Inc()
	}

	route, err := c.request(ctx, valid)
	if err != nil {
		c.log.Warn("route provider failed, using straight-line fallback",
			zap.Int("waypoints", len(valid)), zap.Error(err))
		metrics.ProviderRequests.WithLabelValues("fallback").Inc()
		return straightLine(valid)
	}
	metrics.ProviderRequests.WithLabelValues("ok").Inc()

	if c.cache != nil {
		if err := c.cache.Put(ctx, key, route); err != nil {
			c.log.Warn("route cache write failed", zap.Error(err))
		}
	}
	return route
}

func (c *Client) request(ctx context.Context, waypoints []model.Point) (Route, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Route{}, fmt.Errorf("rate limiter: %w", err)
	}

	var coords strings.Builder
	for i, wp := range waypoints {
		if i > 0 {
			coords.WriteByte(';')
		}
		coords.WriteString(strconv.FormatFloat(wp.Lng, 'f', 6, 64))
		coords.WriteByte(',')
		coords.WriteString(strconv.FormatFloat(wp.Lat, 'f', 6, 64))
	}
	url := fmt.Sprintf("%s/route/v1/%s/%s?overview=full&geometries=geojson", c.baseURL, c.profile, coords.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Route{}, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Route{}, fmt.Errorf("route request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Route{}, fmt.Errorf("route request: status %d", resp.StatusCode)
	}

	var body osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Route{}, fmt.Errorf("decode response: %w", err)
	}
	if body.Code != "Ok" || len(body.Routes) == 0 {
		return Route{}, fmt.Errorf("route request: provider code %q, %d routes", body.Code, len(body.Routes))
	}

	best := body.Routes[0]
	path := make([]model.Point, 0, len(best.Geometry.Coordinates))
	for _, c := range best.Geometry.Coordinates {
		if len(c) < 2 {
			continue
		}
		// GeoJSON is (lng,lat); internal order is (lat,lng)
		path = append(path, model.Point{Lat: c[1], Lng: c[0]})
	}
	if len(path) > geo.SimplifyThreshold {
		path = geo.Simplify(path, geo.DefaultToleranceDeg)
	}
	return Route{
		Path:        path,
		DistanceKm:  best.Distance / 1000,
		DurationMin: best.Duration / 60,
	}, nil
}

// straightLine connects the waypoints with great-circle segments and
// estimates duration at a fixed average speed.
func straightLine(waypoints []model.Point) Route {
	dist := geo.PathDistance(waypoints)
	return Route{
		Path:        waypoints,
		DistanceKm:  dist,
		DurationMin: dist / fallbackSpeedKmh * 60,
		Fallback:    true,
	}
}

// cacheKey is the exact ordered waypoint string.
func cacheKey(waypoints []model.Point) string {
	var b strings.Builder
	for i, wp := range waypoints {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(strconv.FormatFloat(wp.Lat, 'f', 6, 64))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(wp.Lng, 'f', 6, 64))
	}
	return b.String()
}
