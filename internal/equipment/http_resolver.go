package equipment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"hunt-stats-lab/internal/domain"
)

// Default configuration values.
const (
	DefaultTimeout    = 15 * time.Second
	DefaultMaxRetries = 3
	DefaultRetryDelay = 1 * time.Second
)

// HTTPResolver implements Resolver against an item database HTTP API.
// Responses are cached for the lifetime of the resolver: item stats change
// on game updates, not mid-session.
type HTTPResolver struct {
	endpoint   string
	client     *http.Client
	maxRetries int
	retryDelay time.Duration

	mu    sync.RWMutex
	cache map[string]*domain.Equipment
}

// ResolverOption configures HTTPResolver.
type ResolverOption func(*HTTPResolver)

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ResolverOption {
	return func(r *HTTPResolver) {
		r.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(n int) ResolverOption {
	return func(r *HTTPResolver) {
		r.maxRetries = n
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ResolverOption {
	return func(r *HTTPResolver) {
		r.client = client
	}
}

// NewHTTPResolver creates a resolver against the given API base URL.
func NewHTTPResolver(endpoint string, opts ...ResolverOption) *HTTPResolver {
	r := &HTTPResolver{
		endpoint:   endpoint,
		client:     &http.Client{Timeout: DefaultTimeout},
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
		cache:      make(map[string]*domain.Equipment),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Compile-time interface check.
var _ Resolver = (*HTTPResolver)(nil)

// itemResponse is the wire shape of the item API.
type itemResponse struct {
	Name       string    `json:"name"`
	Decay      float64   `json:"decay"` // PED per use
	AmmoBurn   float64   `json:"ammo_burn"`
	Damage     []float64 `json:"damage,omitempty"`
	Range      float64   `json:"range,omitempty"`
	MinTT      float64   `json:"min_tt,omitempty"`
	MaxTT      float64   `json:"max_tt,omitempty"`
	Efficiency float64   `json:"efficiency,omitempty"`
}

// Resolve looks the item up, serving repeats from the cache.
func (r *HTTPResolver) Resolve(ctx context.Context, name string) (*domain.Equipment, error) {
	r.mu.RLock()
	cached, ok := r.cache[name]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	eq, err := r.fetch(ctx, name)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cache[name] = eq
	r.mu.Unlock()
	return eq, nil
}

// fetch performs the lookup with retries and linear backoff.
func (r *HTTPResolver) fetch(ctx context.Context, name string) (*domain.Equipment, error) {
	reqURL := fmt.Sprintf("%s/items/%s", r.endpoint, url.PathEscape(name))

	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(r.retryDelay):
			}
		}

		eq, retryable, err := r.doRequest(ctx, reqURL)
		if err == nil {
			return eq, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("resolve item %q after %d retries: %w", name, r.maxRetries, lastErr)
}

func (r *HTTPResolver) doRequest(ctx context.Context, reqURL string) (eq *domain.Equipment, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, ErrItemNotFound
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("item api status %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, false, fmt.Errorf("item api status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("read response: %w", err)
	}

	var item itemResponse
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, false, fmt.Errorf("parse item response: %w", err)
	}
	return item.toEquipment(), false, nil
}

func (i *itemResponse) toEquipment() *domain.Equipment {
	eq := &domain.Equipment{
		Name: i.Name,
		Economy: domain.EconomyProfile{
			Decay:    i.Decay,
			AmmoBurn: i.AmmoBurn,
		},
		Range:      i.Range,
		MinTT:      i.MinTT,
		MaxTT:      i.MaxTT,
		Efficiency: i.Efficiency,
	}
	if len(i.Damage) > 0 {
		var v domain.DamageVector
		for idx := 0; idx < len(i.Damage) && idx < domain.DamageVectorSize; idx++ {
			v[idx] = i.Damage[idx]
		}
		eq.Damage = &v
	}
	return eq
}
