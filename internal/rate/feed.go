package rate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"karat-desk/internal/clock"
	"karat-desk/internal/domain"

	"github.com/shopspring/decimal"
)

var ErrMalformedRate = errors.New("malformed rate payload")

// Feed fetches the latest metal rate from an external source
type Feed interface {
	Fetch(ctx context.Context) (domain.RateSnapshot, error)
}

type feedPayload struct {
	RatePerGram decimal.Decimal `json:"rate_per_gram"`
	AsOf        *time.Time      `json:"as_of"`
}

// HTTPFeed reads {"rate_per_gram": ..., "as_of": ...} from a JSON endpoint
type HTTPFeed struct {
	url    string
	client *http.Client
	clock  clock.Clock
}

// NewHTTPFeed creates a feed for url. The caller's context bounds each fetch.
func NewHTTPFeed(url string, client *http.Client, clk clock.Clock) *HTTPFeed {
	if client == nil {
		client = http.DefaultClient
	}
	if clk == nil {
		clk = clock.New()
	}
	return &HTTPFeed{url: url, client: client, clock: clk}
}

func (f *HTTPFeed) Fetch(ctx context.Context) (domain.RateSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return domain.RateSnapshot{}, fmt.Errorf("failed to build rate request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return domain.RateSnapshot{}, fmt.Errorf("failed to call rate feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.RateSnapshot{}, fmt.Errorf("rate feed returned status %d", resp.StatusCode)
	}

	var payload feedPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.RateSnapshot{}, fmt.Errorf("%w: %v", ErrMalformedRate, err)
	}
	if !payload.RatePerGram.IsPositive() {
		return domain.RateSnapshot{}, fmt.Errorf("%w: rate_per_gram must be positive, got %s", ErrMalformedRate, payload.RatePerGram)
	}

	readAt := f.clock.Now()
	if payload.AsOf != nil {
		readAt = payload.AsOf.UTC()
	}

	return domain.RateSnapshot{
		RatePerGram: payload.RatePerGram,
		ReadAt:      readAt,
		Source:      domain.RateSourceFeed,
	}, nil
}

// LatestRateReader is the read side of the metal rate store
type LatestRateReader interface {
	Latest(ctx context.Context) (*domain.MetalRate, error)
}

// StoreFeed reads the most recently recorded rate from the database
type StoreFeed struct {
	store LatestRateReader
}

func NewStoreFeed(store LatestRateReader) *StoreFeed {
	return &StoreFeed{store: store}
}

func (f *StoreFeed) Fetch(ctx context.Context) (domain.RateSnapshot, error) {
	latest, err := f.store.Latest(ctx)
	if err != nil {
		return domain.RateSnapshot{}, fmt.Errorf("failed to read latest rate: %w", err)
	}

	return domain.RateSnapshot{
		RatePerGram: latest.RatePerGram,
		ReadAt:      latest.RecordedAt.UTC(),
		Source:      domain.RateSourceFeed,
	}, nil
}
