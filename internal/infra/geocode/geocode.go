package geocode

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/BruksfildServices01/field-scheduler/internal/domain/route"
	"github.com/BruksfildServices01/field-scheduler/internal/metrics"
)

// PostalCodeLookup derives an approximate coordinate from the digits of a
// US-style postal code. The first three digits spread latitude across the
// continental band, the next two spread longitude.
type PostalCodeLookup struct{}

func NewPostalCodeLookup() PostalCodeLookup {
	return PostalCodeLookup{}
}

func (PostalCodeLookup) CoordinatesFor(_ context.Context, postalCode string) (route.Coordinate, error) {
	digits := make([]byte, 0, len(postalCode))
	for i := 0; i < len(postalCode); i++ {
		if c := postalCode[i]; c >= '0' && c <= '9' {
			digits = append(digits, c)
		}
	}
	if len(digits) < 5 {
		return route.Coordinate{}, fmt.Errorf("geocode: postal code %q has fewer than 5 digits", postalCode)
	}

	prefix, _ := strconv.Atoi(string(digits[:3]))
	suffix, _ := strconv.Atoi(string(digits[3:5]))

	return route.Coordinate{
		Lat: 25 + float64(prefix)/1000*24,
		Lng: -125 + float64(suffix)/100*58,
	}, nil
}

// CachedLookup memoises another lookup per normalised postal code. Failed
// lookups are not cached.
type CachedLookup struct {
	next  route.CoordinateLookup
	store *cache.Cache
}

func NewCachedLookup(next route.CoordinateLookup, ttl time.Duration) *CachedLookup {
	return &CachedLookup{
		next:  next,
		store: cache.New(ttl, 2*ttl),
	}
}

func (l *CachedLookup) CoordinatesFor(ctx context.Context, postalCode string) (route.Coordinate, error) {
	key := strings.ToUpper(strings.TrimSpace(postalCode))

	if v, ok := l.store.Get(key); ok {
		metrics.CoordinateCacheLookups.WithLabelValues("hit").Inc()
		return v.(route.Coordinate), nil
	}
	metrics.CoordinateCacheLookups.WithLabelValues("miss").Inc()

	c, err := l.next.CoordinatesFor(ctx, key)
	if err != nil {
		return route.Coordinate{}, err
	}
	l.store.SetDefault(key, c)
	return c, nil
}

func (l *CachedLookup) Len() int {
	return l.store.ItemCount()
}
