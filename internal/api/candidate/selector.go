// Package candidate scores and filters the place catalog for one trip
// request, bounding the result so the downstream prompt stays a fixed size.
package candidate

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/S-yujin/Gildam/internal/types"
)

const (
	// Around 6 places per day, safety factor 3, never more than 60.
	placesPerDay = 6
	safetyFactor = 3
	hardCap      = 60

	themeHitRank = 3
)

// Quota shares per category, applied against the cap with integer truncation.
// Two-stage rank-then-quota keeps category diversity even when theme matches
// skew toward one category.
var categoryQuotas = []struct {
	category types.Category
	share    float64
}{
	{types.CategorySightseeing, 0.40},
	{types.CategoryRestaurant, 0.25},
	{types.CategoryCafe, 0.20},
	{types.CategoryExperience, 0.10},
	{types.CategoryShopping, 0.05},
}

// Selector produces the bounded candidate set for a request.
type Selector interface {
	Select(catalog []types.Place, themes []string, days int) []types.Place
}

type SelectorImpl struct {
	logger *slog.Logger
	cache  *cache.Cache
}

var _ Selector = (*SelectorImpl)(nil)

// NewSelector creates a selector with a TTL result cache. Selection is pure
// over the immutable catalog, so repeated requests with the same themes and
// trip length reuse the cached set.
func NewSelector(logger *slog.Logger, cacheTTL time.Duration) *SelectorImpl {
	return &SelectorImpl{
		logger: logger,
		cache:  cache.New(cacheTTL, 10*time.Minute),
	}
}

func (s *SelectorImpl) Select(catalog []types.Place, themes []string, days int) []types.Place {
	if days < 1 {
		days = 1
	}

	key := cacheKey(themes, days)
	if cached, found := s.cache.Get(key); found {
		s.logger.Debug("candidate cache hit", slog.String("key", key))
		return cached.([]types.Place)
	}

	cap := maxCandidates(days)

	type rankedPlace struct {
		place types.Place
		rank  int
	}
	ranked := make([]rankedPlace, 0, len(catalog))
	hits := 0
	for _, p := range catalog {
		rank := 0
		if themeHit(p.Keywords, themes) {
			rank = themeHitRank
			hits++
		}
		ranked = append(ranked, rankedPlace{place: p, rank: rank})
	}

	// Stable sort keeps the catalog order inside each rank band.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].rank > ranked[j].rank
	})
	if len(ranked) > cap*2 {
		ranked = ranked[:cap*2]
	}

	var selected []types.Place
	for _, quota := range categoryQuotas {
		limit := int(float64(cap) * quota.share)
		taken := 0
		for _, r := range ranked {
			if taken >= limit {
				break
			}
			if r.place.Category == quota.category {
				selected = append(selected, r.place)
				taken++
			}
		}
	}

	s.logger.Info("candidates selected",
		slog.Int("catalog", len(catalog)),
		slog.Int("theme_hits", hits),
		slog.Int("cap", cap),
		slog.Int("selected", len(selected)),
	)

	s.cache.Set(key, selected, cache.DefaultExpiration)
	return selected
}

// maxCandidates bounds the candidate set by trip length.
func maxCandidates(days int) int {
	cap := days * placesPerDay * safetyFactor
	if cap > hardCap {
		return hardCap
	}
	return cap
}

// themeHit reports whether any selected theme is a substring of the place's
// keyword blob, case and surrounding-space insensitive. Deliberately loose:
// keywords are an opaque blob, not a token set.
func themeHit(keywords string, themes []string) bool {
	text := strings.ToLower(strings.TrimSpace(keywords))
	for _, theme := range themes {
		t := strings.ToLower(strings.TrimSpace(theme))
		if t != "" && strings.Contains(text, t) {
			return true
		}
	}
	return false
}

func cacheKey(themes []string, days int) string {
	normalized := make([]string, 0, len(themes))
	for _, t := range themes {
		normalized = append(normalized, strings.ToLower(strings.TrimSpace(t)))
	}
	sort.Strings(normalized)
	return fmt.Sprintf("candidates:%d:%s", days, strings.Join(normalized, ","))
}
