package services

import (
	"context"
	"sort"
	"strings"

	"github.com/reelforge/reelforge/internal/models"
	"github.com/reelforge/reelforge/internal/repository"
)

// BrandMatchQuery describes the media being sought for a scene
type BrandMatchQuery struct {
	MediaTypes      []models.BrandMediaType
	ContextKeywords []string
	NameKeywords    []string
}

// BrandMatcher resolves brand-owned media candidates against a scene's
// semantic context. The pool is read from the external brand-media store.
type BrandMatcher struct {
	brands repository.BrandAssetRepository
}

// NewBrandMatcher creates a matcher over the brand asset repository
func NewBrandMatcher(brands repository.BrandAssetRepository) *BrandMatcher {
	return &BrandMatcher{brands: brands}
}

// Match loads the active pool and resolves the best candidate, or nil if
// no tier of the waterfall produces a match
func (bm *BrandMatcher) Match(ctx context.Context, query BrandMatchQuery) (*models.BrandAsset, error) {
	pool, err := bm.brands.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return MatchBrandAsset(pool, query), nil
}

// MatchBrandAsset runs the four-tier resolution waterfall over the pool.
// Each tier is independently priority-sorted before its first element is
// taken; the first non-empty tier wins. Tier 3 only applies when name
// keywords were supplied; an empty list skips the tier rather than
// matching everything.
func MatchBrandAsset(pool []models.BrandAsset, query BrandMatchQuery) *models.BrandAsset {
	candidates := make([]models.BrandAsset, 0, len(pool))
	for _, asset := range pool {
		if !asset.Active {
			continue
		}
		if !mediaTypeAllowed(asset.MediaType, query.MediaTypes) {
			continue
		}
		if excluded(asset, query.ContextKeywords) {
			continue
		}
		candidates = append(candidates, asset)
	}

	// Tier 1: exact usage-context keyword containment
	if match := firstByPriority(candidates, func(a models.BrandAsset) bool {
		return anyContains(a.UsageContexts, query.ContextKeywords)
	}); match != nil {
		return match
	}

	// Tier 2: match-keyword containment against the same context keywords
	if match := firstByPriority(candidates, func(a models.BrandAsset) bool {
		return anyContains(a.MatchKeywords, query.ContextKeywords)
	}); match != nil {
		return match
	}

	// Tier 3: name/entity-name containment, only when name keywords supplied
	if len(query.NameKeywords) > 0 {
		if match := firstByPriority(candidates, func(a models.BrandAsset) bool {
			for _, kw := range query.NameKeywords {
				lower := strings.ToLower(kw)
				if strings.Contains(strings.ToLower(a.Name), lower) ||
					strings.Contains(strings.ToLower(a.EntityName), lower) {
					return true
				}
			}
			return false
		}); match != nil {
			return match
		}
	}

	// Tier 4: default-flagged asset of the requested media type
	return firstByPriority(candidates, func(a models.BrandAsset) bool {
		return a.IsDefault
	})
}

func firstByPriority(candidates []models.BrandAsset, matches func(models.BrandAsset) bool) *models.BrandAsset {
	tier := make([]models.BrandAsset, 0)
	for _, a := range candidates {
		if matches(a) {
			tier = append(tier, a)
		}
	}
	if len(tier) == 0 {
		return nil
	}
	sort.SliceStable(tier, func(i, j int) bool {
		return tier[i].Priority > tier[j].Priority
	})
	return &tier[0]
}

func mediaTypeAllowed(mediaType models.BrandMediaType, allowed []models.BrandMediaType) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, t := range allowed {
		if t == mediaType {
			return true
		}
	}
	return false
}

func excluded(asset models.BrandAsset, contextKeywords []string) bool {
	for _, ex := range asset.ExcludeKeywords {
		for _, kw := range contextKeywords {
			if strings.EqualFold(ex, kw) {
				return true
			}
		}
	}
	return false
}

func anyContains(haystack []string, needles []string) bool {
	for _, h := range haystack {
		for _, n := range needles {
			if strings.Contains(strings.ToLower(h), strings.ToLower(n)) {
				return true
			}
		}
	}
	return false
}
