// Package news fetches exchange announcement feeds. Operators watch
// these for maintenance windows and wallet freezes that explain sudden
// gaps in market data.
package news

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/seenimoa/cryptodeck/internal/infra"
	"github.com/seenimoa/cryptodeck/pkg/models"
)

// Source is one announcement feed.
type Source struct {
	Name string
	URL  string
}

// DefaultSources lists the exchange status and announcement RSS feeds.
var DefaultSources = []Source{
	{Name: "Bittrex Status", URL: "https://status.bittrex.com/history.rss"},
	{Name: "Poloniex Status", URL: "https://status.poloniex.com/history.rss"},
}

// Service fetches and caches exchange announcements.
type Service struct {
	sources []Source
	cache   *infra.Cache
	limiter *infra.Limiter
	parser  *gofeed.Parser
}

// New creates a news service with the default sources.
func New(cacheTTL time.Duration) *Service {
	return NewWithSources(DefaultSources, cacheTTL)
}

// NewWithSources creates a news service with custom sources.
func NewWithSources(sources []Source, cacheTTL time.Duration) *Service {
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &Service{
		sources: sources,
		cache:   infra.NewCache(cacheTTL),
		limiter: infra.NewLimiter(2, time.Second),
		parser:  gofeed.NewParser(),
	}
}

// Announcements returns recent items from all configured sources,
// newest first. A failing source is skipped; feed outages must not
// take the working feeds down with them.
func (s *Service) Announcements(ctx context.Context, limit int) ([]models.Announcement, error) {
	cacheKey := fmt.Sprintf("news:%d", limit)
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.([]models.Announcement), nil
	}

	var all []models.Announcement
	for _, src := range s.sources {
		items, err := s.fetch(ctx, src)
		if err != nil {
			continue
		}
		all = append(all, items...)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].Published.After(all[j].Published)
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}

	s.cache.Set(cacheKey, all)
	return all, nil
}

// fetch reads one feed under the shared rate limit.
func (s *Service) fetch(ctx context.Context, src Source) ([]models.Announcement, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	feed, err := s.parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", src.Name, err)
	}

	items := make([]models.Announcement, 0, len(feed.Items))
	for _, item := range feed.Items {
		a := models.Announcement{
			Source:  src.Name,
			Title:   item.Title,
			Link:    item.Link,
			Summary: item.Description,
		}
		if item.PublishedParsed != nil {
			a.Published = *item.PublishedParsed
		}
		items = append(items, a)
	}
	return items, nil
}
