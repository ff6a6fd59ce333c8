package main

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/sells-group/lead-radar/internal/catalog"
	"github.com/sells-group/lead-radar/internal/config"
	"github.com/sells-group/lead-radar/internal/feed"
)

// buildSources assembles the configured catalog sources in priority order:
// files first, then URLs, each in list order.
func buildSources(c *config.Config) []catalog.Source {
	var sources []catalog.Source
	for _, path := range c.Catalog.SourceFiles {
		sources = append(sources, feed.NewFileSource(path))
	}

	if len(c.Catalog.SourceURLs) > 0 {
		client := feed.NewClient(feed.ClientOptions{
			UserAgent:  c.Feed.UserAgent,
			Timeout:    time.Duration(c.Feed.TimeoutSecs) * time.Second,
			MaxRetries: c.Feed.MaxRetries,
			RatePerSec: rate.Limit(c.Feed.RatePerSec),
		})
		for _, u := range c.Catalog.SourceURLs {
			sources = append(sources, feed.NewHTTPSource(u, client))
		}
	}
	return sources
}

func newMerger(c *config.Config) *catalog.Merger {
	return catalog.NewMerger(buildSources(c), c.Catalog.TTL())
}
