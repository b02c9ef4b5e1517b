package fetcher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"morabot/internal/model"
)

// The catalog exposes pages with no dependable last-page indicator.
// Discovery relies on a documented precondition: pages are non-increasing
// in publish date order, so the first album older than the target date
// means all target-date content has been enumerated. splitFileCnt
// (the page count reported inside each page) is the fallback stop, and
// maxWaves bounds the worst case should the ordering assumption break.
const (
	defaultWaveSize = 5
	defaultMaxWaves = 40
)

// Engine discovers the complete, deduplicated set of albums published
// on a target date by fetching catalog pages in concurrent waves.
type Engine struct {
	fetcher  *Fetcher
	log      *slog.Logger
	waveSize int
	maxWaves int
}

// NewEngine creates a discovery engine around the given page fetcher.
func NewEngine(f *Fetcher, log *slog.Logger) *Engine {
	return &Engine{
		fetcher:  f,
		log:      log,
		waveSize: defaultWaveSize,
		maxWaves: defaultMaxWaves,
	}
}

// TargetDateString renders a date the way the catalog formats
// dispStartDate for a release day: midnight of that date.
func TargetDateString(date time.Time) string {
	return date.Format("2006/01/02") + " 00:00:00"
}

// Discover fetches catalog pages until the target date is exhausted and
// returns the deduplicated albums published on that date, in first-seen
// order. Failed pages contribute zero albums; Discover only returns an
// error when ctx is cancelled.
func (e *Engine) Discover(ctx context.Context, region string, targetDate time.Time) ([]model.Album, error) {
	targetStr := TargetDateString(targetDate)
	timestamp := targetDate.UnixMilli()

	var albums []model.Album
	page := 1

	for wave := 0; wave < e.maxWaves; wave++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		results := e.fetchWave(ctx, region, page, timestamp)

		var raw []model.Album
		maxPageCnt := 0
		for _, r := range results {
			if r == nil {
				continue
			}
			raw = append(raw, r.NewReleaseList...)
			if r.SplitFileCnt > maxPageCnt {
				maxPageCnt = r.SplitFileCnt
			}
		}

		sawOlder := false
		for _, a := range raw {
			if a.DispStartDate == targetStr {
				albums = append(albums, a)
			}
			// Date strings are lexicographically ordered by date.
			if a.DispStartDate < targetStr {
				sawOlder = true
			}
		}

		lastPage := page + e.waveSize - 1
		if sawOlder {
			break
		}
		if lastPage >= maxPageCnt {
			// Covers both "no more pages" and "every page failed".
			break
		}
		page += e.waveSize
	}

	return Deduplicate(albums), nil
}

// fetchWave issues one wave of concurrent page fetches starting at
// firstPage and returns the per-page results; failed pages are nil.
func (e *Engine) fetchWave(ctx context.Context, region string, firstPage int, timestamp int64) []*model.PageResult {
	results := make([]*model.PageResult, e.waveSize)

	var wg sync.WaitGroup
	for i := 0; i < e.waveSize; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			page := firstPage + i
			r, err := e.fetcher.FetchPage(ctx, region, page, timestamp)
			if err != nil {
				e.log.Warn("fetch page", "region", region, "page", page, "error", err)
				return
			}
			results[i] = r
		}(i)
	}
	wg.Wait()

	return results
}

// Deduplicate removes repeated albums by identity tuple, preserving
// first-seen order. It is idempotent.
func Deduplicate(albums []model.Album) []model.Album {
	if len(albums) == 0 {
		return nil
	}
	seen := make(map[model.Identity]struct{}, len(albums))
	out := make([]model.Album, 0, len(albums))
	for _, a := range albums {
		id := a.Identity()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, a)
	}
	return out
}
