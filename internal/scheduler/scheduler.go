// Package scheduler runs the daily new-release push.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sethvargo/go-retry"

	"morabot/internal/model"
	"morabot/internal/storage"
)

// Discoverer produces the deduplicated album list for a target date.
type Discoverer interface {
	Discover(ctx context.Context, region string, targetDate time.Time) ([]model.Album, error)
}

// Deliverer runs the per-scene delivery pipeline: blacklist filter,
// watch grouping, rendering, and sending.
type Deliverer interface {
	DeliverReleases(ctx context.Context, scene model.Scene, albums []model.Album, targetDate time.Time) error
}

// Reachability reports whether the bot can currently address a scene.
type Reachability interface {
	IsReachable(ctx context.Context, key model.SceneKey) bool
}

// RetryPolicy bounds the discovery retry loop of a scheduled run.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// DefaultRetryPolicy matches the push pipeline's historical behavior:
// up to 15 attempts, 20 seconds apart.
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 15, Backoff: 20 * time.Second}

var errEmptyDiscovery = errors.New("discovery returned no albums")

// Scheduler triggers the push run once daily at a fixed wall-clock
// time in a fixed timezone.
type Scheduler struct {
	prefs   *storage.Prefs
	engine  Discoverer
	deliver Deliverer
	reach   Reachability
	log     *slog.Logger
	loc     *time.Location
	spec    string
	region  string
	policy  RetryPolicy
}

// New creates a Scheduler. spec is a cron expression evaluated in loc.
func New(prefs *storage.Prefs, engine Discoverer, deliver Deliverer, reach Reachability, log *slog.Logger, loc *time.Location, spec, region string) *Scheduler {
	return &Scheduler{
		prefs:   prefs,
		engine:  engine,
		deliver: deliver,
		reach:   reach,
		log:     log,
		loc:     loc,
		spec:    spec,
		region:  region,
		policy:  DefaultRetryPolicy,
	}
}

// SetRetryPolicy overrides the default discovery retry policy.
func (s *Scheduler) SetRetryPolicy(p RetryPolicy) {
	s.policy = p
}

// Run installs the daily cron trigger and blocks until ctx is
// cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	c := cron.New(cron.WithLocation(s.loc))
	if _, err := c.AddFunc(s.spec, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("add cron job: %w", err)
	}
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

// RunOnce executes one scheduled push run: discover today's albums
// with bounded retry, then fan delivery out to every opted-in,
// reachable scene. Individual delivery failures are logged and never
// abort sibling deliveries or the run.
func (s *Scheduler) RunOnce(ctx context.Context) {
	today := midnight(time.Now().In(s.loc))
	s.log.Info("daily push run started", "date", today.Format("2006/01/02"), "region", s.region)

	albums, err := s.discoverWithRetry(ctx, today)
	if err != nil {
		// Retry budget exhausted. A genuinely empty release day is
		// indistinguishable from persistent fetch failure here, so the
		// per-attempt diagnostics logged above are the only signal.
		s.log.Error("daily push abandoned", "attempts", s.policy.MaxAttempts, "error", err)
		return
	}

	recipients, err := s.recipients(ctx)
	if err != nil {
		s.log.Error("resolve push recipients", "error", err)
		return
	}
	if len(recipients) == 0 {
		s.log.Info("no push recipients", "date", today.Format("2006/01/02"))
		return
	}

	var wg sync.WaitGroup
	for _, scene := range recipients {
		wg.Add(1)
		go func(scene model.Scene) {
			defer wg.Done()
			if err := s.deliver.DeliverReleases(ctx, scene, albums, today); err != nil {
				s.log.Error("push delivery failed",
					"scene_id", scene.ID, "scene_type", scene.Type, "error", err)
			}
		}(scene)
	}
	wg.Wait()

	s.log.Info("daily push run finished", "recipients", len(recipients), "albums", len(albums))
}

// discoverWithRetry re-invokes discovery until it yields a non-empty
// result or the attempt budget is exhausted.
func (s *Scheduler) discoverWithRetry(ctx context.Context, targetDate time.Time) ([]model.Album, error) {
	var albums []model.Album
	attempt := 0

	backoff := retry.WithMaxRetries(uint64(s.policy.MaxAttempts-1), retry.NewConstant(s.policy.Backoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		found, err := s.engine.Discover(ctx, s.region, targetDate)
		if err != nil {
			s.log.Warn("discovery attempt failed", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		if len(found) == 0 {
			s.log.Warn("discovery attempt returned no albums", "attempt", attempt)
			return retry.RetryableError(errEmptyDiscovery)
		}
		albums = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return albums, nil
}

// recipients intersects the opted-in scenes with the scenes the bot
// can currently reach; unreachable scenes are skipped silently.
func (s *Scheduler) recipients(ctx context.Context) ([]model.Scene, error) {
	scenes, err := s.prefs.AutoPushScenes(ctx)
	if err != nil {
		return nil, err
	}
	var out []model.Scene
	for _, scene := range scenes {
		if s.reach.IsReachable(ctx, scene.SceneKey) {
			out = append(out, scene)
		}
	}
	return out, nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
