// Package daemon keeps the gateway current: it rebuilds on filesystem changes
// and on a schedule, serves the target directory over HTTP, and optionally
// publishes build events.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mahmood726-cyber/Metasprint/internal/build"
	"github.com/mahmood726-cyber/Metasprint/internal/config"
	"github.com/mahmood726-cyber/Metasprint/internal/logfields"
	"github.com/mahmood726-cyber/Metasprint/internal/metrics"
)

// Daemon is the long-running mode of the gateway builder.
type Daemon struct {
	cfg            *config.Config
	builder        *build.Builder
	watcher        *Watcher
	scheduler      *Scheduler
	notifier       *Notifier
	metricsHandler http.Handler

	startTime  time.Time
	buildCount atomic.Int64

	mu         sync.RWMutex
	lastReport *build.Report

	kick chan string // merged rebuild triggers (watcher, scheduler)
}

// New assembles a daemon around an existing builder. The daemon owns the
// metrics registry and attaches its recorder to the builder.
func New(cfg *config.Config, builder *build.Builder) (*Daemon, error) {
	registry := prom.NewRegistry()
	builder.SetRecorder(metrics.NewPrometheusRecorder(registry))

	d := &Daemon{
		cfg:            cfg,
		builder:        builder,
		metricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{EnableOpenMetrics: true}),
		kick:           make(chan string, 1),
	}

	if cfg.Daemon.WatchEnabled() {
		w, err := NewWatcher(cfg.Scan.Directory, cfg.Scan.Output)
		if err != nil {
			return nil, err
		}
		d.watcher = w
	}

	if cfg.Daemon.RebuildIntervalDuration() > 0 {
		s, err := NewScheduler()
		if err != nil {
			if d.watcher != nil {
				_ = d.watcher.Close()
			}
			return nil, err
		}
		d.scheduler = s
	}

	if cfg.Notify.Enabled {
		n, err := NewNotifier(cfg.Notify)
		if err != nil {
			if d.watcher != nil {
				_ = d.watcher.Close()
			}
			if d.scheduler != nil {
				_ = d.scheduler.Stop()
			}
			return nil, fmt.Errorf("initialize notifier: %w", err)
		}
		d.notifier = n
	}

	return d, nil
}

// Run starts all daemon components and blocks until ctx is canceled.
func (d *Daemon) Run(ctx context.Context) error {
	d.startTime = time.Now()
	slog.Info("Daemon starting",
		logfields.Path(d.cfg.Scan.Directory),
		logfields.Addr(d.cfg.Daemon.Addr),
		slog.Bool("watch", d.watcher != nil),
		slog.Bool("scheduled", d.scheduler != nil))

	// Initial build. A failure here is logged, not fatal: the daemon stays up
	// so the next change or tick can succeed once the cause is fixed.
	d.rebuild(ctx, "startup")

	if d.watcher != nil {
		d.watcher.Start(ctx)
		defer func() {
			if err := d.watcher.Close(); err != nil {
				slog.Warn("Failed to close watcher", logfields.Error(err))
			}
		}()
	}

	if d.scheduler != nil {
		interval := d.cfg.Daemon.RebuildIntervalDuration()
		jobID, err := d.scheduler.SchedulePeriodicRebuild(interval, func() { d.trigger("schedule") })
		if err != nil {
			return err
		}
		slog.Info("Periodic rebuild scheduled", slog.String("job_id", jobID), slog.Duration("interval", interval))
		d.scheduler.Start()
		defer func() {
			if err := d.scheduler.Stop(); err != nil {
				slog.Warn("Failed to stop scheduler", logfields.Error(err))
			}
		}()
	}

	if d.notifier != nil {
		defer d.notifier.Close()
	}

	srv := d.newHTTPServer(d.cfg.Daemon.Addr)
	go d.serveHTTP(srv)
	defer shutdownHTTP(context.Background(), srv)

	d.loop(ctx)

	slog.Info("Daemon stopped")
	return nil
}

// trigger requests a rebuild; it never blocks.
func (d *Daemon) trigger(reason string) {
	select {
	case d.kick <- reason:
	default: // a rebuild is already pending
	}
}

// loop debounces triggers and runs rebuilds until ctx is done.
func (d *Daemon) loop(ctx context.Context) {
	debounce := d.cfg.Daemon.DebounceDuration()
	var timer *time.Timer
	var pending string
	var fire <-chan time.Time

	arm := func(reason string) {
		pending = reason
		if timer == nil {
			timer = time.NewTimer(debounce)
			fire = timer.C
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(debounce)
	}

	var watchEvents <-chan string
	if d.watcher != nil {
		watchEvents = d.watcher.Trigger()
	}

	for {
		select {
		case <-ctx.Done():
			return
		case name := <-watchEvents:
			arm("change:" + name)
		case reason := <-d.kick:
			arm(reason)
		case <-fire:
			fire = nil
			timer = nil
			d.rebuild(ctx, pending)
		}
	}
}

func (d *Daemon) rebuild(ctx context.Context, reason string) {
	slog.Info("Rebuilding gateway", slog.String("reason", reason))
	report, err := d.builder.Run(ctx)
	if err != nil {
		slog.Error("Rebuild failed", slog.String("reason", reason), logfields.Error(err))
		return
	}

	d.buildCount.Add(1)
	d.mu.Lock()
	d.lastReport = report
	d.mu.Unlock()

	if d.notifier != nil {
		d.notifier.Publish(report)
	}
}
