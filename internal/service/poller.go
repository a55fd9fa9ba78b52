package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"heating_monitor/internal/fetcher"
	"heating_monitor/internal/logger"
	"heating_monitor/internal/metrics"
	"heating_monitor/internal/models"
	"heating_monitor/internal/repository"

	"golang.org/x/sync/errgroup"
)

// PollError reports a failed poll cycle. Err is the first fetch failure.
type PollError struct {
	Err error
}

func (e *PollError) Error() string { return "poll failed: " + e.Err.Error() }

func (e *PollError) Unwrap() error { return e.Err }

// ConfigSource yields the configuration a cycle runs with.
type ConfigSource interface {
	Current() models.Config
}

// Publisher shares a fresh snapshot with other views.
type Publisher interface {
	Publish(ctx context.Context, s models.Snapshot) error
}

type PollerDeps struct {
	Config    ConfigSource
	Fetcher   fetcher.Fetcher
	Snapshots repository.SnapshotRepo
	History   repository.HistoryRepo
	Logs      repository.LogRepo
	Publisher Publisher // optional
	Metrics   metrics.Collector
	Log       *logger.Logger
	Now       func() time.Time
}

// PollerService runs fetch-and-cache cycles.
type PollerService struct {
	PollerDeps
}

func NewPollerService(d PollerDeps) *PollerService {
	if d.Metrics == nil {
		d.Metrics = metrics.Noop()
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &PollerService{PollerDeps: d}
}

// RunOnce fetches every configured variable. Either all of them land in the
// cache together with one history point, or nothing but an error entry is written.
func (p *PollerService) RunOnce(ctx context.Context) (models.Snapshot, error) {
	cfg := p.Config.Current()
	start := p.Now()
	p.appendLog(ctx, models.LevelInfo, "poll started")

	snap, err := p.fetchAll(ctx, cfg)
	if err != nil {
		perr := &PollError{Err: err}
		p.Log.Warnw("poll_failed", "err", err, "use_mock", cfg.UseMock)
		p.appendLog(ctx, models.LevelError, perr.Error())
		p.Metrics.ObservePoll(metrics.ResultFailure, p.Now().Sub(start))
		return nil, perr
	}

	if err := p.Snapshots.Save(ctx, snap); err != nil {
		p.Log.Errorw("snapshot_save_failed", "err", err)
		p.appendLog(ctx, models.LevelError, "poll failed: "+err.Error())
		p.Metrics.ObservePoll(metrics.ResultFailure, p.Now().Sub(start))
		return nil, fmt.Errorf("save snapshot: %w", err)
	}

	now := p.Now()
	point := models.HistoryPoint{
		TimeLabel:         now.Format("15:04"),
		BoilerTemperature: parseLeadingFloat(snap[models.VarBoilerTemp].FormattedValue),
		RecordedAt:        now,
	}
	if err := p.History.Append(ctx, point); err != nil {
		p.Log.Errorw("history_append_failed", "err", err)
	}
	p.appendLog(ctx, models.LevelSuccess, fmt.Sprintf("snapshot cached (%d variables)", len(snap)))

	if p.Publisher != nil {
		if err := p.Publisher.Publish(ctx, snap); err != nil {
			p.Log.Warnw("snapshot_publish_failed", "err", err)
		}
	}

	for name, r := range snap {
		p.Metrics.SetReading(name, parseLeadingFloat(r.FormattedValue))
	}
	p.Metrics.ObservePoll(metrics.ResultSuccess, p.Now().Sub(start))
	p.Log.Infow("poll_succeeded", "variables", len(snap), "revision", snap.Revision())
	return snap, nil
}

// fetchAll runs one fetch per variable and waits for all of them to settle.
// The cycle is bounded by the poll interval.
func (p *PollerService) fetchAll(ctx context.Context, cfg models.Config) (models.Snapshot, error) {
	if d := cfg.PollInterval(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	var (
		g    errgroup.Group
		mu   sync.Mutex
		snap = make(models.Snapshot, len(cfg.Variables))
	)
	for name, address := range cfg.Variables {
		g.Go(func() error {
			r, err := p.Fetcher.Fetch(ctx, address, cfg)
			if err != nil {
				return err
			}
			mu.Lock()
			snap[name] = r
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

func (p *PollerService) appendLog(ctx context.Context, level models.LogLevel, msg string) {
	if err := p.Logs.Append(ctx, models.LogEntry{Level: level, Message: msg}); err != nil {
		p.Log.Warnw("log_append_failed", "level", level, "err", err)
	}
}

// parseLeadingFloat reads the number at the start of s the way a browser's
// parseFloat does ("65.4°C" -> 65.4, "1e2°C" -> 100). Returns 0 when s does
// not start with a number.
func parseLeadingFloat(s string) float64 {
	s = strings.TrimSpace(s)
	i := 0
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		i++
	}
	digits := 0
	for ; i < len(s) && isDigit(s[i]); i++ {
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for ; i < len(s) && isDigit(s[i]); i++ {
			digits++
		}
	}
	if digits == 0 {
		return 0
	}
	end := i
	// An exponent only counts when at least one digit follows it.
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '-' || s[j] == '+') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			end = j
		}
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return 0
	}
	return v
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
