// Package probe periodically checks warehouse connectivity.
package probe

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"sre-dashboard/internal/domain"
)

// ProbeQuery is the statement used to check connectivity.
const ProbeQuery = "SELECT 1"

// Options tunes a Prober.
type Options struct {
	// Timeout bounds one probe (default 1m).
	Timeout time.Duration
	// Now replaces time.Now.
	Now func() time.Time
}

// Prober runs ProbeQuery on a cron schedule and keeps the latest outcome.
type Prober struct {
	exec     domain.QueryExecutor
	schedule string
	logger   *slog.Logger
	timeout  time.Duration
	now      func() time.Time
	cron     *cron.Cron

	mu   sync.RWMutex
	last *domain.ProbeStatus
}

// NewProber creates a Prober. An empty schedule disables periodic checks;
// Check still works on demand.
func NewProber(exec domain.QueryExecutor, schedule string, logger *slog.Logger, opts ...Options) *Prober {
	p := &Prober{
		exec:     exec,
		schedule: schedule,
		logger:   logger,
		timeout:  time.Minute,
		now:      time.Now,
		cron:     cron.New(),
	}
	if len(opts) > 0 {
		if opts[0].Timeout > 0 {
			p.timeout = opts[0].Timeout
		}
		if opts[0].Now != nil {
			p.now = opts[0].Now
		}
	}
	return p
}

// Start registers the schedule, runs one check in the background and starts
// the scheduler. Checks use ctx as their parent.
func (p *Prober) Start(ctx context.Context) error {
	if p.schedule == "" {
		p.logger.Info("warehouse probe disabled")
		return nil
	}
	if _, err := p.cron.AddFunc(p.schedule, func() { p.Check(ctx) }); err != nil {
		return fmt.Errorf("probe schedule %q: %w", p.schedule, err)
	}
	go p.Check(ctx)
	p.cron.Start()
	p.logger.Info("warehouse probe started", "schedule", p.schedule)
	return nil
}

// Stop stops the scheduler and waits for a running check to finish.
func (p *Prober) Stop() {
	<-p.cron.Stop().Done()
}

// Check runs one probe and records its outcome.
func (p *Prober) Check(ctx context.Context) domain.ProbeStatus {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := p.now()
	_, err := p.exec.ExecuteSQL(ctx, ProbeQuery)
	status := domain.ProbeStatus{
		CheckedAt: start,
		OK:        err == nil,
		Latency:   p.now().Sub(start),
	}
	if err != nil {
		status.Error = err.Error()
		p.logger.Warn("warehouse probe failed", "error", err, "latency", status.Latency)
	} else {
		p.logger.Debug("warehouse probe ok", "latency", status.Latency)
	}

	p.mu.Lock()
	p.last = &status
	p.mu.Unlock()
	return status
}

// Status returns the last recorded probe, false when none has run yet.
func (p *Prober) Status() (domain.ProbeStatus, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.last == nil {
		return domain.ProbeStatus{}, false
	}
	return *p.last, true
}
