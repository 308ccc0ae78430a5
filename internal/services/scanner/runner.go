package scanner

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Runner drives the scan on a fixed interval and serializes passes so the
// on-demand HTTP trigger can never overlap the ticker.
type Runner struct {
	Log      *zap.Logger
	UC       *Usecase
	Interval time.Duration

	mu sync.Mutex

	mChecked prometheus.Counter
	mSent    prometheus.Counter
	mErr     prometheus.Counter
	mRunDur  prometheus.Histogram
}

func New(log *zap.Logger, uc *Usecase, interval time.Duration) *Runner {
	return &Runner{
		Log:      log,
		UC:       uc,
		Interval: interval,
		mChecked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "scanner_eligibility_checked_total", Help: "Memberships evaluated by the oracle",
		}),
		mSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "scanner_notifications_sent_total", Help: "Eligibility notifications dispatched",
		}),
		mErr: promauto.NewCounter(prometheus.CounterOpts{
			Name: "scanner_errors_total", Help: "Failed scan passes",
		}),
		mRunDur: promauto.NewHistogram(prometheus.HistogramOpts{
			Name: "scanner_run_duration_seconds", Help: "Scan pass duration",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// RunOnce executes a single scan pass, blocking any concurrent pass.
func (r *Runner) RunOnce(ctx context.Context) (*Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	rep, err := r.UC.Scan(ctx)
	r.mRunDur.Observe(time.Since(start).Seconds())
	if err != nil {
		r.mErr.Inc()
		return nil, err
	}
	r.mChecked.Add(float64(rep.EligibilityChecked))
	r.mSent.Add(float64(rep.NotificationsSent))
	return rep, nil
}

func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	if _, err := r.RunOnce(ctx); err != nil {
		r.Log.Warn("scan pass failed", zap.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := r.RunOnce(ctx); err != nil {
				r.Log.Warn("scan pass failed", zap.Error(err))
			}
		}
	}
}
