// Package batch verifies many addresses with a bounded pool of workers and
// tallies the verdicts.
package batch

import (
	"context"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/synqronlabs/mailcheck"
)

// DefaultWorkers bounds concurrent verifications when Config.Workers is zero.
const DefaultWorkers = 16

// Verifier verifies one address. *mailcheck.Verifier implements it.
type Verifier interface {
	VerifyEmail(ctx context.Context, addr string) mailcheck.AddressVerdict
}

// Config contains configuration for a Runner.
type Config struct {
	// Workers is the maximum number of concurrent verifications.
	Workers int

	// Logger receives run start and finish events. Default: slog.Default().
	Logger *slog.Logger
}

// Summary counts verdicts per category. Risky counts role addresses.
type Summary struct {
	Total      int `json:"total"`
	Valid      int `json:"valid"`
	Invalid    int `json:"invalid"`
	Risky      int `json:"risky"`
	Disposable int `json:"disposable"`
}

// Report is the outcome of a run. Results are in input order.
type Report struct {
	ID         string                     `json:"id"`
	StartedAt  time.Time                  `json:"started_at"`
	FinishedAt time.Time                  `json:"finished_at"`
	Summary    Summary                    `json:"summary"`
	Results    []mailcheck.AddressVerdict `json:"results"`
}

// Runner fans the per-address pipeline out over a list of addresses.
type Runner struct {
	verifier Verifier
	workers  int
	logger   *slog.Logger
}

// NewRunner creates a Runner.
func NewRunner(v Verifier, config Config) *Runner {
	if config.Workers <= 0 {
		config.Workers = DefaultWorkers
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Runner{verifier: v, workers: config.Workers, logger: config.Logger}
}

// Run verifies addrs and returns the report.
//
// When ctx is cancelled no new verification starts. Verifications already
// running finish on a context detached from the cancellation, and the
// report holds every completed verdict in input order, along with ctx's
// error.
func (r *Runner) Run(ctx context.Context, addrs []string) (Report, error) {
	report := Report{
		ID:        ulid.Make().String(),
		StartedAt: time.Now().UTC(),
	}
	logger := r.logger.With(slog.String("run_id", report.ID))
	logger.Info("batch started",
		slog.Int("addresses", len(addrs)),
		slog.Int("workers", r.workers),
	)

	verifyCtx := context.WithoutCancel(ctx)
	slots := make([]*mailcheck.AddressVerdict, len(addrs))

	var g errgroup.Group
	g.SetLimit(r.workers)
	for i, addr := range addrs {
		if ctx.Err() != nil {
			break
		}
		i, addr := i, addr
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			verdict := r.verifier.VerifyEmail(verifyCtx, addr)
			slots[i] = &verdict
			return nil
		})
	}
	_ = g.Wait()

	report.Results = make([]mailcheck.AddressVerdict, 0, len(addrs))
	for _, v := range slots {
		if v != nil {
			report.Results = append(report.Results, *v)
		}
	}
	report.Summary = Summarize(report.Results)
	report.FinishedAt = time.Now().UTC()

	err := ctx.Err()
	if err != nil {
		logger.Warn("batch cancelled",
			slog.Int("completed", len(report.Results)),
			slog.Int("addresses", len(addrs)),
			slog.Any("error", err),
		)
	}
	logger.Info("batch finished",
		slog.Int("total", report.Summary.Total),
		slog.Int("valid", report.Summary.Valid),
		slog.Int("invalid", report.Summary.Invalid),
		slog.Int("risky", report.Summary.Risky),
		slog.Int("disposable", report.Summary.Disposable),
		slog.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)),
	)
	return report, err
}

// Summarize tallies verdicts by status.
func Summarize(results []mailcheck.AddressVerdict) Summary {
	s := Summary{Total: len(results)}
	for _, v := range results {
		switch v.Status {
		case mailcheck.StatusValid:
			s.Valid++
		case mailcheck.StatusInvalid:
			s.Invalid++
		case mailcheck.StatusRole:
			s.Risky++
		case mailcheck.StatusDisposable:
			s.Disposable++
		}
	}
	return s
}
