// Package engine orchestrates a bootstrap estimation run: resampling,
// parallel estimator fan-out, failure accounting, optional
// persistence, and interval computation over the collected results.
package engine

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"bootci/dataset"
	"bootci/estimator"
	"bootci/interval"
	"bootci/resample"
	"bootci/storage"
)

type Runner struct {
	cfg Config
}

func New(cfg Config) *Runner {
	return &Runner{cfg: cfg.withDefaults()}
}

// Run is the outcome of one bootstrap estimation: every surviving
// ReplicateResult in replicate order, plus the failure ledger.
type Run struct {
	ID      uuid.UUID
	Alpha   float64
	Results []*estimator.ReplicateResult
	// Dropped counts bootstrap replicates discarded under a lenient
	// MaxFailFraction; FailedReplicates names them.
	Dropped          int
	FailedReplicates []int64

	source  *dataset.Dataset
	fn      estimator.Func
	workers int
}

// Run resamples d, evaluates fn on every replicate concurrently, and
// collects the results keyed by replicate ID. Replicate compositions
// are fixed before any fit starts, so the worker count never changes
// what is estimated. On abort no partial results are returned.
func (r *Runner) Run(ctx context.Context, d *dataset.Dataset, fn estimator.Func) (*Run, error) {
	cfg := r.cfg

	replicates, err := resample.Resample(d, cfg.Times, resample.Config{
		Seed:            cfg.Seed,
		IncludeApparent: cfg.IncludeApparent,
	})
	if err != nil {
		return nil, err
	}

	log := cfg.Logger
	log.Info("bootstrap run starting",
		zap.String("run_id", cfg.RunID.String()),
		zap.Int("times", cfg.Times),
		zap.Int64("seed", cfg.Seed),
		zap.Int("rows", d.Len()),
		zap.Int("workers", cfg.Workers))

	results := make([]*estimator.ReplicateResult, len(replicates))
	maxFailures := int(cfg.MaxFailFraction * float64(cfg.Times))

	var mu sync.Mutex
	var failed []int64

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(cfg.Workers)
	for i, rep := range replicates {
		i, rep := i, rep
		eg.Go(func() error {
			res, err := estimator.Apply(ctx, fn, rep)
			if err != nil {
				// The apparent fit is the point-estimate anchor;
				// losing it invalidates the run outright.
				if rep.Apparent {
					return err
				}
				mu.Lock()
				failed = append(failed, rep.ID)
				over := len(failed) > maxFailures
				mu.Unlock()
				if over {
					return err
				}
				log.Warn("replicate dropped",
					zap.String("run_id", cfg.RunID.String()),
					zap.Int64("replicate_id", rep.ID),
					zap.Error(err))
				return nil
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	kept := make([]*estimator.ReplicateResult, 0, len(results))
	for _, res := range results {
		if res != nil {
			kept = append(kept, res)
		}
	}
	sort.Slice(failed, func(i, j int) bool { return failed[i] < failed[j] })

	if cfg.Store != nil {
		if err := persist(cfg, d, kept); err != nil {
			return nil, err
		}
	}

	log.Info("bootstrap run complete",
		zap.String("run_id", cfg.RunID.String()),
		zap.Int("kept", len(kept)),
		zap.Int("dropped", len(failed)))

	return &Run{
		ID:               cfg.RunID,
		Alpha:            cfg.Alpha,
		Results:          kept,
		Dropped:          len(failed),
		FailedReplicates: failed,
		source:           d,
		fn:               fn,
		workers:          cfg.Workers,
	}, nil
}

func persist(cfg Config, d *dataset.Dataset, results []*estimator.ReplicateResult) error {
	meta := &storage.RunMeta{
		Seed:            cfg.Seed,
		Times:           int64(cfg.Times),
		Alpha:           cfg.Alpha,
		IncludeApparent: cfg.IncludeApparent,
		Rows:            int64(d.Len()),
		Label:           cfg.Label,
	}
	if err := cfg.Store.PutMeta(cfg.RunID, meta); err != nil {
		return err
	}
	for _, res := range results {
		if err := cfg.Store.PutResult(cfg.RunID, res); err != nil {
			return err
		}
	}
	return nil
}

func (run *Run) Percentile() ([]interval.Interval, error) {
	return interval.Percentile(run.Results, run.Alpha)
}

func (run *Run) StudentT() ([]interval.Interval, error) {
	return interval.StudentT(run.Results, run.Alpha)
}

// BCa re-invokes the estimator once per original data row for the
// jackknife, so it needs the dataset and estimator the run was built
// with. Runs loaded from storage cannot provide them.
func (run *Run) BCa(ctx context.Context) ([]interval.Interval, error) {
	if run.source == nil || run.fn == nil {
		return nil, errors.New("engine: run has no dataset; bca needs the original data and estimator")
	}
	return interval.BCa(ctx, run.source, run.Results, run.fn, run.Alpha,
		interval.BCaOptions{Workers: run.workers})
}

// LoadRun rebuilds a Run from storage so percentile and studentized
// intervals can be recomputed without re-fitting anything.
func LoadRun(store *storage.ResultStore, runID uuid.UUID) (*Run, error) {
	meta, err := store.GetMeta(runID)
	if err != nil {
		return nil, err
	}
	results, err := store.ListResults(runID)
	if err != nil {
		return nil, err
	}
	return &Run{
		ID:      runID,
		Alpha:   meta.Alpha,
		Results: results,
	}, nil
}
