package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/repo-sweeper/internal/domain"
)

// maxWorkers caps in-flight delete calls regardless of configuration.
const maxWorkers = 5

// RepositoryDeleter is the slice of the gateway the executor needs.
type RepositoryDeleter interface {
	DeleteRepository(ctx context.Context, owner, name string) error
}

// Executor deletes a confirmed selection one repository at a time, or with
// bounded concurrency, recording exactly one outcome per identifier. A
// failure for one repository never aborts the rest of the batch, and the
// executor adds no retries of its own beyond what the gateway performs
// per call.
type Executor struct {
	deleter RepositoryDeleter
	logger  *zap.Logger
	workers int

	// Injected for deterministic tests.
	sleep func(time.Duration)
	now   func() time.Time

	mu         sync.Mutex
	pauseUntil time.Time
}

// NewExecutor creates an executor. Workers outside [1, maxWorkers] are
// clamped; 1 gives the sequential baseline.
func NewExecutor(deleter RepositoryDeleter, logger *zap.Logger, workers int) *Executor {
	if workers < 1 {
		workers = 1
	}
	if workers > maxWorkers {
		workers = maxWorkers
	}
	return &Executor{
		deleter: deleter,
		logger:  logger,
		workers: workers,
		sleep:   time.Sleep,
		now:     time.Now,
	}
}

// Execute attempts every identifier in the selection and returns one
// DeletionOutcome per identifier, ordered by the catalog's order. Ids are
// attempted in that same order. Once the context is cancelled no new
// deletes are dispatched; calls already in flight run to completion and
// the remainder is reported as skipped.
func (e *Executor) Execute(ctx context.Context, catalog *Catalog, selection []string) []domain.DeletionOutcome {
	ordered := orderBySnapshot(catalog, selection)
	outcomes := make([]domain.DeletionOutcome, len(ordered))

	var eg errgroup.Group
	eg.SetLimit(e.workers)

	for i, id := range ordered {
		repo, inCatalog := catalog.Get(id)
		if !inCatalog {
			// Confirmed selections can't reference ids outside the
			// catalog; anything that does is reported, not deleted.
			outcomes[i] = domain.DeletionOutcome{ID: id, Status: domain.StatusSkipped}
			continue
		}
		if ctx.Err() != nil {
			outcomes[i] = domain.DeletionOutcome{ID: id, Status: domain.StatusSkipped}
			continue
		}

		eg.Go(func() error {
			if ctx.Err() != nil {
				outcomes[i] = domain.DeletionOutcome{ID: id, Status: domain.StatusSkipped}
				return nil
			}
			e.awaitRateLimit(ctx)
			err := e.deleter.DeleteRepository(ctx, repo.Owner, repo.Name)
			if err != nil {
				var rle *domain.RateLimitError
				if errors.As(err, &rle) {
					e.pauseDispatchUntil(rle.Reset)
				}
				e.logger.Warn("failed to delete repository",
					zap.String("repository", id), zap.Error(err))
				outcomes[i] = domain.DeletionOutcome{ID: id, Status: domain.StatusFailed, Err: err}
				return nil
			}
			e.logger.Info("deleted repository", zap.String("repository", id))
			outcomes[i] = domain.DeletionOutcome{ID: id, Status: domain.StatusDeleted}
			return nil
		})
	}

	_ = eg.Wait()
	return outcomes
}

// orderBySnapshot arranges the selection in catalog order, appending any
// identifier the catalog doesn't know at the end so it still gets an
// outcome.
func orderBySnapshot(catalog *Catalog, selection []string) []string {
	selected := make(map[string]struct{}, len(selection))
	for _, id := range selection {
		selected[id] = struct{}{}
	}
	ordered := make([]string, 0, len(selection))
	for _, id := range catalog.IDs() {
		if _, ok := selected[id]; ok {
			ordered = append(ordered, id)
			delete(selected, id)
		}
	}
	for _, id := range selection {
		if _, ok := selected[id]; ok {
			ordered = append(ordered, id)
			delete(selected, id)
		}
	}
	return ordered
}

// pauseDispatchUntil extends the shared rate-limit gate: no new delete is
// dispatched before the given reset time.
func (e *Executor) pauseDispatchUntil(reset time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if reset.After(e.pauseUntil) {
		e.pauseUntil = reset
	}
}

func (e *Executor) awaitRateLimit(ctx context.Context) {
	for {
		e.mu.Lock()
		wait := e.pauseUntil.Sub(e.now())
		e.mu.Unlock()
		if wait <= 0 || ctx.Err() != nil {
			return
		}
		e.logger.Warn("rate limited, pausing further deletions", zap.Duration("wait", wait))
		e.sleep(wait)
	}
}
