package hg

import (
	"context"
	"sync"

	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"
	"github.com/panjf2000/ants/v2"

	"github.com/sergeknystautas/hgview/internal/vcs"
)

// DefaultWorkers is the pool size used when none is configured.
const DefaultWorkers = 4

// changedFilesSource is the part of vcs.Repository an Enricher needs.
type changedFilesSource interface {
	ChangedFiles(ctx context.Context, id string) (map[string]vcs.ChangeKind, error)
}

// Enricher fills in the changed files of many commits in parallel.
// Release it when done.
type Enricher struct {
	pool *ants.Pool
	log  logze.Logger
}

// NewEnricher starts a pool of size workers.
func NewEnricher(size int) (*Enricher, error) {
	if size <= 0 {
		size = DefaultWorkers
	}
	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, errm.Wrap(err, "create worker pool", "size", size)
	}
	return &Enricher{
		pool: pool,
		log:  logze.With("component", "enricher"),
	}, nil
}

// AttachChangedFiles queries the changed files of every commit and stores
// them in place. Commit order is preserved. The first error is returned after
// all queries finish.
func (e *Enricher) AttachChangedFiles(ctx context.Context, repo changedFilesSource, commits []vcs.Commit) error {
	errs := make([]error, len(commits))
	var wg sync.WaitGroup
	for i := range commits {
		wg.Add(1)
		err := e.pool.Submit(func() {
			defer wg.Done()
			files, err := repo.ChangedFiles(ctx, commits[i].ID)
			if err != nil {
				errs[i] = err
				return
			}
			commits[i].ChangedFiles = files
		})
		if err != nil {
			wg.Done()
			errs[i] = errm.Wrap(err, "submit task", "id", commits[i].ID)
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			e.log.Warn("cannot attach changed files", "error", err)
			return err
		}
	}
	return nil
}

// Release stops the pool.
func (e *Enricher) Release() {
	e.pool.Release()
}
