// Package batch binds the columns of one array-bind execution. Columns are
// independent, so each is bound on its own goroutine and owns its buffer
// until the batch is handed on.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/multierr"

	"github.com/tuannm99/novabind/internal/bind"
	locking "github.com/tuannm99/novabind/internal/lock"
	"github.com/tuannm99/novabind/internal/metrics"
)

var (
	ErrRowCountMismatch = errors.New("batch: columns disagree on row count")
	ErrDuplicateColumn  = errors.New("batch: column index bound twice")
)

// Job binds one column.
type Job func() (*bind.Column, error)

// Column returns a job that binds values under contract C.
func Column[T any, C bind.Contract[T]](col int, values []T, opts ...bind.Option) Job {
	return func() (*bind.Column, error) {
		return bind.BindColumn[T, C](col, values, opts...)
	}
}

type Options struct {
	// MaxWorkers bounds the goroutines binding columns. Zero means GOMAXPROCS.
	MaxWorkers int
	Recorder   *metrics.Recorder
}

type Batch struct {
	id   uuid.UUID
	opts Options
	jobs []Job
}

func New(opts Options) *Batch {
	return &Batch{id: uuid.New(), opts: opts}
}

func (b *Batch) ID() uuid.UUID { return b.id }
func (b *Batch) Len() int      { return len(b.jobs) }

func (b *Batch) Add(job Job) {
	b.jobs = append(b.jobs, job)
}

// Result is a fully bound batch. Columns keep the order they were added in.
//
// A result may be shared: each extra holder calls Retain and later Release.
// Buffers go back to their allocator on the last Release.
type Result struct {
	ID      uuid.UUID
	Rows    int
	Columns []*bind.Column

	refs *locking.RefCount
}

func (r *Result) Retain() {
	if r.refs == nil {
		r.refs = locking.NewRefCount()
	}
	r.refs.Inc()
}

// Release drops one holder, returning every column buffer to its allocator
// when none remain.
func (r *Result) Release() {
	if r.refs != nil && !r.refs.Dec() {
		return
	}
	for _, c := range r.Columns {
		c.Release()
	}
}

// Bind runs every job. It fails when any column fails, reporting all column
// errors together, and then no column of the batch is returned.
func (b *Batch) Bind(ctx context.Context) (*Result, error) {
	cols := make([]*bind.Column, len(b.jobs))
	errs := make([]error, len(b.jobs))

	p := pool.New().WithMaxGoroutines(b.workers())
	for i, job := range b.jobs {
		p.Go(func() {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			start := time.Now()
			col, err := job()
			if err != nil {
				b.opts.Recorder.ColumnFailed(ctx, err)
				errs[i] = err
				return
			}
			b.opts.Recorder.ColumnBound(ctx, col.Diagnostics(), time.Since(start))
			cols[i] = col
		})
	}
	p.Wait()

	var err error
	for _, e := range errs {
		err = multierr.Append(err, e)
	}
	rows := 0
	if err == nil {
		rows, err = checkColumns(cols)
	}
	if err != nil {
		for _, c := range cols {
			c.Release()
		}
		slog.Warn("batch: bind failed", "id", b.id, "columns", len(cols), "err", err)
		return nil, err
	}

	slog.Debug("batch: bound", "id", b.id, "columns", len(cols), "rows", rows)
	return &Result{ID: b.id, Rows: rows, Columns: cols, refs: locking.NewRefCount()}, nil
}

func (b *Batch) workers() int {
	if b.opts.MaxWorkers > 0 {
		return b.opts.MaxWorkers
	}
	return runtime.GOMAXPROCS(0)
}

// checkColumns verifies that all columns share one iteration count and that
// no column index repeats.
func checkColumns(cols []*bind.Column) (int, error) {
	if len(cols) == 0 {
		return 0, nil
	}
	rows := cols[0].Rows
	seen := make(map[int]struct{}, len(cols))
	for _, c := range cols {
		if c.Rows != rows {
			return 0, fmt.Errorf("%w: column %d has %d rows, column %d has %d",
				ErrRowCountMismatch, c.Index, c.Rows, cols[0].Index, rows)
		}
		if _, dup := seen[c.Index]; dup {
			return 0, fmt.Errorf("%w: %d", ErrDuplicateColumn, c.Index)
		}
		seen[c.Index] = struct{}{}
	}
	return rows, nil
}
