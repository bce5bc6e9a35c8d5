// Package reconcile turns "the list the user started from" and "the list
// the user saved" into the minimal set of create, update, and delete calls
// against the server, and applies them concurrently.
package reconcile

import (
	"context"
	"fmt"
	"sync"

	"github.com/avrentops/rentalctl/internal/observability"
)

// Options describes how to reconcile a child collection of type T.
type Options[T any] struct {
	// Kind names the collection in logs, metrics, and error messages,
	// e.g. "equipment" or "technician".
	Kind string

	// ID extracts the server-assigned identifier. Empty means the item
	// was added locally and does not exist remotely yet.
	ID func(T) string

	// Complete reports whether a locally added item carries everything a
	// create needs, typically its foreign key. Id-less items failing the
	// predicate are blank editor rows and are skipped, not created. Nil
	// means every id-less item is created.
	Complete func(T) bool

	// Equal reports whether an item's remote-relevant fields are
	// unchanged, letting the plan skip no-op updates. Nil means every
	// surviving item is updated.
	Equal func(original, current T) bool

	Create func(ctx context.Context, item T) error
	Update func(ctx context.Context, item T) error
	Delete func(ctx context.Context, item T) error
}

type OpKind string

const (
	OpCreate OpKind = "create"
	OpUpdate OpKind = "update"
	OpDelete OpKind = "delete"
)

// Plan is the computed difference between the original and current lists.
type Plan[T any] struct {
	Creates []T
	Updates []T
	Deletes []T
}

func (p Plan[T]) Empty() bool {
	return len(p.Creates) == 0 && len(p.Updates) == 0 && len(p.Deletes) == 0
}

func (p Plan[T]) Len() int {
	return len(p.Creates) + len(p.Updates) + len(p.Deletes)
}

// Outcome records one applied operation, failed or not.
type Outcome[T any] struct {
	Op   OpKind
	Item T
	Err  error
}

// Result collects every operation's outcome. Operations run concurrently
// and independently, so some may succeed while siblings fail; Err() rolls
// the failures into one error for callers that only need pass/fail.
type Result[T any] struct {
	Outcomes []Outcome[T]
}

func (r *Result[T]) Failed() []Outcome[T] {
	var failed []Outcome[T]
	for _, o := range r.Outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

func (r *Result[T]) Err() error {
	failed := r.Failed()
	if len(failed) == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d operations failed: %w", len(failed), len(r.Outcomes), failed[0].Err)
}

// Diff computes the plan by identity:
//
//   - current items without an ID are creates, unless Complete rejects
//     them
//   - current items whose ID is also in original are updates (unless
//     Equal says nothing changed)
//   - original items whose ID vanished from current are deletes
//
// Items are never matched positionally. An item removed and a similar one
// added produce a delete and a create, not an update.
func Diff[T any](opts Options[T], original, current []T) Plan[T] {
	var plan Plan[T]

	currentIDs := make(map[string]bool, len(current))
	originalByID := make(map[string]T, len(original))
	for _, item := range original {
		if id := opts.ID(item); id != "" {
			originalByID[id] = item
		}
	}

	for _, item := range current {
		id := opts.ID(item)
		if id == "" {
			if opts.Complete == nil || opts.Complete(item) {
				plan.Creates = append(plan.Creates, item)
			}
			continue
		}
		currentIDs[id] = true
		if before, ok := originalByID[id]; ok {
			if opts.Equal != nil && opts.Equal(before, item) {
				continue
			}
			plan.Updates = append(plan.Updates, item)
		} else {
			// An ID we never saw in the original list still exists
			// remotely as far as the caller told us; update it.
			plan.Updates = append(plan.Updates, item)
		}
	}

	for _, item := range original {
		id := opts.ID(item)
		if id != "" && !currentIDs[id] {
			plan.Deletes = append(plan.Deletes, item)
		}
	}

	return plan
}

// Apply runs every planned operation concurrently. A failing operation
// never cancels its siblings: each outcome is recorded and the aggregate
// is reported through the Result. The context is shared, so cancelling it
// stops everything.
func Apply[T any](ctx context.Context, opts Options[T], plan Plan[T]) *Result[T] {
	result := &Result[T]{Outcomes: make([]Outcome[T], 0, plan.Len())}

	type job struct {
		op   OpKind
		item T
		fn   func(context.Context, T) error
	}
	jobs := make([]job, 0, plan.Len())
	for _, item := range plan.Creates {
		jobs = append(jobs, job{OpCreate, item, opts.Create})
	}
	for _, item := range plan.Updates {
		jobs = append(jobs, job{OpUpdate, item, opts.Update})
	}
	for _, item := range plan.Deletes {
		jobs = append(jobs, job{OpDelete, item, opts.Delete})
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, j := range jobs {
		wg.Add(1)
		go func(j job) {
			defer wg.Done()
			err := j.fn(ctx, j.item)
			status := "success"
			if err != nil {
				status = "failure"
				err = fmt.Errorf("%s %s: %w", j.op, opts.Kind, err)
			}
			observability.RecordReconcileOperation(opts.Kind, string(j.op), status)
			mu.Lock()
			result.Outcomes = append(result.Outcomes, Outcome[T]{Op: j.op, Item: j.item, Err: err})
			mu.Unlock()
		}(j)
	}
	wg.Wait()

	return result
}

// Run is Diff followed by Apply.
func Run[T any](ctx context.Context, opts Options[T], original, current []T) *Result[T] {
	return Apply(ctx, opts, Diff(opts, original, current))
}
