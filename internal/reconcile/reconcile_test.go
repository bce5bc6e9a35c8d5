package reconcile

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"
)

type widget struct {
	ID   string
	Name string
	Qty  int
}

func widgetOpts(create, update, del func(context.Context, widget) error) Options[widget] {
	return Options[widget]{
		Kind: "widget",
		ID:   func(w widget) string { return w.ID },
		Equal: func(a, b widget) bool {
			return a.Name == b.Name && a.Qty == b.Qty
		},
		Create: create,
		Update: update,
		Delete: del,
	}
}

func TestDiffClassifiesByIdentity(t *testing.T) {
	original := []widget{
		{ID: "a", Name: "mixer", Qty: 1},
		{ID: "b", Name: "speaker", Qty: 2},
		{ID: "c", Name: "cable", Qty: 10},
	}
	current := []widget{
		{Name: "projector", Qty: 1},            // no ID: create
		{ID: "a", Name: "mixer", Qty: 3},       // changed: update
		{ID: "c", Name: "cable", Qty: 10},      // untouched: skip
		// "b" vanished: delete
	}

	plan := Diff(widgetOpts(nil, nil, nil), original, current)

	if len(plan.Creates) != 1 || plan.Creates[0].Name != "projector" {
		t.Fatalf("creates = %+v", plan.Creates)
	}
	if len(plan.Updates) != 1 || plan.Updates[0].ID != "a" {
		t.Fatalf("updates = %+v", plan.Updates)
	}
	if len(plan.Deletes) != 1 || plan.Deletes[0].ID != "b" {
		t.Fatalf("deletes = %+v", plan.Deletes)
	}
}

func TestDiffRemoveAndAddIsNotAnUpdate(t *testing.T) {
	original := []widget{{ID: "a", Name: "mixer", Qty: 1}}
	current := []widget{{Name: "mixer", Qty: 1}} // same content, no ID

	plan := Diff(widgetOpts(nil, nil, nil), original, current)

	if len(plan.Creates) != 1 || len(plan.Deletes) != 1 || len(plan.Updates) != 0 {
		t.Fatalf("expected one create and one delete, got %+v", plan)
	}
}

func TestDiffIdenticalListsIsEmpty(t *testing.T) {
	items := []widget{{ID: "a", Name: "mixer", Qty: 1}, {ID: "b", Name: "speaker", Qty: 2}}
	plan := Diff(widgetOpts(nil, nil, nil), items, items)
	if !plan.Empty() {
		t.Fatalf("expected empty plan, got %+v", plan)
	}
}

func TestDiffSkipsIncompleteNewItems(t *testing.T) {
	opts := widgetOpts(nil, nil, nil)
	opts.Complete = func(w widget) bool { return w.Name != "" }

	current := []widget{
		{Name: "", Qty: 1},          // blank row: skipped
		{Name: "projector", Qty: 1}, // real addition: created
	}
	plan := Diff(opts, nil, current)

	if len(plan.Creates) != 1 || plan.Creates[0].Name != "projector" {
		t.Fatalf("creates = %+v", plan.Creates)
	}
	if len(plan.Updates) != 0 || len(plan.Deletes) != 0 {
		t.Fatalf("expected only the create, got %+v", plan)
	}

	// Completeness only gates new items; an existing id is never skipped.
	opts.Complete = func(widget) bool { return false }
	plan = Diff(opts, []widget{{ID: "a", Name: "mixer", Qty: 1}}, []widget{{ID: "a", Name: "mixer", Qty: 2}})
	if len(plan.Updates) != 1 {
		t.Fatalf("expected update for existing item, got %+v", plan)
	}
}

func TestDiffWithoutEqualUpdatesEverySurvivor(t *testing.T) {
	opts := widgetOpts(nil, nil, nil)
	opts.Equal = nil
	items := []widget{{ID: "a", Name: "mixer", Qty: 1}}
	plan := Diff(opts, items, items)
	if len(plan.Updates) != 1 {
		t.Fatalf("expected unconditional update, got %+v", plan)
	}
}

func TestApplyRunsEveryOperation(t *testing.T) {
	var mu sync.Mutex
	var calls []string
	record := func(op string) func(context.Context, widget) error {
		return func(_ context.Context, w widget) error {
			mu.Lock()
			calls = append(calls, op+":"+w.Name)
			mu.Unlock()
			return nil
		}
	}
	opts := widgetOpts(record("create"), record("update"), record("delete"))
	plan := Plan[widget]{
		Creates: []widget{{Name: "projector"}},
		Updates: []widget{{ID: "a", Name: "mixer"}},
		Deletes: []widget{{ID: "b", Name: "speaker"}},
	}

	result := Apply(context.Background(), opts, plan)

	if err := result.Err(); err != nil {
		t.Fatalf("apply: %v", err)
	}
	sort.Strings(calls)
	want := []string{"create:projector", "delete:speaker", "update:mixer"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v", calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", calls, want)
		}
	}
}

func TestApplyFailureDoesNotCancelSiblings(t *testing.T) {
	var created, deleted int
	var mu sync.Mutex
	opts := widgetOpts(
		func(context.Context, widget) error {
			mu.Lock()
			created++
			mu.Unlock()
			return nil
		},
		func(context.Context, widget) error {
			return errors.New("stock conflict")
		},
		func(context.Context, widget) error {
			// Finish after the update has already failed.
			time.Sleep(20 * time.Millisecond)
			mu.Lock()
			deleted++
			mu.Unlock()
			return nil
		},
	)
	plan := Plan[widget]{
		Creates: []widget{{Name: "projector"}},
		Updates: []widget{{ID: "a", Name: "mixer"}},
		Deletes: []widget{{ID: "b", Name: "speaker"}},
	}

	result := Apply(context.Background(), opts, plan)

	if created != 1 || deleted != 1 {
		t.Fatalf("siblings must run to completion: created=%d deleted=%d", created, deleted)
	}
	failed := result.Failed()
	if len(failed) != 1 || failed[0].Op != OpUpdate {
		t.Fatalf("failed = %+v", failed)
	}
	err := result.Err()
	if err == nil {
		t.Fatal("expected aggregate error")
	}
	if !strings.Contains(err.Error(), "1 of 3") {
		t.Fatalf("aggregate error should count failures, got %q", err)
	}
	if !strings.Contains(err.Error(), "update widget") {
		t.Fatalf("aggregate error should name the operation, got %q", err)
	}
}

func TestApplyConcurrent(t *testing.T) {
	// Each operation blocks until every operation has started; if Apply
	// were sequential this would deadlock past the test timeout.
	const n = 8
	start := make(chan struct{})
	var started sync.WaitGroup
	started.Add(n)
	op := func(context.Context, widget) error {
		started.Done()
		<-start
		return nil
	}
	go func() {
		started.Wait()
		close(start)
	}()

	opts := widgetOpts(op, op, op)
	plan := Plan[widget]{}
	for i := 0; i < n; i++ {
		plan.Creates = append(plan.Creates, widget{Name: "w"})
	}

	done := make(chan *Result[widget], 1)
	go func() { done <- Apply(context.Background(), opts, plan) }()

	select {
	case result := <-done:
		if err := result.Err(); err != nil {
			t.Fatalf("apply: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("apply did not run operations concurrently")
	}
}

func TestRunSkipsEmptyPlan(t *testing.T) {
	fail := func(context.Context, widget) error {
		t.Fatal("no operation expected for identical lists")
		return nil
	}
	items := []widget{{ID: "a", Name: "mixer", Qty: 1}}

	result := Run(context.Background(), widgetOpts(fail, fail, fail), items, items)

	if len(result.Outcomes) != 0 {
		t.Fatalf("outcomes = %+v", result.Outcomes)
	}
	if err := result.Err(); err != nil {
		t.Fatalf("err = %v", err)
	}
}
