package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/gemvault/gemvault-backend/pkg/logger"
)

type fakeLock struct {
	held     map[string]bool
	name     string
	acquired bool
}

func (f *fakeLock) Acquire(context.Context) (bool, error) {
	if f.held[f.name] {
		return false, nil
	}
	f.held[f.name] = true
	f.acquired = true
	return true, nil
}

func (f *fakeLock) Release(context.Context) error {
	if f.acquired {
		delete(f.held, f.name)
		f.acquired = false
	}
	return nil
}

func fakeLocks(held map[string]bool) LockFactory {
	return func(job string) (Lock, error) {
		return &fakeLock{held: held, name: job}, nil
	}
}

type testJob struct {
	name string
	err  error
	runs int
}

func (t *testJob) Name() string { return t.name }

func (t *testJob) Run(context.Context) error {
	t.runs++
	return t.err
}

func TestServiceRunOnceRunsAllJobsEvenOnFailure(t *testing.T) {
	success := &testJob{name: "success"}
	failure := &testJob{name: "fail", err: errors.New("boom")}
	held := map[string]bool{}
	service, err := NewService(ServiceParams{
		Logger:   logger.Nop(),
		Registry: NewRegistry(failure, success),
		Locks:    fakeLocks(held),
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}

	service.RunOnce(context.Background())

	if failure.runs != 1 {
		t.Fatalf("expected failing job to run once, ran %d", failure.runs)
	}
	if success.runs != 1 {
		t.Fatalf("expected success job to run once, ran %d", success.runs)
	}
	if len(held) != 0 {
		t.Fatalf("expected all locks released, still held: %v", held)
	}
}

func TestServiceSkipsJobHeldElsewhere(t *testing.T) {
	busy := &testJob{name: "busy"}
	free := &testJob{name: "free"}
	held := map[string]bool{"busy": true}
	service, err := NewService(ServiceParams{
		Logger:   logger.Nop(),
		Registry: NewRegistry(busy, free),
		Locks:    fakeLocks(held),
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}

	service.RunOnce(context.Background())

	if busy.runs != 0 {
		t.Fatalf("expected locked job to be skipped, ran %d", busy.runs)
	}
	if free.runs != 1 {
		t.Fatalf("expected free job to run once, ran %d", free.runs)
	}
	if !held["busy"] {
		t.Fatalf("foreign lock must stay held")
	}
}

func TestServiceRunStopsOnCancel(t *testing.T) {
	job := &testJob{name: "job"}
	service, err := NewService(ServiceParams{
		Logger:   logger.Nop(),
		Registry: NewRegistry(job),
		Locks:    fakeLocks(map[string]bool{}),
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := service.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if job.runs != 0 {
		t.Fatalf("expected no runs after cancel, got %d", job.runs)
	}
}

func TestNewServiceRequiresLocks(t *testing.T) {
	if _, err := NewService(ServiceParams{Logger: logger.Nop()}); err == nil {
		t.Fatalf("expected error without lock factory")
	}
}
