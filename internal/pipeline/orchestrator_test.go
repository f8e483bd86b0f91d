package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgallion1/docpager/internal/config"
)

func waitTerminal(t *testing.T, job *Job) JobSnapshot {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		snap := job.Snapshot()
		if snap.Status.Terminal() {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish", job.ID)
	return JobSnapshot{}
}

func TestOrchestrator_ProcessesJobs(t *testing.T) {
	cfg := config.Config{WorkerCount: 2, MaxQueueSize: 4, JobTTL: time.Hour, WordsPerPage: 500}
	o := NewOrchestrator(cfg, NewProcessor(cfg, nil), testLogger())
	o.Start(context.Background())
	defer o.Stop()

	ok := NewJob("notes.txt", []byte("first\fsecond"))
	bad := NewJob("image.png", []byte("x"))
	for _, j := range []*Job{ok, bad} {
		if err := o.Submit(j); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}

	snap := waitTerminal(t, ok)
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %q (%v)", snap.Status, snap.Errors)
	}
	if snap.Result.PageCount != 2 {
		t.Errorf("expected 2 pages, got %d", snap.Result.PageCount)
	}

	snap = waitTerminal(t, bad)
	if snap.Status != StatusFailed || snap.Phase != "parsing" {
		t.Errorf("expected failure while parsing, got %q/%q", snap.Status, snap.Phase)
	}
	if o.GetJob(ok.ID) != ok {
		t.Error("expected job to be retrievable by id")
	}
}

func TestOrchestrator_QueueFull(t *testing.T) {
	cfg := config.Config{WorkerCount: 1, MaxQueueSize: 1, JobTTL: time.Hour}
	o := NewOrchestrator(cfg, NewProcessor(cfg, nil), testLogger())
	// Workers are not started, so the queue never drains.
	if err := o.Submit(NewJob("a.txt", nil)); err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	second := NewJob("b.txt", nil)
	if err := o.Submit(second); err == nil {
		t.Fatal("expected queue full error")
	}
	if snap := second.Snapshot(); snap.Status != StatusFailed || snap.Phase != "queue_full" {
		t.Errorf("expected queue_full failure, got %q/%q", snap.Status, snap.Phase)
	}
	if o.QueueDepth() != 1 {
		t.Errorf("expected depth 1, got %d", o.QueueDepth())
	}
	o.Stop()
	o.Stop()
}

func TestOrchestrator_SubmitAfterStop(t *testing.T) {
	cfg := config.Config{WorkerCount: 1, MaxQueueSize: 2, JobTTL: time.Hour}
	o := NewOrchestrator(cfg, NewProcessor(cfg, nil), testLogger())
	o.Start(context.Background())
	o.Stop()

	job := NewJob("late.txt", []byte("x"))
	if err := o.Submit(job); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
	if snap := job.Snapshot(); snap.Status != StatusFailed {
		t.Errorf("expected rejected job to be failed, got %q", snap.Status)
	}
}
