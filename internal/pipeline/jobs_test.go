package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestContentHashHex_DifferentInputs(t *testing.T) {
	if ContentHashHex([]byte("aaa")) == ContentHashHex([]byte("bbb")) {
		t.Error("expected different hashes for different inputs")
	}
}

func TestNewJob_Queued(t *testing.T) {
	job := NewJob("report.docx", []byte("data"))
	if _, err := uuid.Parse(job.ID); err != nil {
		t.Errorf("expected uuid job id, got %q: %v", job.ID, err)
	}
	if job.Status != StatusQueued {
		t.Errorf("expected status %q, got %q", StatusQueued, job.Status)
	}
	if string(job.FileData()) != "data" {
		t.Errorf("expected file data kept, got %q", job.FileData())
	}
	if NewJob("a.txt", nil).ID == job.ID {
		t.Error("expected distinct job ids")
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := NewJob("a.txt", nil)

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusParsing, "parsing"},
		{StatusRendering, "rendering"},
		{StatusPaginating, "paginating"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
		if tr.status.Terminal() {
			t.Errorf("expected %q to be non-terminal", tr.status)
		}
	}
}

func TestJob_Complete(t *testing.T) {
	job := NewJob("a.txt", []byte("x"))
	job.Complete(&Result{PageCount: 2})

	snap := job.Snapshot()
	if snap.Status != StatusCompleted || !snap.Status.Terminal() {
		t.Errorf("expected completed terminal status, got %q", snap.Status)
	}
	if snap.Result == nil || snap.Result.PageCount != 2 {
		t.Errorf("expected result with 2 pages, got %+v", snap.Result)
	}
	if job.FileData() != nil {
		t.Error("expected upload bytes released on completion")
	}
}

func TestJob_Fail(t *testing.T) {
	job := NewJob("a.txt", []byte("x"))
	job.Fail("parsing", errors.New("bad input"))

	snap := job.Snapshot()
	if snap.Status != StatusFailed {
		t.Errorf("expected status %q, got %q", StatusFailed, snap.Status)
	}
	if snap.Phase != "parsing" {
		t.Errorf("expected phase parsing, got %q", snap.Phase)
	}
	if len(snap.Errors) != 1 || snap.Errors[0] != "bad input" {
		t.Errorf("expected recorded error, got %v", snap.Errors)
	}
	if snap.Result != nil {
		t.Error("expected no result on failure")
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	job := NewJob("a.txt", nil)
	snap := job.Snapshot()
	if snap.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	job.AddError("first")
	if len(snap.Errors) != 0 {
		t.Error("expected snapshot errors to be a copy")
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := NewJob("a.txt", nil)
	store.Put(job)

	if got := store.Get(job.ID); got != job {
		t.Fatalf("expected stored job back, got %v", got)
	}
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 job, got %d", store.Len())
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	done := NewJob("old.txt", nil)
	done.Complete(&Result{})
	store.Put(done)

	running := NewJob("slow.txt", nil)
	running.SetStatus(StatusRendering, "rendering")
	store.Put(running)

	time.Sleep(100 * time.Millisecond)

	fresh := NewJob("new.txt", nil)
	fresh.Complete(&Result{})
	store.Put(fresh)

	store.Cleanup()

	if store.Get(done.ID) != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get(running.ID) == nil {
		t.Error("expected in-flight job to survive cleanup")
	}
	if store.Get(fresh.ID) == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestJobStore_CleanupEmpty(t *testing.T) {
	store := NewJobStore(time.Hour)
	store.Cleanup()
}
