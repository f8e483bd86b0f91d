package pipeline

import (
	"context"
	"log/slog"
)

// Worker processes queued jobs one at a time.
type Worker struct {
	proc *Processor
	log  *slog.Logger
}

func NewWorker(proc *Processor, log *slog.Logger) *Worker {
	return &Worker{proc: proc, log: log}
}

// Process runs the pipeline for a job and records its outcome.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	phase := "parsing"
	res, err := w.proc.ProcessFile(ctx, job.Filename, job.FileData(), func(status JobStatus, p string) {
		phase = p
		job.SetStatus(status, p)
	})
	if err != nil {
		log.Error("job failed", "phase", phase, "error", err)
		job.Fail(phase, err)
		return
	}

	for _, w := range res.Warnings {
		job.AddError(w)
	}
	job.Complete(res)
	log.Info("job completed", "pages", res.PageCount, "tier", res.Tier)
}
