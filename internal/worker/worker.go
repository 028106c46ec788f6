// Package worker runs a conversion off the caller's goroutine and reports
// its progress and outcome as an ordered stream of events.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	urlpdf "github.com/porticus-lab/go-url-pdf"
)

// Runner performs one blocking conversion. [*urlpdf.Converter] satisfies it.
type Runner interface {
	Convert(ctx context.Context, req urlpdf.Request, progress urlpdf.ProgressFunc) (*urlpdf.Result, error)
}

// EventType distinguishes progress updates from the final outcome.
type EventType int

const (
	EventProgress EventType = iota
	EventDone
)

// Event is delivered on [Job.Events] in emission order.
type Event struct {
	JobID string
	Type  EventType

	// Set on EventProgress.
	Percent int
	Stage   urlpdf.Stage

	// Set on EventDone.
	Success bool
	Message string
	Path    string
	Err     error
}

// eventBuffer holds every milestone plus the done event, so the worker
// never blocks on a slow consumer.
const eventBuffer = 8

// Job is a single conversion running on its own goroutine.
type Job struct {
	ID      string
	Request urlpdf.Request

	events chan Event
}

// Start launches a goroutine that runs req through r. The goroutine is not
// reused; it exits after emitting exactly one EventDone.
func Start(ctx context.Context, r Runner, req urlpdf.Request, logger *slog.Logger) *Job {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	j := &Job{
		ID:      uuid.NewString(),
		Request: req,
		events:  make(chan Event, eventBuffer),
	}
	go j.run(ctx, r, logger.With("job", j.ID))
	return j
}

// Events returns the job's event stream. It is closed after EventDone.
func (j *Job) Events() <-chan Event {
	return j.events
}

// Wait drains the event stream and returns the EventDone.
func (j *Job) Wait() Event {
	var last Event
	for ev := range j.events {
		last = ev
	}
	return last
}

func (j *Job) run(ctx context.Context, r Runner, log *slog.Logger) {
	defer close(j.events)

	log.Info("conversion started", "url", j.Request.URL, "output", j.Request.OutputPath)

	last := 0
	progress := func(p urlpdf.Progress) {
		if p.Percent < last {
			log.Debug("dropping regressive progress", "percent", p.Percent, "last", last)
			return
		}
		last = p.Percent
		j.events <- Event{JobID: j.ID, Type: EventProgress, Percent: p.Percent, Stage: p.Stage}
	}

	res, err := j.convert(ctx, r, progress)
	done := Event{JobID: j.ID, Type: EventDone}
	if err != nil {
		log.Error("conversion failed", "kind", urlpdf.KindOf(err), "err", err)
		done.Message = err.Error()
		done.Err = err
	} else {
		log.Info("conversion finished", "path", res.Path(), "bytes", res.Len())
		done.Success = true
		done.Path = res.Path()
		done.Message = fmt.Sprintf("PDF saved to %s", res.Path())
	}
	j.events <- done
}

// convert calls r, turning a panic into an error so the job still ends
// with a single EventDone.
func (j *Job) convert(ctx context.Context, r Runner, progress urlpdf.ProgressFunc) (res *urlpdf.Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			res, err = nil, fmt.Errorf("worker: conversion panicked: %v", p)
		}
	}()
	res, err = r.Convert(ctx, j.Request, progress)
	if err == nil && res == nil {
		err = fmt.Errorf("worker: conversion returned no result")
	}
	return res, err
}
