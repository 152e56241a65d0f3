// Package recurrence implements the recurring-event lifecycle engine: a
// periodic reconciliation pass that rolls recurring events forward and
// expires one-off events whose date has passed.
package recurrence

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/huddleapp/huddle/internal/apperror"
	"github.com/huddleapp/huddle/internal/model"
	"github.com/huddleapp/huddle/internal/repository"
)

// Engine evaluates every event against the current time.
//
// The engine runs concurrently with request handling and must tolerate
// events being deleted or modified mid-scan: a NotFound on a specific
// event means someone else already handled it, so it is skipped. Failures
// on one event never abort the pass.
type Engine struct {
	events repository.EventRepository
	logger *slog.Logger
}

// NewEngine creates an Engine over the given event repository.
func NewEngine(events repository.EventRepository, logger *slog.Logger) *Engine {
	return &Engine{events: events, logger: logger}
}

// Summary counts what one reconciliation pass did.
type Summary struct {
	Advanced int // events whose date was rolled forward
	Deleted  int // expired one-off events removed
	Skipped  int // events deleted or modified concurrently (NotFound)
	Failed   int // events whose update failed for another reason
}

// Reconcile performs one pass over all events.
//
// Per event, with "due" meaning date < now:
//
//	never       + due → delete
//	every day   + due → date += 24h
//	every week  + due → date += 168h
//	every month + due → calendar month increment, day clamped to the last
//	                    day of the target month (Jan 31 → Feb 29 on a leap
//	                    year, else Feb 28)
//	anything else     → untouched (the write paths reject unknown repeat
//	                    values, but pre-existing documents stay frozen
//	                    rather than being deleted)
//
// Each due event advances by exactly one period per pass. If the trigger
// is delayed by more than a period, events under-advance and catch up one
// step per subsequent pass — the pass never loops an event forward to now.
func (e *Engine) Reconcile(ctx context.Context, now time.Time) Summary {
	var sum Summary

	events, err := e.events.List(ctx)
	if err != nil {
		e.logger.Error("reconcile: listing events failed", slog.String("error", err.Error()))
		sum.Failed++
		return sum
	}

	for i := range events {
		event := &events[i]
		if !event.Date.Before(now) {
			continue // still pending
		}

		switch event.Repeat {
		case model.RepeatNever:
			e.expire(ctx, event, &sum)
		case model.RepeatDaily:
			e.advance(ctx, event, event.Date.Add(24*time.Hour), &sum)
		case model.RepeatWeekly:
			e.advance(ctx, event, event.Date.Add(7*24*time.Hour), &sum)
		case model.RepeatMonthly:
			e.advance(ctx, event, nextMonth(event.Date), &sum)
		default:
			// Unrecognised policy: leave the document alone.
		}
	}

	e.logger.Info("reconciliation pass complete",
		slog.Int("scanned", len(events)),
		slog.Int("advanced", sum.Advanced),
		slog.Int("deleted", sum.Deleted),
		slog.Int("skipped", sum.Skipped),
		slog.Int("failed", sum.Failed),
	)

	return sum
}

func (e *Engine) expire(ctx context.Context, event *model.Event, sum *Summary) {
	if err := e.events.Delete(ctx, event.ID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			sum.Skipped++
			return
		}
		e.logger.Error("reconcile: deleting expired event failed",
			slog.String("eventID", event.ID),
			slog.String("error", err.Error()),
		)
		sum.Failed++
		return
	}

	e.logger.Info("expired event deleted",
		slog.String("eventID", event.ID),
		slog.String("title", event.Title),
	)
	sum.Deleted++
}

func (e *Engine) advance(ctx context.Context, event *model.Event, next time.Time, sum *Summary) {
	if err := e.events.SetDate(ctx, event.ID, next); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			sum.Skipped++
			return
		}
		e.logger.Error("reconcile: advancing event failed",
			slog.String("eventID", event.ID),
			slog.String("error", err.Error()),
		)
		sum.Failed++
		return
	}

	sum.Advanced++
}

// nextMonth returns t moved one calendar month forward, preserving the
// time of day. When the target month is shorter than t's day-of-month,
// the day is clamped to the month's last day; time.AddDate would overflow
// into the following month instead (Jan 31 → Mar 2/3).
func nextMonth(t time.Time) time.Time {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	// Zeroth day of the month after next = last day of the next month.
	last := time.Date(year, month+2, 0, 0, 0, 0, 0, t.Location()).Day()
	if day > last {
		day = last
	}

	return time.Date(year, month+1, day, hour, min, sec, t.Nanosecond(), t.Location())
}
