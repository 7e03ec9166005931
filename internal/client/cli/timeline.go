package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/weddingkeeper/internal/common"
	"github.com/dmitrijs2005/weddingkeeper/internal/models"
)

func (a *App) ListTimeline(ctx context.Context, _ []string) error {
	events := a.timeline.List(ctx)
	if len(events) == 0 {
		a.println("No events")
		return nil
	}

	tw := newTable(a.out)
	fmt.Fprintln(tw, "#\tID\tTIME\tTITLE\tDESCRIPTION")
	for i, e := range events {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, e.ID, e.Time, e.Title, e.Description)
	}
	return tw.Flush()
}

func (a *App) AddEvent(ctx context.Context, _ []string) error {
	title, err := a.prompt("Title")
	if err != nil {
		return err
	}
	at, err := a.prompt("Time (e.g. 4:00 PM)")
	if err != nil {
		return err
	}
	description, err := a.prompt("Description (optional)")
	if err != nil {
		return err
	}

	e, err := a.timeline.Add(ctx, models.NewTimelineEvent{Title: title, Time: at, Description: description})
	if err != nil {
		return err
	}
	a.printf("Event %s added\n", e.ID)
	a.offlineNotice()
	return nil
}

func (a *App) EditEvent(ctx context.Context, args []string) error {
	id, err := a.argOrPrompt(args, "Event id")
	if err != nil {
		return err
	}

	var (
		e     models.TimelineEvent
		found bool
	)
	for _, candidate := range a.timeline.List(ctx) {
		if candidate.ID == id {
			e, found = candidate, true
			break
		}
	}
	if !found {
		return &common.NotFoundError{Resource: "event " + id}
	}

	if e.Title, err = GetTextWithDefault(a.reader, "Title", e.Title, a.out); err != nil {
		return err
	}
	if e.Time, err = GetTextWithDefault(a.reader, "Time", e.Time, a.out); err != nil {
		return err
	}
	if e.Description, err = GetTextWithDefault(a.reader, "Description", e.Description, a.out); err != nil {
		return err
	}

	if err := a.timeline.Update(ctx, e); err != nil {
		return err
	}
	a.println("Event updated")
	a.offlineNotice()
	return nil
}

func (a *App) RemoveEvent(ctx context.Context, args []string) error {
	id, err := a.argOrPrompt(args, "Event id")
	if err != nil {
		return err
	}
	ok, err := GetYesNo(a.reader, "Delete event "+id+"?", a.out)
	if err != nil || !ok {
		return err
	}

	if err := a.timeline.Delete(ctx, id); err != nil {
		return err
	}
	a.println("Event deleted")
	a.offlineNotice()
	return nil
}

func (a *App) MoveEvent(ctx context.Context, args []string) error {
	events := a.timeline.List(ctx)

	from, to, err := a.movePositions(args, "Event id", len(events), func(i int) string { return events[i].ID })
	if err != nil {
		return err
	}

	if _, err := a.timeline.Reorder(ctx, move(events, from, to)); err != nil {
		a.resyncIfNeeded(ctx, err)
		return err
	}
	a.println("Timeline reordered")
	a.offlineNotice()
	return nil
}
