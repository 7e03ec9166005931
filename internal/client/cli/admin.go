package cli

import (
	"context"
	"fmt"
)

func (a *App) Initialize(ctx context.Context, _ []string) error {
	created, err := a.initializer.Initialize(ctx)
	if err != nil {
		return err
	}
	if created {
		a.println("Default settings created")
	} else {
		a.println("Everything is already in place")
	}
	return nil
}

func (a *App) Status(ctx context.Context, _ []string) error {
	tw := newTable(a.out)
	fmt.Fprintf(tw, "Backend:\t%s (%s)\n", a.config.Backend, a.remote.Flavor())
	fmt.Fprintf(tw, "Connection:\t%s\n", a.getStatus())
	fmt.Fprintf(tw, "Cached photos:\t%d\n", len(a.photos.Cached(ctx)))
	fmt.Fprintf(tw, "Cached events:\t%d\n", len(a.timeline.Cached(ctx)))
	return tw.Flush()
}

// GoOnline releases forced offline mode. The backend is probed right
// away; when it answers, photos and timeline are reloaded and any change
// made while offline is overwritten by the server's state.
func (a *App) GoOnline(ctx context.Context, _ []string) error {
	if !a.oracle.Force(false) {
		a.println("Not in forced offline mode")
		return nil
	}

	wasOffline := a.watcher.IsOffline()
	if !a.watcher.Check(ctx) {
		a.println("Backend unreachable, still offline")
		return nil
	}
	if !wasOffline {
		// no transition, so the watcher did not reload
		a.reload(ctx)
	}
	a.println("Online")
	return nil
}

func (a *App) GoOffline(_ context.Context, _ []string) error {
	if !a.oracle.Force(true) {
		a.println("Already in forced offline mode")
		return nil
	}
	a.println("Working offline; changes stay on this machine and are not sent later")
	return nil
}

func (a *App) Refresh(ctx context.Context, _ []string) error {
	a.reload(ctx)
	if a.oracle.IsOffline() {
		a.println("Offline, showing local copies")
		return nil
	}
	a.printf("Loaded %d photos and %d events\n", len(a.photos.Cached(ctx)), len(a.timeline.Cached(ctx)))
	return nil
}

func (a *App) DropCache(ctx context.Context, _ []string) error {
	ok, err := GetYesNo(a.reader, "Forget the offline copies of photos and timeline?", a.out)
	if err != nil || !ok {
		return err
	}
	a.photos.Drop(ctx)
	a.timeline.Drop(ctx)
	a.println("Offline copies removed")
	return nil
}
