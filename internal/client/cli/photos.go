package cli

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/weddingkeeper/internal/common"
	"github.com/dmitrijs2005/weddingkeeper/internal/models"
)

// openFile is a test seam for os.Open.
var openFile = func(name string) (io.ReadCloser, error) {
	return os.Open(name)
}

func (a *App) ListPhotos(ctx context.Context, _ []string) error {
	items := a.photos.List(ctx)
	if len(items) == 0 {
		a.println("No photos")
		return nil
	}

	tw := newTable(a.out)
	fmt.Fprintln(tw, "#\tID\tALT\tSRC")
	for i, p := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, p.ID, p.Alt, p.Src)
	}
	return tw.Flush()
}

func (a *App) AddPhoto(ctx context.Context, _ []string) error {
	path, err := a.prompt("Image file")
	if err != nil {
		return err
	}
	alt, err := a.prompt("Caption")
	if err != nil {
		return err
	}

	f, err := openFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	item, err := a.photos.Upload(ctx, models.NewPhoto{
		Alt:         alt,
		FileName:    filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Body:        f,
	})
	if err != nil {
		return err
	}

	a.printf("Photo %s added\n", item.ID)
	a.offlineNotice()
	return nil
}

func (a *App) EditPhotoAlt(ctx context.Context, args []string) error {
	id, err := a.argOrPrompt(args, "Photo id")
	if err != nil {
		return err
	}
	alt, err := a.prompt("New caption")
	if err != nil {
		return err
	}

	if err := a.photos.UpdateAlt(ctx, id, alt); err != nil {
		return err
	}
	a.println("Caption updated")
	a.offlineNotice()
	return nil
}

func (a *App) RemovePhoto(ctx context.Context, args []string) error {
	id, err := a.argOrPrompt(args, "Photo id")
	if err != nil {
		return err
	}
	ok, err := GetYesNo(a.reader, "Delete photo "+id+"?", a.out)
	if err != nil || !ok {
		return err
	}

	if err := a.photos.Delete(ctx, id); err != nil {
		return err
	}
	a.println("Photo deleted")
	a.offlineNotice()
	return nil
}

// MovePhoto moves one photo to a new position and renumbers the gallery.
func (a *App) MovePhoto(ctx context.Context, args []string) error {
	items := a.photos.List(ctx)

	from, to, err := a.movePositions(args, "Photo id", len(items), func(i int) string { return items[i].ID })
	if err != nil {
		return err
	}

	if _, err := a.photos.Reorder(ctx, move(items, from, to)); err != nil {
		a.resyncIfNeeded(ctx, err)
		return err
	}
	a.println("Gallery reordered")
	a.offlineNotice()
	return nil
}

// movePositions resolves "<id> [position]" arguments against a list of n
// items, prompting for whatever is missing.
func (a *App) movePositions(args []string, what string, n int, idAt func(int) string) (int, int, error) {
	id, err := a.argOrPrompt(args, what)
	if err != nil {
		return 0, 0, err
	}

	from := -1
	for i := 0; i < n; i++ {
		if idAt(i) == id {
			from = i
			break
		}
	}
	if from < 0 {
		return 0, 0, &common.NotFoundError{Resource: id}
	}

	if len(args) > 1 {
		to, err := parsePosition(args[1], n)
		return from, to, err
	}
	to, err := GetPosition(a.reader, "New position", n, a.out)
	return from, to, err
}

func (a *App) offlineNotice() {
	if a.oracle.IsOffline() {
		a.println("Saved locally only; the change will not reach the server")
	}
}
