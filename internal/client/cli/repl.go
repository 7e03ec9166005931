package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	ListPhotos(ctx context.Context, args []string) error
	AddPhoto(ctx context.Context, args []string) error
	EditPhotoAlt(ctx context.Context, args []string) error
	RemovePhoto(ctx context.Context, args []string) error
	MovePhoto(ctx context.Context, args []string) error

	ListTimeline(ctx context.Context, args []string) error
	AddEvent(ctx context.Context, args []string) error
	EditEvent(ctx context.Context, args []string) error
	RemoveEvent(ctx context.Context, args []string) error
	MoveEvent(ctx context.Context, args []string) error

	ShowTheme(ctx context.Context, args []string) error
	SetTheme(ctx context.Context, args []string) error
	ShowVenue(ctx context.Context, args []string) error
	SetVenue(ctx context.Context, args []string) error
	ShowDetails(ctx context.Context, args []string) error
	SetDetails(ctx context.Context, args []string) error

	ListRSVPs(ctx context.Context, args []string) error
	SubmitRSVP(ctx context.Context, args []string) error
	RemoveRSVP(ctx context.Context, args []string) error

	Initialize(ctx context.Context, args []string) error
	Status(ctx context.Context, args []string) error
	GoOnline(ctx context.Context, args []string) error
	GoOffline(ctx context.Context, args []string) error
	Refresh(ctx context.Context, args []string) error
	DropCache(ctx context.Context, args []string) error
}

const helpText = `Available commands:
  photos                     list the gallery
  addphoto                   upload a photo
  altphoto [id]              change a photo caption
  rmphoto [id]               delete a photo
  movephoto [id] [position]  move a photo
  timeline                   list the schedule
  addevent                   add an event
  editevent [id]             edit an event
  rmevent [id]               delete an event
  moveevent [id] [position]  move an event
  theme | settheme           show or edit the colour theme
  venue | setvenue           show or edit the venue
  details | setdetails       show or edit the couple's details
  rsvps                      list guest replies
  rsvp                       record a guest reply
  rmrsvp [id]                delete a guest reply
  init                       create missing default settings
  status                     show connection and cache state
  online | offline           leave or enter forced offline mode
  refresh                    reload photos and timeline
  dropcache                  forget the offline copies
  exit | quit                leave the program`

// runREPL starts a simple read–eval–print loop for the admin CLI.
//
// It reads a line from reader, parses the first token as the command and
// passes the remaining tokens as arguments to the matching method on 'a'.
// Commands that need more input read it from the same reader. The loop
// exits on EOF or when the user types "exit" or "quit".
//
// Errors returned by command handlers are printed as one-line
// notifications; none of them ends the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	commands := map[string]func(context.Context, []string) error{
		"photos":     a.ListPhotos,
		"addphoto":   a.AddPhoto,
		"altphoto":   a.EditPhotoAlt,
		"rmphoto":    a.RemovePhoto,
		"movephoto":  a.MovePhoto,
		"timeline":   a.ListTimeline,
		"addevent":   a.AddEvent,
		"editevent":  a.EditEvent,
		"rmevent":    a.RemoveEvent,
		"moveevent":  a.MoveEvent,
		"theme":      a.ShowTheme,
		"settheme":   a.SetTheme,
		"venue":      a.ShowVenue,
		"setvenue":   a.SetVenue,
		"details":    a.ShowDetails,
		"setdetails": a.SetDetails,
		"rsvps":      a.ListRSVPs,
		"rsvp":       a.SubmitRSVP,
		"rmrsvp":     a.RemoveRSVP,
		"init":       a.Initialize,
		"status":     a.Status,
		"online":     a.GoOnline,
		"offline":    a.GoOffline,
		"refresh":    a.Refresh,
		"dropcache":  a.DropCache,
	}

	for {
		printlnFn(fmt.Sprintf("wk> %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpText)
			continue

		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		fn, ok := commands[cmd]
		if !ok {
			printlnFn("Unknown command:", cmd)
			continue
		}
		if err := fn(ctx, args); err != nil {
			printlnFn("Error:", err)
		}
	}
}
