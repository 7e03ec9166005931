package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/weddingkeeper/internal/models"
)

func (a *App) ListRSVPs(ctx context.Context, _ []string) error {
	replies, err := a.rsvps.List(ctx)
	if err != nil {
		return err
	}
	if len(replies) == 0 {
		a.println("No replies yet")
		return nil
	}

	attending := 0
	tw := newTable(a.out)
	fmt.Fprintln(tw, "RECEIVED\tNAME\tEMAIL\tATTENDING\tPLUS ONE\tDIETARY\tMESSAGE\tID")
	for _, r := range replies {
		if r.Attending {
			attending++
			if r.PlusOne {
				attending++
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			formatMillis(r.Timestamp), r.Name, r.Email, yesNo(r.Attending), yesNo(r.PlusOne),
			r.DietaryRestrictions, r.Message, r.ID)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	a.printf("%d replies, %d guests attending\n", len(replies), attending)
	return nil
}

func (a *App) SubmitRSVP(ctx context.Context, _ []string) error {
	var (
		r   models.NewRSVP
		err error
	)
	if r.Name, err = a.prompt("Guest name"); err != nil {
		return err
	}
	if r.Email, err = a.prompt("Email"); err != nil {
		return err
	}
	if r.Attending, err = GetYesNo(a.reader, "Attending?", a.out); err != nil {
		return err
	}
	if r.Attending {
		if r.PlusOne, err = GetYesNo(a.reader, "Bringing a plus one?", a.out); err != nil {
			return err
		}
		if r.DietaryRestrictions, err = a.prompt("Dietary restrictions (optional)"); err != nil {
			return err
		}
	}
	if r.Message, err = a.prompt("Message (optional)"); err != nil {
		return err
	}

	reply, err := a.rsvps.Submit(ctx, r)
	if err != nil {
		return err
	}
	a.printf("Reply %s recorded\n", reply.ID)
	return nil
}

func (a *App) RemoveRSVP(ctx context.Context, args []string) error {
	id, err := a.argOrPrompt(args, "Reply id")
	if err != nil {
		return err
	}
	ok, err := GetYesNo(a.reader, "Delete reply "+id+"?", a.out)
	if err != nil || !ok {
		return err
	}

	if err := a.rsvps.Delete(ctx, id); err != nil {
		return err
	}
	a.println("Reply deleted")
	return nil
}
