package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/weddingkeeper/internal/client/services"
	"github.com/dmitrijs2005/weddingkeeper/internal/common"
	"github.com/dmitrijs2005/weddingkeeper/internal/models"
)

// field is one editable string of a settings record.
type field struct {
	label string
	value *string
}

// current reads a settings record, falling back to def when none exists
// yet. The second result reports whether the record was found.
func current[T any](ctx context.Context, s services.SingletonService[T], def T) (T, bool, error) {
	v, err := s.Get(ctx)
	if errors.Is(err, common.ErrNotFound) {
		return def, false, nil
	}
	if err != nil {
		return v, false, err
	}
	return v, true, nil
}

func (a *App) show(name string, found bool, fields []field) error {
	if !found {
		a.printf("No %s stored yet, run init to create the defaults\n", name)
		return nil
	}
	tw := newTable(a.out)
	for _, f := range fields {
		fmt.Fprintf(tw, "%s:\t%s\n", f.label, *f.value)
	}
	return tw.Flush()
}

func (a *App) edit(fields []field) error {
	for _, f := range fields {
		v, err := GetTextWithDefault(a.reader, f.label, *f.value, a.out)
		if err != nil {
			return err
		}
		*f.value = v
	}
	return nil
}

func themeFields(t *models.ThemeColors) []field {
	return []field{
		{"Primary", &t.Primary},
		{"Secondary", &t.Secondary},
		{"Accent", &t.Accent},
		{"Background", &t.Background},
		{"Text", &t.Text},
	}
}

func venueFields(v *models.VenueInfo) []field {
	return []field{
		{"Name", &v.Name},
		{"Address", &v.Address},
		{"Maps URL", &v.MapsURL},
	}
}

func detailsFields(d *models.WeddingDetails) []field {
	return []field{
		{"Groom", &d.GroomName},
		{"Bride", &d.BrideName},
		{"Date", &d.WeddingDate},
		{"Story", &d.Story},
	}
}

func (a *App) ShowTheme(ctx context.Context, _ []string) error {
	t, found, err := current(ctx, a.theme, services.DefaultTheme)
	if err != nil {
		return err
	}
	return a.show("theme", found, themeFields(&t))
}

func (a *App) SetTheme(ctx context.Context, _ []string) error {
	t, _, err := current(ctx, a.theme, services.DefaultTheme)
	if err != nil {
		return err
	}
	if err := a.edit(themeFields(&t)); err != nil {
		return err
	}
	if err := a.theme.Update(ctx, t); err != nil {
		return err
	}
	a.println("Theme saved")
	return nil
}

func (a *App) ShowVenue(ctx context.Context, _ []string) error {
	v, found, err := current(ctx, a.venue, services.DefaultVenue)
	if err != nil {
		return err
	}
	return a.show("venue", found, venueFields(&v))
}

func (a *App) SetVenue(ctx context.Context, _ []string) error {
	v, _, err := current(ctx, a.venue, services.DefaultVenue)
	if err != nil {
		return err
	}
	if err := a.edit(venueFields(&v)); err != nil {
		return err
	}
	if err := a.venue.Update(ctx, v); err != nil {
		return err
	}
	a.println("Venue saved")
	return nil
}

func (a *App) ShowDetails(ctx context.Context, _ []string) error {
	d, found, err := current(ctx, a.details, services.DefaultDetails)
	if err != nil {
		return err
	}
	return a.show("wedding details", found, detailsFields(&d))
}

func (a *App) SetDetails(ctx context.Context, _ []string) error {
	d, _, err := current(ctx, a.details, services.DefaultDetails)
	if err != nil {
		return err
	}
	if err := a.edit(detailsFields(&d)); err != nil {
		return err
	}
	if err := a.details.Update(ctx, d); err != nil {
		return err
	}
	a.println("Wedding details saved")
	return nil
}
