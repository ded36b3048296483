package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/happyplaces/internal/client/projections"
)

func (a *App) rows(ctx context.Context) ([]projections.Row, error) {
	list, err := a.entries.List(ctx)
	if err != nil {
		return nil, err
	}
	return projections.List(list, a.entries), nil
}

// row resolves the place number in args against a fresh list.
func (a *App) row(ctx context.Context, args []string) (projections.Row, error) {
	rows, err := a.rows(ctx)
	if err != nil {
		return projections.Row{}, err
	}
	i, err := ParseIndex(args, len(rows))
	if err != nil {
		return projections.Row{}, err
	}
	return rows[i], nil
}

// List prints the saved places as numbered cards.
func (a *App) List(ctx context.Context) error {
	rows, err := a.rows(ctx)
	if err != nil {
		return a.report(ctx, err)
	}
	if len(rows) == 0 {
		fmt.Fprintln(a.out, "No places saved yet.")
		return nil
	}
	for i, r := range rows {
		title := r.Title()
		if title == "" {
			title = "(no note)"
		}
		fmt.Fprintf(a.out, "%d. %s\n   %s\n", i+1, title, r.Summary())
	}
	return nil
}

// Show centers the map on a place and draws it.
func (a *App) Show(ctx context.Context, args []string) error {
	r, err := a.row(ctx, args)
	if err != nil {
		return a.report(ctx, err)
	}

	a.renderer.SetCenter(r.Center())
	a.centered.Store(true)

	if data, err := a.images.Load(ctx, r.Entry.ImageRef); err != nil {
		a.logger.Warn(ctx, "loading image", "ref", r.Entry.ImageRef, "error", err)
		fmt.Fprintf(a.out, "Image: %s (unavailable)\n", r.Entry.ImageRef)
	} else {
		fmt.Fprintf(a.out, "Image: %s (%d bytes)\n", r.Entry.ImageRef, len(data))
	}
	a.fitMap()
	return a.renderer.Render(a.out)
}

// Edit replaces the note of a place.
func (a *App) Edit(ctx context.Context, args []string) error {
	r, err := a.row(ctx, args)
	if err != nil {
		return a.report(ctx, err)
	}
	note, err := GetSimpleText(a.reader, fmt.Sprintf("New note (was %q)", r.Entry.Note), a.out)
	if err != nil {
		return err
	}
	ok, err := r.Edit(ctx, note)
	if err != nil {
		return a.report(ctx, err)
	}
	if !ok {
		fmt.Fprintln(a.out, "That place no longer exists.")
		return nil
	}
	fmt.Fprintln(a.out, "Note updated.")
	return nil
}

// Delete removes a place.
func (a *App) Delete(ctx context.Context, args []string) error {
	r, err := a.row(ctx, args)
	if err != nil {
		return a.report(ctx, err)
	}
	if _, err := r.Delete(ctx); err != nil {
		return a.report(ctx, err)
	}
	fmt.Fprintln(a.out, "Deleted.")
	return nil
}

// Map draws the current markers.
func (a *App) Map(ctx context.Context) error {
	a.fitMap()
	return a.renderer.Render(a.out)
}

// Stats prints the session counters.
func (a *App) Stats(ctx context.Context) error {
	families, err := a.registry.Gather()
	if err != nil {
		return a.report(ctx, err)
	}

	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			name := mf.GetName()
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			lines = append(lines, fmt.Sprintf("%s %g", name, m.GetCounter().GetValue()))
		}
	}
	sort.Strings(lines)
	for _, l := range lines {
		fmt.Fprintln(a.out, l)
	}
	return nil
}
