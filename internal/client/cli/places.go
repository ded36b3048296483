package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/happyplaces/internal/client/models"
	"github.com/dmitrijs2005/happyplaces/internal/client/render"
	"github.com/dmitrijs2005/happyplaces/internal/client/session"
	"github.com/dmitrijs2005/happyplaces/internal/common"
)

// userMessage turns a session or location error into the text shown to
// the user.
func userMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrPermissionDenied):
		return "Permission denied."
	case errors.Is(err, common.ErrCaptureCancelled):
		return "No image was taken, nothing was saved."
	case errors.Is(err, common.ErrCaptureFailed):
		return "Could not store the image, nothing was saved."
	case errors.Is(err, common.ErrLocationUnavailable):
		return "Current location is not available. Try 'locate'."
	case errors.Is(err, common.ErrStaleCapture):
		return "That image belonged to a place that was discarded."
	case errors.Is(err, common.ErrNoActiveSession):
		return "Nothing pending. Use 'save' or 'press <x> <y>' first."
	case errors.Is(err, common.ErrInvalidTransition):
		return "That step is not possible right now."
	case errors.Is(err, errBadIndex):
		return "Usage: give the place number shown by 'list'. " + err.Error()
	default:
		return "Error: " + err.Error()
	}
}

// report shows err to the user and logs it. It returns err unchanged.
func (a *App) report(ctx context.Context, err error) error {
	fmt.Fprintln(a.out, userMessage(err))
	a.logger.Debug(ctx, "command failed", "error", err)
	return err
}

// Locate refreshes the current position.
func (a *App) Locate(ctx context.Context) error {
	fix, err := a.tracker.Refresh(ctx)
	if err != nil {
		return a.report(ctx, err)
	}
	fmt.Fprintln(a.out, "Current position:", fix)
	return nil
}

// Press long-presses the map cell at x, y and starts a session there.
func (a *App) Press(ctx context.Context, args []string) error {
	if len(args) != 2 {
		fmt.Fprintln(a.out, "Usage: press <x> <y>")
		return errUsage
	}
	x, errX := strconv.Atoi(args[0])
	y, errY := strconv.Atoi(args[1])
	if errX != nil || errY != nil {
		fmt.Fprintln(a.out, "Usage: press <x> <y> with whole numbers")
		return errUsage
	}

	c, err := a.renderer.LongPress(render.Pixel{X: x, Y: y})
	if err != nil {
		return a.report(ctx, err)
	}
	fmt.Fprintf(a.out, "Selected %s. Type 'savesel' to save it or 'cancel'.\n", c)
	return nil
}

// Save starts a session at the current position and runs it to the end.
func (a *App) Save(ctx context.Context) error {
	if _, err := a.session.BeginAtCurrent(ctx); err != nil {
		return a.report(ctx, err)
	}
	return a.complete(ctx)
}

// SaveSelection continues the session started by a long-press.
func (a *App) SaveSelection(ctx context.Context) error {
	st, ok := a.session.State().(session.LocationChosen)
	if !ok || st.Origin != models.OriginSelection {
		fmt.Fprintln(a.out, "No selected location. Long-press one with 'press <x> <y>'.")
		return common.ErrNoActiveSession
	}
	return a.complete(ctx)
}

// Retry repeats the capture of a session stuck after a permission denial.
func (a *App) Retry(ctx context.Context) error {
	if _, ok := a.session.State().(session.NoteEntered); !ok {
		fmt.Fprintln(a.out, "Nothing to retry.")
		return common.ErrNoActiveSession
	}
	return a.capture(ctx)
}

// Cancel discards the pending place.
func (a *App) Cancel(ctx context.Context) error {
	if err := a.session.Cancel(); err != nil {
		return a.report(ctx, err)
	}
	fmt.Fprintln(a.out, "Discarded.")
	return nil
}

// complete asks for the note and the confirmation, then captures.
func (a *App) complete(ctx context.Context) error {
	note, err := GetSimpleText(a.reader, "Note for this place (optional)", a.out)
	if err != nil {
		_ = a.session.Cancel()
		return err
	}
	if err := a.session.EnterNote(note); err != nil {
		return a.report(ctx, err)
	}

	ok, err := GetConfirm(a.reader, "Add image and save?", true, a.out)
	if err != nil || !ok {
		_ = a.session.Cancel()
		fmt.Fprintln(a.out, "Discarded.")
		return err
	}
	return a.capture(ctx)
}

// capture waits for the image. An interrupt aborts only this wait.
func (a *App) capture(ctx context.Context) error {
	cctx, stop := interruptContext(ctx)
	entry, err := a.session.Capture(cctx)
	stop()
	if errors.Is(err, common.ErrPermissionDenied) {
		fmt.Fprintln(a.out, "Camera permission denied. Type 'retry' to ask again or 'cancel'.")
		return err
	}
	if err != nil {
		return a.report(ctx, err)
	}
	fmt.Fprintln(a.out, "Saved:", entry)
	return nil
}
