package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/happyplaces/internal/client/models"
)

// askPermission is the prompt behind the permission gate.
func (a *App) askPermission(ctx context.Context, kind models.PermissionKind) (bool, error) {
	return GetConfirm(a.reader, fmt.Sprintf("Allow Happy Places to use the %s?", kind), false, a.out)
}

// chooseSource asks for camera or gallery. An empty answer cancels.
func (a *App) chooseSource(ctx context.Context, names []string) (string, error) {
	if len(names) == 1 {
		return names[0], nil
	}
	return GetSimpleText(a.reader, "Image source ("+strings.Join(names, ", ")+"), empty to cancel", a.out)
}

// pickImage lists the gallery and reads the chosen number. An empty or
// unparsable answer cancels.
func (a *App) pickImage(ctx context.Context, files []string) (int, error) {
	for i, f := range files {
		fmt.Fprintf(a.out, "%3d. %s\n", i+1, f)
	}
	answer, err := GetSimpleText(a.reader, "Pick an image by number, empty to cancel", a.out)
	if err != nil {
		return -1, err
	}
	n, err := strconv.Atoi(answer)
	if err != nil {
		return -1, nil
	}
	return n - 1, nil
}
