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

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	hasSelection() bool
	Locate(ctx context.Context) error
	Press(ctx context.Context, args []string) error
	Save(ctx context.Context) error
	SaveSelection(ctx context.Context) error
	Retry(ctx context.Context) error
	Cancel(ctx context.Context) error
	List(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Map(ctx context.Context) error
	Stats(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the Happy Places CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF, when ctx is done, or when the user types
// "exit" or "quit".
//
// Commands
//
//	help             show available commands
//	locate           refresh the current position
//	press <x> <y>    long-press a map cell to select it
//	save             save the current position
//	savesel          save the selected location (only with a selection)
//	retry            retry the image capture after a permission denial
//	cancel           discard the pending place
//	(l)ist           list saved places
//	show <n>         center the map on place n
//	edit <n>         edit the note of place n
//	delete <n>       delete place n
//	map              draw the map
//	stats            show session counters
//	exit | quit      leave the program
//
// Errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("hp> %s > ", statusFn()))
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
			if a.hasSelection() {
				printlnFn("Available commands: locate, press, save, savesel, cancel, (l)ist, show, edit, delete, map, stats, exit")
			} else {
				printlnFn("Available commands: locate, press, save, retry, cancel, (l)ist, show, edit, delete, map, stats, exit")
			}

		case "locate":
			_ = a.Locate(ctx)

		case "press":
			_ = a.Press(ctx, args)

		case "save":
			_ = a.Save(ctx)

		case "savesel":
			_ = a.SaveSelection(ctx)

		case "retry":
			_ = a.Retry(ctx)

		case "cancel":
			_ = a.Cancel(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "show":
			_ = a.Show(ctx, args)

		case "edit":
			_ = a.Edit(ctx, args)

		case "delete":
			_ = a.Delete(ctx, args)

		case "map":
			_ = a.Map(ctx)

		case "stats":
			_ = a.Stats(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
