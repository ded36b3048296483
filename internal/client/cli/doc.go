// Package cli provides the interactive Happy Places command-line client.
//
// It wires configuration, the in-memory entry store, the image store, the
// location tracker, the capture session and a text map into a REPL. Typical
// flow: locate the device, long-press a map cell or save the current
// position, enter a note, pick an image, and review saved places as a list
// or on the map.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
