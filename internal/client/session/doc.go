// Package session implements the pending capture flow that turns a chosen
// location, a note and a captured image into a saved entry.
package session
