// Package services implements the entry store of the Happy Places client on
// top of the entries repository.
//
// EntryService allocates ids and timestamps, applies create/update/delete
// against the repository and publishes a Change after each successful
// mutation. Map and list renderers subscribe and re-derive their projections
// from a fresh List call; they never cache entries themselves.
//
// UpdateNote and Delete on an absent id are no-ops that report false.
package services
