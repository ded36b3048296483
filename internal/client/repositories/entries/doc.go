// Package entries provides the storage layer for committed happy places.
//
// # Overview
//
// The package defines a Repository interface used by the entry service and a
// MemoryRepository that keeps entries in insertion order for the lifetime of
// the process. Entries are not persisted across restarts.
//
// # Concurrency
//
// MemoryRepository guards its slice with a sync.RWMutex. Mutations are
// serialized with respect to each other and readers always get a copy, so
// later mutations never leak into a snapshot already handed out.
//
// Typical Usage
//
//	repo := entries.NewMemoryRepository()
//	_ = repo.Insert(ctx, entry)
//	list, _ := repo.GetAll(ctx)
//	updated, _ := repo.UpdateNote(ctx, id, "Park bench")
//	_, _ = repo.DeleteByID(ctx, id)
package entries
