package entries

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/happyplaces/internal/client/models"
	"github.com/dmitrijs2005/happyplaces/internal/common"
)

type MemoryRepository struct {
	mu    sync.RWMutex
	items []models.Entry
	index map[string]int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{index: make(map[string]int)}
}

func (r *MemoryRepository) Insert(ctx context.Context, entry models.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[entry.ID]; ok {
		return fmt.Errorf("%w: duplicate id %s", common.ErrInvalidEntry, entry.ID)
	}

	r.index[entry.ID] = len(r.items)
	r.items = append(r.items, entry)
	return nil
}

func (r *MemoryRepository) UpdateNote(ctx context.Context, id string, note string) (models.Entry, error) {
	if err := ctx.Err(); err != nil {
		return models.Entry{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return models.Entry{}, fmt.Errorf("entry %s: %w", id, common.ErrNotFound)
	}
	r.items[i].Note = note
	return r.items[i], nil
}

func (r *MemoryRepository) DeleteByID(ctx context.Context, id string) (models.Entry, error) {
	if err := ctx.Err(); err != nil {
		return models.Entry{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return models.Entry{}, fmt.Errorf("entry %s: %w", id, common.ErrNotFound)
	}

	removed := r.items[i]
	r.items = append(r.items[:i], r.items[i+1:]...)
	delete(r.index, id)
	for j := i; j < len(r.items); j++ {
		r.index[r.items[j].ID] = j
	}
	return removed, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (models.Entry, error) {
	if err := ctx.Err(); err != nil {
		return models.Entry{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return models.Entry{}, fmt.Errorf("entry %s: %w", id, common.ErrNotFound)
	}
	return r.items[i], nil
}

func (r *MemoryRepository) GetAll(ctx context.Context) ([]models.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.Entry, len(r.items))
	copy(result, r.items)
	return result, nil
}
