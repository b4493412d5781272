package store

import (
	"context"
	"sync"
)

// Overlay reads through to a base set but keeps its own writes in memory.
// Dry runs use it so duplicates inside the run still collapse while nothing
// is persisted. A nil base behaves like an empty set.
type Overlay struct {
	base Dedupe

	mu  sync.Mutex
	mem map[string]bool
}

var _ Dedupe = (*Overlay)(nil)

func NewOverlay(base Dedupe) *Overlay {
	return &Overlay{base: base, mem: map[string]bool{}}
}

func (o *Overlay) Seen(ctx context.Context, fp string) (bool, error) {
	o.mu.Lock()
	hit := o.mem[fp]
	o.mu.Unlock()
	if hit || o.base == nil {
		return hit, nil
	}
	return o.base.Seen(ctx, fp)
}

func (o *Overlay) Remember(_ context.Context, fp string) error {
	o.mu.Lock()
	o.mem[fp] = true
	o.mu.Unlock()
	return nil
}
