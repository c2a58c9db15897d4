package storage

import "sync"

// Overlay buffers writes on top of a base Database until Commit flushes them
// down in one pass. Callers wrap a settlement call with an overlay to get
// call-level atomicity over backends without native transactions: on error
// the overlay is discarded and the base never sees the partial writes.
type Overlay struct {
	mu      sync.RWMutex
	base    Database
	writes  map[string][]byte
	deletes map[string]struct{}
}

// NewOverlay stages writes over base.
func NewOverlay(base Database) *Overlay {
	return &Overlay{
		base:    base,
		writes:  make(map[string][]byte),
		deletes: make(map[string]struct{}),
	}
}

func (o *Overlay) Put(key []byte, value []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	k := string(key)
	o.writes[k] = append([]byte(nil), value...)
	delete(o.deletes, k)
	return nil
}

func (o *Overlay) Get(key []byte) ([]byte, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	k := string(key)
	if _, gone := o.deletes[k]; gone {
		return nil, ErrKeyNotFound
	}
	if value, ok := o.writes[k]; ok {
		return append([]byte(nil), value...), nil
	}
	return o.base.Get(key)
}

func (o *Overlay) Delete(key []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	k := string(key)
	delete(o.writes, k)
	o.deletes[k] = struct{}{}
	return nil
}

// Close discards the staged changes without touching the base.
func (o *Overlay) Close() {
	o.Discard()
}

// Commit flushes the staged writes and deletes to the base database and
// resets the overlay. A failed flush leaves the remaining staged entries in
// place.
func (o *Overlay) Commit() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for k, value := range o.writes {
		if err := o.base.Put([]byte(k), value); err != nil {
			return err
		}
		delete(o.writes, k)
	}
	for k := range o.deletes {
		if err := o.base.Delete([]byte(k)); err != nil {
			return err
		}
		delete(o.deletes, k)
	}
	return nil
}

// Discard drops the staged changes.
func (o *Overlay) Discard() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.writes = make(map[string][]byte)
	o.deletes = make(map[string]struct{})
}
