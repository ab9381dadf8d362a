package ksdb

import (
	"bytes"
	"fmt"
	"slices"
	"sort"
	"sync"
	"sync/atomic"
)

type memStorage struct {
	mu     sync.Mutex
	items  []memKV // sorted by key
	closed bool

	openCursors atomic.Int32 // checked by tests
}

// newMemStorage returns a transient in-memory storage implementation
// intended for tests.
func newMemStorage() *memStorage {
	return &memStorage{}
}

type memKV struct {
	key   []byte
	value []byte
}

func (s *memStorage) Get(key []byte) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, false, fmt.Errorf("storage closed")
	}
	i, ok := s.find(key)
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(s.items[i].value), true, nil
}

func (s *memStorage) Put(key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("storage closed")
	}
	key = slices.Clone(key)
	value = slices.Clone(value)

	i, ok := s.find(key)
	if ok {
		s.items[i].value = value
		return nil
	}
	s.items = slices.Insert(s.items, i, memKV{key: key, value: value})
	return nil
}

func (s *memStorage) Delete(key []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("storage closed")
	}
	i, ok := s.find(key)
	if !ok {
		return nil
	}
	s.items = slices.Delete(s.items, i, i+1)
	return nil
}

func (s *memStorage) Cursor() (storageCursor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, fmt.Errorf("storage closed")
	}
	// Snapshot for isolation (simplicity over efficiency); the stored
	// slices are never mutated in place, so a shallow copy is enough.
	snap := slices.Clone(s.items)
	s.openCursors.Add(1)
	return &memCursor{base: s, items: snap, pos: -1}, nil
}

func (s *memStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.items = nil
	return nil
}

func (s *memStorage) find(key []byte) (idx int, ok bool) {
	items := s.items
	i := sort.Search(len(items), func(i int) bool {
		return bytes.Compare(items[i].key, key) >= 0
	})
	if i < len(items) && bytes.Equal(items[i].key, key) {
		return i, true
	}
	return i, false
}

type memCursor struct {
	base   *memStorage
	items  []memKV
	pos    int
	closed bool
}

func (c *memCursor) Seek(seek []byte) ([]byte, []byte) {
	items := c.items
	i := sort.Search(len(items), func(i int) bool {
		return bytes.Compare(items[i].key, seek) >= 0
	})
	c.pos = i
	return c.current()
}

func (c *memCursor) Next() ([]byte, []byte) {
	if c.pos < 0 {
		c.pos = 0
	} else {
		c.pos++
	}
	return c.current()
}

func (c *memCursor) current() ([]byte, []byte) {
	if c.pos < 0 || c.pos >= len(c.items) {
		return nil, nil
	}
	kv := c.items[c.pos]
	return kv.key, kv.value
}

func (c *memCursor) Key() []byte {
	k, _ := c.current()
	return k
}

func (c *memCursor) Value() []byte {
	_, v := c.current()
	return v
}

func (c *memCursor) Close() error {
	if !c.closed {
		c.closed = true
		c.base.openCursors.Add(-1)
	}
	return nil
}
