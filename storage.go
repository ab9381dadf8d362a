package ksdb

// storage represents a flat ordered key-value backend (Bolt, in-memory, etc.).
// Keys are ordered lexicographically by raw bytes.
type storage interface {
	// Get retrieves a value by exact key. A missing key is not an error.
	Get(key []byte) (value []byte, found bool, err error)

	// Put stores a key-value pair.
	Put(key, value []byte) error

	// Delete removes a key. Deleting a missing key is a no-op.
	Delete(key []byte) error

	// Cursor starts an iteration over the whole key range in ascending
	// order. The caller must Close the cursor on every exit path.
	Cursor() (storageCursor, error)

	// Close closes the storage.
	Close() error
}

// storageCursor iterates over the sorted key range. Seek must be called
// before Next. Returned key/value slices are only valid until the next
// cursor operation or Close; callers copy what they keep.
type storageCursor interface {
	// Seek moves to the first key >= seek.
	Seek(seek []byte) (key, value []byte)

	// Next moves to the next key-value pair.
	Next() (key, value []byte)

	// Key returns the current key, nil when the cursor is exhausted.
	Key() []byte

	// Value returns the current value, nil when the cursor is exhausted.
	Value() []byte

	// Close releases the cursor and whatever snapshot it holds.
	Close() error
}
