package ksdb

// Put stores value under key in the active keyspace.
func (c *Context) Put(key, value []byte) error {
	return c.db.store.Put(encodeKey(c.ksid, key), value)
}

// Get retrieves the value stored under key in the active keyspace.
// A key never written yields found=false, not an error.
func (c *Context) Get(key []byte) (value []byte, found bool, err error) {
	return c.db.store.Get(encodeKey(c.ksid, key))
}

// Delete removes key from the active keyspace. Deleting a key never
// written is a no-op.
func (c *Context) Delete(key []byte) error {
	return c.db.store.Delete(encodeKey(c.ksid, key))
}
