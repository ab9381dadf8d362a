package ksdb

import (
	"bytes"

	"go.etcd.io/bbolt"
)

// All data lives in a single flat root bucket; keyspaces are simulated
// via key prefixes, not nested buckets.
var boltRootBucket = []byte("kv")

type boltStorage struct {
	bdb *bbolt.DB
}

func newBoltStorage(bdb *bbolt.DB) (storage, error) {
	err := bdb.Update(func(btx *bbolt.Tx) error {
		_, err := btx.CreateBucketIfNotExists(boltRootBucket)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &boltStorage{bdb: bdb}, nil
}

func (s *boltStorage) Bolt() *bbolt.DB { return s.bdb }

func (s *boltStorage) Get(key []byte) ([]byte, bool, error) {
	var value []byte
	var found bool
	err := s.bdb.View(func(btx *bbolt.Tx) error {
		v := btx.Bucket(boltRootBucket).Get(key)
		if v != nil {
			// Bolt memory is only valid inside the transaction.
			value = bytes.Clone(v)
			found = true
		}
		return nil
	})
	return value, found, err
}

func (s *boltStorage) Put(key, value []byte) error {
	return s.bdb.Update(func(btx *bbolt.Tx) error {
		return btx.Bucket(boltRootBucket).Put(key, value)
	})
}

func (s *boltStorage) Delete(key []byte) error {
	return s.bdb.Update(func(btx *bbolt.Tx) error {
		return btx.Bucket(boltRootBucket).Delete(key)
	})
}

func (s *boltStorage) Cursor() (storageCursor, error) {
	btx, err := s.bdb.Begin(false)
	if err != nil {
		return nil, err
	}
	return &boltCursor{btx: btx, c: btx.Bucket(boltRootBucket).Cursor()}, nil
}

func (s *boltStorage) Close() error {
	return s.bdb.Close()
}

type boltCursor struct {
	btx  *bbolt.Tx
	c    *bbolt.Cursor
	k, v []byte
}

func (c *boltCursor) Seek(seek []byte) ([]byte, []byte) {
	c.k, c.v = c.c.Seek(seek)
	return c.k, c.v
}

func (c *boltCursor) Next() ([]byte, []byte) {
	c.k, c.v = c.c.Next()
	return c.k, c.v
}

func (c *boltCursor) Key() []byte   { return c.k }
func (c *boltCursor) Value() []byte { return c.v }

func (c *boltCursor) Close() error {
	err := c.btx.Rollback()
	if err == bbolt.ErrTxClosed {
		return nil
	}
	return err
}
