package ksdb

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestOpenClose(t *testing.T) {
	db := must(Open(tempPath(t), Options{IsTesting: true}))
	db.Close()
}

func TestReopenPersistence(t *testing.T) {
	path := tempPath(t)

	db := must(Open(path, Options{IsTesting: true}))
	c := enter(t, db, "orders")
	orders := c.KeySpace()
	ensure(t, c.Put([]byte("o1"), []byte("v1")))
	db.Close()

	db = must(Open(path, Options{IsTesting: true}))
	defer db.Close()
	c = enter(t, db, "orders")
	deepEqual(t, c.KeySpace(), orders)

	v, found, err := c.Get([]byte("o1"))
	ensure(t, err)
	deepEqual(t, found, true)
	deepEqual(t, string(v), "v1")

	// The counter survives too: a new name continues the sequence.
	c2 := enter(t, db, "shipments")
	deepEqual(t, c2.KeySpace(), orders+1)
}

func TestAllocationSequence(t *testing.T) {
	db := setup(t)

	a := enter(t, db, "orders").KeySpace()
	b := enter(t, db, "orders").KeySpace()
	deepEqual(t, b, a)

	s := enter(t, db, "shipments").KeySpace()
	if s != a+1 {
		t.Errorf("** got %d, wanted %d (next allocation after %d)", s, a+1, a)
	}
}

func tempPath(t testing.TB) string {
	t.Helper()
	dir := must(os.MkdirTemp("", "ksdb_test_*"))
	t.Cleanup(func() { os.RemoveAll(dir) })
	return filepath.Join(dir, "test.db")
}

func setup(t testing.TB) *DB {
	t.Helper()
	db := OpenMemory(Options{IsTesting: true})
	t.Cleanup(db.Close)
	return db
}

func enter(t testing.TB, db *DB, name string) *Context {
	t.Helper()
	return must(db.Enter(name))
}

func ensure(t testing.TB, err error) {
	if err != nil {
		t.Helper()
		t.Fatalf("** unexpected error: %v", err)
	}
}

func deepEqual[T any](t testing.TB, a, e T) {
	if !reflect.DeepEqual(a, e) {
		t.Helper()
		t.Errorf("** got %v, wanted %v", a, e)
	}
}
