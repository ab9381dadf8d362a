package ksdb

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"golang.org/x/sync/errgroup"
)

func TestResolveReservedNames(t *testing.T) {
	db := setup(t)
	deepEqual(t, enter(t, db, "").KeySpace(), DefaultKeySpace)
	deepEqual(t, enter(t, db, "system").KeySpace(), SystemKeySpace)
}

func TestResolveIdempotent(t *testing.T) {
	db := setup(t)
	first := enter(t, db, "orders").KeySpace()
	for i := 0; i < 5; i++ {
		deepEqual(t, enter(t, db, "orders").KeySpace(), first)
	}
}

func TestResolveMonotonic(t *testing.T) {
	db := setup(t)
	names := []string{"alpha", "bravo", "charlie", "delta"}
	for i, name := range names {
		ksid := enter(t, db, name).KeySpace()
		deepEqual(t, ksid, firstUserKeySpace+KeySpaceID(i))
	}
	// Re-resolving changes nothing.
	for i, name := range names {
		deepEqual(t, enter(t, db, name).KeySpace(), firstUserKeySpace+KeySpaceID(i))
	}
}

func TestResolveConcurrentDistinctNames(t *testing.T) {
	db := setup(t)
	const n = 32

	ids := make([]KeySpaceID, n)
	var group errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		group.Go(func() error {
			c, err := db.Enter(fmt.Sprintf("ks-%03d", i))
			if err != nil {
				return err
			}
			ids[i] = c.KeySpace()
			return nil
		})
	}
	ensure(t, group.Wait())

	slices.Sort(ids)
	for i, ksid := range ids {
		deepEqual(t, ksid, firstUserKeySpace+KeySpaceID(i))
	}
}

func TestResolveConcurrentSameName(t *testing.T) {
	db := setup(t)
	const n = 16

	ids := make([]KeySpaceID, n)
	var group errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		group.Go(func() error {
			c, err := db.Enter("orders")
			if err != nil {
				return err
			}
			ids[i] = c.KeySpace()
			return nil
		})
	}
	ensure(t, group.Wait())

	for _, ksid := range ids {
		deepEqual(t, ksid, ids[0])
	}
}

func TestCorruptCounterIsFatal(t *testing.T) {
	db := setup(t)
	sys := enter(t, db, "system")
	ensure(t, sys.Put([]byte(maxKeySpaceIDKey), []byte{1, 2, 3}))

	_, err := db.Enter("orders")
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("** got %v, wanted ErrCorrupt", err)
	}
}

func TestCorruptRegistryRecordIsFatal(t *testing.T) {
	db := setup(t)
	sys := enter(t, db, "system")
	ensure(t, sys.Put([]byte(registryKeyPrefix+"bad"), []byte("garbage")))

	_, err := db.Enter("bad")
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("** got %v, wanted ErrCorrupt", err)
	}
}

func TestKeySpaces(t *testing.T) {
	db := setup(t)
	deepEqual(t, len(must(db.KeySpaces())), 0)

	orders := enter(t, db, "orders").KeySpace()
	billing := enter(t, db, "billing").KeySpace()

	infos := must(db.KeySpaces())
	deepEqual(t, len(infos), 2)
	deepEqual(t, infos[0].Name, "billing") // name order
	deepEqual(t, infos[0].ID, billing)
	deepEqual(t, infos[1].Name, "orders")
	deepEqual(t, infos[1].ID, orders)
	for _, info := range infos {
		if info.CreatedAt.IsZero() {
			t.Errorf("** keyspace %q has no creation time", info.Name)
		}
	}
}

func TestKeySpacesPersist(t *testing.T) {
	path := tempPath(t)

	db := must(Open(path, Options{IsTesting: true}))
	enter(t, db, "orders")
	db.Close()

	db = must(Open(path, Options{IsTesting: true}))
	defer db.Close()
	infos := must(db.KeySpaces())
	deepEqual(t, len(infos), 1)
	deepEqual(t, infos[0].Name, "orders")
	deepEqual(t, infos[0].ID, firstUserKeySpace)
}
