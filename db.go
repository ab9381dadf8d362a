package ksdb

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.etcd.io/bbolt"
)

const registryCacheSize = 1024

// DB owns an open storage engine plus the in-process keyspace registry
// state (the allocation lock, the cached counter and the name→id cache).
// A DB is safe for concurrent use; obtain a Context per logical session
// via Enter.
type DB struct {
	store   storage
	logf    func(format string, args ...any)
	verbose bool

	registry registry
}

type Options struct {
	Logf      func(format string, args ...any)
	Verbose   bool
	IsTesting bool
	MmapSize  int
}

// Open opens (creating if missing) a Bolt-backed database at path.
func Open(path string, opt Options) (*DB, error) {
	bopt := *bbolt.DefaultOptions
	bopt.Timeout = 10 * time.Second
	if opt.IsTesting {
		bopt.NoSync = true
		bopt.NoFreelistSync = true
		bopt.InitialMmapSize = 1024 * 1024 * 5
	} else {
		bopt.InitialMmapSize = 1024 * 1024 * 1024
		bopt.FreelistType = bbolt.FreelistMapType
	}
	if opt.MmapSize != 0 {
		bopt.InitialMmapSize = opt.MmapSize
	}

	bdb, err := bbolt.Open(path, 0666, &bopt)
	if err != nil {
		return nil, fmt.Errorf("ksdb: %w", err)
	}
	store, err := newBoltStorage(bdb)
	if err != nil {
		bdb.Close()
		return nil, fmt.Errorf("ksdb: %w", err)
	}
	return newDB(store, opt), nil
}

// OpenMemory opens a transient in-memory database, intended for tests.
func OpenMemory(opt Options) *DB {
	return newDB(newMemStorage(), opt)
}

func newDB(store storage, opt Options) *DB {
	db := &DB{
		store:   store,
		logf:    opt.Logf,
		verbose: opt.Verbose,
	}
	if db.logf == nil {
		db.logf = func(format string, args ...any) {}
	}
	db.registry.cache = must(lru.New[string, KeySpaceID](registryCacheSize))
	return db
}

// Enter resolves name (allocating an id on first use) and returns a
// Context whose operations run against that keyspace.
func (db *DB) Enter(name string) (*Context, error) {
	ksid, err := db.resolve(name)
	if err != nil {
		return nil, err
	}
	return &Context{db: db, ksid: ksid}, nil
}

func (db *DB) Close() {
	err := db.store.Close()
	if err != nil {
		panic(fmt.Errorf("ksdb: closing: %w", err))
	}
}
