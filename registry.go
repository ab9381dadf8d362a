package ksdb

import (
	"bytes"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// System-keyspace schema. Registry records are append-only: a name is
// bound to an id once and the binding is never mutated or deleted.
const (
	registryKeyPrefix = "keyspace:"
	metaKeyPrefix     = "keyspace-meta:"
	maxKeySpaceIDKey  = "max-keyspace-id"
)

// registry holds the in-process allocation state. The mutex guards both
// the lazy load of the persisted counter and the read-increment-persist
// sequence of an allocation; it must be held across the whole sequence
// so two concurrent allocations cannot compute the same next id.
type registry struct {
	mu    sync.Mutex
	next  KeySpaceID // id the next allocation returns; 0 = not loaded yet
	cache *lru.Cache[string, KeySpaceID]
}

// KeySpaceInfo describes a registered keyspace.
type KeySpaceInfo struct {
	Name      string     `msgpack:"-"`
	ID        KeySpaceID `msgpack:"-"`
	CreatedAt time.Time  `msgpack:"t"`
}

// resolve maps a keyspace name to its id, allocating a fresh id on first
// use of a name. Repeated calls for the same name return the same id.
func (db *DB) resolve(name string) (KeySpaceID, error) {
	switch name {
	case "":
		return DefaultKeySpace, nil
	case "system":
		return SystemKeySpace, nil
	}

	r := &db.registry
	if ksid, ok := r.cache.Get(name); ok {
		return ksid, nil
	}
	ksid, found, err := db.lookupKeySpace(name)
	if err != nil {
		return 0, err
	}
	if found {
		r.cache.Add(name, ksid)
		return ksid, nil
	}
	return db.allocateKeySpace(name)
}

func (db *DB) lookupKeySpace(name string) (KeySpaceID, bool, error) {
	data, found, err := db.store.Get(systemKey(registryKeyPrefix + name))
	if err != nil || !found {
		return 0, false, err
	}
	ksid, err := decodeKeySpaceID(data)
	if err != nil {
		return 0, false, err
	}
	return ksid, true, nil
}

func (db *DB) allocateKeySpace(name string) (KeySpaceID, error) {
	r := &db.registry
	r.mu.Lock()
	defer r.mu.Unlock()

	// Another caller may have allocated this name while we waited.
	if ksid, found, err := db.lookupKeySpace(name); err != nil || found {
		if found {
			r.cache.Add(name, ksid)
		}
		return ksid, err
	}

	if r.next == 0 {
		if err := db.loadMaxKeySpaceID(); err != nil {
			return 0, err
		}
	}

	ksid := r.next
	next := ksid + 1
	if err := db.store.Put(systemKey(maxKeySpaceIDKey), encodeKeySpaceID(next)); err != nil {
		return 0, err
	}
	if err := db.store.Put(systemKey(registryKeyPrefix+name), encodeKeySpaceID(ksid)); err != nil {
		return 0, err
	}
	if err := db.putKeySpaceMeta(name); err != nil {
		return 0, err
	}
	r.next = next
	r.cache.Add(name, ksid)
	if db.verbose {
		db.logf("ksdb: allocated keyspace %q = %d", name, ksid)
	}
	return ksid, nil
}

// loadMaxKeySpaceID initializes the cached counter from the persisted
// value, which holds the id the next allocation hands out. Corrupt
// counter bytes are fatal: reallocating ids would corrupt every keyspace.
func (db *DB) loadMaxKeySpaceID() error {
	data, found, err := db.store.Get(systemKey(maxKeySpaceIDKey))
	if err != nil {
		return err
	}
	if !found {
		db.registry.next = firstUserKeySpace
		return nil
	}
	ksid, err := decodeKeySpaceID(data)
	if err != nil {
		return err
	}
	if ksid < firstUserKeySpace {
		return corruptErrf(data, "max keyspace id %d is below the first user id", ksid)
	}
	db.registry.next = ksid
	return nil
}

func (db *DB) putKeySpaceMeta(name string) error {
	data, err := msgpack.Marshal(&KeySpaceInfo{CreatedAt: time.Now()})
	if err != nil {
		return err
	}
	return db.store.Put(systemKey(metaKeyPrefix+name), data)
}

// KeySpaces lists all registered keyspaces in name order, with their ids
// and metadata. Reserved keyspaces (default and system) are not listed.
func (db *DB) KeySpaces() ([]KeySpaceInfo, error) {
	prefix := systemKey(registryKeyPrefix)

	cur, err := db.store.Cursor()
	if err != nil {
		return nil, err
	}
	defer cur.Close()

	var infos []KeySpaceInfo
	for k, v := cur.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = cur.Next() {
		name := string(k[len(prefix):])
		ksid, err := decodeKeySpaceID(v)
		if err != nil {
			return nil, err
		}
		infos = append(infos, KeySpaceInfo{Name: name, ID: ksid})
	}
	if err := cur.Close(); err != nil {
		return nil, err
	}

	for i := range infos {
		data, found, err := db.store.Get(systemKey(metaKeyPrefix + infos[i].Name))
		if err != nil {
			return nil, err
		}
		if !found {
			continue // registered before metadata records existed
		}
		if err := msgpack.Unmarshal(data, &infos[i]); err != nil {
			return nil, corruptErrf(data, "keyspace %q metadata: %v", infos[i].Name, err)
		}
	}
	return infos, nil
}

func systemKey(key string) []byte {
	return encodeKey(SystemKeySpace, []byte(key))
}
