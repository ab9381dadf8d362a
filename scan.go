package ksdb

import (
	"bytes"
	"context"
	"log/slog"
)

const debugLogScans = false

// Item is a single key-value pair seen by a scan. Key has the keyspace
// prefix already stripped.
type Item struct {
	Key   []byte
	Value []byte
}

// ScanQuery bundles the policies that drive a scan into a single result.
//
// While decides whether the scan keeps going at each item; the first
// false stops the scan before that item is applied. Its accumulator
// argument is always Init, never a partial result, so While cannot react
// to what has been accumulated so far. That is the contract, not an
// accident of the implementation.
//
// Filter, Map and Reduce are applied from the last qualifying item back
// to the first, so a prepending Reduce yields ascending key order.
//
// A query with any policy left nil is incomplete; Scan panics rather
// than silently defaulting the missing piece.
type ScanQuery[A, B any] struct {
	Init   B
	While  func(start []byte, it Item, acc B) bool
	Filter func(it Item) bool
	Map    func(it Item) A
	Reduce func(mapped A, acc B) B
}

func (q *ScanQuery[A, B]) check() {
	switch {
	case q.While == nil:
		panic("ksdb: ScanQuery is missing While")
	case q.Filter == nil:
		panic("ksdb: ScanQuery is missing Filter")
	case q.Map == nil:
		panic("ksdb: ScanQuery is missing Map")
	case q.Reduce == nil:
		panic("ksdb: ScanQuery is missing Reduce")
	}
}

// Scan walks the active keyspace from start in ascending key order,
// collecting items while q.While holds, and folds them into a single
// result. The whole qualifying range is materialized before Scan
// returns. Scanning an empty range returns q.Init unchanged. The cursor
// is released on every exit path.
func Scan[A, B any](c *Context, start []byte, q ScanQuery[A, B]) (B, error) {
	q.check()
	var zero B

	cur, err := c.db.store.Cursor()
	if err != nil {
		return zero, err
	}
	defer cur.Close()

	prefix := encodeKey(c.ksid, start)
	var items []Item
	for k, v := cur.Seek(prefix); k != nil; k, v = cur.Next() {
		key, err := decodeKey(k)
		if err != nil {
			return zero, err
		}
		it := Item{Key: bytes.Clone(key), Value: bytes.Clone(v)}
		if !q.While(start, it, q.Init) {
			break
		}
		if debugLogScans {
			slog.LogAttrs(context.Background(), slog.LevelDebug, "scan item", hexAttr("key", it.Key), hexAttr("val", it.Value))
		}
		items = append(items, it)
	}

	// Fold from the back so a prepending reducer reconstructs ascending
	// key order.
	acc := q.Init
	for i := len(items) - 1; i >= 0; i-- {
		if q.Filter(items[i]) {
			acc = q.Reduce(q.Map(items[i]), acc)
		}
	}
	return acc, nil
}

// QueryBegins is the continuation preset for keys extending start: the
// current key, truncated by its own final byte, must equal start. (Note
// the truncate-by-one comparison: a key more than one byte longer than
// start stops the scan. This is the historical contract; callers that
// need a plain prefix check supply their own While.)
//
// Filter, Map, Reduce and Init are left for the caller to fill in; using
// the preset as-is panics.
func QueryBegins[A, B any]() ScanQuery[A, B] {
	return ScanQuery[A, B]{
		While: func(start []byte, it Item, _ B) bool {
			if len(it.Key) < len(start) {
				return false
			}
			trunc := it.Key
			if len(trunc) > 0 {
				trunc = trunc[:len(trunc)-1]
			}
			return bytes.Equal(trunc, start)
		},
	}
}

// QueryItems collects the matching items of a QueryBegins scan, in
// ascending key order.
func QueryItems() ScanQuery[Item, []Item] {
	q := QueryBegins[Item, []Item]()
	q.Filter = func(Item) bool { return true }
	q.Map = func(it Item) Item { return it }
	q.Reduce = func(it Item, acc []Item) []Item {
		return append([]Item{it}, acc...)
	}
	return q
}

// QueryList is QueryItems with a caller-supplied map step.
func QueryList[A any](mapFn func(it Item) A) ScanQuery[A, []A] {
	q := QueryBegins[A, []A]()
	q.Filter = func(Item) bool { return true }
	q.Map = mapFn
	q.Reduce = func(v A, acc []A) []A {
		return append([]A{v}, acc...)
	}
	return q
}
