/*
Package ksdb turns a flat, ordered key-value store (in this case, Bolt)
into a set of independent named keyspaces sharing one physical key range.

We implement:

1. Keyspace registry, mapping human-readable keyspace names to compact
numeric ids, allocating fresh ids atomically and persistently.

2. Key codec, prefixing every application key with the fixed-width id of
its keyspace so distinct namespaces never collide and sort contiguously.

3. Streaming scans, walking an ordered key range from a seek point and
folding the items through caller-supplied continuation, filter, map and
reduce policies.

# Technical Details

**Keyspace ids.**
Each keyspace gets a 4-byte big-endian id. Id 0 is the default (unnamed)
keyspace, id 1 is the system keyspace holding registry bookkeeping, and
user keyspaces are allocated from 2 upward, one per distinct name, never
reused. Because the prefix is fixed-width, the relative order of keys
within one keyspace matches the order of the raw application keys.

**Registry bookkeeping.**
The system keyspace stores a record per name (“keyspace:” ++ name → id),
a msgpack metadata record per name (“keyspace-meta:” ++ name), and the
allocation counter (“max-keyspace-id”). The counter holds the id that the
next allocation will hand out. Allocation is a single mutex-guarded
read-increment-persist sequence, so ids are unique within one process;
nothing coordinates separate processes sharing the same file.

**Scans.**
A scan seeks to the encoded start key and collects items forward while
the continuation predicate holds, then folds the collected range from the
last item back to the first, so a prepending reducer yields ascending key
order. The whole qualifying range is materialized before the call
returns. The continuation predicate always receives the scan's initial
accumulator, never a partial result; see ScanQuery.
*/
package ksdb
