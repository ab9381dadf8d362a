package ksdb

import "encoding/binary"

// KeySpaceID identifies a logical keyspace. Every physical key carries
// the id of its keyspace as a fixed-width big-endian prefix, so keys of
// one keyspace sort contiguously and never collide with another's.
type KeySpaceID uint32

const (
	// DefaultKeySpace is the unnamed keyspace, resolved from "".
	DefaultKeySpace KeySpaceID = 0
	// SystemKeySpace holds registry bookkeeping, resolved from "system".
	SystemKeySpace KeySpaceID = 1

	// firstUserKeySpace is the first id handed out to a named keyspace.
	firstUserKeySpace KeySpaceID = 2
)

const keySpacePrefixLen = 4

// encodeKey prefixes key with the 4-byte big-endian keyspace id.
// The encoding is injective over (ksid, key) pairs, and for a fixed ksid
// the order of encoded keys matches the order of raw keys.
func encodeKey(ksid KeySpaceID, key []byte) []byte {
	buf := make([]byte, keySpacePrefixLen+len(key))
	binary.BigEndian.PutUint32(buf, uint32(ksid))
	copy(buf[keySpacePrefixLen:], key)
	return buf
}

// decodeKey drops the keyspace prefix, returning the application key.
// The result aliases ekey.
func decodeKey(ekey []byte) ([]byte, error) {
	if len(ekey) < keySpacePrefixLen {
		return nil, corruptErrf(ekey, "encoded key shorter than the keyspace prefix")
	}
	return ekey[keySpacePrefixLen:], nil
}

func encodeKeySpaceID(ksid KeySpaceID) []byte {
	var buf [keySpacePrefixLen]byte
	binary.BigEndian.PutUint32(buf[:], uint32(ksid))
	return buf[:]
}

func decodeKeySpaceID(data []byte) (KeySpaceID, error) {
	if len(data) != keySpacePrefixLen {
		return 0, corruptErrf(data, "keyspace id must be %d bytes, got %d", keySpacePrefixLen, len(data))
	}
	return KeySpaceID(binary.BigEndian.Uint32(data)), nil
}
