package ksdb

import (
	"errors"
	"fmt"
)

// ErrCorrupt marks persisted bytes this layer cannot interpret (a bad
// allocation counter or registry record). There is no safe automatic
// recovery — in particular the registry must never silently reallocate
// ids — so callers should treat it as fatal. It is distinct from an
// ordinary missing key, which is reported via a found=false result.
var ErrCorrupt = errors.New("corrupt record")

// CorruptError carries the offending bytes along with ErrCorrupt.
type CorruptError struct {
	Data []byte
	Msg  string
}

func corruptErrf(data []byte, format string, args ...any) error {
	return &CorruptError{Data: data, Msg: fmt.Sprintf(format, args...)}
}

func (e *CorruptError) Unwrap() error {
	return ErrCorrupt
}

func (e *CorruptError) Error() string {
	const prefixLen = 64
	const suffixLen = 32
	n := len(e.Data)
	if n <= prefixLen+suffixLen {
		return fmt.Sprintf("%s: (%d) %x", e.Msg, n, e.Data)
	}
	p, s := e.Data[:prefixLen], e.Data[n-suffixLen:]
	return fmt.Sprintf("%s: (%d) %x...%x", e.Msg, n, p, s)
}
