package ksdb

// Context carries the open database handle and the currently active
// keyspace. It is created once per logical session (see DB.Enter) and is
// immutable except for the active keyspace, which WithKeySpace overrides
// for the dynamic extent of a call. A Context is not for concurrent use
// from multiple goroutines; Enter is cheap, take one per goroutine.
type Context struct {
	db   *DB
	ksid KeySpaceID
}

func (c *Context) DB() *DB { return c.db }

// KeySpace returns the active keyspace id.
func (c *Context) KeySpace() KeySpaceID { return c.ksid }

// WithKeySpace resolves name and runs fn with the active keyspace
// switched to it. The previous keyspace is restored on every exit path
// (normal return, error or panic); the override never escapes the call.
func (c *Context) WithKeySpace(name string, fn func(*Context) error) error {
	ksid, err := c.db.resolve(name)
	if err != nil {
		return err
	}
	prev := c.ksid
	c.ksid = ksid
	defer func() {
		c.ksid = prev
	}()
	return fn(c)
}
