package db

import "errors"

var (
	// ErrKeyNotFound is returned by reads of absent keys.
	ErrKeyNotFound = errors.New("db: key not found")
	// ErrIndexExists is returned by FT.CREATE for an index that is already there.
	ErrIndexExists = errors.New("db: index already exists")
)

// Redis commands named in Error.Op.
const (
	OpPing        = "PING"
	OpGet         = "GET"
	OpSet         = "SET"
	OpHSet        = "HSET"
	OpHGetAll     = "HGETALL"
	OpCreateIndex = "FT.CREATE"
	OpIndexInfo   = "FT.INFO"
	OpSearch      = "FT.SEARCH"
)

// Error records which command failed.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }
