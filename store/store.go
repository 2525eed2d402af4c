package store

import (
	"database/sql"
	"errors"
)

// ErrConcurrentUpdate means a ledger mutation lost its optimistic guard to
// another writer; the caller re-reads and retries or gives up.
var ErrConcurrentUpdate = errors.New("store: concurrent update")

func IsErrNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
