// Package service implements the reservation core: the inventory
// range-change engine, the status machine, the pricing helper and the
// orchestrator that composes them inside one transaction per request.
package service

import (
	"errors"
	"fmt"
)

// The core surfaces exactly two error kinds. Handlers map ErrNotFound
// to HTTP 404 and ErrBadRequest to HTTP 400; everything else is a 500.
// Conflicts only arise at the persistence boundary (repository.ErrConflict)
// and are never produced here.
var (
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
)

func notFoundf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

func badRequestf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrBadRequest)...)
}
