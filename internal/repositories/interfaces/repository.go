package interfaces

import (
	"context"
	"errors"
)

// Sentinel errors shared by all repositories. Services match on these with
// errors.Is instead of inspecting driver errors.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// Transactor runs fn inside a single database transaction. Repository calls
// made with the context passed to fn join that transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
