package sessions

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no session exists for the given id.
var ErrNotFound = errors.New("session not found")

// Repo stores sessions keyed by the opaque id carried in the client cookie.
type Repo interface {
	Get(ctx context.Context, sessionID string) (Session, error)
	Put(ctx context.Context, sessionID string, session Session) error
	Delete(ctx context.Context, sessionID string) error
}
