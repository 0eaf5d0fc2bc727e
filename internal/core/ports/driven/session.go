package driven

import (
	"context"

	"github.com/custodia-labs/viva-cli/internal/core/domain"
)

// SessionStore persists interview sessions keyed by an opaque session id.
// Each session is only ever read and mutated by requests carrying its key,
// so implementations need no cross-session coordination beyond making the
// store itself safe for concurrent use.
type SessionStore interface {
	// Get retrieves a session by id, or domain.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.Session, error)

	// Put stores or replaces a session.
	Put(ctx context.Context, session *domain.Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error
}
