package sessions

import "context"

// Repo stores session records. Update is an atomic read-modify-write: fn sees
// the current record and its changes are stored only if it returns nil.
type Repo interface {
	Create(ctx context.Context, session Session) error
	Get(ctx context.Context, sessionID string) (Session, error)
	Update(ctx context.Context, sessionID string, fn func(*Session) error) error
	Delete(ctx context.Context, sessionID string) error
}
