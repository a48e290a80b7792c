package telemetry

import (
	"context"

	"github.com/google/uuid"
)

type turnKey struct{}

// NewTurnID returns a random id for one user turn.
func NewTurnID() string { return uuid.NewString() }

// WithTurnID tags ctx with a turn id. Every event emitted for the turn
// carries it as turn_id.
func WithTurnID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, turnKey{}, id)
}

// TurnIDFromContext returns the turn id set by WithTurnID. An empty id counts
// as unset.
func TurnIDFromContext(ctx context.Context) (string, bool) {
	id, _ := ctx.Value(turnKey{}).(string)
	return id, id != ""
}

// EnsureTurnID returns ctx and its turn id, tagging ctx with a fresh id when
// it has none.
func EnsureTurnID(ctx context.Context) (context.Context, string) {
	if id, ok := TurnIDFromContext(ctx); ok {
		return ctx, id
	}
	id := NewTurnID()
	return WithTurnID(ctx, id), id
}
