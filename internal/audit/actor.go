package audit

import "context"

type actorKey struct{}

// WithActor returns a context carrying the acting principal's name.
// Authentication middleware sets it so ledger entries written further
// down the stack can name who triggered the change.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the acting principal recorded on ctx, or fallback
// when the request was unauthenticated.
func ActorFrom(ctx context.Context, fallback string) string {
	if actor, ok := ctx.Value(actorKey{}).(string); ok && actor != "" {
		return actor
	}
	return fallback
}
