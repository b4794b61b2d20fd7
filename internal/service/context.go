package service

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const (
	ctxActorKey   ctxKey = "actor"
	ctxSessionKey ctxKey = "sessionID"
)

// Actor — аутентифицированный пользователь запроса (опционален).
type Actor struct {
	CustomerID uuid.UUID
	Email      string
}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ctxActorKey, a)
}

func ActorFromContext(ctx context.Context) (Actor, bool) {
	v, ok := ctx.Value(ctxActorKey).(Actor)
	return v, ok
}

func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxSessionKey, id)
}

func SessionIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxSessionKey).(string)
	return v, ok && v != ""
}
