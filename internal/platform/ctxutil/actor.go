package ctxutil

import "context"

type actorDataKey struct{}

// ActorData is the authenticated caller as asserted by the bearer token.
type ActorData struct {
	ID         string
	Name       string
	Department string
	Roles      []string
}

func WithActorData(ctx context.Context, ad *ActorData) context.Context {
	return context.WithValue(ctx, actorDataKey{}, ad)
}

func GetActorData(ctx context.Context) *ActorData {
	if ctx == nil {
		return nil
	}
	if ad, ok := ctx.Value(actorDataKey{}).(*ActorData); ok {
		return ad
	}
	return nil
}

// Default returns context.Background() when ctx is nil.
func Default(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
