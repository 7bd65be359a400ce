package sigauth

import "context"

type callerKey struct{}

// WithCaller returns a context carrying the authenticated owner.
func WithCaller(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, callerKey{}, owner)
}

// CallerFrom returns the authenticated owner stored by WithCaller.
func CallerFrom(ctx context.Context) (string, bool) {
	owner, ok := ctx.Value(callerKey{}).(string)
	return owner, ok && owner != ""
}
