package download

import "context"

type progressKey struct{}

// WithCallback returns a context carrying a progress callback for Fetch.
func WithCallback(ctx context.Context, cb ProgressCallback) context.Context {
	return context.WithValue(ctx, progressKey{}, cb)
}

// CallbackFromContext extracts the progress callback from ctx, or nil.
func CallbackFromContext(ctx context.Context) ProgressCallback {
	if cb, ok := ctx.Value(progressKey{}).(ProgressCallback); ok {
		return cb
	}
	return nil
}
