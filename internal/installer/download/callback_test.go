package download

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCallbackFromContext(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(ctx context.Context) context.Context
		wantNil bool
	}{
		{
			name:    "returns nil when no callback set",
			setup:   func(ctx context.Context) context.Context { return ctx },
			wantNil: true,
		},
		{
			name: "returns callback when set",
			setup: func(ctx context.Context) context.Context {
				return WithCallback(ctx, func(downloaded, total int64) {})
			},
			wantNil: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := tt.setup(context.Background())
			cb := CallbackFromContext(ctx)
			if tt.wantNil {
				assert.Nil(t, cb)
			} else {
				assert.NotNil(t, cb)
			}
		})
	}
}
