package async

import (
	"context"
	"runtime/debug"

	"github.com/m-mizutani/goerr/v2"
	"github.com/siren-lab/siren/pkg/domain/model/errs"
	"github.com/siren-lab/siren/pkg/utils/logging"
	"github.com/siren-lab/siren/pkg/utils/user"
)

// Dispatch executes a handler function asynchronously with proper context and panic recovery
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	newCtx := NewBackgroundContext(ctx)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()
				errs.Handle(newCtx, goerr.New("panic in async handler",
					goerr.V("recover", r),
					goerr.V("stack", string(stack))))
			}
		}()

		if err := handler(newCtx); err != nil {
			errs.Handle(newCtx, err)
		}
	}()
}

// NewBackgroundContext creates a new background context preserving important values.
// The returned context is detached from the parent's cancellation: background work
// must not die with the inbound HTTP request that spawned it.
func NewBackgroundContext(ctx context.Context) context.Context {
	newCtx := context.Background()
	newCtx = logging.With(newCtx, logging.From(ctx))
	if userID := user.FromContext(ctx); userID != "" {
		newCtx = user.WithUserID(newCtx, userID)
	}
	return newCtx
}
