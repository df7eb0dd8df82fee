package async

import (
	"context"
	"runtime/debug"

	"github.com/m-mizutani/ctxlog"
)

// Dispatch runs a handler in the background with panic recovery. The caller
// returns immediately; the handler gets a fresh context carrying the
// caller's logger, so a reload or save in flight survives the request that
// started it.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	bgCtx := ctxlog.With(context.Background(), ctxlog.From(ctx))

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ctxlog.From(bgCtx).Error("panic in async handler",
					"recover", r,
					"stack", string(debug.Stack()),
				)
			}
		}()

		if err := handler(bgCtx); err != nil {
			ctxlog.From(bgCtx).Error("error in async handler",
				"error", err,
			)
		}
	}()
}
