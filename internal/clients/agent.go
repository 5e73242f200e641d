// Package clients holds the outbound collaborators of the storefront: the
// catalogue feed, the spreadsheet order sink, messaging handoff and the
// payment popup.
package clients

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

// requestTimeout bounds a call by both the client timeout and the context deadline.
func requestTimeout(ctx context.Context, timeout time.Duration) time.Duration {
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			return remaining
		}
	}
	return timeout
}

// do runs a prepared agent and flattens its error list.
func do(ctx context.Context, a *fiber.Agent, timeout time.Duration) (int, []byte, error) {
	if err := ctx.Err(); err != nil {
		fiber.ReleaseAgent(a)
		return 0, nil, err
	}
	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		return 0, nil, err
	}
	code, body, errs := a.Timeout(requestTimeout(ctx, timeout)).Bytes()
	if len(errs) > 0 {
		return code, body, errors.Join(errs...)
	}
	return code, body, nil
}
