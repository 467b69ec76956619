// Package reconnect runs a prayer-bot session in a loop, governed by the
// condition set and retry policy described in spec.md §4.8.
package reconnect

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"time"

	"go.uber.org/multierr"

	"github.com/Faultbox/ottd-prayer/internal/bot"
	"github.com/Faultbox/ottd-prayer/internal/logger"
)

// Dialer opens one connection attempt and drives it to completion,
// returning the termination condition. client.Dial implements this.
type Dialer func(ctx context.Context, host string, port uint16, cfg bot.Config) (bot.Condition, error)

// ErrConnectionLost is returned once the pre-connection retry budget for
// CONNECTION_LOST is exhausted.
var ErrConnectionLost = errors.New("reconnect: connection to remote server lost")

// Run loops dial indefinitely, honoring cfg.AutoReconnectIf and the given
// wait/count policy, until a non-reconnectable condition is signalled or
// ctx is cancelled.
func Run(ctx context.Context, dial Dialer, host string, port uint16, cfg bot.Config, wait time.Duration, count int) error {
	for {
		cond, err := connectWithRetry(ctx, dial, host, port, cfg, wait, count)
		if err != nil {
			return err
		}

		if !cfg.ShouldReconnect(cond) {
			logger.Warn("not reconnecting any more")
			return nil
		}

		logger.Info(fmt.Sprintf("waiting %s before retrying", wait))
		if !sleepCtx(ctx, wait) {
			return ctx.Err()
		}
	}
}

// connectWithRetry implements the pseudocode's inner loop: pre-connection
// ConnectionRefused errors are retried only while CONNECTION_LOST is in the
// reconnect set, for at most count dial attempts in total.
func connectWithRetry(ctx context.Context, dial Dialer, host string, port uint16, cfg bot.Config, wait time.Duration, count int) (bot.Condition, error) {
	attempt := 1
	for {
		logger.Info(fmt.Sprintf("attempt %d to connect to remote server", attempt))
		cond, err := dial(ctx, host, port, cfg)
		if err == nil {
			return cond, nil
		}
		if !isConnectionRefused(err) {
			return bot.CondUnhandled, err
		}

		logger.Error(fmt.Sprintf("cannot connect to remote server: %s", err))
		attempt++
		if !cfg.ShouldReconnect(bot.CondConnectionLost) || attempt > count {
			return bot.CondUnhandled, multierr.Append(ErrConnectionLost, err)
		}

		if !sleepCtx(ctx, wait) {
			return bot.CondUnhandled, ctx.Err()
		}
	}
}

func isConnectionRefused(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED)
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
