// Package client opens the single TCP connection a prayer-bot session runs
// over and drives that session until it terminates.
package client

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/Faultbox/ottd-prayer/internal/bot"
	"github.com/Faultbox/ottd-prayer/internal/logger"
)

// Dial strips the square brackets a coordinator-resolved IPv6 host carries
// (spec.md §4.9), opens a TCP connection to host:port, and runs a bot
// session over it until termination. The socket is always closed by the
// session before this function returns.
func Dial(ctx context.Context, host string, port uint16, cfg bot.Config) (bot.Condition, error) {
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	addr := net.JoinHostPort(host, fmt.Sprintf("%d", port))

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return bot.CondUnhandled, err
	}

	logger.Info(fmt.Sprintf("connected to %s", addr))
	sess := bot.NewSession(cfg, conn)
	return sess.Run(ctx)
}
