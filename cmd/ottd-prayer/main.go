// Command ottd-prayer holds a seat in an OpenTTD multiplayer company for as
// long as a configured reconnect policy allows.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/Faultbox/ottd-prayer/internal/bot"
	"github.com/Faultbox/ottd-prayer/internal/client"
	"github.com/Faultbox/ottd-prayer/internal/config"
	"github.com/Faultbox/ottd-prayer/internal/ipresolver"
	"github.com/Faultbox/ottd-prayer/internal/logger"
	"github.com/Faultbox/ottd-prayer/internal/reconnect"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "Usage:", os.Args[0], "[config file]")
		os.Exit(1)
	}

	if err := run(os.Args[1]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.Bot.LogLevel, ""); err != nil {
		return err
	}
	defer logger.Sync()

	ctx := context.Background()

	host, port, err := resolveServer(cfg)
	if err != nil {
		return err
	}

	botCfg := toBotConfig(cfg)
	wait := time.Duration(cfg.Bot.AutoReconnectWait) * time.Second
	return reconnect.Run(ctx, client.Dial, host, port, botCfg, wait, cfg.Bot.ReconnectCount)
}

// resolveServer returns a direct (host, port) pair, either taken straight
// from config or resolved from an invite code via the coordinator.
func resolveServer(cfg *config.Config) (string, uint16, error) {
	if cfg.Server.ServerHost != "" {
		return cfg.Server.ServerHost, cfg.Server.ServerPort, nil
	}

	addr := net.JoinHostPort(cfg.Ottd.CoordinatorHost, strconv.Itoa(int(cfg.Ottd.CoordinatorPort)))
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return "", 0, fmt.Errorf("dialing coordinator: %w", err)
	}
	defer conn.Close()

	server, err := ipresolver.Resolve(conn, cfg.Server.InviteCode)
	if err != nil {
		return "", 0, err
	}
	return server.Host, server.Port, nil
}

// toBotConfig adapts the loaded YAML config into the bot package's pure
// value type, converting the external 1..15 company numbering to the
// protocol's internal 0..14 (spec.md §3).
func toBotConfig(cfg *config.Config) bot.Config {
	var targetID *uint8
	if cfg.Server.CompanyID != nil {
		id := uint8(*cfg.Server.CompanyID - 1)
		targetID = &id
	}

	var major, minor uint8
	if cfg.Ottd.RevisionMajor != nil {
		major = uint8(*cfg.Ottd.RevisionMajor)
	}
	if cfg.Ottd.RevisionMinor != nil {
		minor = uint8(*cfg.Ottd.RevisionMinor)
	}

	return bot.Config{
		PlayerName:        cfg.Server.PlayerName,
		Revision:          cfg.Ottd.NetworkRevision,
		RevisionMajor:     major,
		RevisionMinor:     minor,
		RevisionStable:    cfg.Ottd.RevisionStable,
		ServerPassword:    cfg.Server.ServerPassword,
		CompanyPassword:   cfg.Server.CompanyPassword,
		TargetCompanyID:   targetID,
		TargetCompanyName: cfg.Server.CompanyName,
		SpectateIfAlone:   cfg.Bot.SpectateIfAlone,
		AutoReconnectIf:   cfg.Bot.Conditions(),
		SaveloadDumpFile:  cfg.Bot.SaveloadDumpFile,
	}
}
