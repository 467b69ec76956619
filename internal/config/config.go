// Package config loads and validates the prayer bot's YAML configuration:
// the server section (who to join and where), the bot section (reconnect
// policy and movement behavior), and the ottd section (client revision and
// coordinator address).
package config

import (
	"fmt"

	"github.com/Faultbox/ottd-prayer/internal/bot"
	"github.com/Faultbox/ottd-prayer/internal/logger"
)

// Config is the root of the YAML document.
type Config struct {
	Server Server `yaml:"server"`
	Bot    Bot    `yaml:"bot"`
	Ottd   Ottd   `yaml:"ottd"`
}

// Server names the remote server and the identity to join it with.
type Server struct {
	PlayerName string `yaml:"player_name"`
	ServerPort uint16 `yaml:"server_port"`

	ServerHost string `yaml:"server_host,omitempty"`
	InviteCode string `yaml:"invite_code,omitempty"`

	CompanyID   *int   `yaml:"company_id,omitempty"`
	CompanyName string `yaml:"company_name,omitempty"`

	ServerPassword  string `yaml:"server_password,omitempty"`
	CompanyPassword string `yaml:"company_password,omitempty"`
}

// Validate checks the server section's mutual-exclusion rules (spec.md §6).
func (s Server) Validate() error {
	if (s.ServerHost == "") == (s.InviteCode == "") {
		return fmt.Errorf("config: exactly one of server.server_host or server.invite_code must be set")
	}
	if (s.CompanyID == nil) == (s.CompanyName == "") {
		return fmt.Errorf("config: exactly one of server.company_id or server.company_name must be set")
	}
	if s.CompanyID != nil && (*s.CompanyID < 1 || *s.CompanyID > 15) {
		return fmt.Errorf("config: server.company_id must be between 1 and 15")
	}
	if s.PlayerName == "" {
		return fmt.Errorf("config: server.player_name must be set")
	}
	return nil
}

// Bot controls reconnect policy, movement behavior, and diagnostics.
type Bot struct {
	SpectateIfAlone   bool     `yaml:"spectate_if_alone"`
	AutoReconnectIf   []string `yaml:"auto_reconnect_if"`
	AutoReconnectWait int      `yaml:"auto_reconnect_wait"`
	ReconnectCount    int      `yaml:"reconnect_count"`
	LogLevel          string   `yaml:"log_level"`
	SaveloadDumpFile  string   `yaml:"saveload_dump_file,omitempty"`

	// Deprecated legacy boolean family (spec.md §9's "config flag
	// families"); accepted for one release with a deprecation warning,
	// folded into AutoReconnectIf by Validate.
	AutoReconnect                    *bool `yaml:"auto_reconnect,omitempty"`
	AutoReconnectIfWrongGamePassword *bool `yaml:"auto_reconnect_if_wrong_game_password,omitempty"`
	AutoReconnectIfCompanyNotFound   *bool `yaml:"auto_reconnect_if_company_not_found,omitempty"`
	AutoReconnectIfCannotMove        *bool `yaml:"auto_reconnect_if_cannot_move,omitempty"`
	AutoReconnectIfShutdown          *bool `yaml:"auto_reconnect_if_shutdown,omitempty"`
	AutoReconnectIfBanned            *bool `yaml:"auto_reconnect_if_banned,omitempty"`
	AutoReconnectIfRestarting        *bool `yaml:"auto_reconnect_if_restarting,omitempty"`
}

var conditionByName = map[string]bot.Condition{
	"UNHANDLED":            bot.CondUnhandled,
	"CONNECTION_LOST":      bot.CondConnectionLost,
	"KICKED":               bot.CondKicked,
	"SERVER_FULL":          bot.CondServerFull,
	"WRONG_GAME_PASSWORD":  bot.CondWrongGamePassword,
	"COMPANY_NOT_FOUND":    bot.CondCompanyNotFound,
	"CANNOT_MOVE":          bot.CondCannotMove,
	"SERVER_SHUTTING_DOWN": bot.CondServerShuttingDown,
	"BANNED":               bot.CondBanned,
	"SERVER_RESTARTING":    bot.CondServerRestarting,
	"WRONG_REVISION":       bot.CondWrongRevision,
}

// deprecatedFlag folds one legacy boolean into the modern condition set,
// logging a deprecation warning if it was set at all.
func deprecatedFlag(set *[]string, flag *bool, name string, conds ...string) {
	if flag == nil {
		return
	}
	logger.Warn(fmt.Sprintf("config: bot.%s is deprecated; use bot.auto_reconnect_if instead", name))
	if *flag {
		*set = append(*set, conds...)
	}
}

// Validate folds deprecated legacy flags into AutoReconnectIf, rejects an
// empty reconnect set, and checks the positive-integer fields.
func (b *Bot) Validate() error {
	deprecatedFlag(&b.AutoReconnectIf, b.AutoReconnect, "auto_reconnect", "UNHANDLED", "KICKED", "CONNECTION_LOST")
	deprecatedFlag(&b.AutoReconnectIf, b.AutoReconnectIfWrongGamePassword, "auto_reconnect_if_wrong_game_password", "WRONG_GAME_PASSWORD")
	deprecatedFlag(&b.AutoReconnectIf, b.AutoReconnectIfCompanyNotFound, "auto_reconnect_if_company_not_found", "COMPANY_NOT_FOUND")
	deprecatedFlag(&b.AutoReconnectIf, b.AutoReconnectIfCannotMove, "auto_reconnect_if_cannot_move", "CANNOT_MOVE")
	deprecatedFlag(&b.AutoReconnectIf, b.AutoReconnectIfShutdown, "auto_reconnect_if_shutdown", "SERVER_SHUTTING_DOWN")
	deprecatedFlag(&b.AutoReconnectIf, b.AutoReconnectIfBanned, "auto_reconnect_if_banned", "BANNED")
	deprecatedFlag(&b.AutoReconnectIf, b.AutoReconnectIfRestarting, "auto_reconnect_if_restarting", "SERVER_RESTARTING")

	if len(b.AutoReconnectIf) == 0 {
		return fmt.Errorf("config: bot.auto_reconnect_if must not be empty")
	}
	if b.AutoReconnectWait <= 0 {
		return fmt.Errorf("config: bot.auto_reconnect_wait must be greater than 0")
	}
	if b.ReconnectCount <= 0 {
		return fmt.Errorf("config: bot.reconnect_count must be greater than 0")
	}
	for _, name := range b.AutoReconnectIf {
		if _, ok := conditionByName[name]; !ok {
			return fmt.Errorf("config: unknown auto_reconnect_if value %q", name)
		}
	}
	return nil
}

// Conditions resolves the configured names into the set bot.Config expects.
func (b Bot) Conditions() map[bot.Condition]bool {
	out := make(map[bot.Condition]bool, len(b.AutoReconnectIf))
	for _, name := range b.AutoReconnectIf {
		out[conditionByName[name]] = true
	}
	return out
}

// Ottd carries the client revision identity and coordinator address.
type Ottd struct {
	NetworkRevision string `yaml:"network_revision,omitempty"`
	RevisionMajor   *int   `yaml:"revision_major,omitempty"`
	RevisionMinor   *int   `yaml:"revision_minor,omitempty"`
	RevisionStable  bool   `yaml:"revision_stable"`
	CoordinatorHost string `yaml:"coordinator_host"`
	CoordinatorPort uint16 `yaml:"coordinator_port"`
}

// Validate checks that revision_major and revision_minor are both set or
// both unset.
func (o Ottd) Validate() error {
	if (o.RevisionMajor == nil) != (o.RevisionMinor == nil) {
		return fmt.Errorf("config: ottd.revision_major and ottd.revision_minor must either both be set or both be unset")
	}
	return nil
}

// Default returns a Config with the documented default values applied,
// ready to be overlaid by a loaded YAML file.
func Default() *Config {
	return &Config{
		Server: Server{
			ServerPort: 3979,
		},
		Bot: Bot{
			AutoReconnectWait: 30,
			ReconnectCount:    3,
			LogLevel:          "INFO",
		},
		Ottd: Ottd{
			RevisionStable:  true,
			CoordinatorHost: "coordinator.openttd.org",
			CoordinatorPort: 3976,
		},
	}
}

// Validate runs every section's validation rules.
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Bot.Validate(); err != nil {
		return err
	}
	return c.Ottd.Validate()
}
