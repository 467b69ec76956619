// Package bot implements the prayer-bot session state machine: the join
// handshake, map transfer, per-frame acknowledgement loop, and company
// movement policy described in spec.md §4.7.
package bot

// Condition is a reconnect-governing termination reason.
type Condition uint8

// Reconnect conditions, matching spec.md §3's AutoReconnectCondition enum.
const (
	CondUnhandled Condition = iota
	CondConnectionLost
	CondKicked
	CondServerFull
	CondWrongGamePassword
	CondCompanyNotFound
	CondCannotMove
	CondServerShuttingDown
	CondBanned
	CondServerRestarting
	CondWrongRevision
)

var conditionNames = map[Condition]string{
	CondUnhandled:          "UNHANDLED",
	CondConnectionLost:     "CONNECTION_LOST",
	CondKicked:             "KICKED",
	CondServerFull:         "SERVER_FULL",
	CondWrongGamePassword:  "WRONG_GAME_PASSWORD",
	CondCompanyNotFound:    "COMPANY_NOT_FOUND",
	CondCannotMove:         "CANNOT_MOVE",
	CondServerShuttingDown: "SERVER_SHUTTING_DOWN",
	CondBanned:             "BANNED",
	CondServerRestarting:   "SERVER_RESTARTING",
	CondWrongRevision:      "WRONG_REVISION",
}

func (c Condition) String() string {
	if name, ok := conditionNames[c]; ok {
		return name
	}
	return "UNHANDLED"
}

// MaxCompanies is the exclusive boundary between real company ids and the
// spectator sentinel.
const MaxCompanies = 0x0F

// CompanySpectator is the sentinel company id meaning "not in a company".
const CompanySpectator uint8 = 255

// DayTicks is the number of simulation frames per in-game day; ack frames
// advance by this amount each time the bot falls behind.
const DayTicks = 74

// Config holds everything the session needs that spec.md §4.7 lists as
// "configuration it consumes". It is a pure value type so bot logic can be
// unit tested without any config-file parsing involved.
type Config struct {
	PlayerName string

	Revision       string // if empty, queried via CLIENT_GAME_INFO/SERVER_GAME_INFO
	RevisionMajor  uint8
	RevisionMinor  uint8
	RevisionStable bool

	ServerPassword  string
	CompanyPassword string

	TargetCompanyID   *uint8 // 0..14, mutually exclusive with TargetCompanyName
	TargetCompanyName string

	SpectateIfAlone bool
	AutoReconnectIf map[Condition]bool

	// SaveloadDumpFile, if set, writes a human-readable dump of the decoded
	// savegame to this path once the map transfer completes.
	SaveloadDumpFile string
}

// ShouldReconnect reports whether cond is a member of the configured
// auto_reconnect_if set.
func (c Config) ShouldReconnect(cond Condition) bool {
	return c.AutoReconnectIf[cond]
}

// ServerProperties is created once on SERVER_WELCOME and lives for the
// rest of the session.
type ServerProperties struct {
	ClientID uint32
	GameSeed uint32
	ServerID string
}
