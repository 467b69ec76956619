// Package game encodes and decodes the OpenTTD Game wire protocol packets
// this client exchanges with a multiplayer server.
package game

import "github.com/Faultbox/ottd-prayer/internal/wire"

// Packet type identifiers. Values match the gapped enumerator ids given in
// spec.md §6; the ambiguous SERVER_NEWGAME/SERVER_SHUTDOWN pair is resolved
// to 8/9 because 40/41 are already claimed by SERVER_COMPANY_UPDATE and
// SERVER_CONFIG_UPDATE in the same table (see DESIGN.md).
const (
	PacketServerFull             uint8 = 0
	PacketServerBanned           uint8 = 1
	PacketClientJoin             uint8 = 2
	PacketServerError            uint8 = 3
	PacketServerGameInfo         uint8 = 6
	PacketClientGameInfo         uint8 = 7
	PacketServerNewGame          uint8 = 8
	PacketServerShutdown         uint8 = 9
	PacketServerCheckNewGRFs     uint8 = 10
	PacketClientNewGRFsChecked   uint8 = 11
	PacketServerNeedGamePassword uint8 = 12
	PacketClientGamePassword     uint8 = 13
	PacketServerWelcome          uint8 = 16
	PacketServerClientInfo       uint8 = 17
	PacketClientGetMap           uint8 = 18
	PacketServerWait             uint8 = 19
	PacketServerMapBegin         uint8 = 20
	PacketServerMapSize          uint8 = 21
	PacketServerMapData          uint8 = 22
	PacketServerMapDone          uint8 = 23
	PacketClientMapOK            uint8 = 24
	PacketServerJoin             uint8 = 25
	PacketServerFrame            uint8 = 26
	PacketClientAck              uint8 = 27
	PacketServerSync             uint8 = 28
	PacketServerCommand          uint8 = 30
	PacketServerChat             uint8 = 32
	PacketServerExternalChat     uint8 = 33
	PacketClientMove             uint8 = 36
	PacketServerMove             uint8 = 37
	PacketServerCompanyUpdate    uint8 = 40
	PacketServerConfigUpdate     uint8 = 41
	PacketServerQuit             uint8 = 43
	PacketServerErrorQuit        uint8 = 45
	PacketEnd                    uint8 = 46
)

// ---- outbound (client) packets ----

// ClientJoin is sent once a revision string and newgrf_version are known.
type ClientJoin struct {
	Revision      string
	NewGRFVersion uint32
	Name          string
	PlayAs        uint8
	Language      uint8
}

// Encode writes: string revision, uint32 newgrf_version, string name, uint8 playas, uint8 language.
func (p ClientJoin) Encode() []byte {
	w := wire.NewWriter()
	w.String(p.Revision).Uint32(p.NewGRFVersion).String(p.Name).Uint8(p.PlayAs).Uint8(p.Language)
	return w.Bytes()
}

// ClientGameInfo has an empty body.
type ClientGameInfo struct{}

// Encode returns an empty body.
func (ClientGameInfo) Encode() []byte { return nil }

// ClientNewGRFsChecked has an empty body.
type ClientNewGRFsChecked struct{}

// Encode returns an empty body.
func (ClientNewGRFsChecked) Encode() []byte { return nil }

// ClientGamePassword carries the plaintext server password.
type ClientGamePassword struct {
	Password string
}

// Encode writes: string password.
func (p ClientGamePassword) Encode() []byte {
	w := wire.NewWriter()
	w.String(p.Password)
	return w.Bytes()
}

// ClientGetMap has an empty body.
type ClientGetMap struct{}

// Encode returns an empty body.
func (ClientGetMap) Encode() []byte { return nil }

// ClientMapOK has an empty body.
type ClientMapOK struct{}

// Encode returns an empty body.
func (ClientMapOK) Encode() []byte { return nil }

// ClientAck acknowledges a simulation frame.
type ClientAck struct {
	Frame uint32
	Token uint8
}

// Encode writes: uint32 frame, uint8 token.
func (p ClientAck) Encode() []byte {
	w := wire.NewWriter()
	w.Uint32(p.Frame).Uint8(p.Token)
	return w.Bytes()
}

// ClientMove requests a company move (or 255 to spectate).
type ClientMove struct {
	CompanyID      uint8
	HashedPassword string
}

// Encode writes: uint8 company_id, string hashed_password.
func (p ClientMove) Encode() []byte {
	w := wire.NewWriter()
	w.Uint8(p.CompanyID).String(p.HashedPassword)
	return w.Bytes()
}

// ---- inbound (server) packets ----

// ServerGameInfo is the version-gated server info blob. Only ServerName and
// Revision are consumed by the bot (to adopt a queried revision string);
// the remaining version-gated fields are decoded for round-trip fidelity
// and otherwise unused.
type ServerGameInfo struct {
	Version uint8

	V7GRFCount uint64 // present if Version >= 7

	V6Dedicated uint8 // present if Version >= 6

	V5Extra    uint32 // present if Version >= 5
	V5ExtraStr string

	V4GRFNames []string // present if Version >= 4

	V3ExtraA uint32 // present if Version >= 3
	V3ExtraB uint32

	V2ExtraA uint8 // present if Version >= 2
	V2ExtraB uint8
	V2ExtraC uint8

	ServerName string
	Revision   string
	Always1    uint8
	Always2    uint8
	Always3    uint8
	Always4    uint8
	AlwaysU16A uint16
	AlwaysU16B uint16
	Always5    uint8
	Always6    uint8
}

// DecodeServerGameInfo decodes a SERVER_GAME_INFO body.
func DecodeServerGameInfo(body []byte) (ServerGameInfo, error) {
	r := wire.NewReader(body)
	var info ServerGameInfo
	var err error

	if info.Version, err = r.Uint8(); err != nil {
		return info, err
	}
	if info.Version >= 7 {
		if info.V7GRFCount, err = r.Uint64(); err != nil {
			return info, err
		}
	}
	if info.Version >= 6 {
		if info.V6Dedicated, err = r.Uint8(); err != nil {
			return info, err
		}
	}
	if info.Version >= 5 {
		if info.V5Extra, err = r.Uint32(); err != nil {
			return info, err
		}
		if info.V5ExtraStr, err = r.String(); err != nil {
			return info, err
		}
	}
	if info.Version >= 4 {
		count, err2 := r.Uint8()
		if err2 != nil {
			return info, err2
		}
		info.V4GRFNames = make([]string, count)
		for i := range info.V4GRFNames {
			if info.V4GRFNames[i], err = r.String(); err != nil {
				return info, err
			}
		}
	}
	if info.Version >= 3 {
		if info.V3ExtraA, err = r.Uint32(); err != nil {
			return info, err
		}
		if info.V3ExtraB, err = r.Uint32(); err != nil {
			return info, err
		}
	}
	if info.Version >= 2 {
		if info.V2ExtraA, err = r.Uint8(); err != nil {
			return info, err
		}
		if info.V2ExtraB, err = r.Uint8(); err != nil {
			return info, err
		}
		if info.V2ExtraC, err = r.Uint8(); err != nil {
			return info, err
		}
	}
	if info.ServerName, err = r.String(); err != nil {
		return info, err
	}
	if info.Revision, err = r.String(); err != nil {
		return info, err
	}
	if info.Always1, err = r.Uint8(); err != nil {
		return info, err
	}
	if info.Always2, err = r.Uint8(); err != nil {
		return info, err
	}
	if info.Always3, err = r.Uint8(); err != nil {
		return info, err
	}
	if info.Always4, err = r.Uint8(); err != nil {
		return info, err
	}
	if info.AlwaysU16A, err = r.Uint16(); err != nil {
		return info, err
	}
	if info.AlwaysU16B, err = r.Uint16(); err != nil {
		return info, err
	}
	if info.Always5, err = r.Uint8(); err != nil {
		return info, err
	}
	if info.Always6, err = r.Uint8(); err != nil {
		return info, err
	}
	if err = wire.FinishDecode(r); err != nil {
		return info, err
	}
	return info, nil
}

// Encode writes a SERVER_GAME_INFO body back out, mirroring DecodeServerGameInfo.
func (info ServerGameInfo) Encode() []byte {
	w := wire.NewWriter()
	w.Uint8(info.Version)
	if info.Version >= 7 {
		w.Uint64(info.V7GRFCount)
	}
	if info.Version >= 6 {
		w.Uint8(info.V6Dedicated)
	}
	if info.Version >= 5 {
		w.Uint32(info.V5Extra).String(info.V5ExtraStr)
	}
	if info.Version >= 4 {
		w.Uint8(uint8(len(info.V4GRFNames)))
		for _, s := range info.V4GRFNames {
			w.String(s)
		}
	}
	if info.Version >= 3 {
		w.Uint32(info.V3ExtraA).Uint32(info.V3ExtraB)
	}
	if info.Version >= 2 {
		w.Uint8(info.V2ExtraA).Uint8(info.V2ExtraB).Uint8(info.V2ExtraC)
	}
	w.String(info.ServerName).String(info.Revision)
	w.Uint8(info.Always1).Uint8(info.Always2).Uint8(info.Always3).Uint8(info.Always4)
	w.Uint16(info.AlwaysU16A).Uint16(info.AlwaysU16B)
	w.Uint8(info.Always5).Uint8(info.Always6)
	return w.Bytes()
}

// ServerError reports a protocol-level error. ErrorStr defaults to
// "no details provided" when truncated, per spec.md §3.
type ServerError struct {
	ErrorCode NetworkErrorCode
	ErrorStr  string
}

// DecodeServerError decodes a SERVER_ERROR body: uint8 code, optional string.
func DecodeServerError(body []byte) (ServerError, error) {
	r := wire.NewReader(body)
	code, err := r.Uint8()
	if err != nil {
		return ServerError{}, err
	}
	str, err := r.String()
	if err != nil {
		str = "no details provided"
	} else if err2 := wire.FinishDecode(r); err2 != nil {
		return ServerError{}, err2
	}
	return ServerError{ErrorCode: NetworkErrorCode(code), ErrorStr: str}, nil
}

// ServerWelcome is issued once, establishing the session's server properties.
type ServerWelcome struct {
	ClientID uint32
	GameSeed uint32
	ServerID string
}

// DecodeServerWelcome decodes a SERVER_WELCOME body: uint32 client_id, uint32 game_seed, string server_id.
func DecodeServerWelcome(body []byte) (ServerWelcome, error) {
	r := wire.NewReader(body)
	var p ServerWelcome
	var err error
	if p.ClientID, err = r.Uint32(); err != nil {
		return p, err
	}
	if p.GameSeed, err = r.Uint32(); err != nil {
		return p, err
	}
	if p.ServerID, err = r.String(); err != nil {
		return p, err
	}
	return p, wire.FinishDecode(r)
}

// ServerClientInfo announces a client's identity and current company.
type ServerClientInfo struct {
	ClientID uint32
	PlayAs   uint8
	Name     string
}

// DecodeServerClientInfo decodes a SERVER_CLIENT_INFO body: uint32 client_id, uint8 playas, string name.
func DecodeServerClientInfo(body []byte) (ServerClientInfo, error) {
	r := wire.NewReader(body)
	var p ServerClientInfo
	var err error
	if p.ClientID, err = r.Uint32(); err != nil {
		return p, err
	}
	if p.PlayAs, err = r.Uint8(); err != nil {
		return p, err
	}
	if p.Name, err = r.String(); err != nil {
		return p, err
	}
	return p, wire.FinishDecode(r)
}

// ServerWait reports how many clients are ahead of this one in the join queue.
type ServerWait struct {
	Waiting uint8
}

// DecodeServerWait decodes a SERVER_WAIT body: uint8 waiting.
func DecodeServerWait(body []byte) (ServerWait, error) {
	r := wire.NewReader(body)
	waiting, err := r.Uint8()
	if err != nil {
		return ServerWait{}, err
	}
	return ServerWait{Waiting: waiting}, wire.FinishDecode(r)
}

// ServerMapBegin starts a map transfer at the given frame.
type ServerMapBegin struct {
	Frame uint32
}

// DecodeServerMapBegin decodes a SERVER_MAP_BEGIN body: uint32 frame.
func DecodeServerMapBegin(body []byte) (ServerMapBegin, error) {
	r := wire.NewReader(body)
	frame, err := r.Uint32()
	if err != nil {
		return ServerMapBegin{}, err
	}
	return ServerMapBegin{Frame: frame}, wire.FinishDecode(r)
}

// ServerMapSize announces the total size of the upcoming map transfer.
type ServerMapSize struct {
	BytesTotal uint32
}

// DecodeServerMapSize decodes a SERVER_MAP_SIZE body: uint32 bytes_total.
func DecodeServerMapSize(body []byte) (ServerMapSize, error) {
	r := wire.NewReader(body)
	total, err := r.Uint32()
	if err != nil {
		return ServerMapSize{}, err
	}
	return ServerMapSize{BytesTotal: total}, wire.FinishDecode(r)
}

// DecodeServerMapData returns the opaque chunk of savegame bytes carried by
// a SERVER_MAP_DATA packet, unconsumed and uninterpreted.
func DecodeServerMapData(body []byte) []byte {
	r := wire.NewReader(body)
	return r.Rest()
}

// ServerJoin announces that a client has fully joined.
type ServerJoin struct {
	ClientID uint32
}

// DecodeServerJoin decodes a SERVER_JOIN body: uint32 client_id.
func DecodeServerJoin(body []byte) (ServerJoin, error) {
	r := wire.NewReader(body)
	id, err := r.Uint32()
	if err != nil {
		return ServerJoin{}, err
	}
	return ServerJoin{ClientID: id}, wire.FinishDecode(r)
}

// ServerFrame carries the current simulation frame counters. Token is
// optional; truncation is tolerated per spec.md §4.4.
type ServerFrame struct {
	FrameCounterServer uint32
	FrameCounterMax    uint32
	Token              *uint8
}

// DecodeServerFrame decodes a SERVER_FRAME body: uint32 frame_server, uint32 frame_max, optional uint8 token.
func DecodeServerFrame(body []byte) (ServerFrame, error) {
	r := wire.NewReader(body)
	var p ServerFrame
	var err error
	if p.FrameCounterServer, err = r.Uint32(); err != nil {
		return p, err
	}
	if p.FrameCounterMax, err = r.Uint32(); err != nil {
		return p, err
	}
	if token, terr := r.Uint8(); terr == nil {
		p.Token = &token
		if err := wire.FinishDecode(r); err != nil {
			return p, err
		}
	}
	return p, nil
}

// ServerSync carries the periodic desync-check state.
type ServerSync struct {
	SyncFrame uint32
	SyncSeed  uint32
}

// DecodeServerSync decodes a SERVER_SYNC body: uint32 sync_frame, uint32 sync_seed.
func DecodeServerSync(body []byte) (ServerSync, error) {
	r := wire.NewReader(body)
	var p ServerSync
	var err error
	if p.SyncFrame, err = r.Uint32(); err != nil {
		return p, err
	}
	if p.SyncSeed, err = r.Uint32(); err != nil {
		return p, err
	}
	return p, wire.FinishDecode(r)
}

// DecodeServerCommand returns the opaque command payload, unconsumed.
func DecodeServerCommand(body []byte) []byte {
	r := wire.NewReader(body)
	return r.Rest()
}

// ServerChat is an in-game chat message.
type ServerChat struct {
	Action   uint8
	ClientID uint32
	SelfSend uint8
	Message  string
	Data     uint64
}

// DecodeServerChat decodes a SERVER_CHAT body: uint8 action, uint32 client_id, uint8 self_send, string message, uint64 data.
func DecodeServerChat(body []byte) (ServerChat, error) {
	r := wire.NewReader(body)
	var p ServerChat
	var err error
	if p.Action, err = r.Uint8(); err != nil {
		return p, err
	}
	if p.ClientID, err = r.Uint32(); err != nil {
		return p, err
	}
	if p.SelfSend, err = r.Uint8(); err != nil {
		return p, err
	}
	if p.Message, err = r.String(); err != nil {
		return p, err
	}
	if p.Data, err = r.Uint64(); err != nil {
		return p, err
	}
	return p, wire.FinishDecode(r)
}

// ServerExternalChat is a chat message relayed from an external source (e.g. Discord).
type ServerExternalChat struct {
	Source  string
	Color   uint16
	User    string
	Message string
}

// DecodeServerExternalChat decodes a SERVER_EXTERNAL_CHAT body: string source, uint16 color, string user, string message.
func DecodeServerExternalChat(body []byte) (ServerExternalChat, error) {
	r := wire.NewReader(body)
	var p ServerExternalChat
	var err error
	if p.Source, err = r.String(); err != nil {
		return p, err
	}
	if p.Color, err = r.Uint16(); err != nil {
		return p, err
	}
	if p.User, err = r.String(); err != nil {
		return p, err
	}
	if p.Message, err = r.String(); err != nil {
		return p, err
	}
	return p, wire.FinishDecode(r)
}

// ServerMove announces a client's new company.
type ServerMove struct {
	ClientID  uint32
	CompanyID uint8
}

// DecodeServerMove decodes a SERVER_MOVE body: uint32 client_id, uint8 company_id.
func DecodeServerMove(body []byte) (ServerMove, error) {
	r := wire.NewReader(body)
	var p ServerMove
	var err error
	if p.ClientID, err = r.Uint32(); err != nil {
		return p, err
	}
	if p.CompanyID, err = r.Uint8(); err != nil {
		return p, err
	}
	return p, wire.FinishDecode(r)
}

// ServerCompanyUpdate carries the bitmask of companies that are password-protected.
type ServerCompanyUpdate struct {
	PasswordedBitmask uint16
}

// DecodeServerCompanyUpdate decodes a SERVER_COMPANY_UPDATE body: uint16 passworded_bitmask.
func DecodeServerCompanyUpdate(body []byte) (ServerCompanyUpdate, error) {
	r := wire.NewReader(body)
	mask, err := r.Uint16()
	if err != nil {
		return ServerCompanyUpdate{}, err
	}
	return ServerCompanyUpdate{PasswordedBitmask: mask}, wire.FinishDecode(r)
}

// ServerConfigUpdate carries server-wide config changes.
type ServerConfigUpdate struct {
	MaxCompanies uint8
	ServerName   string
}

// DecodeServerConfigUpdate decodes a SERVER_CONFIG_UPDATE body: uint8 max_companies, string server_name.
func DecodeServerConfigUpdate(body []byte) (ServerConfigUpdate, error) {
	r := wire.NewReader(body)
	var p ServerConfigUpdate
	var err error
	if p.MaxCompanies, err = r.Uint8(); err != nil {
		return p, err
	}
	if p.ServerName, err = r.String(); err != nil {
		return p, err
	}
	return p, wire.FinishDecode(r)
}

// ServerQuit announces a client's departure.
type ServerQuit struct {
	ClientID uint32
}

// DecodeServerQuit decodes a SERVER_QUIT body: uint32 client_id.
func DecodeServerQuit(body []byte) (ServerQuit, error) {
	r := wire.NewReader(body)
	id, err := r.Uint32()
	if err != nil {
		return ServerQuit{}, err
	}
	return ServerQuit{ClientID: id}, wire.FinishDecode(r)
}

// ServerErrorQuit announces a client's departure due to an error.
type ServerErrorQuit struct {
	ClientID  uint32
	ErrorCode NetworkErrorCode
}

// DecodeServerErrorQuit decodes a SERVER_ERROR_QUIT body: uint32 client_id, uint8 error_code.
func DecodeServerErrorQuit(body []byte) (ServerErrorQuit, error) {
	r := wire.NewReader(body)
	var p ServerErrorQuit
	var err error
	if p.ClientID, err = r.Uint32(); err != nil {
		return p, err
	}
	code, err2 := r.Uint8()
	if err2 != nil {
		return p, err2
	}
	p.ErrorCode = NetworkErrorCode(code)
	return p, wire.FinishDecode(r)
}

// DecodeServerCheckNewGRFs returns the opaque NewGRF-list payload, unconsumed.
func DecodeServerCheckNewGRFs(body []byte) []byte {
	r := wire.NewReader(body)
	return r.Rest()
}
