// Package coordinator encodes and decodes the subset of the OpenTTD
// Coordinator wire protocol needed to resolve an invite code to a direct
// server address.
package coordinator

import (
	"fmt"

	"github.com/Faultbox/ottd-prayer/internal/wire"
)

// Version is the coordinator protocol version this client speaks.
const Version uint8 = 6

// Packet type identifiers for the coordinator protocol. The upstream
// protocol defines a larger enum (registration, listing, STUN); only the
// subset this client exchanges is given here, numbered in table order
// (see DESIGN.md for why these values, not upstream's, are used).
const (
	PacketGCError          uint8 = 0
	PacketGCConnecting     uint8 = 1
	PacketClientConnect    uint8 = 2
	PacketGCConnectFailed  uint8 = 3
	PacketGCDirectConnect  uint8 = 4
	PacketGCStunRequest    uint8 = 5
)

// ClientConnect is the only packet this client ever sends.
type ClientConnect struct {
	InviteCode string
}

// Encode writes the CLIENT_CONNECT body: uint8 version, string invite_code.
func (p ClientConnect) Encode() []byte {
	w := wire.NewWriter()
	w.Uint8(Version).String(p.InviteCode)
	return w.Bytes()
}

// GCError carries a coordinator-reported error.
type GCError struct {
	ErrorCode uint8
	ErrorStr  string
}

// DecodeGCError decodes a GC_ERROR body: uint8 error_code, string error_str.
func DecodeGCError(body []byte) (GCError, error) {
	r := wire.NewReader(body)
	code, err := r.Uint8()
	if err != nil {
		return GCError{}, err
	}
	str, err := r.String()
	if err != nil {
		return GCError{}, err
	}
	if err := wire.FinishDecode(r); err != nil {
		return GCError{}, err
	}
	return GCError{ErrorCode: code, ErrorStr: str}, nil
}

// GCConnecting reports that the coordinator is attempting to connect the
// two peers.
type GCConnecting struct {
	Token      string
	InviteToken string
}

// DecodeGCConnecting decodes a GC_CONNECTING body: string token, string invite_token.
func DecodeGCConnecting(body []byte) (GCConnecting, error) {
	r := wire.NewReader(body)
	token, err := r.String()
	if err != nil {
		return GCConnecting{}, err
	}
	inviteToken, err := r.String()
	if err != nil {
		return GCConnecting{}, err
	}
	if err := wire.FinishDecode(r); err != nil {
		return GCConnecting{}, err
	}
	return GCConnecting{Token: token, InviteToken: inviteToken}, nil
}

// GCConnectFailed reports that the coordinator could not connect the peers.
type GCConnectFailed struct {
	Token string
}

// DecodeGCConnectFailed decodes a GC_CONNECT_FAILED body: string token.
func DecodeGCConnectFailed(body []byte) (GCConnectFailed, error) {
	r := wire.NewReader(body)
	token, err := r.String()
	if err != nil {
		return GCConnectFailed{}, err
	}
	if err := wire.FinishDecode(r); err != nil {
		return GCConnectFailed{}, err
	}
	return GCConnectFailed{Token: token}, nil
}

// GCDirectConnect carries the resolved direct address. Only Host and Port
// are retained by callers; Token and Tracking are decoded but unused.
type GCDirectConnect struct {
	Token    string
	Tracking uint8
	Host     string
	Port     uint16
}

// DecodeGCDirectConnect decodes a GC_DIRECT_CONNECT body:
// string token, uint8 tracking, string host, uint16 port.
func DecodeGCDirectConnect(body []byte) (GCDirectConnect, error) {
	r := wire.NewReader(body)
	token, err := r.String()
	if err != nil {
		return GCDirectConnect{}, err
	}
	tracking, err := r.Uint8()
	if err != nil {
		return GCDirectConnect{}, err
	}
	host, err := r.String()
	if err != nil {
		return GCDirectConnect{}, err
	}
	port, err := r.Uint16()
	if err != nil {
		return GCDirectConnect{}, err
	}
	if err := wire.FinishDecode(r); err != nil {
		return GCDirectConnect{}, err
	}
	return GCDirectConnect{Token: token, Tracking: tracking, Host: host, Port: port}, nil
}

// GCStunRequest asks the client to perform STUN traversal, which this
// client does not implement; receiving it is always a fatal error.
type GCStunRequest struct {
	Token string
}

// DecodeGCStunRequest decodes a GC_STUN_REQUEST body: string token.
func DecodeGCStunRequest(body []byte) (GCStunRequest, error) {
	r := wire.NewReader(body)
	token, err := r.String()
	if err != nil {
		return GCStunRequest{}, err
	}
	if err := wire.FinishDecode(r); err != nil {
		return GCStunRequest{}, err
	}
	return GCStunRequest{Token: token}, nil
}

// ErrSTUNNotImplemented reports that STUN traversal is not implemented. The
// IP resolver does not return it: it answers GC_STUN_REQUEST with
// ipresolver.ErrCannotRetrieveServerIP.
var ErrSTUNNotImplemented = fmt.Errorf("coordinator: STUN traversal not implemented")
