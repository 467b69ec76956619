// Package ipresolver drives the OpenTTD Coordinator protocol conversation
// that turns an invite code into a direct (host, port) address.
package ipresolver

import (
	"fmt"
	"io"

	"github.com/Faultbox/ottd-prayer/internal/logger"
	"github.com/Faultbox/ottd-prayer/internal/protocol/coordinator"
	"github.com/Faultbox/ottd-prayer/internal/wire"
)

// RemoteServer is a resolved (host, port) pair ready to dial. Host is
// passed through verbatim from the coordinator, including IPv6 brackets
// if present; the client runner strips them immediately before dialing
// (spec.md §4.9).
type RemoteServer struct {
	Host string
	Port uint16
}

// ErrCannotRetrieveServerIP is returned when the coordinator reports an
// error, a failed connection, or requires STUN (which this client does not
// implement).
var ErrCannotRetrieveServerIP = fmt.Errorf("ipresolver: cannot retrieve server IP")

// Resolve sends CLIENT_CONNECT(6, inviteCode) over conn and processes
// coordinator replies until GC_DIRECT_CONNECT succeeds or an error
// terminates the conversation.
func Resolve(conn io.ReadWriter, inviteCode string) (RemoteServer, error) {
	body := coordinator.ClientConnect{InviteCode: inviteCode}.Encode()
	if err := wire.WriteFrame(conn, coordinator.PacketClientConnect, body); err != nil {
		return RemoteServer{}, fmt.Errorf("ipresolver: send CLIENT_CONNECT: %w", err)
	}

	for {
		typ, frameBody, err := wire.ReadFrame(conn)
		if err != nil {
			return RemoteServer{}, fmt.Errorf("ipresolver: read frame: %w", err)
		}

		switch typ {
		case coordinator.PacketGCError:
			gc, err := coordinator.DecodeGCError(frameBody)
			if err != nil {
				return RemoteServer{}, err
			}
			logger.Warn(fmt.Sprintf("coordinator error %d: %s", gc.ErrorCode, gc.ErrorStr))
			return RemoteServer{}, ErrCannotRetrieveServerIP

		case coordinator.PacketGCConnecting:
			gc, err := coordinator.DecodeGCConnecting(frameBody)
			if err != nil {
				return RemoteServer{}, err
			}
			logger.Info(fmt.Sprintf("coordinator connecting: token=%s invite_token=%s", gc.Token, gc.InviteToken))

		case coordinator.PacketGCConnectFailed:
			if _, err := coordinator.DecodeGCConnectFailed(frameBody); err != nil {
				return RemoteServer{}, err
			}
			return RemoteServer{}, ErrCannotRetrieveServerIP

		case coordinator.PacketGCDirectConnect:
			gc, err := coordinator.DecodeGCDirectConnect(frameBody)
			if err != nil {
				return RemoteServer{}, err
			}
			return RemoteServer{Host: gc.Host, Port: gc.Port}, nil

		case coordinator.PacketGCStunRequest:
			return RemoteServer{}, ErrCannotRetrieveServerIP

		default:
			logger.Debug(fmt.Sprintf("coordinator: ignoring unknown packet type %d", typ))
		}
	}
}
