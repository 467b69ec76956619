package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Faultbox/ottd-prayer/internal/logger"
	"github.com/Faultbox/ottd-prayer/internal/protocol/game"
	"github.com/Faultbox/ottd-prayer/internal/savegame"
	"github.com/Faultbox/ottd-prayer/internal/wire"
)

// phase names the five states of spec.md §4.7.
type phase int

const (
	phaseOpening phase = iota
	phaseJoining
	phaseHandshaking
	phaseMapTransfer
	phaseInGame
)

// banCheckWait and confirmMoveWait are the two cancellable session timers;
// the third named timer (reconnect-wait) lives in the reconnect supervisor.
const (
	banCheckWait    = time.Second
	confirmMoveWait = time.Second
)

// Session drives one game-protocol connection from transport-up to
// termination. A fresh Session is constructed per connection attempt; the
// reconnect supervisor owns retrying.
type Session struct {
	cfg   Config
	conn  io.ReadWriteCloser
	state *State
	phase phase

	companyNameTarget string
	buffering         bool
	saveloadBuf       []byte
}

// NewSession builds a session ready to Run over conn.
func NewSession(cfg Config, conn io.ReadWriteCloser) *Session {
	return &Session{
		cfg:               cfg,
		conn:              conn,
		state:             NewState(cfg),
		phase:             phaseOpening,
		companyNameTarget: cfg.TargetCompanyName,
	}
}

type frameMsg struct {
	typ  uint8
	body []byte
	err  error
}

// Run drives the session to completion, returning the termination
// condition. A nil error paired with CondUnhandled-or-other means the
// session ended via a signalled condition; a non-nil error means the
// connection failed in a way no condition covers (a fatal decode error, or
// ctx being cancelled).
func (s *Session) Run(ctx context.Context) (Condition, error) {
	frames := make(chan frameMsg, 8)
	done := make(chan struct{})
	defer close(done)
	go s.readFrames(frames, done)

	banTimer := time.NewTimer(banCheckWait)
	defer banTimer.Stop()

	var confirmTimer *time.Timer
	var confirmC <-chan time.Time
	stopConfirm := func() {
		if confirmTimer != nil {
			confirmTimer.Stop()
			confirmTimer = nil
			confirmC = nil
		}
	}
	defer stopConfirm()

	for {
		select {
		case <-ctx.Done():
			s.conn.Close()
			return CondUnhandled, ctx.Err()

		case <-banTimer.C:
			if s.phase == phaseOpening {
				s.phase = phaseJoining
				if err := s.beginJoining(); err != nil {
					s.conn.Close()
					return CondUnhandled, err
				}
			}

		case <-confirmC:
			confirmC = nil
			if actions := s.state.ConfirmMoveTimeout(); len(actions) > 0 {
				s.conn.Close()
				return CondCannotMove, nil
			}

		case msg := <-frames:
			if msg.err != nil {
				s.conn.Close()
				if errors.Is(msg.err, io.EOF) {
					return CondConnectionLost, nil
				}
				return CondUnhandled, msg.err
			}

			actions, term, err := s.handleFrame(msg.typ, msg.body)
			if err != nil {
				s.conn.Close()
				return CondUnhandled, err
			}
			for _, a := range actions {
				switch a.Kind {
				case ActionSendMove:
					if err := s.send(game.PacketClientMove, game.ClientMove{
						CompanyID: a.CompanyID, HashedPassword: a.HashedPassword,
					}.Encode()); err != nil {
						s.conn.Close()
						return CondUnhandled, err
					}
				case ActionStartConfirmTimer:
					stopConfirm()
					confirmTimer = time.NewTimer(confirmMoveWait)
					confirmC = confirmTimer.C
				case ActionCancelConfirmTimer:
					stopConfirm()
				}
			}
			if term != nil {
				s.conn.Close()
				return *term, nil
			}
		}
	}
}

func (s *Session) readFrames(out chan<- frameMsg, done <-chan struct{}) {
	for {
		typ, body, err := wire.ReadFrame(s.conn)
		select {
		case out <- frameMsg{typ: typ, body: body, err: err}:
		case <-done:
			return
		}
		if err != nil {
			return
		}
	}
}

func (s *Session) send(typ uint8, body []byte) error {
	return wire.WriteFrame(s.conn, typ, body)
}

func cond(c Condition) *Condition { return &c }

func (s *Session) beginJoining() error {
	if s.cfg.Revision == "" {
		return s.send(game.PacketClientGameInfo, nil)
	}
	return s.sendClientJoin()
}

func (s *Session) sendClientJoin() error {
	var stableBit uint32
	if s.cfg.RevisionStable {
		stableBit = 1
	}
	newgrfVersion := ((uint32(s.cfg.RevisionMajor) + 16) << 24) |
		(uint32(s.cfg.RevisionMinor) << 20) |
		(stableBit << 19) |
		28004

	body := game.ClientJoin{
		Revision:      s.cfg.Revision,
		NewGRFVersion: newgrfVersion,
		Name:          s.cfg.PlayerName,
		PlayAs:        CompanySpectator,
		Language:      0,
	}.Encode()
	s.phase = phaseHandshaking
	return s.send(game.PacketClientJoin, body)
}

func classifyServerError(code game.NetworkErrorCode) Condition {
	switch code {
	case game.ErrWrongPassword:
		return CondWrongGamePassword
	case game.ErrKicked:
		return CondKicked
	case game.ErrWrongRevision:
		return CondWrongRevision
	default:
		return CondUnhandled
	}
}

// handleFrame decodes one inbound packet and applies it to session state.
// It returns bot-level actions to apply (company moves, timer control) and,
// if the packet terminates the session, the resulting condition.
func (s *Session) handleFrame(typ uint8, body []byte) ([]Action, *Condition, error) {
	switch typ {
	case game.PacketServerBanned:
		return nil, cond(CondBanned), nil

	case game.PacketServerFull:
		return nil, cond(CondServerFull), nil

	case game.PacketServerNewGame:
		return nil, cond(CondServerRestarting), nil

	case game.PacketServerShutdown:
		return nil, cond(CondServerShuttingDown), nil

	case game.PacketServerError:
		se, err := game.DecodeServerError(body)
		if err != nil {
			return nil, nil, err
		}
		logger.Warn(fmt.Sprintf("server error %d (%s): %s", se.ErrorCode, se.ErrorCode.String(), se.ErrorStr))
		return nil, cond(classifyServerError(se.ErrorCode)), nil

	case game.PacketServerGameInfo:
		if s.phase != phaseJoining || s.cfg.Revision != "" {
			return nil, nil, nil
		}
		info, err := game.DecodeServerGameInfo(body)
		if err != nil {
			return nil, nil, err
		}
		s.cfg.Revision = info.Revision
		return nil, nil, s.sendClientJoin()

	case game.PacketServerCheckNewGRFs:
		return nil, nil, s.send(game.PacketClientNewGRFsChecked, nil)

	case game.PacketServerNeedGamePassword:
		if s.cfg.ServerPassword == "" {
			return nil, cond(CondWrongGamePassword), nil
		}
		body := game.ClientGamePassword{Password: s.cfg.ServerPassword}.Encode()
		return nil, nil, s.send(game.PacketClientGamePassword, body)

	case game.PacketServerWelcome:
		wl, err := game.DecodeServerWelcome(body)
		if err != nil {
			return nil, nil, err
		}
		s.state.OwnClientID = wl.ClientID
		s.state.Props = ServerProperties{ClientID: wl.ClientID, GameSeed: wl.GameSeed, ServerID: wl.ServerID}
		s.phase = phaseMapTransfer
		return nil, nil, s.send(game.PacketClientGetMap, nil)

	case game.PacketServerMapBegin:
		mb, err := game.DecodeServerMapBegin(body)
		if err != nil {
			return nil, nil, err
		}
		s.state.FrameCounter = mb.Frame
		if s.state.TargetCompanyID == nil {
			s.buffering = true
			s.saveloadBuf = s.saveloadBuf[:0]
		}
		return nil, nil, nil

	case game.PacketServerMapSize:
		_, err := game.DecodeServerMapSize(body)
		return nil, nil, err

	case game.PacketServerMapData:
		if s.buffering {
			s.saveloadBuf = append(s.saveloadBuf, game.DecodeServerMapData(body)...)
		}
		return nil, nil, nil

	case game.PacketServerMapDone:
		if s.buffering {
			container, err := savegame.Decode(s.saveloadBuf)
			if err != nil {
				return nil, nil, err
			}
			s.buffering = false
			s.saveloadBuf = nil

			if s.cfg.SaveloadDumpFile != "" {
				if err := container.Dump(s.cfg.SaveloadDumpFile); err != nil {
					logger.Warn(fmt.Sprintf("saveload dump failed: %s", err))
				}
			}

			idx, err := container.FindCompanyIndex(s.companyNameTarget)
			if err != nil {
				return nil, cond(CondCompanyNotFound), nil
			}
			id := uint8(idx)
			s.state.TargetCompanyID = &id
		}
		s.state.ReadyToPlay = true
		s.phase = phaseInGame
		return nil, nil, s.send(game.PacketClientMapOK, nil)

	case game.PacketServerJoin:
		_, err := game.DecodeServerJoin(body)
		return nil, nil, err

	case game.PacketServerFrame:
		fr, err := game.DecodeServerFrame(body)
		if err != nil {
			return nil, nil, err
		}
		ack := s.state.OnServerFrame(fr.FrameCounterServer, fr.FrameCounterMax, fr.Token)
		if ack == nil {
			return nil, nil, nil
		}
		body := game.ClientAck{Frame: ack.Frame, Token: ack.Token}.Encode()
		return nil, nil, s.send(game.PacketClientAck, body)

	case game.PacketServerSync:
		_, err := game.DecodeServerSync(body)
		return nil, nil, err

	case game.PacketServerCommand:
		_ = game.DecodeServerCommand(body)
		return nil, nil, nil

	case game.PacketServerChat:
		chat, err := game.DecodeServerChat(body)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug(fmt.Sprintf("chat from %d: %s", chat.ClientID, chat.Message))
		return nil, nil, nil

	case game.PacketServerExternalChat:
		ext, err := game.DecodeServerExternalChat(body)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug(fmt.Sprintf("external chat [%s] %s: %s", ext.Source, ext.User, ext.Message))
		return nil, nil, nil

	case game.PacketServerClientInfo:
		ci, err := game.DecodeServerClientInfo(body)
		if err != nil {
			return nil, nil, err
		}
		return s.state.HandlePlayerMovement(ci.ClientID, ci.PlayAs), nil, nil

	case game.PacketServerMove:
		mv, err := game.DecodeServerMove(body)
		if err != nil {
			return nil, nil, err
		}
		return s.state.HandlePlayerMovement(mv.ClientID, mv.CompanyID), nil, nil

	case game.PacketServerCompanyUpdate:
		_, err := game.DecodeServerCompanyUpdate(body)
		return nil, nil, err

	case game.PacketServerConfigUpdate:
		_, err := game.DecodeServerConfigUpdate(body)
		return nil, nil, err

	case game.PacketServerQuit:
		q, err := game.DecodeServerQuit(body)
		if err != nil {
			return nil, nil, err
		}
		return s.state.HandlePlayerMovement(q.ClientID, CompanySpectator), nil, nil

	case game.PacketServerErrorQuit:
		eq, err := game.DecodeServerErrorQuit(body)
		if err != nil {
			return nil, nil, err
		}
		return s.state.HandlePlayerMovement(eq.ClientID, CompanySpectator), nil, nil

	default:
		logger.Debug(fmt.Sprintf("ignoring unknown packet type %d", typ))
		return nil, nil, nil
	}
}
