package bot

// ActionKind identifies a side effect the session loop must carry out in
// response to a state transition. Keeping these as data rather than having
// State call back into I/O directly makes the transition logic in this
// file unit-testable without a network connection or real timers.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionSendMove
	ActionStartConfirmTimer
	ActionCancelConfirmTimer
	ActionSignalCannotMove
)

// Action is one side effect produced by a State transition.
type Action struct {
	Kind           ActionKind
	CompanyID      uint8
	HashedPassword string
}

// State is the pure, network-free half of the prayer bot: every field
// spec.md §3 lists as session state, and the transition logic of §4.7
// that does not itself require I/O.
type State struct {
	Cfg   Config
	Props ServerProperties

	OwnClientID          uint32
	ReadyToPlay          bool
	IsPlaying            bool
	TargetCompanyID      *uint8
	OtherClientsPlaying  map[uint32]bool
	confirmTimerRunning  bool

	FrameCounter  uint32
	LastAckFrame  uint32
	Token         uint8
}

// NewState builds a fresh session state for cfg.
func NewState(cfg Config) *State {
	return &State{
		Cfg:                 cfg,
		TargetCompanyID:     cfg.TargetCompanyID,
		OtherClientsPlaying: make(map[uint32]bool),
	}
}

// HandlePlayerMovement implements spec.md §4.7's player-movement handler,
// invoked for SERVER_CLIENT_INFO, SERVER_MOVE, SERVER_QUIT, and
// SERVER_ERROR_QUIT (the latter two as (client_id, COMPANY_SPECTATOR)).
func (s *State) HandlePlayerMovement(clientID uint32, companyID uint8) []Action {
	switch {
	case clientID == s.OwnClientID:
		s.IsPlaying = s.TargetCompanyID != nil && companyID == *s.TargetCompanyID
		return s.joinCompany()

	case companyID <= MaxCompanies:
		s.OtherClientsPlaying[clientID] = true
		return s.joinCompany()

	default:
		delete(s.OtherClientsPlaying, clientID)
		if s.ReadyToPlay && s.IsPlaying && len(s.OtherClientsPlaying) == 0 && s.Cfg.SpectateIfAlone {
			return []Action{{Kind: ActionSendMove, CompanyID: CompanySpectator, HashedPassword: ""}}
		}
		return nil
	}
}

// joinCompany implements spec.md §4.7's join-company handler.
func (s *State) joinCompany() []Action {
	if !s.ReadyToPlay {
		return nil
	}
	if s.IsPlaying {
		if s.confirmTimerRunning {
			s.confirmTimerRunning = false
			return []Action{{Kind: ActionCancelConfirmTimer}}
		}
		return nil
	}
	if s.confirmTimerRunning {
		return nil
	}
	if s.Cfg.SpectateIfAlone && len(s.OtherClientsPlaying) == 0 {
		return nil
	}
	if s.TargetCompanyID == nil {
		return nil
	}

	hash := CompanyPasswordHash(s.Cfg.CompanyPassword, s.Props.ServerID, s.Props.GameSeed)
	s.confirmTimerRunning = true
	return []Action{
		{Kind: ActionSendMove, CompanyID: *s.TargetCompanyID, HashedPassword: hash},
		{Kind: ActionStartConfirmTimer},
	}
}

// ConfirmMoveTimeout fires when the confirm-move timer expires before
// IsPlaying became true. It returns ActionSignalCannotMove unless the move
// was confirmed (or cancelled) in the meantime, in which case it is a
// no-op — the timer is allowed to race with SERVER_MOVE.
func (s *State) ConfirmMoveTimeout() []Action {
	if !s.confirmTimerRunning {
		return nil
	}
	s.confirmTimerRunning = false
	if s.IsPlaying {
		return nil
	}
	return []Action{{Kind: ActionSignalCannotMove}}
}

// ClientAck is the CLIENT_ACK the session loop must send in response to a
// SERVER_FRAME, or nil if the bot is already caught up.
type ClientAck struct {
	Frame uint32
	Token uint8
}

// OnServerFrame implements spec.md §4.7's InGame SERVER_FRAME handling:
// it updates the token and frame counter, and reports whether an ack is
// due. last_ack_frame only ever grows, by at least one day's worth of
// frames per ack, which is what makes the ack sequence strictly
// increasing under repeated SERVER_FRAME input (spec.md §8).
func (s *State) OnServerFrame(frameServer, frameMax uint32, token *uint8) *ClientAck {
	if token != nil {
		s.Token = *token
	}
	if frameMax > frameServer {
		s.FrameCounter = frameMax
	} else {
		s.FrameCounter = frameServer
	}
	if s.LastAckFrame < s.FrameCounter {
		s.LastAckFrame = s.FrameCounter + DayTicks
		return &ClientAck{Frame: s.FrameCounter, Token: s.Token}
	}
	return nil
}
