package bot

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"testing"
)

func TestCompanyPasswordHashKnownAnswer(t *testing.T) {
	var buf [32]byte
	buf[0] = 'p' ^ 's'
	want := strings.ToUpper(hex.EncodeToString(md5Sum(buf)))

	got := CompanyPasswordHash("p", "s", 0)
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func md5Sum(b [32]byte) []byte {
	sum := md5.Sum(b[:])
	return sum[:]
}

func TestCompanyPasswordHashEmptyPassword(t *testing.T) {
	if got := CompanyPasswordHash("", "s", 1234); got != "" {
		t.Fatalf("expected empty string, got %s", got)
	}
}

func idPtr(v uint8) *uint8 { return &v }

func TestAckMonotonicity(t *testing.T) {
	s := NewState(Config{})
	var last uint32
	seen := 0
	for _, frame := range []struct{ server, max uint32 }{
		{50, 40}, {100, 90}, {100, 100}, {200, 150}, {200, 200},
	} {
		ack := s.OnServerFrame(frame.server, frame.max, nil)
		if ack == nil {
			continue
		}
		if seen > 0 && ack.Frame <= last {
			t.Fatalf("ack frame %d not strictly increasing after %d", ack.Frame, last)
		}
		if seen > 0 && ack.Frame < last+DayTicks {
			t.Fatalf("ack frame %d did not advance by at least %d from %d", ack.Frame, DayTicks, last)
		}
		last = ack.Frame
		seen++
	}
	if seen == 0 {
		t.Fatal("expected at least one ack")
	}
}

func TestAckTokenTracksLatest(t *testing.T) {
	s := NewState(Config{})
	tok := uint8(5)
	ack := s.OnServerFrame(100, 100, &tok)
	if ack == nil || ack.Token != 5 {
		t.Fatalf("expected ack with token 5, got %+v", ack)
	}
}

func TestJoinCompanySendsMoveAndStartsTimer(t *testing.T) {
	s := NewState(Config{TargetCompanyID: idPtr(2), SpectateIfAlone: false})
	s.ReadyToPlay = true
	s.OwnClientID = 7

	actions := s.HandlePlayerMovement(99, 2) // another client joins company 2
	if len(actions) != 2 {
		t.Fatalf("expected send-move + start-timer, got %+v", actions)
	}
	if actions[0].Kind != ActionSendMove || actions[0].CompanyID != 2 {
		t.Fatalf("unexpected first action %+v", actions[0])
	}
	if actions[1].Kind != ActionStartConfirmTimer {
		t.Fatalf("unexpected second action %+v", actions[1])
	}
}

func TestJoinCompanyWithholdsMoveWhenSpectateIfAloneAndNobodyPresent(t *testing.T) {
	s := NewState(Config{TargetCompanyID: idPtr(2), SpectateIfAlone: true})
	s.ReadyToPlay = true
	s.OwnClientID = 7

	if actions := s.joinCompany(); actions != nil {
		t.Fatalf("expected no action, got %+v", actions)
	}
}

func TestSpectateIfAlone(t *testing.T) {
	s := NewState(Config{TargetCompanyID: idPtr(2), SpectateIfAlone: true})
	s.ReadyToPlay = true
	s.OwnClientID = 7
	s.IsPlaying = true
	s.OtherClientsPlaying[99] = true

	actions := s.HandlePlayerMovement(99, CompanySpectator) // last other player leaves
	if len(actions) != 1 || actions[0].Kind != ActionSendMove || actions[0].CompanyID != CompanySpectator {
		t.Fatalf("expected a single spectate move, got %+v", actions)
	}

	// The server confirms the spectate move; is_playing drops, so the
	// alone condition no longer re-fires on further quit events.
	s.HandlePlayerMovement(s.OwnClientID, CompanySpectator)
	if actions := s.HandlePlayerMovement(98, CompanySpectator); actions != nil {
		t.Fatalf("expected no further action, got %+v", actions)
	}
}

func TestConfirmMoveTimeoutSignalsCannotMove(t *testing.T) {
	s := NewState(Config{TargetCompanyID: idPtr(2)})
	s.ReadyToPlay = true
	s.OwnClientID = 7
	s.joinCompany() // starts the confirm-move timer

	actions := s.ConfirmMoveTimeout()
	if len(actions) != 1 || actions[0].Kind != ActionSignalCannotMove {
		t.Fatalf("expected CANNOT_MOVE signal, got %+v", actions)
	}

	// Firing again after already resolved is a no-op.
	if actions := s.ConfirmMoveTimeout(); actions != nil {
		t.Fatalf("expected no action on second timeout, got %+v", actions)
	}
}

func TestConfirmMoveTimeoutSuppressedOnceConfirmed(t *testing.T) {
	s := NewState(Config{TargetCompanyID: idPtr(2)})
	s.ReadyToPlay = true
	s.OwnClientID = 7
	s.joinCompany()

	s.HandlePlayerMovement(7, 2) // SERVER_MOVE confirms the bot is now playing

	if actions := s.ConfirmMoveTimeout(); actions != nil {
		t.Fatalf("expected no action once confirmed, got %+v", actions)
	}
}

func TestOwnMoveAwaySendsMoveBackAndUnsetsPlaying(t *testing.T) {
	s := NewState(Config{TargetCompanyID: idPtr(2)})
	s.ReadyToPlay = true
	s.OwnClientID = 7
	s.IsPlaying = true
	s.confirmTimerRunning = false

	actions := s.HandlePlayerMovement(7, 3) // moved to a different company than target
	if !contains(actions, ActionSendMove) {
		t.Fatalf("expected a move back towards the target company, got %+v", actions)
	}
	if s.IsPlaying {
		t.Fatal("expected IsPlaying to be false after moving off target company")
	}
}

func contains(actions []Action, kind ActionKind) bool {
	for _, a := range actions {
		if a.Kind == kind {
			return true
		}
	}
	return false
}

func TestConditionString(t *testing.T) {
	if CondBanned.String() != "BANNED" {
		t.Fatalf("got %s", CondBanned.String())
	}
	if Condition(255).String() != "UNHANDLED" {
		t.Fatalf("expected UNHANDLED for out-of-range condition")
	}
}

func TestShouldReconnect(t *testing.T) {
	cfg := Config{AutoReconnectIf: map[Condition]bool{CondConnectionLost: true}}
	if !cfg.ShouldReconnect(CondConnectionLost) {
		t.Fatal("expected CONNECTION_LOST to be reconnectable")
	}
	if cfg.ShouldReconnect(CondKicked) {
		t.Fatal("expected KICKED to not be reconnectable")
	}
}
