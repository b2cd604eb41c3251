package engine

import (
	"testing"

	"github.com/mhib/lazybeak/backend"
)

func newTestThread(e *Engine) *thread {
	return &e.threads[0]
}

func TestIsDrawFiftyMoveRule(t *testing.T) {
	e := newTestEngine()
	th := newTestThread(e)
	pos := backend.InitialPosition
	pos.FiftyMove = 101
	th.stack[0].position = pos
	if !th.isDraw(0) {
		t.Error("FiftyMove > 100 should be a draw")
	}
}

func TestIsDrawInsufficientMaterial(t *testing.T) {
	e := newTestEngine()
	th := newTestThread(e)
	pos, err := backend.ParseFEN("8/8/4k3/8/8/4K3/8/8 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	th.stack[0].position = pos
	if !th.isDraw(0) {
		t.Error("bare king vs king should be a draw")
	}
}

func TestIsDrawSingleMinorIsDraw(t *testing.T) {
	e := newTestEngine()
	th := newTestThread(e)
	pos, err := backend.ParseFEN("8/8/4k3/8/3N4/4K3/8/8 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	th.stack[0].position = pos
	if !th.isDraw(0) {
		t.Error("king and a single minor piece cannot force mate, should be a draw")
	}
}

func TestIsDrawRookIsNotDraw(t *testing.T) {
	e := newTestEngine()
	th := newTestThread(e)
	pos, err := backend.ParseFEN("8/k7/8/8/8/8/1K6/R7 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	th.stack[0].position = pos
	if th.isDraw(0) {
		t.Error("king and rook vs king is a win, should not be reported as a draw")
	}
}

func TestIsDrawRepeatedPositionFromGameHistory(t *testing.T) {
	e := newTestEngine()
	th := newTestThread(e)
	pos := backend.InitialPosition
	th.stack[0].position = pos
	e.RepeatedPositions = map[uint64]interface{}{pos.Key: struct{}{}}
	if !th.isDraw(0) {
		t.Error("a position already repeated in the played-move history should be a draw")
	}
}

func TestIsDrawRepetitionWithinSearchStack(t *testing.T) {
	e := newTestEngine()
	th := newTestThread(e)
	pos := backend.InitialPosition
	th.stack[0].position = pos
	// Nf3 Nf6 Ng1 Ng8 returns to the starting position by repetition.
	knightOut, _ := pos.MakeMoveLAN("g1f3")
	th.stack[1].position = knightOut
	reply, _ := knightOut.MakeMoveLAN("g8f6")
	th.stack[2].position = reply
	back, _ := reply.MakeMoveLAN("f3g1")
	th.stack[3].position = back
	repeat, _ := back.MakeMoveLAN("f6g8")
	th.stack[4].position = repeat

	if repeat.Key != pos.Key {
		t.Fatal("test setup error: repeat position should match the starting key")
	}
	if !th.isDraw(4) {
		t.Error("returning to a position already on the search stack should be a draw")
	}
}
