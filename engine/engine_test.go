package engine

import (
	"context"
	"testing"
	"time"

	"github.com/mhib/lazybeak/backend"
	"github.com/mhib/lazybeak/evaluation"
)

func newTestEngine() *Engine {
	e := NewEngine()
	e.NewGame()
	return e
}

// TestSearchFindsFoolsMate is the §8 "Search depth 1 finds forced mate"
// scenario: after 1.f3 e5 2.g4, Qh4# is mate in one. A one-ply search
// must find it since the mated king has no evasions even in quiescence.
func TestSearchFindsFoolsMate(t *testing.T) {
	pos, err := backend.ParseFEN("rnbqkbnr/pppp1ppp/8/4p3/6P1/5P2/PPPPP2P/RNBQKBNR b KQkq - 0 2")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	e := newTestEngine()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	move := e.Search(ctx, SearchParams{
		Positions: []backend.Position{pos},
		Limits:    LimitsType{Depth: 1},
	})
	if move.String() != "d8h4" {
		t.Errorf("bestmove = %s, want d8h4 (Qh4#)", move)
	}
}

// TestSearchFindsKiwipeteLegalMove is a light smoke test over a complex
// middlegame position: the search must return one of the position's own
// legal root moves at a shallow depth.
func TestSearchFindsKiwipeteLegalMove(t *testing.T) {
	pos, err := backend.ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	e := newTestEngine()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	move := e.Search(ctx, SearchParams{
		Positions: []backend.Position{pos},
		Limits:    LimitsType{Depth: 3},
	})
	legal := pos.GenerateAllLegalMoves()
	found := false
	for _, m := range legal {
		if m.Move == move {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("bestmove %s is not a legal root move", move)
	}
}

// TestSearchStopIsResponsive exercises §5's cancellation latency bound:
// an infinite search must return promptly once its context is canceled,
// not run until some other deadline.
func TestSearchStopIsResponsive(t *testing.T) {
	e := newTestEngine()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan backend.Move, 1)
	go func() {
		done <- e.Search(ctx, SearchParams{
			Positions: []backend.Position{backend.InitialPosition},
			Limits:    LimitsType{Infinite: true},
		})
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Search did not return within 2s of context cancellation")
	}
}

func TestZugzwangGuardNotTriggeredWithRook(t *testing.T) {
	pos, err := backend.ParseFEN("8/k7/8/8/8/8/1K6/R7 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if evaluation.IsLateEndGame(&pos) {
		t.Error("a side to move with a rook should not be treated as a bare-king endgame")
	}
}

func TestStalemateHasNoLegalMovesAndIsNotCheck(t *testing.T) {
	pos, err := backend.ParseFEN("4k3/4P3/4K3/8/8/8/8/8 b - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if pos.IsInCheck() {
		t.Fatal("stalemate position must not be check")
	}
	if moves := pos.GenerateAllLegalMoves(); len(moves) != 0 {
		t.Errorf("stalemate position has %d legal moves, want 0", len(moves))
	}
}

func TestSetOptionValidatesRange(t *testing.T) {
	e := NewEngine()
	if err := e.SetOption("Hash", "1"); err == nil {
		t.Error("Hash=1 is below the documented minimum and should be rejected")
	}
	if err := e.SetOption("Hash", "64"); err != nil {
		t.Errorf("Hash=64 should be accepted: %v", err)
	}
	if e.Hash.Val != 64 {
		t.Errorf("Hash.Val = %d, want 64", e.Hash.Val)
	}
	if err := e.SetOption("NoSuchOption", "1"); err == nil {
		t.Error("unknown option name should be rejected")
	}
}

func TestClearHashOptionWipesTable(t *testing.T) {
	e := newTestEngine()
	e.TransTable.Set(1, 1, 1, backend.NullMove, int(TransExact), 0)
	if err := e.SetOption("ClearHash", ""); err != nil {
		t.Fatalf("ClearHash: %v", err)
	}
	if ok, _, _, _, _ := e.TransTable.Get(1, 0); ok {
		t.Error("ClearHash should have wiped the stored entry")
	}
}
