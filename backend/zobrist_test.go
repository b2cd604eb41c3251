package backend

import "testing"

// walkAndVerify recursively makes every legal move to depth and checks,
// at every node, that the incrementally maintained Key/PawnKey (kept up
// to date by MovePiece/TogglePiece) agree with a from-scratch
// HashPosition rebuild. A single mismatch anywhere in the tree means a
// mutator forgot to touch one of the two keys.
func walkAndVerify(t *testing.T, pos *Position, depth int) {
	t.Helper()
	rebuilt := *pos
	HashPosition(&rebuilt)
	if rebuilt.Key != pos.Key {
		t.Fatalf("incremental Key %x != rebuilt Key %x at %s", pos.Key, rebuilt.Key, pos.FEN())
	}
	if rebuilt.PawnKey != pos.PawnKey {
		t.Fatalf("incremental PawnKey %x != rebuilt PawnKey %x at %s", pos.PawnKey, rebuilt.PawnKey, pos.FEN())
	}
	if depth == 0 {
		return
	}
	var buf [256]EvaledMove
	moves := pos.GenerateAllMoves(buf[:])
	var child Position
	for i := range moves {
		if !pos.MakeMove(moves[i].Move, &child) {
			continue
		}
		walkAndVerify(t, &child, depth-1)
	}
}

func TestIncrementalZobristMatchesRebuildFromStartPos(t *testing.T) {
	walkAndVerify(t, &InitialPosition, 3)
}

func TestIncrementalZobristMatchesRebuildFromKiwipete(t *testing.T) {
	pos, err := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	walkAndVerify(t, &pos, 2)
}

func TestDistinctPositionsHashDifferently(t *testing.T) {
	kiwipete, err := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if InitialPosition.Key == kiwipete.Key {
		t.Error("startpos and kiwipete collide on Key")
	}
}

func TestNullMoveTogglesColorOnly(t *testing.T) {
	var child Position
	InitialPosition.MakeNullMove(&child)
	if child.WhiteMove == InitialPosition.WhiteMove {
		t.Error("MakeNullMove did not flip side to move")
	}
	if child.Pawns != InitialPosition.Pawns || child.White != InitialPosition.White {
		t.Error("MakeNullMove changed piece placement")
	}
	if child.Key == InitialPosition.Key {
		t.Error("MakeNullMove did not change Key")
	}
}
