package backend

import "testing"

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartPosFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}
	for _, fen := range fens {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		if got := pos.FEN(); got != fen {
			t.Errorf("FEN() round trip: got %q, want %q", got, fen)
		}
	}
}

func TestParseFENRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"not a fen at all",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1", // 7 ranks
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
	}
	for _, fen := range cases {
		if _, err := ParseFEN(fen); err == nil {
			t.Errorf("ParseFEN(%q): expected error, got nil", fen)
		}
	}
}

func TestParseFENIsDeterministic(t *testing.T) {
	fen := "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	a, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	b, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if a.Key != b.Key {
		t.Errorf("Key differs across identical parses: %x vs %x", a.Key, b.Key)
	}
	if a.PawnKey != b.PawnKey {
		t.Errorf("PawnKey differs across identical parses: %x vs %x", a.PawnKey, b.PawnKey)
	}
}
