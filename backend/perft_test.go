package backend

import "testing"

// Perft node counts are the standard movegen/make-unmake correctness
// oracle; figures below are the well-known reference counts for these
// three positions (chessprogramming.org "Perft Results").
func TestPerftStartPos(t *testing.T) {
	expected := []uint64{1, 20, 400, 8902, 197281}
	if !testing.Short() {
		expected = append(expected, 4865609)
	}
	for depth, want := range expected {
		got := Perft(&InitialPosition, depth)
		if got != want {
			t.Errorf("perft(startpos, %d) = %d, want %d", depth, got, want)
		}
	}
}

func TestPerftKiwipete(t *testing.T) {
	pos, err := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	expected := []uint64{1, 48, 2039, 97862}
	if !testing.Short() {
		expected = append(expected, 4085603)
	}
	for depth, want := range expected {
		got := Perft(&pos, depth)
		if got != want {
			t.Errorf("perft(kiwipete, %d) = %d, want %d", depth, got, want)
		}
	}
}

// Position 3 from the chessprogramming.org perft suite; exercises en
// passant and the fifty-move-adjacent pawn endgame corner cases the
// first two positions barely touch.
func TestPerftPosition3(t *testing.T) {
	pos, err := ParseFEN("8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	expected := []uint64{1, 14, 191, 2812, 43238}
	for depth, want := range expected {
		got := Perft(&pos, depth)
		if got != want {
			t.Errorf("perft(position3, %d) = %d, want %d", depth, got, want)
		}
	}
}

func TestDivideSumsToPerft(t *testing.T) {
	total := uint64(0)
	for _, n := range Divide(&InitialPosition, 3) {
		total += n
	}
	if want := Perft(&InitialPosition, 3); total != want {
		t.Errorf("sum of Divide(startpos, 3) = %d, want %d", total, want)
	}
}
