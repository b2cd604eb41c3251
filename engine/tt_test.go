package engine

import (
	"testing"

	"github.com/mhib/lazybeak/backend"
)

func TestTransTableGetMiss(t *testing.T) {
	tt := NewTransTable(1)
	if ok, _, _, _, _ := tt.Get(0x1234, 0); ok {
		t.Error("Get on empty table should miss")
	}
}

func TestTransTableSetGetRoundTrip(t *testing.T) {
	tt := NewTransTable(1)
	key := uint64(0xdeadbeefcafebabe)
	move := backend.NewMove(backend.E2, backend.E4, backend.NormalMove, backend.QuietMove)
	tt.Set(key, 123, 7, move, int(TransExact), 0)

	ok, value, depth, gotMove, flag := tt.Get(key, 0)
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if value != 123 {
		t.Errorf("value = %d, want 123", value)
	}
	if depth != 7 {
		t.Errorf("depth = %d, want 7", depth)
	}
	if gotMove != move {
		t.Errorf("move = %v, want %v", gotMove, move)
	}
	if flag != TransExact {
		t.Errorf("flag = %d, want TransExact", flag)
	}
}

func TestTransTableMateScoreAdjustedByHeight(t *testing.T) {
	tt := NewTransTable(1)
	key := uint64(0x1)
	mateScore := int16(evalMate() - 5) // distance-from-root score at a deep node
	tt.Set(key, int(mateScore), 10, backend.NullMove, int(TransExact), 3)

	_, value, _, _, _ := tt.Get(key, 3)
	if value != mateScore {
		t.Errorf("probing at the same height should return the stored score unchanged: got %d, want %d", value, mateScore)
	}
}

func TestTransTableReplacementKeepsDeeperNonExactEntry(t *testing.T) {
	tt := NewTransTable(1)
	// Write the same key twice: first deep, then shallower, both non-exact.
	key := uint64(7)
	move1 := backend.NewMove(backend.E2, backend.E4, backend.NormalMove, backend.QuietMove)
	move2 := backend.NewMove(backend.D2, backend.D4, backend.NormalMove, backend.QuietMove)

	tt.Set(key, 10, 3, move1, int(TransAlpha), 0)
	tt.Set(key, 20, 1, move2, int(TransAlpha), 0)

	_, value, depth, move, _ := tt.Get(key, 0)
	if depth != 3 || move != move1 || value != 10 {
		t.Errorf("a shallower same-key write should not replace a deeper non-exact entry: got depth=%d move=%v value=%d", depth, move, value)
	}
}

func TestTransTableClearWipesEntries(t *testing.T) {
	tt := NewTransTable(1)
	key := uint64(42)
	tt.Set(key, 1, 1, backend.NullMove, int(TransExact), 0)
	tt.Clear()
	if ok, _, _, _, _ := tt.Get(key, 0); ok {
		t.Error("Get after Clear should miss")
	}
}

func TestTransTableHashFullStartsAtZero(t *testing.T) {
	tt := NewTransTable(1)
	if full := tt.HashFull(); full != 0 {
		t.Errorf("HashFull on an empty table = %d, want 0", full)
	}
}

func evalMate() int16 {
	return 32000
}
