package engine

import (
	"testing"

	"github.com/mhib/lazybeak/backend"
)

func TestHistoryBonusGrowsWithDepthAndCaps(t *testing.T) {
	if historyBonus(1) >= historyBonus(4) {
		t.Error("historyBonus should grow with depth")
	}
	if b := historyBonus(100); b != historyBonus(60) {
		t.Errorf("historyBonus should cap out: bonus(100)=%d, bonus(60)=%d", b, historyBonus(60))
	}
}

func TestUpdateHistoryStaysWithinBounds(t *testing.T) {
	var entry int16
	for i := 0; i < 10000; i++ {
		updateHistory(&entry, historyBonus(20))
	}
	if entry > maxHistory || entry < -maxHistory {
		t.Errorf("history entry escaped bounds: %d", entry)
	}
}

func TestEvaluateMovesRanksHashMoveHighest(t *testing.T) {
	pos := backend.InitialPosition
	var buf [256]backend.EvaledMove
	moves := pos.GenerateAllMoves(buf[:])

	hashMove := moves[0].Move
	for _, m := range moves {
		if m.Move.String() == "e2e4" {
			hashMove = m.Move
			break
		}
	}

	me := MoveEvaluator{}
	me.EvaluateMoves(&pos, moves, hashMove, 0, 4)

	for _, m := range moves {
		if m.Move == hashMove {
			continue
		}
		if m.Value > HashMoveValue {
			t.Errorf("non-hash move %s scored %d, above HashMoveValue", m.Move, m.Value)
		}
	}
	for _, m := range moves {
		if m.Move == hashMove && m.Value != HashMoveValue {
			t.Errorf("hash move scored %d, want %d", m.Value, HashMoveValue)
		}
	}
}

func TestUpdatePromotesBestMoveToKiller(t *testing.T) {
	pos := backend.InitialPosition
	me := MoveEvaluator{}
	var buf [256]backend.EvaledMove
	moves := pos.GenerateAllMoves(buf[:])
	var best backend.Move
	for _, m := range moves {
		if m.Move.String() == "e2e4" {
			best = m.Move
			break
		}
	}
	me.Update(&pos, nil, best, 4, 2)
	if me.killers[2][0] != best {
		t.Errorf("killers[2][0] = %v, want %v", me.killers[2][0], best)
	}
}
