package backend

// Perft counts leaf nodes of the full legal move tree to a fixed depth.
// It is the standard movegen/make-unmake correctness harness (spec.md §8,
// "Perft equivalence") and exercises nothing else in the engine.
func Perft(pos *Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	var buf [256]EvaledMove
	moves := pos.GenerateAllMoves(buf[:])
	var child Position
	var nodes uint64
	for i := range moves {
		if !pos.MakeMove(moves[i].Move, &child) {
			continue
		}
		nodes += Perft(&child, depth-1)
	}
	return nodes
}

// Divide is Perft broken down per root move, the standard tool for
// isolating a movegen bug against a reference engine's per-move counts.
func Divide(pos *Position, depth int) map[string]uint64 {
	result := make(map[string]uint64)
	if depth == 0 {
		return result
	}
	var buf [256]EvaledMove
	moves := pos.GenerateAllMoves(buf[:])
	var child Position
	for i := range moves {
		if !pos.MakeMove(moves[i].Move, &child) {
			continue
		}
		result[moves[i].Move.String()] = Perft(&child, depth-1)
	}
	return result
}
